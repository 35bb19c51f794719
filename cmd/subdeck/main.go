// Package main provides the CLI entrypoint for subdeck.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/subdeck/internal/config"
	"github.com/verte-zerg/subdeck/internal/deck"
	"github.com/verte-zerg/subdeck/internal/model"
	"github.com/verte-zerg/subdeck/internal/pipeline"
	"github.com/verte-zerg/subdeck/internal/stats"
	"github.com/verte-zerg/subdeck/internal/store"
	"github.com/verte-zerg/subdeck/internal/tui"
)

const (
	defaultCurveWindow = 20
	defaultTroubleTop  = 15
)

var (
	buildFFmpeg  string
	buildWorkers int

	reviewPlayer string

	statsDeck        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTop         int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "subdeck [deck...]",
		Short:         "Build typing decks from subtitled audio",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBuildCmd,
	}

	rootCmd.Flags().StringVar(&buildFFmpeg, "ffmpeg", "", "ffmpeg binary (default from config)")
	rootCmd.Flags().IntVar(&buildWorkers, "workers", 0, "slicing concurrency (default from config)")

	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	names := args
	if len(names) == 0 || (len(names) == 1 && names[0] == "all") {
		names = fileCfg.DeckNames()
	}
	if len(names) == 0 {
		return fmt.Errorf("no decks configured; run: subdeck config")
	}

	configs := make([]model.DeckConfig, 0, len(names))
	for _, name := range names {
		cfg, err := fileCfg.ResolveDeck(name)
		if err != nil {
			return err
		}
		configs = append(configs, cfg)
	}

	ffmpegPath := buildFFmpeg
	if !cmd.Flags().Changed("ffmpeg") {
		ffmpegPath = fileCfg.FFmpegPath()
	}
	workers := buildWorkers
	if !cmd.Flags().Changed("workers") {
		workers = fileCfg.Workers()
	}
	if workers <= 0 {
		return fmt.Errorf("--workers must be > 0")
	}

	opts := pipeline.Options{
		FFmpegPath: ffmpegPath,
		Workers:    workers,
		Assembler:  deck.SQLiteAssembler{},
	}
	summaries := pipeline.Run(cmd.Context(), configs, opts)

	failed := 0
	out := cmd.OutOrStdout()
	for _, summary := range summaries {
		for _, dropped := range summary.Dropped {
			logErrf("%s: dropped utterance %d: %s\n", summary.Config, dropped.Index, dropped.Reason)
		}
		if summary.Err != nil {
			failed++
			logErrf("%s: build failed: %v\n", summary.Config, summary.Err)
			continue
		}
		if _, err := fmt.Fprintf(out, "%s: built %d of %d cards\n", summary.Config, summary.Built, summary.Attempted); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d decks failed", failed, len(summaries))
	}
	return nil
}

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <deck-dir>",
		Short: "Review a built deck",
		Long: `Review a built deck card by card, typing each sentence from its audio clip.

Playback: clips loop until the sentence is typed (ctrl+l toggles looping),
ctrl+r replays, ctrl+p pauses, and tab cycles the speed through 1x, 0.75x
and 0.5x. Slowed playback passes --speed=<rate> to the player.`,
		Args: cobra.ExactArgs(1),
		RunE: runReviewCmd,
	}
	cmd.Flags().StringVar(&reviewPlayer, "player", "", "clip player command (default from config)")
	return cmd
}

func runReviewCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	player := reviewPlayer
	if !cmd.Flags().Changed("player") {
		player = fileCfg.Player()
	}

	d, err := deck.Open(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if len(d.Cards) == 0 {
		return fmt.Errorf("deck %q has no cards", d.Name)
	}

	st, err := store.Open(config.DefaultReviewDBPath())
	if err != nil {
		return fmt.Errorf("failed to open review log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close review log: %v\n", cerr)
		}
	}()

	program := tea.NewProgram(tui.NewModel(d, st, player), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show review stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsDeck, "deck", "", "deck name filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N reviews")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&statsTop, "top", defaultTroubleTop, "number of trouble words to list")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Deck:        statsDeck,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultReviewDBPath())
	if err != nil {
		return fmt.Errorf("failed to open review log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close review log: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg, statsTop)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Reviews); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderWordTable(out, report.WordAggsAll, report.Mistakes, statsTop); err != nil {
		return fmt.Errorf("failed to render word table: %w", err)
	}
	if err := stats.RenderCurves(out, report.Reviews, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return `# subdeck configuration
# CLI flags override config values.

[build]
# ffmpeg = "ffmpeg"        # ffmpeg binary; ffprobe is derived from it
# workers = 4              # parallel clip extractions
# player = "mpv"           # clip player; slowed playback passes --speed=<rate>

# One section per deck. Build with: subdeck <name>
# [decks.ep1]
# audio = "media/ep1.mp3"
# subtitles = "subs/ep1.lrc"
# deck-name = "Episode 1"  # display name (default: section name)
# output = "out/ep1"       # output directory (default: section name)
# case-sensitive = false   # word comparison during review
`
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
