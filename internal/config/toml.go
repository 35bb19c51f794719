// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/subdeck/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Build BuildConfig           `toml:"build"`
	Decks map[string]DeckConfig `toml:"decks"`
}

// BuildConfig maps build-related settings.
type BuildConfig struct {
	FFmpeg  *string `toml:"ffmpeg"`
	Workers *int    `toml:"workers"`
	Player  *string `toml:"player"`
}

// DeckConfig maps one named deck configuration.
type DeckConfig struct {
	Audio         *string `toml:"audio"`
	Subtitles     *string `toml:"subtitles"`
	DeckName      *string `toml:"deck-name"`
	Output        *string `toml:"output"`
	CaseSensitive *bool   `toml:"case-sensitive"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DeckNames lists the configured deck names sorted alphabetically.
func (c FileConfig) DeckNames() []string {
	names := make([]string, 0, len(c.Decks))
	for name := range c.Decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveDeck turns one named section into a build configuration. Audio and
// subtitle paths are required; deck name and output fall back to the section
// name.
func (c FileConfig) ResolveDeck(name string) (model.DeckConfig, error) {
	raw, ok := c.Decks[name]
	if !ok {
		return model.DeckConfig{}, fmt.Errorf("deck %q is not configured", name)
	}
	if raw.Audio == nil || *raw.Audio == "" {
		return model.DeckConfig{}, fmt.Errorf("deck %q: audio path is required", name)
	}
	if raw.Subtitles == nil || *raw.Subtitles == "" {
		return model.DeckConfig{}, fmt.Errorf("deck %q: subtitles path is required", name)
	}
	cfg := model.DeckConfig{
		Name:         name,
		AudioFile:    *raw.Audio,
		SubtitleFile: *raw.Subtitles,
		OutputDeck:   name,
		OutputPath:   name,
	}
	if raw.DeckName != nil && *raw.DeckName != "" {
		cfg.OutputDeck = *raw.DeckName
	}
	if raw.Output != nil && *raw.Output != "" {
		cfg.OutputPath = *raw.Output
	}
	if raw.CaseSensitive != nil {
		cfg.CaseSensitive = *raw.CaseSensitive
	}
	return cfg, nil
}

// FFmpegPath returns the configured ffmpeg binary or the bare command name.
func (c FileConfig) FFmpegPath() string {
	if c.Build.FFmpeg != nil && *c.Build.FFmpeg != "" {
		return *c.Build.FFmpeg
	}
	return "ffmpeg"
}

// Workers returns the configured slicing concurrency.
func (c FileConfig) Workers() int {
	if c.Build.Workers != nil && *c.Build.Workers > 0 {
		return *c.Build.Workers
	}
	return 4
}

// Player returns the configured clip player command, if any.
func (c FileConfig) Player() string {
	if c.Build.Player != nil {
		return *c.Build.Player
	}
	return ""
}
