// Package timecode converts subtitle timestamps to milliseconds.
package timecode

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/verte-zerg/subdeck/internal/model"
)

var (
	// LRC carries MM:SS plus two-digit hundredths or three-digit milliseconds.
	lrcPattern = regexp.MustCompile(`^(\d{2}):(\d{2})\.(\d{2,3})$`)
	srtPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})$`)
)

// MalformedTimestampError reports a timestamp that does not match its dialect
// pattern. It propagates as a parse-level error for the enclosing utterance.
type MalformedTimestampError struct {
	Raw     string
	Dialect model.Dialect
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed %s timestamp %q", e.Dialect, e.Raw)
}

// Parse converts a raw dialect-specific timestamp to milliseconds.
func Parse(raw string, dialect model.Dialect) (int64, error) {
	switch dialect {
	case model.DialectLRC:
		return parseLRC(raw)
	case model.DialectSRT:
		return parseSRT(raw)
	default:
		return 0, fmt.Errorf("unsupported dialect %q", dialect)
	}
}

func parseLRC(raw string) (int64, error) {
	m := lrcPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, &MalformedTimestampError{Raw: raw, Dialect: model.DialectLRC}
	}
	minutes := mustInt(m[1])
	seconds := mustInt(m[2])
	frac := mustInt(m[3])
	ms := frac
	if len(m[3]) == 2 {
		ms = frac * 10
	}
	return minutes*60000 + seconds*1000 + ms, nil
}

func parseSRT(raw string) (int64, error) {
	m := srtPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0, &MalformedTimestampError{Raw: raw, Dialect: model.DialectSRT}
	}
	return mustInt(m[1])*3600000 + mustInt(m[2])*60000 + mustInt(m[3])*1000 + mustInt(m[4]), nil
}

// mustInt is only called on regexp-validated digit groups.
func mustInt(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

// FormatMS renders milliseconds as an SRT timestamp, useful in messages.
func FormatMS(ms int64) string {
	hours := ms / 3600000
	minutes := (ms / 60000) % 60
	seconds := (ms / 1000) % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
