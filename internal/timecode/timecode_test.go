package timecode

import (
	"errors"
	"testing"

	"github.com/verte-zerg/subdeck/internal/model"
)

func TestParseLRC(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"00:00.00", 0},
		{"00:05.00", 5000},
		{"01:30.50", 90500},
		{"02:03.250", 123250},
	}
	for _, tc := range cases {
		got, err := Parse(tc.raw, model.DialectLRC)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("Parse(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseSRT(t *testing.T) {
	got, err := Parse("01:02:03,456", model.DialectSRT)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := int64(1)*3600000 + 2*60000 + 3*1000 + 456
	if got != want {
		t.Fatalf("Parse = %d, want %d", got, want)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := []struct {
		raw     string
		dialect model.Dialect
	}{
		{"0:00.00", model.DialectLRC},
		{"00:00", model.DialectLRC},
		{"00:00.0", model.DialectLRC},
		{"01:02:03.456", model.DialectSRT},
		{"1:02:03,456", model.DialectSRT},
		{"01:02:03,45", model.DialectSRT},
	}
	for _, tc := range cases {
		_, err := Parse(tc.raw, tc.dialect)
		if err == nil {
			t.Fatalf("Parse(%q, %s) expected error", tc.raw, tc.dialect)
		}
		var malformed *MalformedTimestampError
		if !errors.As(err, &malformed) {
			t.Fatalf("Parse(%q) returned %T, want MalformedTimestampError", tc.raw, err)
		}
		if malformed.Raw != tc.raw {
			t.Fatalf("error carries raw %q, want %q", malformed.Raw, tc.raw)
		}
	}
}

func TestFormatMS(t *testing.T) {
	if got := FormatMS(3723456); got != "01:02:03,456" {
		t.Fatalf("FormatMS = %q", got)
	}
}
