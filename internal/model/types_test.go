package model

import "testing"

func TestUtteranceDurationMS(t *testing.T) {
	cases := []struct {
		name string
		u    Utterance
		want int64
	}{
		{"normal span", Utterance{StartMS: 1000, EndMS: 3500}, 2500},
		{"unset end", Utterance{StartMS: 1000, EndMS: EndUnset}, 0},
		{"zero length", Utterance{StartMS: 5000, EndMS: 5000}, 0},
		{"inverted span", Utterance{StartMS: 5000, EndMS: 4000}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.u.DurationMS(); got != tc.want {
				t.Fatalf("DurationMS() = %d, want %d", got, tc.want)
			}
		})
	}
}
