package captions

import (
	"math"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{3661.5, "01:01:01,500"},
		{59.9996, "00:01:00,000"},
		{0.0004, "00:00:00,000"},
		{-2, "00:00:00,000"},
		{math.NaN(), "00:00:00,000"},
		{math.Inf(1), "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.in); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	captions := []Caption{
		{Index: 7, Start: 0, End: 1.5, Lines: []string{"Hello there"}},
		{Index: 9, Start: 1.5, End: 4, Lines: []string{"General", "Kenobi"}},
	}
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello there\n\n" +
		"2\n00:00:01,500 --> 00:00:04,000\nGeneral\nKenobi\n\n"
	if got := string(FormatSRT(captions)); got != want {
		t.Fatalf("FormatSRT =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatSRTEmpty(t *testing.T) {
	if got := FormatSRT(nil); len(got) != 0 {
		t.Fatalf("expected no bytes, got %q", got)
	}
}
