package analysis

import (
	"errors"
	"testing"
	"time"
)

func TestParseHorizon(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		input string
		want  time.Time
	}{
		{"1y", now.AddDate(0, 0, -365)},
		{"2y", now.AddDate(0, 0, -730)},
		{"6m", now.AddDate(0, 0, -180)},
		{"30d", now.AddDate(0, 0, -30)},
		{"0d", now},
		{" 1Y ", now.AddDate(0, 0, -365)},
	}

	for _, tc := range cases {
		got, err := ParseHorizon(tc.input, now)
		if err != nil {
			t.Errorf("ParseHorizon(%q) returned error: %v", tc.input, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseHorizon(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseHorizonInvalid(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "bad", "1w", "y1", "1.5y", "-1d", "1 y"} {
		_, err := ParseHorizon(input, now)
		if err == nil {
			t.Errorf("ParseHorizon(%q) succeeded, want error", input)
			continue
		}
		var invalid *InvalidHorizonError
		if !errors.As(err, &invalid) {
			t.Errorf("ParseHorizon(%q) error is %T, want *InvalidHorizonError", input, err)
		}
	}
}
