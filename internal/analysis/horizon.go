package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var horizonPattern = regexp.MustCompile(`^(\d+)([ymd])$`)

// InvalidHorizonError reports a horizon string that doesn't match the
// <number><unit> format.
type InvalidHorizonError struct {
	Input string
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("invalid horizon format: %q. Use format like '1y' (1 year), '6m' (6 months), '30d' (30 days)", e.Input)
}

// ParseHorizon turns a string like "1y", "6m", or "30d" into the cutoff
// instant that far before now. Years count as 365 days and months as 30.
func ParseHorizon(horizon string, now time.Time) (time.Time, error) {
	match := horizonPattern.FindStringSubmatch(strings.TrimSpace(strings.ToLower(horizon)))
	if match == nil {
		return time.Time{}, &InvalidHorizonError{Input: horizon}
	}

	value, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, &InvalidHorizonError{Input: horizon}
	}

	var days int
	switch match[2] {
	case "y":
		days = value * 365
	case "m":
		days = value * 30
	case "d":
		days = value
	}

	return now.AddDate(0, 0, -days), nil
}
