package conversation

import (
	"errors"
	"strconv"
	"strings"
)

// ParseRoutePattern splits "origin - destination" input into two trimmed,
// non-empty place names. Exactly one separator is required so hyphenated
// city names are rejected rather than silently misparsed.
func ParseRoutePattern(text string) (origin, destination string, err error) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return "", "", errors.New("input must contain exactly one '-' separator")
	}

	origin = strings.TrimSpace(parts[0])
	destination = strings.TrimSpace(parts[1])
	if origin == "" || destination == "" {
		return "", "", errors.New("origin and destination must both be non-empty")
	}

	return origin, destination, nil
}

// ParsePositiveDecimal parses a strictly positive decimal number, accepting
// both ',' and '.' as the decimal separator
func ParsePositiveDecimal(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if value <= 0 {
		return 0, errors.New("value must be positive")
	}

	return value, nil
}
