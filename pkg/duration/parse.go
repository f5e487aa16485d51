// Package duration parses durations with day and week units on top of
// the time.ParseDuration syntax.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// Parse accepts anything time.ParseDuration does plus the leading
// components "d" (days) and "w" (weeks), e.g. "7d", "2w3d", "1d12h".
// A bare "0" is zero.
func Parse(s string) (time.Duration, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, fmt.Errorf("empty duration string")
	}
	if in == "0" {
		return 0, nil
	}

	var total time.Duration
	rest := in
	for rest != "" {
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 || end == len(rest) {
			break
		}

		var unit time.Duration
		switch rest[end] {
		case 'd':
			unit = Day
		case 'w':
			unit = Week
		default:
			// Hand the remainder to the standard parser.
			end = -1
		}
		if end < 0 {
			break
		}

		n, err := strconv.ParseInt(rest[:end], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
		rest = rest[end+1:]
	}

	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q (units: ns, us, ms, s, m, h, d, w)", s)
		}
		total += d
	}
	return total, nil
}
