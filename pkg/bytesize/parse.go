// Package bytesize parses human-friendly byte sizes such as "512MB".
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Units are 1024-based. Longest suffix first so "MB" wins over "B".
var units = []struct {
	suffix string
	bytes  int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// Parse converts s into a byte count. Units are case-insensitive and
// fractional values are allowed, e.g. "1.5GB".
func Parse(s string) (int64, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	if in == "" {
		return 0, fmt.Errorf("empty size string")
	}

	for _, u := range units {
		num, ok := strings.CutSuffix(in, u.suffix)
		if !ok {
			continue
		}
		num = strings.TrimSpace(num)
		if num == "" {
			return 0, fmt.Errorf("invalid size %q: missing numeric value", s)
		}

		value, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size %q: %w", s, err)
		}
		if value < 0 {
			return 0, fmt.Errorf("invalid size %q: negative value not allowed", s)
		}

		total := value * float64(u.bytes)
		if total > math.MaxInt64 {
			return 0, fmt.Errorf("size %q is too large", s)
		}
		return int64(total), nil
	}

	return 0, fmt.Errorf("invalid size %q: missing unit (B, KB, MB, GB, TB)", s)
}
