package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime parses a "hh[:mm[:ss]]" time expression into seconds.
// Empty or negative values map to -1 ("unspecified"), per spec §6.
func ParseTime(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return -1, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time expression %q: expected hh[:mm[:ss]]", value)
	}
	var total int64
	// hh[:mm[:ss]]: a single part is hours, two parts are hh:mm, three
	// are hh:mm:ss - left-aligned, not right-aligned.
	multipliers := []int64{3600, 60, 1}
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time expression %q: %w", value, err)
		}
		total += n * multipliers[i]
	}
	if total < 0 {
		return -1, nil
	}
	return total, nil
}

// FormatTime renders seconds back into "hh:mm:ss", the inverse of
// ParseTime, used when persisting a config value round-trip.
func FormatTime(seconds int64) string {
	if seconds < 0 {
		return ""
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
