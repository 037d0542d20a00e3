package utils

import (
	"fmt"
	"strings"
	"time"
)

func FormatRoundedUnit(seconds int64) string {
	if seconds < 0 {
		seconds = -seconds
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds > 3600 {
		return fmt.Sprintf("%dh", int64(seconds/3600))
	}
	return fmt.Sprintf("%dm", int64(seconds/60))
}

// FormatDuration renders d as "2h 5m", "12m 3s" or "40s". Sub-second
// remainders are dropped and at most the two largest units are shown.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	total := int64(d / time.Second)

	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	parts := make([]string, 0, 2)
	for _, u := range []struct {
		n    int64
		unit string
	}{{days, "d"}, {hours, "h"}, {minutes, "m"}, {seconds, "s"}} {
		if u.n == 0 && len(parts) == 0 {
			continue
		}
		if u.n != 0 {
			parts = append(parts, fmt.Sprintf("%d%s", u.n, u.unit))
		}
		if len(parts) == 2 || (len(parts) == 1 && u.n == 0) {
			break
		}
	}

	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// FormatMillis is FormatDuration for a millisecond count.
func FormatMillis(ms int64) string {
	return FormatDuration(time.Duration(ms) * time.Millisecond)
}
