package page

import (
	"fmt"
	"strings"

	"taskodo/internal/analytics"
)

// pct formats a 0..1 rate as a whole percent.
func pct(rate float64) string {
	return analytics.ToFixed(rate*100, 0) + "%"
}

func signed(n float64, asPercent bool) string {
	s := fmt.Sprintf("%g", n)
	if asPercent {
		s = pct(n)
	}
	if n > 0 && !strings.HasPrefix(s, "0") {
		return "+" + s
	}
	return s
}
