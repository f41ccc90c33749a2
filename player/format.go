package player

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTime renders whole seconds as m:ss. Minutes are not padded and may exceed 59.
// Negative and NaN inputs render as 0:00, and +Inf, the length of a live stream, as --:--.
func FormatTime(secs float64) string {
	if math.IsNaN(secs) || secs < 0 {
		secs = 0
	}
	if math.IsInf(secs, 1) {
		return "--:--"
	}

	total := int64(math.Floor(secs))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// parseSeek reads a slider value as whole seconds.
func parseSeek(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return math.Floor(v), true
}

// finite reports whether v is a usable, positive media length.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
