package util

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"
)

// TruncateString cuts a string to fit within maxWidth visual width
func TruncateString(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	width := 0
	for i, r := range s {
		charWidth := runewidth.RuneWidth(r)
		if width+charWidth > maxWidth-3 { // Reserve space for "..."
			return s[:i] + "..."
		}
		width += charWidth
	}
	return s
}

// FormatPlaybackTime formats a position in seconds as m:ss, or h:mm:ss for an hour or more.
// Unknown values render as placeholders and unbounded ones as LIVE.
func FormatPlaybackTime(seconds float64) string {
	switch {
	case math.IsNaN(seconds) || seconds < 0:
		return "--:--"
	case math.IsInf(seconds, 1):
		return "LIVE"
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
