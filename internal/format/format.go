// Package format renders byte counts, transfer rates and progress bars for
// user-facing status messages.
package format

import (
	"math"
	"strconv"
	"strings"
)

const unitStep = 1024

var (
	sizeUnits  = []string{"B", "KB", "MB", "GB", "TB"}
	speedUnits = []string{"B/s", "KB/s", "MB/s", "GB/s"}
)

// Size renders a byte count on a binary ladder: "0 B", "1.5 KB", "20 MB".
func Size(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(unitStep)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	v := float64(bytes) / math.Pow(unitStep, float64(i))
	return trimFloat(v, 2) + " " + sizeUnits[i]
}

// Speed renders a transfer rate with the same ladder and a /s suffix.
func Speed(bytesPerSecond float64) string {
	if bytesPerSecond <= 0 {
		return "0 B/s"
	}
	i := int(math.Floor(math.Log(bytesPerSecond) / math.Log(unitStep)))
	if i >= len(speedUnits) {
		i = len(speedUnits) - 1
	}
	v := bytesPerSecond / math.Pow(unitStep, float64(i))
	return trimFloat(v, 1) + " " + speedUnits[i]
}

// Bar renders a fixed-width progress bar filled proportionally to
// done/total. Width is the number of cells; total <= 0 yields an empty bar.
func Bar(done, total int64, width int) string {
	filled := 0
	if total > 0 {
		filled = int(float64(width) * float64(done) / float64(total))
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Percent returns done/total as a percentage clamped to [0, 100].
func Percent(done, total int64) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(done) / float64(total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// trimFloat rounds v to at most prec decimals and drops trailing zeros,
// so 1.50 renders as "1.5" and 2.00 as "2".
func trimFloat(v float64, prec int) string {
	pow := math.Pow(10, float64(prec))
	return strconv.FormatFloat(math.Round(v*pow)/pow, 'f', -1, 64)
}
