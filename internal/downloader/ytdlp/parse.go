package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
)

// progressLine matches yt-dlp --newline output such as
// "[download]  42.3% of 120.50MiB at 2.10MiB/s ETA 00:33".
var progressLine = regexp.MustCompile(`^\[download\]\s+([\d.]+)%\s+of\s+~?\s*([\d.]+)([KMGT]?i?B)`)

var sizeUnits = map[string]float64{
	"B":   1,
	"KiB": 1 << 10,
	"KB":  1000,
	"MiB": 1 << 20,
	"MB":  1000 * 1000,
	"GiB": 1 << 30,
	"GB":  1000 * 1000 * 1000,
	"TiB": 1 << 40,
	"TB":  1000 * 1000 * 1000 * 1000,
}

// parseProgressLine extracts completed and total byte counts from one
// stdout line. ok is false for lines that are not progress reports.
func parseProgressLine(line string) (done, total int64, ok bool) {
	m := progressLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	value, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	unit, known := sizeUnits[m[3]]
	if !known {
		return 0, 0, false
	}
	totalBytes := value * unit
	return int64(totalBytes * pct / 100), int64(totalBytes), true
}
