package ass

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormatTime converts seconds to the ASS time format "H:MM:SS.cc".
// Rounding to whole centiseconds carries into the seconds field (and
// upward), so 1.999s renders as 0:00:02.00 rather than 0:00:01.100.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalCentis := int64(math.Round(seconds * 100))
	hours := totalCentis / 360000
	minutes := totalCentis / 6000 % 60
	secs := totalCentis / 100 % 60
	centis := totalCentis % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

var timeStringRegex = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2}(?:\.\d{1,3})?)$`)

// ParseTimeString parses "H:MM:SS[.ms]", "MM:SS[.ms]" or bare "SS[.ms]"
// into seconds.
func ParseTimeString(text string) (float64, error) {
	matches := timeStringRegex.FindStringSubmatch(text)
	if matches == nil {
		seconds, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid time string: %q", text)
		}
		return seconds, nil
	}

	hours := 0
	if matches[1] != "" {
		hours, _ = strconv.Atoi(matches[1])
	}
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.ParseFloat(matches[3], 64)

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// ParseTime converts an ASS "H:MM:SS.cc" time back to seconds. Malformed
// input yields 0; the only consumer is the dialogue-line filter, which must
// pass non-dialogue noise through rather than abort.
func ParseTime(text string) float64 {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 3 {
		return 0
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return 0
	}
	seconds, err := strconv.Atoi(secParts[0])
	if err != nil {
		return 0
	}
	centis, err := strconv.Atoi(secParts[1])
	if err != nil {
		return 0
	}

	return float64(hours)*3600 + float64(minutes)*60 +
		float64(seconds) + float64(centis)/100
}
