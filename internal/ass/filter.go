package ass

import (
	"fmt"
	"strings"

	"github.com/capkit/capkit/internal/subtitle"
)

// TimeRange is a raw exclude range as supplied by the request, both ends as
// flexible time strings.
type TimeRange struct {
	Start string
	End   string
}

// Interval is a parsed exclude range in seconds.
type Interval struct {
	Start float64
	End   float64
}

// NormalizeExcludeRanges parses and validates raw exclude ranges. Both ends
// must be non-negative and End strictly greater than Start. The list is
// unordered and may overlap; ranges are treated independently.
func NormalizeExcludeRanges(ranges []TimeRange) ([]Interval, error) {
	out := make([]Interval, 0, len(ranges))
	for _, r := range ranges {
		start, err := ParseTimeString(r.Start)
		if err != nil {
			return nil, fmt.Errorf("exclude range start: %w", err)
		}
		end, err := ParseTimeString(r.End)
		if err != nil {
			return nil, fmt.Errorf("exclude range end: %w", err)
		}
		if start < 0 || end < 0 {
			return nil, fmt.Errorf("exclude range start/end must be non-negative")
		}
		if end <= start {
			return nil, fmt.Errorf("exclude range end must be strictly greater than start")
		}
		out = append(out, Interval{Start: start, End: end})
	}
	return out, nil
}

// Half-open overlap: touching a boundary exactly is not an overlap.
func overlapsAny(start, end float64, ranges []Interval) bool {
	for _, r := range ranges {
		if start < r.End && end > r.Start {
			return true
		}
	}
	return false
}

// FilterDialogueLines drops subtitle lines overlapping any exclude range.
// For ASS content it works per physical line, touching only lines that
// start with the Dialogue marker; everything else passes through
// unmodified. For SRT it drops whole entries and re-serializes the rest.
// Empty ranges make this a no-op.
func FilterDialogueLines(content string, ranges []Interval, kind subtitle.Format) string {
	if len(ranges) == 0 {
		return content
	}

	switch kind {
	case subtitle.FormatASS:
		lines := strings.Split(content, "\n")
		filtered := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.HasPrefix(line, "Dialogue:") {
				parts := strings.SplitN(line, ",", 11)
				if len(parts) > 3 {
					start := ParseTime(parts[1])
					end := ParseTime(parts[2])
					if overlapsAny(start, end, ranges) {
						continue
					}
				}
			}
			filtered = append(filtered, line)
		}
		return strings.Join(filtered, "\n")

	case subtitle.FormatSRT:
		entries, err := subtitle.ParseSRT(content)
		if err != nil {
			return content
		}
		kept := make([]subtitle.Entry, 0, len(entries))
		for _, entry := range entries {
			if overlapsAny(entry.Start, entry.End, ranges) {
				continue
			}
			kept = append(kept, entry)
		}
		return subtitle.ComposeSRT(kept)

	default:
		return content
	}
}
