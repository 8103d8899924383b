package ass

import (
	"strings"
	"testing"

	"github.com/capkit/capkit/internal/subtitle"
)

func TestNormalizeExcludeRanges(t *testing.T) {
	ranges, err := NormalizeExcludeRanges([]TimeRange{
		{Start: "00:02", End: "00:03"},
		{Start: "5.5", End: "0:00:10.00"},
	})
	if err != nil {
		t.Fatalf("NormalizeExcludeRanges returned error: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(ranges))
	}
	if ranges[0].Start != 2 || ranges[0].End != 3 {
		t.Errorf("interval 0 = %+v, want [2,3]", ranges[0])
	}
	if ranges[1].Start != 5.5 || ranges[1].End != 10 {
		t.Errorf("interval 1 = %+v, want [5.5,10]", ranges[1])
	}
}

func TestNormalizeExcludeRangesInvalid(t *testing.T) {
	tests := []struct {
		name   string
		ranges []TimeRange
	}{
		{"unparseable start", []TimeRange{{Start: "abc", End: "00:05"}}},
		{"unparseable end", []TimeRange{{Start: "00:01", End: "xyz"}}},
		{"end equals start", []TimeRange{{Start: "00:05", End: "00:05"}}},
		{"end before start", []TimeRange{{Start: "00:10", End: "00:05"}}},
		{"negative start", []TimeRange{{Start: "-1", End: "00:05"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NormalizeExcludeRanges(tt.ranges); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestOverlapsAny(t *testing.T) {
	ranges := []Interval{{Start: 2, End: 3}}

	tests := []struct {
		name       string
		start, end float64
		want       bool
	}{
		{"contained", 2.2, 2.8, true},
		{"spanning", 0, 5, true},
		{"partial left", 1, 2.5, true},
		{"partial right", 2.5, 4, true},
		{"before", 0, 1, false},
		{"after", 4, 5, false},
		// touching a boundary is not overlap
		{"ends at range start", 1, 2, false},
		{"starts at range end", 3, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapsAny(tt.start, tt.end, ranges); got != tt.want {
				t.Errorf("overlapsAny(%v,%v) = %v, want %v",
					tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestFilterDialogueLinesASS(t *testing.T) {
	content := strings.Join([]string{
		"[Script Info]",
		"ScriptType: v4.00+",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Dialogue: 0,0:00:00.00,0:00:05.00,Default,,0,0,0,,overlaps range",
		"Dialogue: 0,0:00:05.00,0:00:06.00,Default,,0,0,0,,keep, has comma",
		"Dialogue: 0,0:00:10.00,0:00:12.00,Default,,0,0,0,,keep too",
	}, "\n")

	ranges := []Interval{{Start: 2, End: 3}}
	got := FilterDialogueLines(content, ranges, subtitle.FormatASS)

	if strings.Contains(got, "overlaps range") {
		t.Error("expected first dialogue to be dropped")
	}
	if !strings.Contains(got, "keep, has comma") {
		t.Error("expected second dialogue to survive")
	}
	if !strings.Contains(got, "keep too") {
		t.Error("expected third dialogue to survive")
	}
	if !strings.Contains(got, "[Script Info]") || !strings.Contains(got, "Format: Layer") {
		t.Error("expected non-dialogue lines to pass through unmodified")
	}
}

func TestFilterDialogueLinesNoRanges(t *testing.T) {
	content := "Dialogue: 0,0:00:00.00,0:00:05.00,Default,,0,0,0,,text"
	if got := FilterDialogueLines(content, nil, subtitle.FormatASS); got != content {
		t.Errorf("expected no-op for empty ranges, got %q", got)
	}
}

func TestFilterDialogueLinesSRT(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,500
dropped

2
00:00:05,000 --> 00:00:06,000
kept
`
	ranges := []Interval{{Start: 2, End: 3}}
	got := FilterDialogueLines(content, ranges, subtitle.FormatSRT)

	if strings.Contains(got, "dropped") {
		t.Errorf("expected overlapping entry to be removed:\n%s", got)
	}
	if !strings.Contains(got, "kept") {
		t.Errorf("expected non-overlapping entry to survive:\n%s", got)
	}
	// survivors renumber from 1
	if !strings.HasPrefix(got, "1\n") {
		t.Errorf("expected renumbered output, got:\n%s", got)
	}
}

func TestFilterDialogueLinesSRTUnparseable(t *testing.T) {
	content := "not srt at all"
	ranges := []Interval{{Start: 0, End: 10}}
	if got := FilterDialogueLines(content, ranges, subtitle.FormatSRT); got != content {
		t.Errorf("expected unparseable SRT to pass through, got %q", got)
	}
}
