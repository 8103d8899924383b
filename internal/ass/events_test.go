package ass

import (
	"strings"
	"testing"

	"github.com/capkit/capkit/internal/logging"
	"github.com/capkit/capkit/internal/subtitle"
)

func renderForTest(t *testing.T, tr *subtitle.Transcription, style Style, opts Options) []string {
	t.Helper()
	out := RenderEvents(tr, style, opts, nil, 1920, 1080, logging.NewNop())
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func wordedSegment() subtitle.Segment {
	return subtitle.Segment{
		Start: 1.0,
		End:   1.75,
		Text:  "hello world",
		Words: []subtitle.Word{
			{Word: "hello", Start: 1.0, End: 1.25},
			{Word: "world", Start: 1.25, End: 1.75},
		},
	}
}

func TestStyleFromName(t *testing.T) {
	log := logging.NewNop()

	tests := []struct {
		input string
		want  Style
	}{
		{"classic", StyleClassic},
		{"karaoke", StyleKaraoke},
		{"HIGHLIGHT", StyleHighlight},
		{"Word_By_Word", StyleWordByWord},
		{"underline", StyleUnderline},
		{"no_such_style", StyleClassic},
		{"", StyleClassic},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StyleFromName(tt.input, log); got != tt.want {
				t.Errorf("StyleFromName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderClassic(t *testing.T) {
	tr := &subtitle.Transcription{
		Segments: []subtitle.Segment{
			{Start: 0, End: 5, Text: "Hello world"},
			{Start: 5, End: 8, Text: "line one\nline two"},
		},
	}

	lines := renderForTest(t, tr, StyleClassic, DefaultOptions())
	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue events, got %d: %v", len(lines), lines)
	}

	want := "Dialogue: 0,0:00:00.00,0:00:05.00,Default,,0,0,0,,{\\an5\\pos(960,540)}Hello world"
	if lines[0] != want {
		t.Errorf("event 0:\n got %q\nwant %q", lines[0], want)
	}

	// embedded newlines collapse to spaces before line splitting
	if !strings.HasSuffix(lines[1], "line one line two") {
		t.Errorf("event 1 = %q, want newline collapsed to space", lines[1])
	}
}

func TestRenderClassicMaxWordsPerLine(t *testing.T) {
	tr := &subtitle.Transcription{
		Segments: []subtitle.Segment{{Start: 0, End: 5, Text: "a b c d e"}},
	}
	opts := DefaultOptions()
	opts.MaxWordsPerLine = 2

	lines := renderForTest(t, tr, StyleClassic, opts)
	if len(lines) != 1 {
		t.Fatalf("expected 1 dialogue event, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "a b\\Nc d\\Ne") {
		t.Errorf("event = %q, want text split into 3 stacked lines", lines[0])
	}
}

func TestRenderClassicAllCapsAndReplacements(t *testing.T) {
	tr := &subtitle.Transcription{
		Segments: []subtitle.Segment{{Start: 0, End: 2, Text: "hello World"}},
	}
	opts := DefaultOptions()
	opts.AllCaps = true

	out := RenderEvents(tr, StyleClassic, opts,
		[]Replacement{{Find: "world", Replace: "there"}},
		1920, 1080, logging.NewNop())

	// replacement is case-insensitive and runs before the caps transform
	if !strings.Contains(out, "HELLO THERE") {
		t.Errorf("output = %q, want replaced upper-cased text", out)
	}
}

func TestRenderKaraoke(t *testing.T) {
	tr := &subtitle.Transcription{Segments: []subtitle.Segment{wordedSegment()}}

	lines := renderForTest(t, tr, StyleKaraoke, DefaultOptions())
	if len(lines) != 1 {
		t.Fatalf("expected 1 dialogue event, got %d", len(lines))
	}

	want := "Dialogue: 0,0:00:01.00,0:00:01.75,Default,,0,0,0,," +
		"{\\an5\\pos(960,540)}{\\c&H0000FFFF}{\\k25}hello {\\k50}world"
	if lines[0] != want {
		t.Errorf("karaoke event:\n got %q\nwant %q", lines[0], want)
	}
}

func TestRenderKaraokeSkipsWordlessSegments(t *testing.T) {
	tr := &subtitle.Transcription{
		Segments: []subtitle.Segment{
			{Start: 0, End: 5, Text: "no word timings"},
			wordedSegment(),
		},
	}

	lines := renderForTest(t, tr, StyleKaraoke, DefaultOptions())
	if len(lines) != 1 {
		t.Fatalf("expected 1 dialogue event, got %d: %v", len(lines), lines)
	}
}

func TestRenderKaraokeMaxWordsPerLine(t *testing.T) {
	seg := subtitle.Segment{
		Start: 0,
		End:   2,
		Words: []subtitle.Word{
			{Word: "a", Start: 0, End: 0.5},
			{Word: "b", Start: 0.5, End: 1},
			{Word: "c", Start: 1, End: 2},
		},
	}
	opts := DefaultOptions()
	opts.MaxWordsPerLine = 2

	lines := renderForTest(t, &subtitle.Transcription{
		Segments: []subtitle.Segment{seg},
	}, StyleKaraoke, opts)
	if len(lines) != 1 {
		t.Fatalf("expected 1 dialogue event, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "{\\k50}a {\\k50}b\\N{\\k100}c") {
		t.Errorf("event = %q, want words grouped 2 per line", lines[0])
	}
}

func TestRenderHighlight(t *testing.T) {
	tr := &subtitle.Transcription{Segments: []subtitle.Segment{wordedSegment()}}

	lines := renderForTest(t, tr, StyleHighlight, DefaultOptions())
	// one persistent base line plus one recolor event per word
	if len(lines) != 3 {
		t.Fatalf("expected 3 dialogue events, got %d: %v", len(lines), lines)
	}

	base := "Dialogue: 0,0:00:01.00,0:00:01.75,Default,,0,0,0,," +
		"{\\an5\\pos(960,540)}{\\c&H00FFFFFF}hello world"
	if lines[0] != base {
		t.Errorf("base event:\n got %q\nwant %q", lines[0], base)
	}

	first := "Dialogue: 1,0:00:01.00,0:00:01.25,Default,,0,0,0,," +
		"{\\an5\\pos(960,540)}{\\c&H00FFFFFF}" +
		"{\\c&H0000FFFF}hello{\\c&H00FFFFFF} world"
	if lines[1] != first {
		t.Errorf("first word event:\n got %q\nwant %q", lines[1], first)
	}

	if !strings.Contains(lines[2], "hello {\\c&H0000FFFF}world{\\c&H00FFFFFF}") {
		t.Errorf("second word event = %q, want only second word recolored", lines[2])
	}
}

func TestRenderHighlightFiltersEmptyWords(t *testing.T) {
	seg := subtitle.Segment{
		Start: 0,
		End:   1,
		Words: []subtitle.Word{
			{Word: "keep", Start: 0, End: 0.5},
			{Word: "", Start: 0.5, End: 1},
		},
	}

	lines := renderForTest(t, &subtitle.Transcription{
		Segments: []subtitle.Segment{seg},
	}, StyleHighlight, DefaultOptions())
	// one base plus one word event; the empty word vanishes
	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue events, got %d: %v", len(lines), lines)
	}
}

func TestRenderUnderline(t *testing.T) {
	tr := &subtitle.Transcription{Segments: []subtitle.Segment{wordedSegment()}}

	lines := renderForTest(t, tr, StyleUnderline, DefaultOptions())
	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue events, got %d: %v", len(lines), lines)
	}

	want := "Dialogue: 0,0:00:01.00,0:00:01.25,Default,,0,0,0,," +
		"{\\an5\\pos(960,540)}{\\c&H00FFFFFF}{\\u1}hello{\\u0} world"
	if lines[0] != want {
		t.Errorf("first event:\n got %q\nwant %q", lines[0], want)
	}
	if !strings.Contains(lines[1], "hello {\\u1}world{\\u0}") {
		t.Errorf("second event = %q, want only second word underlined", lines[1])
	}
}

func TestRenderWordByWord(t *testing.T) {
	tr := &subtitle.Transcription{Segments: []subtitle.Segment{wordedSegment()}}

	lines := renderForTest(t, tr, StyleWordByWord, DefaultOptions())
	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue events, got %d: %v", len(lines), lines)
	}

	want := "Dialogue: 0,0:00:01.00,0:00:01.25,Default,,0,0,0,," +
		"{\\an5\\pos(960,540)}{\\c&H0000FFFF}hello"
	if lines[0] != want {
		t.Errorf("first event:\n got %q\nwant %q", lines[0], want)
	}
}

func TestRenderWordByWordSkipsEmptyWords(t *testing.T) {
	seg := subtitle.Segment{
		Start: 0,
		End:   1,
		Words: []subtitle.Word{
			{Word: "", Start: 0, End: 0.5},
			{Word: "solo", Start: 0.5, End: 1},
		},
	}

	lines := renderForTest(t, &subtitle.Transcription{
		Segments: []subtitle.Segment{seg},
	}, StyleWordByWord, DefaultOptions())
	if len(lines) != 1 {
		t.Fatalf("expected 1 dialogue event, got %d: %v", len(lines), lines)
	}
	if !strings.HasSuffix(lines[0], "solo") {
		t.Errorf("event = %q, want only the non-empty word", lines[0])
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     []string
	}{
		{"no limit", "a b c", 0, []string{"a b c"}},
		{"even split", "a b c d", 2, []string{"a b", "c d"}},
		{"uneven split", "a b c d e", 2, []string{"a b", "c d", "e"}},
		{"limit above count", "a b", 10, []string{"a b"}},
		{"empty text", "", 2, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.text, tt.maxWords)
			if len(got) != len(tt.want) {
				t.Fatalf("splitLines(%q, %d) = %v, want %v",
					tt.text, tt.maxWords, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
