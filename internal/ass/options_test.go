package ass

import (
	"testing"

	"github.com/capkit/capkit/internal/logging"
)

func TestParseOptionsDefaults(t *testing.T) {
	opts, err := ParseOptions(nil, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}

	if opts.FontFamily != "Arial" {
		t.Errorf("FontFamily = %q, want Arial", opts.FontFamily)
	}
	if opts.LineColor != "#FFFFFF" {
		t.Errorf("LineColor = %q, want #FFFFFF", opts.LineColor)
	}
	if opts.WordColor != "#FFFF00" {
		t.Errorf("WordColor = %q, want #FFFF00", opts.WordColor)
	}
	if opts.Position != "middle_center" {
		t.Errorf("Position = %q, want middle_center", opts.Position)
	}
	if opts.Style != "classic" {
		t.Errorf("Style = %q, want classic", opts.Style)
	}
	if opts.MarginL != 20 || opts.MarginR != 20 || opts.MarginV != 20 {
		t.Errorf("margins = (%d,%d,%d), want (20,20,20)",
			opts.MarginL, opts.MarginR, opts.MarginV)
	}
}

func TestParseOptionsHyphenatedKeys(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"font-family":        "Verdana",
		"max-words-per-line": 4,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}

	if opts.FontFamily != "Verdana" {
		t.Errorf("FontFamily = %q, want Verdana", opts.FontFamily)
	}
	if opts.MaxWordsPerLine != 4 {
		t.Errorf("MaxWordsPerLine = %d, want 4", opts.MaxWordsPerLine)
	}
}

func TestParseOptionsHighlightColorMergesIntoWordColor(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"highlight_color": "#FF0000",
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}
	if opts.WordColor != "#FF0000" {
		t.Errorf("WordColor = %q, want #FF0000", opts.WordColor)
	}
}

func TestParseOptionsBackColorPrecedence(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"box_color":  "#111111",
		"back_color": "#222222",
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}
	if opts.BoxColor != "#222222" {
		t.Errorf("BoxColor = %q, want #222222", opts.BoxColor)
	}
}

func TestParseOptionsNumericCoercion(t *testing.T) {
	// JSON decoding produces float64 for all numbers
	opts, err := ParseOptions(map[string]any{
		"font_size": float64(48),
		"x":         float64(100),
		"y":         float64(50),
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}
	if opts.FontSize != 48 {
		t.Errorf("FontSize = %d, want 48", opts.FontSize)
	}
	if opts.X == nil || *opts.X != 100 {
		t.Errorf("X = %v, want 100", opts.X)
	}
	if opts.Y == nil || *opts.Y != 50 {
		t.Errorf("Y = %v, want 50", opts.Y)
	}
}

func TestParseOptionsTypeErrors(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
	}{
		{"bool for string", map[string]any{"font_family": true}},
		{"string for bool", map[string]any{"bold": "yes"}},
		{"non-numeric string for int", map[string]any{"font_size": "big"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOptions(tt.settings, logging.NewNop()); err == nil {
				t.Error("expected coercion error, got nil")
			}
		})
	}
}

func TestParseOptionsUnknownKeysIgnored(t *testing.T) {
	opts, err := ParseOptions(map[string]any{
		"no_such_setting": "value",
		"bold":            true,
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}
	if !opts.Bold {
		t.Error("expected bold to be set despite unknown sibling key")
	}
}

func TestEffectiveFontSize(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.EffectiveFontSize(1080); got != 54 {
		t.Errorf("derived font size = %d, want 54", got)
	}

	opts.FontSize = 30
	if got := opts.EffectiveFontSize(1080); got != 30 {
		t.Errorf("explicit font size = %d, want 30", got)
	}
}
