package ass

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/capkit/capkit/internal/logging"
)

// Options is the fully-typed style configuration for one captioning run.
// It is produced once at request entry by ParseOptions and never re-derived
// mid-pipeline.
type Options struct {
	FontFamily string
	FontSize   int // 0 = derive from video height

	LineColor    string
	WordColor    string
	OutlineColor string
	BoxColor     string

	Bold      bool
	Italic    bool
	Underline bool
	Strikeout bool

	ScaleX  int
	ScaleY  int
	Spacing int
	Angle   int

	BorderStyle  int
	Box          bool
	OutlineWidth int
	ShadowOffset int

	MarginL int
	MarginR int
	MarginV int

	Position  string
	Alignment string
	X         *int
	Y         *int

	AllCaps         bool
	MaxWordsPerLine int
	Style           string
}

func DefaultOptions() Options {
	return Options{
		FontFamily:   "Arial",
		LineColor:    "#FFFFFF",
		WordColor:    "#FFFF00",
		OutlineColor: "#000000",
		BoxColor:     "#000000",
		ScaleX:       100,
		ScaleY:       100,
		BorderStyle:  1,
		OutlineWidth: 2,
		MarginL:      20,
		MarginR:      20,
		MarginV:      20,
		Position:     "middle_center",
		Alignment:    "center",
		Style:        "classic",
	}
}

// EffectiveFontSize returns the configured font size, falling back to 5% of
// the video height when unset.
func (o Options) EffectiveFontSize(videoH int) int {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return int(float64(videoH) * 0.05)
}

// ParseOptions normalizes a raw settings map into Options in a single step:
// hyphenated keys become underscored, the deprecated highlight_color key is
// merged into word_color, back_color takes precedence over box_color, and
// everything else is coerced onto the typed defaults.
func ParseOptions(settings map[string]any, log *logging.Logger) (Options, error) {
	opts := DefaultOptions()
	if settings == nil {
		return opts, nil
	}

	normalized := make(map[string]any, len(settings))
	for key, value := range settings {
		normalized[strings.ReplaceAll(key, "-", "_")] = value
	}

	if v, ok := normalized["highlight_color"]; ok {
		log.Warnw("'highlight_color' is deprecated; merging into 'word_color'")
		normalized["word_color"] = v
		delete(normalized, "highlight_color")
	}
	if _, ok := normalized["back_color"]; ok {
		normalized["box_color"] = normalized["back_color"]
		delete(normalized, "back_color")
	}

	for key, value := range normalized {
		var err error
		switch key {
		case "font_family":
			opts.FontFamily, err = asString(value)
		case "font_size":
			opts.FontSize, err = asInt(value)
		case "line_color":
			opts.LineColor, err = asString(value)
		case "word_color":
			opts.WordColor, err = asString(value)
		case "outline_color":
			opts.OutlineColor, err = asString(value)
		case "box_color":
			opts.BoxColor, err = asString(value)
		case "bold":
			opts.Bold, err = asBool(value)
		case "italic":
			opts.Italic, err = asBool(value)
		case "underline":
			opts.Underline, err = asBool(value)
		case "strikeout":
			opts.Strikeout, err = asBool(value)
		case "scale_x":
			opts.ScaleX, err = asInt(value)
		case "scale_y":
			opts.ScaleY, err = asInt(value)
		case "spacing":
			opts.Spacing, err = asInt(value)
		case "angle":
			opts.Angle, err = asInt(value)
		case "border_style":
			opts.BorderStyle, err = asInt(value)
		case "box":
			opts.Box, err = asBool(value)
		case "outline_width":
			opts.OutlineWidth, err = asInt(value)
		case "shadow_offset":
			opts.ShadowOffset, err = asInt(value)
		case "margin_l":
			opts.MarginL, err = asInt(value)
		case "margin_r":
			opts.MarginR, err = asInt(value)
		case "margin_v":
			opts.MarginV, err = asInt(value)
		case "position":
			opts.Position, err = asString(value)
		case "alignment":
			opts.Alignment, err = asString(value)
		case "x":
			var n int
			if n, err = asInt(value); err == nil {
				opts.X = &n
			}
		case "y":
			var n int
			if n, err = asInt(value); err == nil {
				opts.Y = &n
			}
		case "all_caps":
			opts.AllCaps, err = asBool(value)
		case "max_words_per_line":
			opts.MaxWordsPerLine, err = asInt(value)
		case "style":
			opts.Style, err = asString(value)
		default:
			log.Debugw("ignoring unrecognized style setting", "key", key)
		}
		if err != nil {
			return opts, fmt.Errorf("setting %q: %w", key, err)
		}
	}

	return opts, nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
	return b, nil
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case float64:
		return int(math.Round(n)), nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
