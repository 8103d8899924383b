package ass

import (
	"fmt"
	"strings"
)

// FontCatalog is the font-resolution collaborator: the set of usable family
// names plus the mapping to an ASS-safe family for the style line.
type FontCatalog interface {
	AvailableFonts() []string
	ResolveASSFamily(name string) string
}

// FontUnavailableError carries the full catalog so callers can surface the
// list for user remediation.
type FontUnavailableError struct {
	Requested string
	Available []string
}

func (e *FontUnavailableError) Error() string {
	return fmt.Sprintf("Font '%s' not available.", e.Requested)
}

// FontAvailable reports whether the catalog carries the family,
// case-insensitively.
func FontAvailable(catalog FontCatalog, family string) bool {
	want := strings.ToLower(family)
	for _, name := range catalog.AvailableFonts() {
		if strings.ToLower(name) == want {
			return true
		}
	}
	return false
}

// BuildHeader emits the [Script Info] block, the single Default style line
// and the [Events] format header. The style alignment field is a
// placeholder (5); every dialogue event overrides it with an \an tag.
func BuildHeader(opts Options, videoW, videoH int, catalog FontCatalog) (string, error) {
	if !FontAvailable(catalog, opts.FontFamily) {
		return "", &FontUnavailableError{
			Requested: opts.FontFamily,
			Available: catalog.AvailableFonts(),
		}
	}

	// ASS uses comma as the style field separator, so the family must not
	// contain one; keep only the first comma-separated segment.
	family := catalog.ResolveASSFamily(opts.FontFamily)
	if idx := strings.Index(family, ","); idx >= 0 {
		family = strings.TrimSpace(family[:idx])
	}
	if family == "" {
		family = opts.FontFamily
	}

	lineColor := RGBToASSColor(opts.LineColor)
	secondaryColor := lineColor
	outlineColor := RGBToASSColor(opts.OutlineColor)
	boxColor := RGBToASSColor(opts.BoxColor)

	// BorderStyle 1 = outline+shadow (BackColour is the shadow),
	// BorderStyle 3 = opaque box (BackColour is the box fill).
	borderStyle := opts.BorderStyle
	if opts.Box {
		borderStyle = 3
	}

	var sb strings.Builder
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&sb, "PlayResX: %d\n", videoW)
	fmt.Fprintf(&sb, "PlayResY: %d\n", videoH)
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&sb,
		"Style: Default,%s,%d,%s,%s,%s,%s,%s,%s,%s,%s,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,%d,0\n",
		family,
		opts.EffectiveFontSize(videoH),
		lineColor, secondaryColor, outlineColor, boxColor,
		boolFlag(opts.Bold), boolFlag(opts.Italic),
		boolFlag(opts.Underline), boolFlag(opts.Strikeout),
		opts.ScaleX, opts.ScaleY, opts.Spacing, opts.Angle,
		borderStyle, opts.OutlineWidth, opts.ShadowOffset,
		5, // placeholder alignment, overridden per event
		opts.MarginL, opts.MarginR, opts.MarginV,
	)

	sb.WriteString("\n[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	return sb.String(), nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
