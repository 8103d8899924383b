package ass

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/capkit/capkit/internal/logging"
	"github.com/capkit/capkit/internal/subtitle"
)

// Style selects a dialogue-event rendering variant.
type Style string

const (
	StyleClassic    Style = "classic"
	StyleKaraoke    Style = "karaoke"
	StyleHighlight  Style = "highlight"
	StyleUnderline  Style = "underline"
	StyleWordByWord Style = "word_by_word"
)

// StyleFromName maps a requested style name to a variant. Unknown names
// fall back to classic with a warning; this is deliberately not an error.
func StyleFromName(name string, log *logging.Logger) Style {
	style := Style(strings.ToLower(name))
	switch style {
	case StyleClassic, StyleKaraoke, StyleHighlight, StyleUnderline, StyleWordByWord:
		return style
	default:
		log.Warnw("unknown caption style, defaulting to classic", "style", name)
		return StyleClassic
	}
}

// Replacement is one find/replace pair, applied case-insensitively as a
// substring substitution before the all-caps transform. Order matters, so
// replacements are a slice rather than a map.
type Replacement struct {
	Find    string
	Replace string
}

type replacer struct {
	pattern *regexp.Regexp
	with    string
}

func compileReplacements(repl []Replacement) []replacer {
	out := make([]replacer, 0, len(repl))
	for _, r := range repl {
		if r.Find == "" {
			continue
		}
		out = append(out, replacer{
			pattern: regexp.MustCompile("(?i)" + regexp.QuoteMeta(r.Find)),
			with:    r.Replace,
		})
	}
	return out
}

func processText(text string, rs []replacer, allCaps bool) string {
	for _, r := range rs {
		text = r.pattern.ReplaceAllLiteralString(text, r.with)
	}
	if allCaps {
		text = strings.ToUpper(text)
	}
	return text
}

// splitLines groups whitespace tokens into lines of at most maxWords words.
// maxWords <= 0 means no splitting.
func splitLines(text string, maxWords int) []string {
	if maxWords <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}
	var lines []string
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		lines = append(lines, strings.Join(words[i:end], " "))
	}
	return lines
}

// RenderEvents transforms a transcription into the dialogue-event block for
// the given style. Position is constant across a style run, so alignment is
// resolved exactly once; events are emitted strictly in input order.
func RenderEvents(
	tr *subtitle.Transcription,
	style Style,
	opts Options,
	repl []Replacement,
	videoW, videoH int,
	log *logging.Logger,
) string {
	place := ResolveAlignment(
		opts.Position, opts.Alignment,
		opts.X, opts.Y,
		videoW, videoH,
	)
	rs := compileReplacements(repl)

	var sb strings.Builder
	switch style {
	case StyleKaraoke:
		renderKaraoke(&sb, tr, opts, rs, place)
	case StyleHighlight:
		renderHighlight(&sb, tr, opts, rs, place)
	case StyleUnderline:
		renderUnderline(&sb, tr, opts, rs, place)
	case StyleWordByWord:
		renderWordByWord(&sb, tr, opts, rs, place)
	default:
		renderClassic(&sb, tr, opts, rs, place)
	}

	log.Debugw("rendered dialogue events",
		"style", string(style),
		"anchor", place.Anchor,
		"x", place.X,
		"y", place.Y,
	)

	return sb.String()
}

func writeDialogue(sb *strings.Builder, layer int, start, end float64, text string) {
	fmt.Fprintf(sb, "Dialogue: %d,%s,%s,Default,,0,0,0,,%s\n",
		layer, FormatTime(start), FormatTime(end), text)
}

// one dialogue event per segment, lines stacked with \N
func renderClassic(sb *strings.Builder, tr *subtitle.Transcription, opts Options, rs []replacer, place Placement) {
	for _, seg := range tr.Segments {
		text := strings.ReplaceAll(strings.TrimSpace(seg.Text), "\n", " ")
		lines := splitLines(text, opts.MaxWordsPerLine)
		processed := make([]string, len(lines))
		for i, line := range lines {
			processed[i] = processText(line, rs, opts.AllCaps)
		}
		writeDialogue(sb, 0, seg.Start, seg.End,
			place.Tag()+strings.Join(processed, "\\N"))
	}
}

func chunkWords(words []subtitle.Word, maxWords int) [][]subtitle.Word {
	if maxWords <= 0 {
		return [][]subtitle.Word{words}
	}
	var groups [][]subtitle.Word
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, words[i:end])
	}
	return groups
}

// per-word \k highlight-duration tags, whole dialogue in word_color
func renderKaraoke(sb *strings.Builder, tr *subtitle.Transcription, opts Options, rs []replacer, place Placement) {
	wordColor := RGBToASSColor(opts.WordColor)

	for _, seg := range tr.Segments {
		if len(seg.Words) == 0 {
			continue
		}

		groups := chunkWords(seg.Words, opts.MaxWordsPerLine)
		lines := make([]string, 0, len(groups))
		for _, group := range groups {
			var line strings.Builder
			for _, w := range group {
				text := processText(w.Word, rs, opts.AllCaps)
				durationCS := int(math.Round((w.End - w.Start) * 100))
				fmt.Fprintf(&line, "{\\k%d}%s ", durationCS, text)
			}
			lines = append(lines, strings.TrimSpace(line.String()))
		}

		start := seg.Words[0].Start
		end := seg.Words[len(seg.Words)-1].End
		writeDialogue(sb, 0, start, end,
			place.Tag()+"{\\c"+wordColor+"}"+strings.Join(lines, "\\N"))
	}
}

type timedWord struct {
	text  string
	start float64
	end   float64
}

func processedWords(words []subtitle.Word, rs []replacer, allCaps bool) []timedWord {
	out := make([]timedWord, 0, len(words))
	for _, w := range words {
		text := processText(w.Word, rs, allCaps)
		if text == "" {
			continue
		}
		out = append(out, timedWord{text: text, start: w.Start, end: w.End})
	}
	return out
}

func chunkTimedWords(words []timedWord, maxWords int) [][]timedWord {
	if maxWords <= 0 {
		return [][]timedWord{words}
	}
	var groups [][]timedWord
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		groups = append(groups, words[i:end])
	}
	return groups
}

// Two-layer output: a persistent layer-0 line per group plus one layer-1
// event per word that re-renders the whole line with only that word
// recolored. The duplication is the contract; the per-word events are what
// downstream filtering operates on.
func renderHighlight(sb *strings.Builder, tr *subtitle.Transcription, opts Options, rs []replacer, place Placement) {
	wordColor := RGBToASSColor(opts.WordColor)
	lineColor := RGBToASSColor(opts.LineColor)

	for _, seg := range tr.Segments {
		words := processedWords(seg.Words, rs, opts.AllCaps)
		if len(words) == 0 {
			continue
		}

		for _, set := range chunkTimedWords(words, opts.MaxWordsPerLine) {
			texts := make([]string, len(set))
			for i, w := range set {
				texts[i] = w.text
			}

			writeDialogue(sb, 0, set[0].start, set[len(set)-1].end,
				place.Tag()+"{\\c"+lineColor+"}"+strings.Join(texts, " "))

			for idx, w := range set {
				parts := make([]string, len(set))
				for i, other := range set {
					if i == idx {
						parts[i] = "{\\c" + wordColor + "}" + other.text + "{\\c" + lineColor + "}"
					} else {
						parts[i] = other.text
					}
				}
				writeDialogue(sb, 1, w.start, w.end,
					place.Tag()+"{\\c"+lineColor+"}"+strings.Join(parts, " "))
			}
		}
	}
}

// one event per word, the current word wrapped in underline toggles
func renderUnderline(sb *strings.Builder, tr *subtitle.Transcription, opts Options, rs []replacer, place Placement) {
	lineColor := RGBToASSColor(opts.LineColor)

	for _, seg := range tr.Segments {
		words := processedWords(seg.Words, rs, opts.AllCaps)
		if len(words) == 0 {
			continue
		}

		for _, set := range chunkTimedWords(words, opts.MaxWordsPerLine) {
			for idx, w := range set {
				parts := make([]string, len(set))
				for i, other := range set {
					if i == idx {
						parts[i] = "{\\u1}" + other.text + "{\\u0}"
					} else {
						parts[i] = other.text
					}
				}
				writeDialogue(sb, 0, w.start, w.end,
					place.Tag()+"{\\c"+lineColor+"}"+strings.Join(parts, " "))
			}
		}
	}
}

// one event per word showing only that word; grouping only affects internal
// chunk boundaries, never the emitted text
func renderWordByWord(sb *strings.Builder, tr *subtitle.Transcription, opts Options, rs []replacer, place Placement) {
	wordColor := RGBToASSColor(opts.WordColor)

	for _, seg := range tr.Segments {
		if len(seg.Words) == 0 {
			continue
		}

		for _, group := range chunkWords(seg.Words, opts.MaxWordsPerLine) {
			for _, w := range group {
				text := processText(w.Word, rs, opts.AllCaps)
				if text == "" {
					continue
				}
				writeDialogue(sb, 0, w.Start, w.End,
					place.Tag()+"{\\c"+wordColor+"}"+text)
			}
		}
	}
}
