package subtitle

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var srtTimestampRegex = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`,
)

// ParseSRT parses raw SRT content into entries.
func ParseSRT(content string) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var currentEntry *Entry
	var textLines []string
	haveTimes := false
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			if currentEntry != nil && len(textLines) > 0 {
				currentEntry.Text = strings.Join(textLines, "\n")
				entries = append(entries, *currentEntry)
			}
			currentEntry = nil
			textLines = nil
			haveTimes = false
			continue
		}

		if currentEntry == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf(
					"expected subtitle index at line %d, got %q",
					lineNum,
					line,
				)
			}
			currentEntry = &Entry{Index: index}
			continue
		}

		if !haveTimes {
			matches := srtTimestampRegex.FindStringSubmatch(line)
			if len(matches) != 9 {
				return nil, fmt.Errorf(
					"expected timestamp line at line %d, got %q",
					lineNum,
					line,
				)
			}
			currentEntry.Start = srtTimestampSeconds(
				matches[1], matches[2], matches[3], matches[4],
			)
			currentEntry.End = srtTimestampSeconds(
				matches[5], matches[6], matches[7], matches[8],
			)
			haveTimes = true
			continue
		}

		textLines = append(textLines, line)
	}

	if currentEntry != nil && len(textLines) > 0 {
		currentEntry.Text = strings.Join(textLines, "\n")
		entries = append(entries, *currentEntry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT content: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no subtitle entries found")
	}

	return entries, nil
}

// digits are pre-validated by the timestamp regex
func srtTimestampSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

// IsSRT reports whether content parses as SRT with at least one entry.
func IsSRT(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	entries, err := ParseSRT(content)
	return err == nil && len(entries) > 0
}

// ComposeSRT serializes entries back to SRT text, renumbering from 1.
func ComposeSRT(entries []Entry) string {
	var sb strings.Builder
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatSRTTime(entry.Start),
			formatSRTTime(entry.End)))
		sb.WriteString(entry.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func formatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int(seconds*1000 + 0.5)
	h := totalMillis / 3600000
	m := totalMillis / 60000 % 60
	s := totalMillis / 1000 % 60
	ms := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// ToTranscription converts parsed SRT entries to the uniform transcription
// model. SRT carries no word-level timestamps, so word lists stay empty.
func ToTranscription(entries []Entry) *Transcription {
	segments := make([]Segment, 0, len(entries))
	for _, entry := range entries {
		segments = append(segments, Segment{
			Start: entry.Start,
			End:   entry.End,
			Text:  strings.TrimSpace(entry.Text),
		})
	}
	return &Transcription{Segments: segments}
}
