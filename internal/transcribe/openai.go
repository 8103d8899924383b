package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/capkit/capkit/internal/subtitle"
)

// implements Transcriber using the OpenAI Audio API with word timestamps
type OpenAITranscriber struct {
	client openai.Client
	model  string
	opts   Options
}

// pieces of the Whisper verbose_json response we consume
type whisperWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type whisperVerboseResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Words    []whisperWord    `json:"words"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		opts:   opts,
	}, nil
}

func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	mediaPath string,
	language string,
) (*subtitle.Transcription, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	file, err := os.Open(mediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open media file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}

	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}
	if t.opts.Prompt != "" {
		params.Prompt = openai.String(t.opts.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseJSON(resp.RawJSON())
}

func parseVerboseJSON(rawJSON string) (*subtitle.Transcription, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(resp.Segments) == 0 {
		if strings.TrimSpace(resp.Text) == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		return &subtitle.Transcription{
			Language: resp.Language,
			Segments: []subtitle.Segment{{
				Start: 0,
				End:   resp.Duration,
				Text:  strings.TrimSpace(resp.Text),
			}},
		}, nil
	}

	segments := make([]subtitle.Segment, 0, len(resp.Segments))
	words := resp.Words
	for _, seg := range resp.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		segment := subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		}

		// words arrive as one flat ordered list; consume the prefix that
		// falls inside this segment's span
		for len(words) > 0 && words[0].Start < seg.End {
			w := words[0]
			words = words[1:]
			word := strings.TrimSpace(w.Word)
			if word == "" {
				continue
			}
			segment.Words = append(segment.Words, subtitle.Word{
				Word:  word,
				Start: w.Start,
				End:   w.End,
			})
		}

		segments = append(segments, segment)
	}

	return &subtitle.Transcription{
		Language: resp.Language,
		Segments: segments,
	}, nil
}
