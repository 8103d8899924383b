package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/capkit/capkit/internal/subtitle"
)

// implements Transcriber using Google Gemini
type GeminiTranscriber struct {
	client *genai.Client
	model  string
	opts   Options
}

// segment shape requested from Gemini
type geminiWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type geminiSegment struct {
	Start float64      `json:"start"`
	End   float64      `json:"end"`
	Text  string       `json:"text"`
	Words []geminiWord `json:"words"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranscriber{
		client: client,
		model:  model,
		opts:   opts,
	}, nil
}

func (t *GeminiTranscriber) Transcribe(
	ctx context.Context,
	mediaPath string,
	language string,
) (*subtitle.Transcription, error) {
	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("media file not found: %s", mediaPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, mediaPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload media file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	prompt := t.buildTranscriptionPrompt(language)

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	transcription, err := parseGeminiResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription: %w", err)
	}
	transcription.Language = language

	return transcription, nil
}

// creates the prompt for word-level transcription
func (t *GeminiTranscriber) buildTranscriptionPrompt(language string) string {
	var sb strings.Builder

	sb.WriteString("Generate a detailed transcript of this media's speech. ")
	sb.WriteString("For each sentence or phrase, provide the start timestamp, end timestamp, the exact text spoken, ")
	sb.WriteString("and a word-by-word breakdown with per-word start and end timestamps. ")
	sb.WriteString("Format your response as a JSON array of objects with 'start', 'end', 'text' and 'words' fields, ")
	sb.WriteString("where 'words' is an array of objects with 'word', 'start' and 'end' fields ")
	sb.WriteString("and all timestamps are seconds as numbers. ")

	if language != "" && language != "auto" {
		fmt.Fprintf(&sb, "The audio is in %s. ", language)
	}
	if t.opts.Prompt != "" {
		sb.WriteString(t.opts.Prompt)
		sb.WriteString(" ")
	}

	sb.WriteString("Return ONLY the JSON array, no other text or markdown formatting.")

	return sb.String()
}

func parseGeminiResponse(result *genai.GenerateContentResponse) (*subtitle.Transcription, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					responseText += part.Text
				}
			}
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	responseText = cleanJSONResponse(responseText)

	var rawSegments []geminiSegment
	if err := json.Unmarshal([]byte(responseText), &rawSegments); err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(responseText, 200),
		)
	}

	segments := make([]subtitle.Segment, 0, len(rawSegments))
	for _, raw := range rawSegments {
		segment := subtitle.Segment{
			Start: raw.Start,
			End:   raw.End,
			Text:  strings.TrimSpace(raw.Text),
		}
		for _, w := range raw.Words {
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

	return &subtitle.Transcription{Segments: segments}, nil
}

// removes markdown formatting from the response
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	jsonBlockRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = jsonBlockRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
