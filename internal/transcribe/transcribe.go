package transcribe

import (
	"context"
	"fmt"

	"github.com/capkit/capkit/internal/subtitle"
)

// Transcriber produces word-level transcriptions for a media file. The call
// blocks until inference completes or fails; there is no internal retry or
// timeout beyond the caller's context.
type Transcriber interface {
	Transcribe(
		ctx context.Context,
		mediaPath string,
		language string,
	) (*subtitle.Transcription, error)
}

// transcription service provider
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// transcription options
type Options struct {
	Model  string
	Prompt string
}

// creates transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
