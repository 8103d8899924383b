package caption

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/capkit/capkit/internal/ass"
	"github.com/capkit/capkit/internal/logging"
	"github.com/capkit/capkit/internal/media"
	"github.com/capkit/capkit/internal/subtitle"
	"github.com/capkit/capkit/internal/video"
)

// fallback duration for plain-text captions when probing fails
const fallbackDuration = 10.0

// Transcriber is the speech-to-text collaborator producing word-level
// timestamps for a media file.
type Transcriber interface {
	Transcribe(
		ctx context.Context,
		mediaPath string,
		language string,
	) (*subtitle.Transcription, error)
}

// Fetcher retrieves remote caption text and media files.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	DownloadFile(ctx context.Context, url, dir string) (string, error)
}

// Orchestrator sequences a captioning request end to end: exclude-range and
// settings normalization, font validation, caption-source resolution, style
// rendering, exclusion filtering and persistence. Every failure is
// converted to exactly one structured error; no partial file is written.
type Orchestrator struct {
	Fonts       ass.FontCatalog
	Prober      video.Prober
	Transcriber Transcriber
	Fetcher     Fetcher
	StorageDir  string
	Log         *logging.Logger
}

// Request carries one captioning job. Video is a local path or URL;
// Captions is raw content, a URL, or empty to request transcription.
type Request struct {
	JobID    string
	Video    string
	Captions string

	Settings map[string]any
	Replace  []ass.Replacement
	Exclude  []ass.TimeRange

	// language hint for transcription; empty means auto-detect
	Language string

	// explicit PlayResX/PlayResY; zero values mean probe the video
	PlayResX int
	PlayResY int
}

// Generate runs the full pipeline and returns the path of the written
// subtitle file.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (string, error) {
	log := o.Log
	if log == nil {
		log = logging.NewNop()
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}
	log = &logging.Logger{SugaredLogger: log.With("job_id", jobID)}

	if req.Video == "" {
		return "", validationErrorf("video path or URL is required")
	}

	excludeRanges, err := ass.NormalizeExcludeRanges(req.Exclude)
	if err != nil {
		return "", &ValidationError{Message: err.Error()}
	}

	opts, err := ass.ParseOptions(req.Settings, log)
	if err != nil {
		return "", &ValidationError{Message: err.Error()}
	}

	replacements := make([]ass.Replacement, 0, len(req.Replace))
	for _, r := range req.Replace {
		if r.Find == "" {
			log.Warnw("skipping replace entry with empty find string")
			continue
		}
		replacements = append(replacements, r)
	}

	if !ass.FontAvailable(o.Fonts, opts.FontFamily) {
		log.Warnw("requested font not found", "font", opts.FontFamily)
		return "", &ass.FontUnavailableError{
			Requested: opts.FontFamily,
			Available: o.Fonts.AvailableFonts(),
		}
	}

	captionsContent := req.Captions
	if captionsContent != "" && media.IsURL(captionsContent) {
		log.Infow("downloading captions", "url", captionsContent)
		captionsContent, err = o.Fetcher.FetchText(ctx, captionsContent)
		if err != nil {
			return "", &SourceRetrievalError{Err: err}
		}
	}

	videoPath := req.Video
	if media.IsURL(videoPath) {
		workDir := filepath.Join(o.StorageDir, jobID)
		log.Infow("downloading video", "url", videoPath, "dir", workDir)
		videoPath, err = o.Fetcher.DownloadFile(ctx, videoPath, workDir)
		if err != nil {
			return "", &SourceRetrievalError{Err: err}
		}
	}

	videoW, videoH := req.PlayResX, req.PlayResY
	if videoW <= 0 || videoH <= 0 {
		videoW, videoH = o.Prober.Resolution(ctx, videoPath)
	}
	log.Infow("using video resolution", "width", videoW, "height", videoH)

	source := ClassifySource(captionsContent)
	log.Infow("caption source classified", "kind", source.Kind.String())

	var content string
	kind := subtitle.FormatASS

	switch source.Kind {
	case SourceASS:
		// pre-built ASS bypasses the style handlers entirely
		content = source.Content

	case SourceSRT:
		// the raw requested name is what gets validated here; the
		// unknown-name fallback applies only to generated styles
		if strings.ToLower(opts.Style) != string(ass.StyleClassic) {
			return "", formatErrorf("Only 'classic' style is supported for SRT captions.")
		}
		entries, err := subtitle.ParseSRT(source.Content)
		if err != nil {
			return "", formatErrorf("Invalid SRT format: %v", err)
		}
		tr := subtitle.ToTranscription(entries)
		content, err = o.render(tr, opts, replacements, videoW, videoH, log)
		if err != nil {
			return "", err
		}

	case SourcePlainText:
		duration, ok := o.Prober.Duration(ctx, videoPath)
		if !ok || duration <= 0 {
			duration = fallbackDuration
			log.Warnw("video duration not available, using fallback",
				"fallback_seconds", fallbackDuration)
		}
		tr := &subtitle.Transcription{
			Segments: []subtitle.Segment{{
				Start: 0,
				End:   duration,
				Text:  strings.TrimSpace(source.Content),
			}},
		}
		content, err = o.render(tr, opts, replacements, videoW, videoH, log)
		if err != nil {
			return "", err
		}

	case SourceNone:
		if o.Transcriber == nil {
			return "", validationErrorf("no captions provided and no transcription provider configured")
		}
		language := req.Language
		if language == "" {
			language = "auto"
		}
		log.Infow("no captions provided, generating transcription", "language", language)
		tr, err := o.Transcriber.Transcribe(ctx, videoPath, language)
		if err != nil {
			return "", fmt.Errorf("transcription failed: %w", err)
		}
		content, err = o.render(tr, opts, replacements, videoW, videoH, log)
		if err != nil {
			return "", err
		}
	}

	if len(excludeRanges) > 0 {
		content = ass.FilterDialogueLines(content, excludeRanges, kind)
		log.Infow("filtered subtitle lines for exclude ranges",
			"ranges", len(excludeRanges))
	}

	outPath := filepath.Join(o.StorageDir, jobID+kind.Extension())
	if err := writeFileAtomic(outPath, content); err != nil {
		return "", &PersistenceError{Err: fmt.Errorf("failed to save subtitle file: %w", err)}
	}

	log.Infow("subtitle file saved", "path", outPath)
	return outPath, nil
}

// render builds the full ASS document (header + dialogue events) for the
// uniform transcription model.
func (o *Orchestrator) render(
	tr *subtitle.Transcription,
	opts ass.Options,
	replacements []ass.Replacement,
	videoW, videoH int,
	log *logging.Logger,
) (string, error) {
	header, err := ass.BuildHeader(opts, videoW, videoH, o.Fonts)
	if err != nil {
		return "", err
	}

	style := ass.StyleFromName(opts.Style, log)
	events := ass.RenderEvents(tr, style, opts, replacements, videoW, videoH, log)

	return header + events, nil
}

// temp-file-plus-rename keeps failures from ever leaving a partial output
func writeFileAtomic(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".capkit-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
