package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/capkit/capkit/internal/ass"
	"github.com/capkit/capkit/internal/caption"
	"github.com/capkit/capkit/internal/config"
	"github.com/capkit/capkit/internal/fonts"
	"github.com/capkit/capkit/internal/media"
	"github.com/capkit/capkit/internal/transcribe"
	"github.com/capkit/capkit/internal/video"
)

var captionCmd = &cobra.Command{
	Use:   "caption [video_file_or_url]",
	Short: "Generate a styled ASS subtitle file for a video",
	Long: `Generate a styled ASS subtitle file for the given video.

Captions can be supplied inline, as a URL, or from a file; ASS content is
passed through unmodified, SRT is converted (classic style only), and any
other text is shown for the whole video duration. Without captions the
video is transcribed with word-level timestamps.

Examples:
  capkit caption video.mp4
  capkit caption video.mp4 --captions-file subs.srt
  capkit caption video.mp4 --style karaoke --settings '{"word_color":"#FF0000"}'
  capkit caption https://example.com/v.mp4 --exclude 00:10,00:15 --exclude 01:00,01:05
  capkit caption video.mp4 --replace "teh=the" --style highlight`,
	Args: cobra.ExactArgs(1),
	RunE: runCaption,
}

func init() {
	rootCmd.AddCommand(captionCmd)

	captionCmd.Flags().
		String("captions", "", "Caption content (raw ASS/SRT/plain text) or a URL to fetch it from")
	captionCmd.Flags().
		String("captions-file", "", "Read caption content from a local file")
	captionCmd.Flags().
		String("settings", "", "Style settings as a JSON object (font_family, line_color, position, ...)")
	captionCmd.Flags().
		StringP("style", "s", "", "Caption style (classic, karaoke, highlight, underline, word_by_word)")
	captionCmd.Flags().
		String("font", "", "Font family (shorthand for the font_family setting)")
	captionCmd.Flags().
		StringArray("replace", nil, "Text replacement as find=replace (repeatable)")
	captionCmd.Flags().
		StringArray("exclude", nil, "Time range to drop as start,end (repeatable)")
	captionCmd.Flags().
		String("play-res", "", "Override probed resolution as WIDTHxHEIGHT")
	captionCmd.Flags().
		StringP("language", "l", "", "Language hint for transcription (default auto-detect)")
	captionCmd.Flags().
		String("job-id", "", "Job identifier, used for the output filename (default random UUID)")
	captionCmd.Flags().
		StringP("output-dir", "o", "", "Output directory (default from config)")
	captionCmd.Flags().
		String("provider", "", "Transcription provider (openai, gemini)")
	captionCmd.Flags().
		String("model", "", "Transcription model override")
	captionCmd.Flags().
		StringP("api-key", "k", "", "Transcription API key (or OPENAI_API_KEY / GEMINI_API_KEY env var)")
}

func runCaption(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return reportError(err)
	}

	videoArg := args[0]
	if !media.IsURL(videoArg) {
		if _, err := os.Stat(videoArg); os.IsNotExist(err) {
			return reportError(fmt.Errorf("file not found: %s", videoArg))
		}
	}

	captionsContent, err := resolveCaptionsFlag(cmd)
	if err != nil {
		return reportError(err)
	}

	settings, err := resolveSettings(cmd)
	if err != nil {
		return reportError(&caption.ValidationError{Message: err.Error()})
	}

	replacements := parseReplaceFlags(mustStringArray(cmd, "replace"))
	excludeRanges, err := parseExcludeFlags(mustStringArray(cmd, "exclude"))
	if err != nil {
		return reportError(&caption.ValidationError{Message: err.Error()})
	}

	playResX, playResY, err := parsePlayRes(mustString(cmd, "play-res"))
	if err != nil {
		return reportError(&caption.ValidationError{Message: err.Error()})
	}

	if dir := mustString(cmd, "output-dir"); dir != "" {
		cfg.StorageDir = dir
	}

	jobID := mustString(cmd, "job-id")
	if jobID == "" {
		jobID = uuid.NewString()
	}

	transcriber, err := buildTranscriber(ctx, cmd, cfg, captionsContent)
	if err != nil {
		return reportError(err)
	}

	orch := &caption.Orchestrator{
		Fonts:       fonts.NewCatalog(cfg.FontsDir, logger),
		Prober:      video.NewFFProbe(logger),
		Transcriber: transcriber,
		Fetcher:     media.NewFetcher(),
		StorageDir:  cfg.StorageDir,
		Log:         logger,
	}

	logger.Infow("starting caption generation",
		"job_id", jobID,
		"video", videoArg,
		"storage_dir", cfg.StorageDir,
	)

	outPath, err := orch.Generate(ctx, caption.Request{
		JobID:    jobID,
		Video:    videoArg,
		Captions: captionsContent,
		Settings: settings,
		Replace:  replacements,
		Exclude:  excludeRanges,
		Language: mustString(cmd, "language"),
		PlayResX: playResX,
		PlayResY: playResY,
	})
	if err != nil {
		return reportError(err)
	}

	fmt.Println(outPath)
	return nil
}

// reportError prints the structured error contract to stderr: a JSON object
// with an error message, plus the available-font list for font failures.
func reportError(err error) error {
	resp := caption.AsResponse(err)
	payload, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	fmt.Fprintln(os.Stderr, string(payload))
	return err
}

func resolveCaptionsFlag(cmd *cobra.Command) (string, error) {
	inline := mustString(cmd, "captions")
	fromFile := mustString(cmd, "captions-file")

	if inline != "" && fromFile != "" {
		return "", &caption.ValidationError{
			Message: "use either --captions or --captions-file, not both",
		}
	}
	if fromFile != "" {
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return "", &caption.SourceRetrievalError{
				Err: fmt.Errorf("failed to read captions file: %w", err),
			}
		}
		return string(data), nil
	}
	return inline, nil
}

func resolveSettings(cmd *cobra.Command) (map[string]any, error) {
	settings := make(map[string]any)

	if raw := mustString(cmd, "settings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return nil, fmt.Errorf("--settings must be a JSON object: %v", err)
		}
	}
	if style := mustString(cmd, "style"); style != "" {
		settings["style"] = style
	}
	if font := mustString(cmd, "font"); font != "" {
		settings["font_family"] = font
	}

	return settings, nil
}

// malformed entries are skipped with a warning rather than failing the run
func parseReplaceFlags(raw []string) []ass.Replacement {
	var out []ass.Replacement
	for _, entry := range raw {
		find, replace, ok := strings.Cut(entry, "=")
		if !ok || find == "" {
			logger.Warnw("skipping invalid replace entry", "entry", entry)
			continue
		}
		out = append(out, ass.Replacement{Find: find, Replace: replace})
	}
	return out
}

func parseExcludeFlags(raw []string) ([]ass.TimeRange, error) {
	var out []ass.TimeRange
	for _, entry := range raw {
		start, end, ok := strings.Cut(entry, ",")
		if !ok {
			return nil, fmt.Errorf("invalid exclude range %q: expected start,end", entry)
		}
		out = append(out, ass.TimeRange{
			Start: strings.TrimSpace(start),
			End:   strings.TrimSpace(end),
		})
	}
	return out, nil
}

func parsePlayRes(raw string) (int, int, error) {
	if raw == "" {
		return 0, 0, nil
	}
	wStr, hStr, ok := strings.Cut(strings.ToLower(raw), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --play-res %q: expected WIDTHxHEIGHT", raw)
	}
	w, err := strconv.Atoi(strings.TrimSpace(wStr))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid --play-res width %q", wStr)
	}
	h, err := strconv.Atoi(strings.TrimSpace(hStr))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid --play-res height %q", hStr)
	}
	return w, h, nil
}

// buildTranscriber constructs the transcription collaborator only when the
// request can actually need it (no captions supplied).
func buildTranscriber(
	ctx context.Context,
	cmd *cobra.Command,
	cfg config.Config,
	captionsContent string,
) (caption.Transcriber, error) {
	if captionsContent != "" {
		return nil, nil
	}

	provider := mustString(cmd, "provider")
	if provider == "" {
		provider = cfg.Provider
	}

	apiKey := mustString(cmd, "api-key")
	if apiKey == "" {
		apiKey = cfg.APIKey(provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf(
			"transcription API key is required when no captions are supplied: use --api-key or set the provider's env var",
		)
	}

	model := mustString(cmd, "model")
	if model == "" {
		model = cfg.Model
	}

	return transcribe.Factory(
		ctx,
		transcribe.Provider(provider),
		apiKey,
		transcribe.Options{Model: model},
	)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func mustStringArray(cmd *cobra.Command, name string) []string {
	v, _ := cmd.Flags().GetStringArray(name)
	return v
}
