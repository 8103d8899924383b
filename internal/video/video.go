package video

import (
	"context"
	"encoding/json"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/capkit/capkit/internal/logging"
)

// Fallback resolution when probing fails, the ASS format's default PlayRes.
const (
	DefaultWidth  = 384
	DefaultHeight = 288
)

// Prober answers resolution and duration questions about a media file.
type Prober interface {
	Resolution(ctx context.Context, path string) (width, height int)
	Duration(ctx context.Context, path string) (seconds float64, ok bool)
}

// FFProbe is the default Prober backed by ffprobe via ffmpeg-go.
type FFProbe struct {
	log *logging.Logger
}

func NewFFProbe(log *logging.Logger) *FFProbe {
	if log == nil {
		log = logging.NewNop()
	}
	return &FFProbe{log: log}
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

func probe(path string) (*probeResult, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, err
	}
	var result probeResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Resolution returns the first video stream's dimensions, or the 384x288
// default when probing fails or no video stream exists.
func (p *FFProbe) Resolution(ctx context.Context, path string) (int, int) {
	result, err := probe(path)
	if err != nil {
		p.log.Warnw("could not probe video resolution, using default",
			"path", path,
			"default", "384x288",
			"error", err,
		)
		return DefaultWidth, DefaultHeight
	}

	for _, stream := range result.Streams {
		if stream.CodecType == "video" && stream.Width > 0 && stream.Height > 0 {
			return stream.Width, stream.Height
		}
	}

	p.log.Warnw("no video stream found, using default resolution",
		"path", path,
		"default", "384x288",
	)
	return DefaultWidth, DefaultHeight
}

// Duration returns the container duration in seconds; ok is false when the
// duration cannot be determined.
func (p *FFProbe) Duration(ctx context.Context, path string) (float64, bool) {
	result, err := probe(path)
	if err != nil {
		p.log.Warnw("could not probe video duration", "path", path, "error", err)
		return 0, false
	}

	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return seconds, true
}
