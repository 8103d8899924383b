package subtitle

// represents single subtitle entry
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatASS Format = "ass"
)

// Extension returns the file extension for a format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatASS:
		return ".ass"
	default:
		return ".srt"
	}
}

// Word is a sub-segment time span for a single word.
type Word struct {
	Word  string
	Start float64
	End   float64
}

// Segment is a contiguous transcribed phrase. Start/End are seconds.
// Words may be empty for sources without word-level timestamps.
type Segment struct {
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Transcription is the uniform model every caption source is normalized to
// before styling. Segments are ordered by time and consumed read-only.
type Transcription struct {
	Segments []Segment
	Language string
}
