package caption

import (
	"strings"

	"github.com/capkit/capkit/internal/subtitle"
)

// SourceKind classifies raw caption input. Classification happens exactly
// once at request entry; later stages switch on the kind instead of
// re-inspecting content.
type SourceKind int

const (
	// no content supplied; transcription collaborator produces the model
	SourceNone SourceKind = iota
	// pre-built ASS, passed through unmodified
	SourceASS
	// valid SRT; converted to the transcription model, classic style only
	SourceSRT
	// anything else; one segment spanning the whole video
	SourcePlainText
)

func (k SourceKind) String() string {
	switch k {
	case SourceASS:
		return "ass"
	case SourceSRT:
		return "srt"
	case SourcePlainText:
		return "text"
	default:
		return "none"
	}
}

const scriptInfoMarker = "[Script Info]"

// Source is the resolved caption input: a kind tag plus the raw content.
type Source struct {
	Kind    SourceKind
	Content string
}

// ClassifySource resolves raw caption content into a Source. First match
// wins: ASS marker, then SRT grammar, then non-empty plain text, then none.
func ClassifySource(content string) Source {
	if strings.TrimSpace(content) == "" {
		return Source{Kind: SourceNone}
	}
	if strings.Contains(content, scriptInfoMarker) {
		return Source{Kind: SourceASS, Content: content}
	}
	if subtitle.IsSRT(content) {
		return Source{Kind: SourceSRT, Content: content}
	}
	return Source{Kind: SourcePlainText, Content: content}
}
