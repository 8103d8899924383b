package caption

import (
	"errors"
	"fmt"

	"github.com/capkit/capkit/internal/ass"
)

// ValidationError rejects a malformed request before any work is done:
// bad settings types, invalid or inverted exclude ranges, missing inputs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// FormatError covers caption-content problems: unparseable SRT, or a
// non-classic style requested for an SRT source.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string { return e.Message }

func formatErrorf(format string, args ...any) *FormatError {
	return &FormatError{Message: fmt.Sprintf(format, args...)}
}

// SourceRetrievalError covers caption/video fetch failures. The message is
// surfaced; no font list is ever attached.
type SourceRetrievalError struct {
	Err error
}

func (e *SourceRetrievalError) Error() string { return e.Err.Error() }
func (e *SourceRetrievalError) Unwrap() error { return e.Err }

// PersistenceError covers output write failures.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// ErrorResponse is the structured failure payload surfaced to callers.
// AvailableFonts is present only for font-resolution failures.
type ErrorResponse struct {
	Error          string   `json:"error"`
	AvailableFonts []string `json:"available_fonts,omitempty"`
}

// AsResponse converts any pipeline error into the single structured error
// reported per request.
func AsResponse(err error) ErrorResponse {
	var fontErr *ass.FontUnavailableError
	if errors.As(err, &fontErr) {
		return ErrorResponse{
			Error:          fontErr.Error(),
			AvailableFonts: fontErr.Available,
		}
	}
	return ErrorResponse{Error: err.Error()}
}
