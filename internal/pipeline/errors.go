package pipeline

import "errors"

var (
	// ErrMissingTarget indicates incomplete sync target configuration.
	ErrMissingTarget = errors.New("sync target configuration incomplete")
	// ErrInvalidSince indicates an unparseable since bound.
	ErrInvalidSince = errors.New("invalid since timestamp")
	// ErrSourceRead indicates the document source query failed.
	ErrSourceRead = errors.New("document source read failed")
)

// RunErrorKind classifies fatal run failures for transport-specific mapping.
type RunErrorKind string

const (
	// RunErrorUnknown is used when error is nil or not classified.
	RunErrorUnknown RunErrorKind = "unknown"
	// RunErrorConfig indicates missing target configuration.
	RunErrorConfig RunErrorKind = "config"
	// RunErrorValidation indicates malformed run options.
	RunErrorValidation RunErrorKind = "validation"
	// RunErrorSourceRead indicates a document source read failure.
	RunErrorSourceRead RunErrorKind = "source_read"
)

// ClassifyRunError classifies a returned run error.
func ClassifyRunError(err error) RunErrorKind {
	switch {
	case err == nil:
		return RunErrorUnknown
	case errors.Is(err, ErrMissingTarget):
		return RunErrorConfig
	case errors.Is(err, ErrInvalidSince):
		return RunErrorValidation
	case errors.Is(err, ErrSourceRead):
		return RunErrorSourceRead
	default:
		return RunErrorUnknown
	}
}
