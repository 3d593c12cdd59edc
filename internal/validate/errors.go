package validate

import (
	"errors"
	"fmt"
)

// Kind classifies why a clip failed validation or playback. The set is
// closed: every failure surfaced by the pipeline maps to exactly one Kind.
type Kind int

const (
	// KindUnknown passes an underlying platform error through unchanged.
	KindUnknown Kind = iota
	// KindMissingResource means the locator does not resolve to a file.
	KindMissingResource
	// KindNotPlayable means the container could not be decoded.
	KindNotPlayable
	// KindNoTracks means no decodable video stream was found.
	KindNoTracks
	// KindBadDuration means the duration is non-finite or effectively zero.
	KindBadDuration
	// KindTimeout means the readiness deadline elapsed first.
	KindTimeout
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissingResource:
		return "MissingResource"
	case KindNotPlayable:
		return "NotPlayable"
	case KindNoTracks:
		return "NoTracks"
	case KindBadDuration:
		return "BadDuration"
	case KindTimeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is a classified validation or playback failure. Use KindOf to
// recover the Kind from a wrapped error chain.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError creates a classified error for path, optionally wrapping a cause.
func NewError(kind Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

// KindOf extracts the Kind from err, or KindUnknown if err carries none.
func KindOf(err error) Kind {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return KindUnknown
}
