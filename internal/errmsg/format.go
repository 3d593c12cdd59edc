// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/endoreels/reelplayer/internal/validate"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Load pipeline operations
	OpPrepare  Op = "prepare clip"
	OpValidate Op = "validate clip"
	OpProbe    Op = "inspect media container"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackStop  Op = "stop playback"

	// History operations
	OpHistoryOpen   Op = "open playback history"
	OpHistoryRecord Op = "record load attempt"
	OpHistoryLoad   Op = "load recent clips"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, Describe(err))
}

// Describe maps a pipeline failure to its user-facing text. Classified
// failures get a fixed message; anything else passes through with its
// native description.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	switch validate.KindOf(err) {
	case validate.KindMissingResource:
		return "resource not found"
	case validate.KindNotPlayable:
		return "not playable on this device"
	case validate.KindNoTracks:
		return "no playable tracks"
	case validate.KindBadDuration:
		return "invalid duration"
	case validate.KindTimeout:
		return "did not become ready before the deadline"
	default:
		var verr *validate.Error
		if errors.As(err, &verr) && verr.Err != nil {
			return verr.Err.Error()
		}
		return err.Error()
	}
}
