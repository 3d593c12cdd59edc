// Package media holds the domain types shared by the readiness pipeline:
// the validated clip handle and its display geometry.
package media

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Clip is the proof-of-playability handle produced by a successful
// validation pass. It is immutable once created and is handed from the
// validator to the loader to the session owner, never held by two at once.
type Clip struct {
	// ID identifies this validation pass, not the file. A re-validation of
	// the same path yields a fresh ID.
	ID uuid.UUID

	Path     string
	Duration time.Duration
	Geometry Geometry

	VideoCodec   string
	VideoStreams int
	AudioStreams int
	SizeBytes    int64
}

// Title returns a short display name for the clip.
func (c *Clip) Title() string {
	if c == nil {
		return ""
	}
	return filepath.Base(c.Path)
}
