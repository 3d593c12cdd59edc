// Package validate decides whether a media locator resolves to a clip the
// playback pipeline can actually use.
package validate

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/media"
	"github.com/endoreels/reelplayer/internal/probe"
)

// minDuration is the shortest duration considered playable. Containers
// reporting at or below this are treated as broken, not short.
const minDuration = 10 * time.Millisecond

// Validator checks that a locator points at a structurally loadable clip.
// It owns no playback resources; a successful run produces an immutable
// media.Clip for the caller to hand off.
type Validator struct {
	prober probe.Prober
	log    zerolog.Logger
}

// New creates a validator backed by the given prober.
func New(p probe.Prober, log zerolog.Logger) *Validator {
	return &Validator{prober: p, log: log}
}

// Validate runs the ordered structural checks against locator, stopping at
// the first failure:
//
//  1. the file must exist (KindMissingResource)
//  2. the container must decode (KindNotPlayable)
//  3. the duration must be finite and above minDuration (KindBadDuration)
//  4. at least one decodable video stream must exist (KindNoTracks)
//
// Display geometry is computed for downstream consumers but never fails
// validation; degenerate values are coerced to a safe fallback.
//
// Cancellation is cooperative: when ctx is cancelled Validate returns
// ctx.Err() and nothing else. Callers treat that as silence, not failure.
func (v *Validator) Validate(ctx context.Context, locator string) (*media.Clip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(locator); err != nil {
		if os.IsNotExist(err) {
			return nil, NewError(KindMissingResource, locator, nil)
		}
		return nil, NewError(KindMissingResource, locator, err)
	}

	result, err := v.prober.Probe(ctx, locator)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, NewError(KindNotPlayable, locator, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !result.Playable() {
		return nil, NewError(KindNotPlayable, locator, nil)
	}

	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= minDuration.Seconds() {
		return nil, NewError(KindBadDuration, locator, nil)
	}

	videos := result.VideoStreams()
	if len(videos) == 0 {
		return nil, NewError(KindNoTracks, locator, nil)
	}

	primary := videos[0]
	geom := media.ComposeGeometry(float64(primary.Width), float64(primary.Height), primary.Rotation())

	clip := &media.Clip{
		ID:           uuid.New(),
		Path:         locator,
		Duration:     time.Duration(seconds * float64(time.Second)),
		Geometry:     geom,
		VideoCodec:   primary.CodecName,
		VideoStreams: len(videos),
		AudioStreams: countAudio(result),
		SizeBytes:    result.SizeBytes(),
	}

	v.log.Debug().
		Str("path", locator).
		Dur("duration", clip.Duration).
		Str("codec", clip.VideoCodec).
		Int("video_streams", clip.VideoStreams).
		Msg("clip validated")

	return clip, nil
}

func countAudio(r probe.Result) int {
	count := 0
	for _, s := range r.Streams {
		if s.CodecType == "audio" {
			count++
		}
	}
	return count
}
