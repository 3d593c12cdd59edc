// Package probe inspects media containers on local storage using ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Prober defines the media inspection contract for dependency injection and testing.
type Prober interface {
	// Probe inspects the container at path and returns its parsed metadata.
	// A non-nil error means the container could not be decoded at all.
	Probe(ctx context.Context, path string) (Result, error)
}

// Result is the parsed output of a single container inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream inside the container.
type Stream struct {
	Index       int        `json:"index"`
	CodecName   string     `json:"codec_name"`
	CodecType   string     `json:"codec_type"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Duration    string     `json:"duration"`
	SideData    []SideData `json:"side_data_list"`
	Disposition struct {
		AttachedPic int `json:"attached_pic"`
	} `json:"disposition"`
}

// SideData carries per-stream side data; only rotation is used here.
type SideData struct {
	Rotation int `json:"rotation"`
}

// Format carries container-level metadata.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// FFProbe runs the ffprobe binary. The zero value uses "ffprobe" from PATH.
type FFProbe struct {
	Binary string
}

// Verify FFProbe implements Prober at compile time.
var _ Prober = (*FFProbe)(nil)

// Probe executes ffprobe against path and decodes the JSON response.
// The context cancels the child process.
func (f *FFProbe) Probe(ctx context.Context, path string) (Result, error) {
	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("probe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams",
		"-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("probe %s: %w: %s", path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("probe parse: %w", err)
	}
	return result, nil
}

// Playable reports whether the container decoded to something a player
// could consume: a recognized format with at least one stream.
func (r Result) Playable() bool {
	return r.Format.FormatName != "" && len(r.Streams) > 0
}

// DurationSeconds returns the container duration in seconds, or NaN when
// the reported value is missing or malformed.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// VideoStreams returns the decodable video streams, excluding attached
// pictures (cover art is a video stream to ffprobe but not playable).
func (r Result) VideoStreams() []Stream {
	var streams []Stream
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, "video") && s.Disposition.AttachedPic == 0 {
			streams = append(streams, s)
		}
	}
	return streams
}

// SizeBytes returns the reported container size, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// Rotation returns the rotation in degrees recorded in the stream's side
// data, normalized to [0, 360).
func (s Stream) Rotation() int {
	for _, sd := range s.SideData {
		if sd.Rotation != 0 {
			r := sd.Rotation % 360
			if r < 0 {
				r += 360
			}
			return r
		}
	}
	return 0
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return math.NaN()
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return parsed
}
