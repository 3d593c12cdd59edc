// Command probeclip validates a clip the way the player would, without
// starting playback. Useful for checking exports before review sessions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/config"
	"github.com/endoreels/reelplayer/internal/errmsg"
	"github.com/endoreels/reelplayer/internal/history"
	"github.com/endoreels/reelplayer/internal/probe"
	"github.com/endoreels/reelplayer/internal/validate"
)

func main() {
	recent := flag.Bool("recent", false, "list recently played clips and exit")
	timeout := flag.Duration("timeout", 0, "validation deadline (default from config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpInitialize, err))
		os.Exit(1)
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if *recent {
		os.Exit(listRecent(cfg, log))
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: probeclip [-timeout 5s] <clip>")
		os.Exit(2)
	}
	locator := flag.Arg(0)

	deadline := *timeout
	if deadline <= 0 {
		deadline = cfg.LoadTimeout()
	}
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	v := validate.New(&probe.FFProbe{Binary: cfg.FFprobe}, log)
	started := time.Now()
	clip, err := v.Validate(ctx, locator)
	if err != nil {
		if ctx.Err() != nil {
			err = validate.NewError(validate.KindTimeout, locator, nil)
		}
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpValidate, err))
		os.Exit(1)
	}

	fmt.Printf("%s\n", clip.Title())
	fmt.Printf("  duration  %s\n", clip.Duration.Round(time.Millisecond))
	fmt.Printf("  video     %s, %dx%d", clip.VideoCodec, int(clip.Geometry.Width), int(clip.Geometry.Height))
	if clip.Geometry.Portrait() {
		fmt.Printf(" (portrait)")
	}
	fmt.Println()
	fmt.Printf("  streams   %d video, %d audio\n", clip.VideoStreams, clip.AudioStreams)
	if clip.SizeBytes > 0 {
		fmt.Printf("  size      %s\n", humanize.Bytes(uint64(clip.SizeBytes)))
	}
	fmt.Printf("  validated in %s\n", time.Since(started).Round(time.Millisecond))
}

func listRecent(cfg *config.Config, log zerolog.Logger) int {
	hcfg := cfg.GetHistoryConfig()
	if hcfg.Disabled {
		fmt.Fprintln(os.Stderr, "history is disabled in config")
		return 1
	}

	journal, err := history.Open(hcfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpHistoryOpen, err))
		return 1
	}
	defer journal.Close()

	clips, err := journal.RecentClips(0)
	if err != nil {
		fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpHistoryLoad, err))
		return 1
	}
	if len(clips) == 0 {
		fmt.Println("no clips played yet")
		return 0
	}

	log.Debug().Int("count", len(clips)).Msg("loaded recent clips")
	for _, c := range clips {
		fmt.Printf("%-40s  %8s  played %dx, %s\n",
			c.Title,
			c.ClipDuration.Round(time.Second),
			c.PlayCount,
			humanize.Time(c.LastPlayedAt))
	}
	return 0
}
