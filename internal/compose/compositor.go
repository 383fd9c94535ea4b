// Package compose stitches rendered segments with transitions, muxes in
// the narration track, and validates that the final file matches the
// audio duration.
package compose

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/ports"
	"github.com/forPelevin/scenecast/internal/types"
)

// DriftError means the final duration landed outside tolerance after all
// corrective measures. That is a logic bug in timing bookkeeping, never a
// transient condition worth retrying.
type DriftError struct {
	Got       time.Duration
	Want      time.Duration
	Tolerance time.Duration
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("output duration %s drifts from audio duration %s beyond tolerance %s", e.Got, e.Want, e.Tolerance)
}

type Options struct {
	// Overlap is the transition window; each overlapping transition
	// shortens the stitched timeline by this much.
	Overlap time.Duration
	// Width/Height normalize every segment before stitching.
	Width, Height int
	FPS           int
	CRF           int
	Preset        string
}

func (o *Options) applyDefaults() {
	if o.Overlap <= 0 {
		o.Overlap = 500 * time.Millisecond
	}
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.CRF <= 0 {
		o.CRF = 23
	}
	if o.Preset == "" {
		o.Preset = "fast"
	}
}

type Compositor struct {
	tool ports.MediaTool
	opts Options
	log  zerolog.Logger
}

func New(tool ports.MediaTool, opts Options, log zerolog.Logger) *Compositor {
	opts.applyDefaults()
	return &Compositor{
		tool: tool,
		opts: opts,
		log:  log.With().Str("component", "compose").Logger(),
	}
}

func (c *Compositor) tolerance() time.Duration {
	return time.Second / time.Duration(c.opts.FPS)
}

// Compose builds one encoder invocation that joins the segments with their
// requested transitions and muxes the narration audio, then verifies the
// result. The last segment is padded (or trimmed) inside the graph by the
// accumulated transition overlap so the output never ends with a silent or
// frozen tail.
func (c *Compositor) Compose(ctx context.Context, segments []types.Segment, audioPath string, audioDuration time.Duration, outPath string) error {
	if len(segments) == 0 {
		return fmt.Errorf("compose: no segments")
	}

	durations := make([]time.Duration, len(segments))
	for i, seg := range segments {
		durations[i] = seg.Duration
	}

	// The stitched timeline loses one overlap per overlapping transition.
	// Pre-stretch the last segment by the resulting deficit so the final
	// length equals the audio length.
	stitched := timelineLength(segments, c.opts.Overlap)
	deficit := audioDuration - stitched
	durations[len(durations)-1] += deficit
	if durations[len(durations)-1] <= 0 {
		return &DriftError{Got: stitched, Want: audioDuration, Tolerance: c.tolerance()}
	}

	graph, finalLabel := c.buildGraph(segments, durations, deficit)

	args := make([]string, 0, 4*len(segments)+16)
	for _, seg := range segments {
		args = append(args, "-i", seg.Path)
	}
	args = append(args,
		"-i", audioPath,
		"-filter_complex", graph,
		"-map", finalLabel,
		"-map", fmt.Sprintf("%d:a", len(segments)),
		"-c:v", "libx264",
		"-preset", c.opts.Preset,
		"-crf", fmt.Sprintf("%d", c.opts.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		outPath,
	)

	c.log.Info().Int("segments", len(segments)).Dur("audio", audioDuration).Msg("compositing final video")
	if err := c.tool.Encode(ctx, args); err != nil {
		return fmt.Errorf("compose: %w", err)
	}

	got, err := c.tool.ProbeDuration(ctx, outPath)
	if err != nil {
		return fmt.Errorf("compose: verify output: %w", err)
	}
	if diff := got - audioDuration; diff > c.tolerance() || diff < -c.tolerance() {
		return &DriftError{Got: got, Want: audioDuration, Tolerance: c.tolerance()}
	}
	return nil
}

// timelineLength is the stitched duration before last-segment correction.
func timelineLength(segments []types.Segment, overlap time.Duration) time.Duration {
	var total time.Duration
	for i, seg := range segments {
		total += seg.Duration
		if i < len(segments)-1 && seg.Exit != types.TransitionCut {
			total -= overlap
		}
	}
	return total
}

// buildGraph emits the filter_complex description: per-input normalization,
// last-segment pad/trim, then a left fold of xfade/concat joins.
func (c *Compositor) buildGraph(segments []types.Segment, durations []time.Duration, deficit time.Duration) (graph, finalLabel string) {
	var b strings.Builder
	n := len(segments)

	for i := range segments {
		fmt.Fprintf(&b, "[%d:v]scale=%d:%d,setsar=1,fps=%d", i, c.opts.Width, c.opts.Height, c.opts.FPS)
		if i == n-1 && deficit != 0 {
			if deficit > 0 {
				// Clone-pad the tail rather than freezing on mux.
				fmt.Fprintf(&b, ",tpad=stop_mode=clone:stop_duration=%.3f", deficit.Seconds())
			} else {
				fmt.Fprintf(&b, ",trim=duration=%.3f,setpts=PTS-STARTPTS", durations[i].Seconds())
			}
		}
		fmt.Fprintf(&b, "[s%d];", i)
	}

	if n == 1 {
		return strings.TrimSuffix(b.String(), ";"), "[s0]"
	}

	overlap := c.opts.Overlap
	prev := "[s0]"
	elapsed := durations[0]
	for i := 1; i < n; i++ {
		out := fmt.Sprintf("[v%d]", i)
		switch segments[i-1].Exit {
		case types.TransitionCut:
			fmt.Fprintf(&b, "%s[s%d]concat=n=2:v=1:a=0%s;", prev, i, out)
			elapsed += durations[i]
		case types.TransitionSlide:
			fmt.Fprintf(&b, "%s[s%d]xfade=transition=slideleft:duration=%.3f:offset=%.3f%s;",
				prev, i, overlap.Seconds(), (elapsed - overlap).Seconds(), out)
			elapsed += durations[i] - overlap
		default:
			fmt.Fprintf(&b, "%s[s%d]xfade=transition=fade:duration=%.3f:offset=%.3f%s;",
				prev, i, overlap.Seconds(), (elapsed - overlap).Seconds(), out)
			elapsed += durations[i] - overlap
		}
		prev = out
	}
	return strings.TrimSuffix(b.String(), ";"), prev
}
