// Package render produces one video segment per scene by driving the
// external encoder with a strategy-specific filter graph.
package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/ports"
	"github.com/forPelevin/scenecast/internal/types"
)

// RenderError is a fatal per-scene encode failure. No degraded segment is
// ever substituted; the caller learns exactly which scene failed.
type RenderError struct {
	SceneIndex int
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render scene %d: %v", e.SceneIndex, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

type Options struct {
	FPS     int
	CRF     int
	Preset  string
	Workers int
}

func (o *Options) applyDefaults() {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.CRF <= 0 {
		o.CRF = 23
	}
	if o.Preset == "" {
		o.Preset = "fast"
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
}

type Renderer struct {
	tool ports.MediaTool
	opts Options
	log  zerolog.Logger
}

func New(tool ports.MediaTool, opts Options, log zerolog.Logger) *Renderer {
	opts.applyDefaults()
	return &Renderer{
		tool: tool,
		opts: opts,
		log:  log.With().Str("component", "render").Logger(),
	}
}

// FrameInterval is the timing tolerance of the whole pipeline: one frame.
func (r *Renderer) FrameInterval() time.Duration {
	return time.Second / time.Duration(r.opts.FPS)
}

// RenderScene encodes one scene into outPath. The segment duration is
// pinned to the scene's reconciled duration and verified with a probe.
func (r *Renderer) RenderScene(ctx context.Context, sc types.Scene, outPath string) (types.Segment, error) {
	if sc.Duration <= 0 {
		return types.Segment{}, &RenderError{SceneIndex: sc.Index, Err: fmt.Errorf("scene has no reconciled duration")}
	}

	width, height := sc.Ratio.Resolution()
	durSec := sc.Duration.Seconds()
	th := themeFor(sc.Video.Background)

	args := []string{
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:r=%d:d=%.3f", th.background, width, height, r.opts.FPS, durSec),
		"-vf", buildSceneFilter(sc, width, height, r.opts.FPS, durSec),
		"-t", fmt.Sprintf("%.3f", durSec),
		"-r", fmt.Sprintf("%d", r.opts.FPS),
		"-c:v", "libx264",
		"-preset", r.opts.Preset,
		"-crf", fmt.Sprintf("%d", r.opts.CRF),
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}

	r.log.Debug().Int("scene", sc.Index).Str("strategy", string(sc.Strategy)).Dur("duration", sc.Duration).Msg("rendering scene")
	if err := r.tool.Encode(ctx, args); err != nil {
		return types.Segment{}, &RenderError{SceneIndex: sc.Index, Err: err}
	}

	got, err := r.tool.ProbeDuration(ctx, outPath)
	if err != nil {
		return types.Segment{}, &RenderError{SceneIndex: sc.Index, Err: err}
	}
	if diff := got - sc.Duration; diff > r.FrameInterval() || diff < -r.FrameInterval() {
		return types.Segment{}, &RenderError{
			SceneIndex: sc.Index,
			Err:        fmt.Errorf("segment duration %s differs from requested %s by more than one frame", got, sc.Duration),
		}
	}

	return types.Segment{
		SceneIndex: sc.Index,
		Path:       outPath,
		Duration:   got,
		Exit:       parseTransition(sc.TransitionNext),
	}, nil
}

// RenderAll renders every scene across a bounded worker pool. Renders are
// independent given their (scene, duration) inputs, so parallelism is
// safe; the returned segments still follow scene order. On failure the
// lowest-indexed scene error is reported.
func (r *Renderer) RenderAll(ctx context.Context, scenes []types.Scene, dir string) ([]types.Segment, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	segments := make([]types.Segment, len(scenes))
	errs := make([]error, len(scenes))
	sem := make(chan struct{}, r.opts.Workers)

	var wg sync.WaitGroup
	for i, sc := range scenes {
		wg.Add(1)
		go func(i int, sc types.Scene) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			}
			out := filepath.Join(dir, fmt.Sprintf("segment_%03d.mp4", sc.Index))
			seg, err := r.RenderScene(ctx, sc, out)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			segments[i] = seg
		}(i, sc)
	}
	wg.Wait()

	// Siblings cancelled by a failure report context errors; prefer the
	// real render failure with the lowest scene index.
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		var re *RenderError
		if errors.As(err, &re) {
			return nil, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return segments, nil
}

func parseTransition(text string) types.Transition {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "slide"):
		return types.TransitionSlide
	case strings.Contains(lower, "cut") || strings.Contains(lower, "hard"):
		return types.TransitionCut
	default:
		return types.TransitionFade
	}
}
