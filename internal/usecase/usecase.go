// Package usecase runs the scene pipeline: parse, reconcile timing against
// the narration audio, classify visuals, render segments, compose.
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/compose"
	"github.com/forPelevin/scenecast/internal/domain/script"
	"github.com/forPelevin/scenecast/internal/domain/timing"
	"github.com/forPelevin/scenecast/internal/domain/visual"
	"github.com/forPelevin/scenecast/internal/ports"
	"github.com/forPelevin/scenecast/internal/render"
	"github.com/forPelevin/scenecast/internal/types"
)

type Deps struct {
	Tool ports.MediaTool
	Log  zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	ScriptText string
	AudioPath  string
	// OutPath receives the complete muxed file. The caller owns atomic
	// publication to the user-visible target.
	OutPath string
	// WorkDir holds intermediate segments for this run.
	WorkDir string

	FallbackTotal     time.Duration
	TransitionOverlap time.Duration
	FPS               int
	CRF               int
	Preset            string
	Workers           int
}

type Result struct {
	Scenes        []types.Scene
	AudioDuration time.Duration
	SegmentCount  int
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	scenes, err := script.Parse(in.ScriptText)
	if err != nil {
		return Result{}, err
	}
	log.Info().Int("scenes", len(scenes)).Msg("script parsed")

	// Timing is governed by the measured audio, never by the script's
	// nominal estimates. A probe failure is fatal before any render.
	audioDuration, err := u.d.Tool.ProbeDuration(ctx, in.AudioPath)
	if err != nil {
		return Result{}, err
	}
	log.Info().Dur("audio", audioDuration).Msg("narration audio probed")

	scenes, fellBack := timing.Reconcile(scenes, audioDuration, in.FallbackTotal)
	if fellBack {
		log.Warn().Msg("nominal durations sum to zero, splitting time evenly across scenes")
	}

	for i := range scenes {
		c := visual.Classify(scenes[i].Visual)
		scenes[i].Strategy = c.Strategy
		scenes[i].Entities = c.Entities
		log.Debug().
			Int("scene", scenes[i].Index).
			Str("strategy", string(c.Strategy)).
			Dur("duration", scenes[i].Duration).
			Msg("scene classified")
	}

	renderer := render.New(u.d.Tool, render.Options{
		FPS:     in.FPS,
		CRF:     in.CRF,
		Preset:  in.Preset,
		Workers: in.Workers,
	}, log)
	segments, err := renderer.RenderAll(ctx, scenes, in.WorkDir)
	if err != nil {
		return Result{}, err
	}

	width, height := scenes[0].Ratio.Resolution()
	compositor := compose.New(u.d.Tool, compose.Options{
		Overlap: in.TransitionOverlap,
		Width:   width,
		Height:  height,
		FPS:     in.FPS,
		CRF:     in.CRF,
		Preset:  in.Preset,
	}, log)
	if err := compositor.Compose(ctx, segments, in.AudioPath, audioDuration, in.OutPath); err != nil {
		return Result{}, err
	}

	return Result{
		Scenes:        scenes,
		AudioDuration: audioDuration,
		SegmentCount:  len(segments),
	}, nil
}
