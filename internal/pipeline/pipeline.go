// Package pipeline wires the real adapters to the usecase and owns the
// run's filesystem lifecycle: temp workspace, cleanup on every path, and
// atomic publication of the output file.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/config"
	"github.com/forPelevin/scenecast/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/scenecast/internal/usecase"
)

type Config struct {
	ScriptPath string
	AudioPath  string
	OutputPath string

	Profile config.Profile
	Log     zerolog.Logger
}

func (c Config) Validate() error {
	if c.ScriptPath == "" {
		return errors.New("script path is empty")
	}
	if _, err := os.Stat(c.ScriptPath); err != nil {
		return fmt.Errorf("stat script: %w", err)
	}
	if c.AudioPath == "" {
		return errors.New("audio path is empty")
	}
	if _, err := os.Stat(c.AudioPath); err != nil {
		return fmt.Errorf("stat audio: %w", err)
	}
	if c.OutputPath == "" {
		return errors.New("output path is empty")
	}
	return c.Profile.Validate()
}

// Run executes one complete render. On any failure the target output path
// is left untouched; intermediate segments never outlive the run.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log

	scriptText, err := os.ReadFile(cfg.ScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	// Toolchain availability is checked before any scene work.
	tool, err := ffmpeg.New(
		cfg.Profile.Encoder.FFmpegPath,
		cfg.Profile.Encoder.FFprobePath,
		time.Duration(cfg.Profile.Encoder.TimeoutSeconds)*time.Second,
		log,
	)
	if err != nil {
		return err
	}

	workDir := filepath.Join(os.TempDir(), "scenecast-"+uuid.NewString())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", workDir).Msg("workspace cleanup failed")
		}
	}()
	log.Debug().Str("dir", workDir).Msg("workspace ready")

	// Compose into the target directory under a temp name so a partial
	// file never sits at the output path.
	stagedOut := filepath.Join(filepath.Dir(cfg.OutputPath),
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(cfg.OutputPath), uuid.NewString()[:8]))
	defer os.Remove(stagedOut)

	uc := usecase.New(usecase.Deps{Tool: tool, Log: log})
	res, err := uc.Run(ctx, usecase.Input{
		ScriptText:        string(scriptText),
		AudioPath:         cfg.AudioPath,
		OutPath:           stagedOut,
		WorkDir:           workDir,
		FallbackTotal:     secondsDuration(cfg.Profile.Timing.DefaultTotalSeconds),
		TransitionOverlap: secondsDuration(cfg.Profile.Timing.TransitionSeconds),
		FPS:               cfg.Profile.Video.FPS,
		CRF:               cfg.Profile.Video.CRF,
		Preset:            cfg.Profile.Video.Preset,
		Workers:           cfg.Profile.Video.Workers,
	})
	if err != nil {
		return err
	}

	if err := os.Rename(stagedOut, cfg.OutputPath); err != nil {
		return fmt.Errorf("publish output: %w", err)
	}

	log.Info().
		Int("scenes", len(res.Scenes)).
		Dur("duration", res.AudioDuration).
		Str("output", cfg.OutputPath).
		Msg("video generation complete")
	return nil
}

func secondsDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
