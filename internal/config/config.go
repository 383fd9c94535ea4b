// Package config holds the render profile: encoder locations, output
// quality, and the timing policy knobs that must be explicit and
// overridable per run rather than ambient defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Encoder locates the external media toolchain.
type Encoder struct {
	FFmpegPath     string `toml:"ffmpeg_path"`
	FFprobePath    string `toml:"ffprobe_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Video controls output quality and render parallelism.
type Video struct {
	FPS     int    `toml:"fps"`
	CRF     int    `toml:"crf"`
	Preset  string `toml:"preset"`
	Workers int    `toml:"workers"`
}

// Timing controls the duration policy.
type Timing struct {
	// TransitionSeconds is the overlap window for fade/slide transitions.
	TransitionSeconds float64 `toml:"transition_seconds"`
	// DefaultTotalSeconds is the even-split total used when the script's
	// nominal durations sum to zero and no audio length is usable.
	DefaultTotalSeconds float64 `toml:"default_total_seconds"`
}

type Profile struct {
	Encoder Encoder `toml:"encoder"`
	Video   Video   `toml:"video"`
	Timing  Timing  `toml:"timing"`
}

func Default() Profile {
	return Profile{
		Encoder: Encoder{
			FFmpegPath:     "ffmpeg",
			FFprobePath:    "ffprobe",
			TimeoutSeconds: 600,
		},
		Video: Video{
			FPS:     30,
			CRF:     23,
			Preset:  "fast",
			Workers: 2,
		},
		Timing: Timing{
			TransitionSeconds:   0.5,
			DefaultTotalSeconds: 60,
		},
	}
}

// Load reads a TOML profile over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Profile, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("parse config: %w", err)
	}
	return p, p.Validate()
}

func (p Profile) Validate() error {
	if p.Video.FPS <= 0 {
		return errors.New("config: video.fps must be > 0")
	}
	if p.Video.CRF < 0 || p.Video.CRF > 51 {
		return errors.New("config: video.crf must be in 0..51")
	}
	if p.Video.Workers <= 0 {
		return errors.New("config: video.workers must be > 0")
	}
	if p.Timing.TransitionSeconds < 0 {
		return errors.New("config: timing.transition_seconds must be >= 0")
	}
	if p.Timing.DefaultTotalSeconds <= 0 {
		return errors.New("config: timing.default_total_seconds must be > 0")
	}
	if p.Encoder.TimeoutSeconds <= 0 {
		return errors.New("config: encoder.timeout_seconds must be > 0")
	}
	return nil
}
