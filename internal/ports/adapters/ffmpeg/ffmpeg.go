package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/scenecast/internal/ports"
)

// Adapter invokes ffmpeg and ffprobe as subprocesses. Both binaries are
// resolved once at construction so a missing toolchain is reported before
// any scene work starts.
type Adapter struct {
	ffmpeg  string
	ffprobe string
	timeout time.Duration
	log     zerolog.Logger
}

var _ ports.MediaTool = (*Adapter)(nil)

func New(ffmpegPath, ffprobePath string, timeout time.Duration, log zerolog.Logger) (*Adapter, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	resolvedFFmpeg, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, &ports.EncoderUnavailableError{Tool: ffmpegPath, Err: err}
	}
	resolvedFFprobe, err := exec.LookPath(ffprobePath)
	if err != nil {
		return nil, &ports.EncoderUnavailableError{Tool: ffprobePath, Err: err}
	}

	return &Adapter{
		ffmpeg:  resolvedFFmpeg,
		ffprobe: resolvedFFprobe,
		timeout: timeout,
		log:     log.With().Str("component", "ffmpeg").Logger(),
	}, nil
}

// ProbeDuration measures a media file's total duration without decoding it.
func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", a.timeout, err)
		}
		return 0, &ports.ProbeError{Path: path, Stderr: stderr.String(), Err: err}
	}

	s := strings.TrimSpace(stdout.String())
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ports.ProbeError{Path: path, Stderr: stderr.String(), Err: fmt.Errorf("parse duration %q: %w", s, err)}
	}
	return time.Duration(sec * float64(time.Second)), nil
}

// Encode runs one ffmpeg invocation to completion. Output is captured
// fully; a non-zero exit is always surfaced to the caller and never
// retried here.
func (a *Adapter) Encode(ctx context.Context, args []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	a.log.Debug().Strs("args", full).Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, a.ffmpeg, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var xerr *exec.ExitError
		if errors.As(err, &xerr) {
			exitCode = xerr.ExitCode()
		}
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", a.timeout, err)
		}
		return &ports.EncodeError{ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	return nil
}

func (a *Adapter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}
