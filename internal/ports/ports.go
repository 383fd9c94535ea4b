package ports

import (
	"context"
	"fmt"
	"time"
)

// MediaTool is the narrow capability this core needs from the external
// audio/video toolchain: measure a file's duration and run one encode.
// Implementations must capture subprocess output fully and must never
// retry on their own.
type MediaTool interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	Encode(ctx context.Context, args []string) error
}

// EncoderUnavailableError reports that a required external binary is not
// installed or not executable.
type EncoderUnavailableError struct {
	Tool string
	Err  error
}

func (e *EncoderUnavailableError) Error() string {
	return fmt.Sprintf("%s is not available: %v", e.Tool, e.Err)
}

func (e *EncoderUnavailableError) Unwrap() error { return e.Err }

// ProbeError reports a duration probe that started but failed.
type ProbeError struct {
	Path   string
	Stderr string
	Err    error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// EncodeError reports an encoder invocation that exited non-zero or
// timed out.
type EncodeError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode failed (exit %d): %v", e.ExitCode, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
