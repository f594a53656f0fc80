package gcm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Step is one external collaborator invocation. Steps with CheckExit unset
// surface a non-zero exit only through the log, never as an error; the
// formatter relies on this.
type Step struct {
	Name      string
	Path      string
	Args      []string
	CheckExit bool
}

// Runner executes external steps synchronously inside a fixed working
// directory, classifying failures without crashing the process.
type Runner struct {
	Dir     string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Run invokes the step and waits for it to exit. Failures come back as
// ErrExecutableNotFound, *TimeoutError or *NonZeroExitError.
func (r *Runner) Run(ctx context.Context, step Step) error {
	cancel := func() {}
	if r.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, step.Path, step.Args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.Logger.Info().
		Str("step", step.Name).
		Str("executable", step.Path).
		Strs("args", step.Args).
		Msg("step started")

	err := cmd.Run()
	if err == nil {
		r.Logger.Info().Str("step", step.Name).Msg("step completed")
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		r.Logger.Error().Str("step", step.Name).Str("executable", step.Path).
			Msg("step failed: executable could not be found")
		return fmt.Errorf("step %s: %s: %w", step.Name, step.Path, ErrExecutableNotFound)
	}
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		r.Logger.Error().Str("step", step.Name).Dur("timeout", r.Timeout).
			Msg("step timed out")
		return &TimeoutError{Step: step.Name, Timeout: r.Timeout}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if !step.CheckExit {
			r.Logger.Warn().Str("step", step.Name).Int("exit_code", code).
				Str("stderr", tailOf(stderr.Bytes())).
				Msg("step exited non-zero, continuing")
			return nil
		}
		r.Logger.Error().Str("step", step.Name).Int("exit_code", code).
			Str("stderr", tailOf(stderr.Bytes())).
			Msg("step failed: non-zero exit")
		return &NonZeroExitError{Step: step.Name, Code: code}
	}
	return fmt.Errorf("step %s: %w", step.Name, err)
}

// tailOf keeps diagnostics bounded when a collaborator is chatty on stderr.
func tailOf(b []byte) string {
	const max = 512
	b = bytes.TrimSpace(b)
	if len(b) > max {
		b = b[len(b)-max:]
	}
	return string(b)
}
