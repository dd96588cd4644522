// Package process runs external commands with bounded time and captured output.
package process

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long Wait blocks on output pipes after the process is killed.
const waitDelay = 2 * time.Second

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes c and captures its stdout, stderr and exit status.
func (r *Runner) Run(ctx context.Context, c domain.Command) (domain.ProcessResult, error) {
	if c.Name == "" {
		return domain.ProcessResult{}, domain.ErrEmptyCommand
	}

	runCtx, cancel := withTimeout(ctx, c.Timeout)
	defer cancel()

	env := resolveEnvironment(os.Environ(), c.Env)

	executable := c.Name
	if !strings.ContainsRune(c.Name, filepath.Separator) {
		lp, err := lookPath(c.Name, env)
		if err != nil {
			return domain.ProcessResult{}, launchError(c, err)
		}
		executable = lp
	}

	cmd := exec.CommandContext(runCtx, executable, c.Args...) //nolint:gosec // commands come from project configuration
	cmd.Args[0] = c.Name
	cmd.Dir = c.Dir
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.Stream && r.logger != nil {
		stdoutLog := &logWriter{logger: r.logger, level: "info"}
		stderrLog := &logWriter{logger: r.logger, level: "warn"}
		defer func() {
			_ = stdoutLog.Close()
			_ = stderrLog.Close()
		}()
		cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
		cmd.Stderr = io.MultiWriter(&stderr, stderrLog)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return domain.ProcessResult{}, launchError(c, err)
	}
	waitErr := cmd.Wait()

	result := domain.ProcessResult{
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		return result, zerr.With(zerr.Wrap(ctx.Err(), "command interrupted"), "command", c.Name)
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		err := zerr.With(errors.Join(domain.ErrProcessTimeout, runCtx.Err()), "command", c.Name)
		return result, zerr.With(err, "timeout", c.Timeout.String())
	case waitErr != nil:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return result, nil
		}
		return result, zerr.With(zerr.Wrap(waitErr, "command failed"), "command", c.Name)
	}

	return result, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func launchError(c domain.Command, err error) error {
	return zerr.With(errors.Join(domain.ErrProcessLaunch, err), "command", c.Name)
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}

// resolveEnvironment overlays overrides on the inherited environment.
// The result is sorted so identical inputs always produce the same slice.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
