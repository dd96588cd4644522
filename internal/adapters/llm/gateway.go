// Package llm talks to a local model runner through its command line.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Gateway implements ports.LLMGateway by piping prompts into `<runner> run <model>`.
type Gateway struct {
	runner  ports.ProcessRunner
	logger  ports.Logger
	command string
	model   string
	timeout time.Duration
}

// NewGateway creates a Gateway for the runner and model named by tc.
func NewGateway(runner ports.ProcessRunner, logger ports.Logger, tc domain.Toolchain) *Gateway {
	return &Gateway{
		runner:  runner,
		logger:  logger,
		command: tc.LLMRunner,
		model:   tc.Model,
		timeout: tc.LLMTimeout,
	}
}

// Ask sends prompt to the model and returns its standard output.
// A runner that exits non-zero yields an empty answer; its stderr is logged.
func (g *Gateway) Ask(ctx context.Context, prompt string) (string, error) {
	res, err := g.runner.Run(ctx, domain.Command{
		Name:    g.command,
		Args:    []string{"run", g.model},
		Stdin:   prompt,
		Timeout: g.timeout,
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "model request failed"), "model", g.model)
	}

	if !res.Succeeded() {
		msg := fmt.Sprintf("%s exited with status %d", g.command, res.ExitCode)
		if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		g.logger.Warn(msg)
		return "", nil
	}

	return res.Stdout, nil
}
