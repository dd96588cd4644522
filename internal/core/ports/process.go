// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/testforge/internal/core/domain"
)

// ProcessRunner runs external commands with bounded time.
//
//go:generate mockgen -source=process.go -destination=mocks/mock_process.go -package=mocks
type ProcessRunner interface {
	// Run executes cmd and waits for it to finish.
	//
	// A non-zero exit status is reported through ProcessResult.ExitCode and
	// is not an error. Errors wrap domain.ErrProcessTimeout when the command
	// exceeds its timeout and domain.ErrProcessLaunch when it cannot start.
	Run(ctx context.Context, cmd domain.Command) (domain.ProcessResult, error)
}
