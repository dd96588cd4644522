package ports

import (
	"context"

	"go.trai.ch/testforge/internal/core/domain"
)

// Builder compiles the current artifact set and runs the resulting tests.
//
//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks
type Builder interface {
	Build(ctx context.Context, corpus *domain.Corpus) (domain.BuildResult, error)
}

// Repairer regenerates the artifacts that took part in a failing build.
type Repairer interface {
	Repair(ctx context.Context, failed domain.BuildResult) (domain.StageReport, error)
}

// CoverageReporter produces a coverage report for a finished build.
type CoverageReporter interface {
	Report(ctx context.Context) domain.CoverageReport
}
