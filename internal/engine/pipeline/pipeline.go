// Package pipeline sequences a full test generation run: corpus, generation,
// refinement, the build-repair loop and coverage.
package pipeline

import (
	"context"
	"fmt"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/testforge/internal/ui/style"
)

// Generator produces the first two artifact stages.
type Generator interface {
	Generate(ctx context.Context, corpus *domain.Corpus) (domain.StageReport, error)
	Refine(ctx context.Context, corpus *domain.Corpus) (domain.StageReport, error)
}

// RepairLoop builds the corpus and repairs it until it passes or gives up.
type RepairLoop interface {
	Run(ctx context.Context, corpus *domain.Corpus) (domain.RepairOutcome, []domain.StageReport, error)
}

// Options tunes a Pipeline.
type Options struct {
	Filter     domain.SourceFilter
	SkipRefine bool
}

// Pipeline drives one run over a RunContext.
type Pipeline struct {
	reader    ports.SourceReader
	generator Generator
	loop      RepairLoop
	coverage  ports.CoverageReporter
	tracer    ports.Tracer
	logger    ports.Logger

	rc   domain.RunContext
	opts Options
}

// New creates a Pipeline.
func New(
	reader ports.SourceReader,
	generator Generator,
	loop RepairLoop,
	coverage ports.CoverageReporter,
	tracer ports.Tracer,
	logger ports.Logger,
	rc domain.RunContext,
	opts Options,
) *Pipeline {
	return &Pipeline{
		reader:    reader,
		generator: generator,
		loop:      loop,
		coverage:  coverage,
		tracer:    tracer,
		logger:    logger,
		rc:        rc,
		opts:      opts,
	}
}

// Run generates, refines, builds and repairs tests for every source unit,
// then reports coverage when the build passed.
// The returned report is never nil and holds whatever completed before an error.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{RunID: p.rc.ID}

	corpus, err := p.read(ctx, report)
	if err != nil {
		return report, err
	}

	p.banner("generating tests")
	gen, err := p.phase(ctx, "generate", func(ctx context.Context) (domain.StageReport, error) {
		return p.generator.Generate(ctx, corpus)
	})
	report.Generation = &gen
	if err != nil {
		return report, err
	}
	p.logger.Info(style.Banner("tests generated"))

	if p.opts.SkipRefine {
		p.logger.Info("Skipping refinement")
	} else {
		p.banner("refining tests")
		ref, err := p.phase(ctx, "refine", func(ctx context.Context) (domain.StageReport, error) {
			return p.generator.Refine(ctx, corpus)
		})
		report.Refinement = &ref
		if err != nil {
			return report, err
		}
		p.logger.Info(style.Banner("refinement complete"))
	}

	err = p.buildAndTest(ctx, corpus, report)
	p.logger.Info("\n" + style.Banner("build and test complete"))
	return report, err
}

// Build runs the build-repair loop over the artifacts already on disk, then
// reports coverage when the build passed.
func (p *Pipeline) Build(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{RunID: p.rc.ID}

	corpus, err := p.read(ctx, report)
	if err != nil {
		return report, err
	}

	err = p.buildAndTest(ctx, corpus, report)
	p.logger.Info("\n" + style.Banner("build and test complete"))
	return report, err
}

// Coverage reports coverage for the current build directory.
func (p *Pipeline) Coverage(ctx context.Context) *domain.RunReport {
	report := &domain.RunReport{RunID: p.rc.ID}
	report.Coverage = p.reportCoverage(ctx)
	return report
}

func (p *Pipeline) read(ctx context.Context, report *domain.RunReport) (*domain.Corpus, error) {
	corpus, err := p.reader.Read(ctx, p.rc.SourceDir, p.opts.Filter)
	if err != nil {
		return nil, err
	}
	report.Sources = corpus.Len()
	p.logger.Info(fmt.Sprintf("Found %d source files in %s", corpus.Len(), p.rc.SourceDir))
	return corpus, nil
}

func (p *Pipeline) buildAndTest(ctx context.Context, corpus *domain.Corpus, report *domain.RunReport) error {
	p.banner("building and testing")
	outcome, repairs, err := p.loop.Run(ctx, corpus)
	report.Repairs = repairs
	report.Outcome = &outcome
	if err != nil {
		return err
	}

	if outcome.State != domain.Done {
		p.logger.Warn("Build still failed:\n" + outcome.Result.Diagnostic)
		return nil
	}

	report.Coverage = p.reportCoverage(ctx)
	return nil
}

func (p *Pipeline) reportCoverage(ctx context.Context) *domain.CoverageReport {
	p.banner("generating coverage report")
	cov := p.coverage.Report(ctx)
	if cov.Succeeded {
		p.logger.Info("Coverage report generated successfully!")
		p.logger.Info(cov.Message)
	} else {
		p.logger.Warn("Coverage generation failed: " + cov.Message)
	}
	return &cov
}

// phase runs fn inside a root span so its duration shows up in the summary.
func (p *Pipeline) phase(
	ctx context.Context,
	name string,
	fn func(context.Context) (domain.StageReport, error),
) (domain.StageReport, error) {
	ctx, span := p.tracer.Start(ctx, name, ports.WithAttribute("run.id", p.rc.ID))
	defer span.End()

	rep, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		return rep, err
	}
	span.SetAttribute("produced", len(rep.Produced))
	span.SetAttribute("skipped", len(rep.Skipped))
	return rep, nil
}

func (p *Pipeline) banner(title string) {
	p.logger.Info("\n" + style.Banner(title))
}
