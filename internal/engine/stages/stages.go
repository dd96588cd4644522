// Package stages runs the per-artifact model stages: generation, refinement
// and repair.
package stages

import (
	"context"
	"fmt"
	"strings"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Repairer = (*Stages)(nil)

// Stages turns prompts into stored test artifacts.
type Stages struct {
	gateway      ports.LLMGateway
	sanitizer    ports.Sanitizer
	store        ports.ArtifactStore
	instructions ports.InstructionLoader
	tracer       ports.Tracer
	logger       ports.Logger

	paths       domain.InstructionPaths
	concurrency int
	runID       string
}

// New creates Stages for one run. Instruction paths are resolved against the run root.
func New(
	gateway ports.LLMGateway,
	sanitizer ports.Sanitizer,
	store ports.ArtifactStore,
	instructions ports.InstructionLoader,
	tracer ports.Tracer,
	logger ports.Logger,
	rc domain.RunContext,
	paths domain.InstructionPaths,
) *Stages {
	return &Stages{
		gateway:      gateway,
		sanitizer:    sanitizer,
		store:        store,
		instructions: instructions,
		tracer:       tracer,
		logger:       logger,
		paths: domain.InstructionPaths{
			Generate: rc.Resolve(paths.Generate),
			Refine:   rc.Resolve(paths.Refine),
			Fix:      rc.Resolve(paths.Fix),
		},
		concurrency: max(rc.Concurrency, 1),
		runID:       rc.ID,
	}
}

// job is one model call for one source identifier.
type job struct {
	id     string
	prompt domain.PromptRequest
}

// wording holds the operator-facing messages of a stage.
type wording struct {
	start  string
	failed string
	saved  string
}

var words = map[domain.Stage]wording{
	domain.StageGenerated: {start: "Generating tests for %s...", failed: "Failed to generate tests for %s", saved: "Saved test to %s"},
	domain.StageRefined:   {start: "Refining tests for %s...", failed: "Failed to refine tests for %s", saved: "Saved refined test to %s"},
	domain.StageFixed:     {start: "Attempting to fix %s...", failed: "Failed to fix %s", saved: "Saved fixed test: %s"},
}

// Generate asks for a test file for every unit of the corpus.
func (s *Stages) Generate(ctx context.Context, corpus *domain.Corpus) (domain.StageReport, error) {
	instruction, err := s.instruction(domain.StageGenerated)
	if err != nil {
		return domain.StageReport{Stage: domain.StageGenerated}, err
	}

	jobs := make([]job, 0, corpus.Len())
	for _, u := range corpus.Units() {
		jobs = append(jobs, job{id: u.Identifier, prompt: domain.GeneratePrompt(instruction, u)})
	}
	return s.run(ctx, domain.StageGenerated, jobs)
}

// Refine asks for an improved version of every test generated by this run for
// a unit of the corpus. Each artifact is refined once.
func (s *Stages) Refine(ctx context.Context, corpus *domain.Corpus) (domain.StageReport, error) {
	var generated []domain.TestArtifact
	for _, id := range corpus.Identifiers() {
		a, err := s.store.Load(domain.StageGenerated, id)
		if err != nil {
			return domain.StageReport{Stage: domain.StageRefined}, err
		}
		if a != nil && a.RunID == s.runID {
			generated = append(generated, *a)
		}
	}
	if len(generated) == 0 {
		s.logger.Warn("no generated tests to refine")
		return domain.StageReport{Stage: domain.StageRefined}, nil
	}

	instruction, err := s.instruction(domain.StageRefined)
	if err != nil {
		return domain.StageReport{Stage: domain.StageRefined}, err
	}

	jobs := make([]job, 0, len(generated))
	for _, a := range generated {
		unit, _ := corpus.Get(a.SourceIdentifier)
		jobs = append(jobs, job{id: a.SourceIdentifier, prompt: domain.RefinePrompt(instruction, unit, a)})
	}
	return s.run(ctx, domain.StageRefined, jobs)
}

// Repair regenerates every artifact that took part in a failed build from
// the build diagnostic and stores the result at the fixed stage.
func (s *Stages) Repair(ctx context.Context, failed domain.BuildResult) (domain.StageReport, error) {
	if len(failed.Artifacts) == 0 {
		return domain.StageReport{Stage: domain.StageFixed}, nil
	}

	instruction, err := s.instruction(domain.StageFixed)
	if err != nil {
		return domain.StageReport{Stage: domain.StageFixed}, err
	}

	jobs := make([]job, 0, len(failed.Artifacts))
	for _, a := range failed.Artifacts {
		jobs = append(jobs, job{id: a.SourceIdentifier, prompt: domain.FixPrompt(instruction, a, failed.Diagnostic)})
	}
	return s.run(ctx, domain.StageFixed, jobs)
}

func (s *Stages) instruction(stage domain.Stage) (string, error) {
	path := s.paths.For(stage)
	text, err := s.instructions.Load(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to load instructions"), "stage", stage.String())
	}
	return text, nil
}

// run executes jobs on a pool bounded by the configured concurrency.
// A failing job is reported as skipped and never aborts the others.
// Cancellation stops dispatching queued jobs, which are reported as skipped.
// Running calls finish within their own timeout.
func (s *Stages) run(ctx context.Context, stage domain.Stage, jobs []job) (domain.StageReport, error) {
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.id
	}
	s.tracer.EmitPlan(ctx, stage.String(), ids)

	results := make([]*domain.TestArtifact, len(jobs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			results[i] = s.process(ctx, stage, j)
			return nil
		})
	}
	_ = g.Wait()

	report := domain.StageReport{Stage: stage}
	for i, a := range results {
		if a != nil {
			report.Produced = append(report.Produced, *a)
		} else {
			report.Skipped = append(report.Skipped, jobs[i].id)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Stages) process(ctx context.Context, stage domain.Stage, j job) *domain.TestArtifact {
	w := words[stage]
	ctx, span := s.tracer.Start(ctx, stage.String()+" "+j.id,
		ports.WithAttribute("source", j.id),
		ports.WithAttribute("stage", stage.String()),
	)
	defer span.End()

	s.logger.Info(fmt.Sprintf(w.start, j.id))

	answer, err := s.gateway.Ask(context.WithoutCancel(ctx), j.prompt.Compose())
	if err != nil {
		span.RecordError(err)
		s.logger.Error(zerr.With(err, "source", j.id))
		s.logger.Warn(fmt.Sprintf(w.failed, j.id))
		return nil
	}

	content := s.sanitizer.Sanitize(answer)
	if strings.TrimSpace(content) == "" {
		span.SetAttribute("empty", true)
		s.logger.Warn(fmt.Sprintf(w.failed, j.id))
		return nil
	}

	a, err := s.store.Save(ctx, stage, j.id, content)
	if err != nil {
		span.RecordError(err)
		s.logger.Error(zerr.With(err, "source", j.id))
		return nil
	}

	saved := a.Path
	if stage == domain.StageFixed {
		saved = a.Filename()
	}
	s.logger.Info(fmt.Sprintf(w.saved, saved))
	return &a
}
