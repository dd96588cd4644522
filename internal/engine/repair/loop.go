// Package repair drives build attempts and model repairs until the tests
// pass or the retry budget is spent.
package repair

import (
	"context"
	"fmt"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/testforge/internal/ui/style"
)

// Loop is the build-repair state machine.
//
//	BuildPending -> Done                      build passed
//	BuildPending -> Repairing -> BuildPending another attempt is left
//	BuildPending -> GaveUp                    budget spent
type Loop struct {
	builder  ports.Builder
	repairer ports.Repairer
	tracer   ports.Tracer
	logger   ports.Logger
	budget   int
}

// NewLoop creates a Loop allowing up to budget repair rounds.
func NewLoop(builder ports.Builder, repairer ports.Repairer, tracer ports.Tracer, logger ports.Logger, budget int) *Loop {
	return &Loop{
		builder:  builder,
		repairer: repairer,
		tracer:   tracer,
		logger:   logger,
		budget:   max(budget, 0),
	}
}

// Run builds the corpus and repairs failing artifacts until the build passes
// or the budget is exhausted. It returns the outcome and one report per repair round.
// An error means a build or repair could not be carried out at all.
func (l *Loop) Run(ctx context.Context, corpus *domain.Corpus) (domain.RepairOutcome, []domain.StageReport, error) {
	outcome := domain.RepairOutcome{State: domain.BuildPending}
	var repairs []domain.StageReport

	for {
		res, err := l.builder.Build(ctx, corpus)
		if err != nil {
			return outcome, repairs, err
		}
		outcome.Attempts++
		outcome.Result = res
		outcome.History = append(outcome.History, res)

		if res.Succeeded {
			outcome.State = domain.Done
			l.logger.Info("BUILD SUCCESSFUL!")
			l.logger.Info("Test output: " + res.Diagnostic)
			return outcome, repairs, nil
		}

		l.logger.Warn("Build failed:\n" + res.Diagnostic)
		if len(repairs) >= l.budget {
			outcome.State = domain.GaveUp
			return outcome, repairs, nil
		}

		outcome.State = domain.Repairing
		report, err := l.repair(ctx, len(repairs)+1, res)
		repairs = append(repairs, report)
		if err != nil {
			return outcome, repairs, err
		}
		if len(report.Produced) == 0 {
			l.logger.Warn("no fixed tests were produced")
		}

		outcome.State = domain.BuildPending
		l.logger.Info("Retrying build with fixed tests...")
	}
}

func (l *Loop) repair(ctx context.Context, round int, failed domain.BuildResult) (domain.StageReport, error) {
	ctx, span := l.tracer.Start(ctx, fmt.Sprintf("repair #%d", round),
		ports.WithAttribute("failure", failed.Failure.String()),
		ports.WithAttribute("artifacts", len(failed.Artifacts)),
	)
	defer span.End()

	l.logger.Info(style.Banner("attempting to fix build errors"))
	report, err := l.repairer.Repair(ctx, failed)
	if err != nil {
		span.RecordError(err)
	}
	return report, err
}
