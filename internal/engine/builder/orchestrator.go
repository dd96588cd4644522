// Package builder compiles the selected test artifacts together with the
// project sources and runs the resulting test binary.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Builder = (*Orchestrator)(nil)

// Orchestrator implements ports.Builder. Builds are serialized.
type Orchestrator struct {
	runner ports.ProcessRunner
	store  ports.ArtifactStore
	tracer ports.Tracer
	logger ports.Logger

	toolchain domain.Toolchain
	sourceDir string
	buildDir  string
	scope     string

	mu       sync.Mutex
	attempts int
}

// NewOrchestrator creates an Orchestrator for one run.
func NewOrchestrator(
	runner ports.ProcessRunner,
	store ports.ArtifactStore,
	tracer ports.Tracer,
	logger ports.Logger,
	rc domain.RunContext,
	toolchain domain.Toolchain,
) *Orchestrator {
	return &Orchestrator{
		runner:    runner,
		store:     store,
		tracer:    tracer,
		logger:    logger,
		toolchain: toolchain,
		sourceDir: rc.SourceDir,
		buildDir:  rc.BuildDir,
		scope:     rc.ArtifactScope(),
	}
}

// Build selects the preferred artifact per source unit, compiles them with
// the sources and runs the test binary.
// Compile and test failures are reported in the result; errors mean the
// build could not be attempted.
func (o *Orchestrator) Build(ctx context.Context, corpus *domain.Corpus) (domain.BuildResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.attempts++
	ctx, span := o.tracer.Start(ctx, fmt.Sprintf("build #%d", o.attempts))
	defer span.End()

	selected, unresolved, err := o.store.Select(corpus.Identifiers(), o.scope)
	if err != nil {
		span.RecordError(err)
		return domain.BuildResult{}, err
	}
	for _, id := range unresolved {
		o.logger.Warn(fmt.Sprintf("no test found for %s, skipping", id))
	}
	if len(selected) == 0 {
		span.RecordError(domain.ErrNoArtifacts)
		return domain.BuildResult{}, zerr.With(domain.ErrNoArtifacts, "sources", corpus.Len())
	}
	span.SetAttribute("artifacts", len(selected))

	if err := os.MkdirAll(o.buildDir, domain.DirPerm); err != nil {
		span.RecordError(err)
		return domain.BuildResult{}, zerr.With(zerr.Wrap(err, "failed to create build directory"), "path", o.buildDir)
	}

	compile := o.compileCommand(selected, corpus)
	o.logger.Info("Building with command: " + compile.String())

	res, err := o.runner.Run(ctx, compile)
	if err != nil {
		span.RecordError(err)
		return domain.BuildResult{}, zerr.Wrap(err, "failed to run compiler")
	}
	if !res.Succeeded() {
		span.RecordError(fmt.Errorf("compiler exited with status %d", res.ExitCode))
		return domain.CompileFailed(res.Combined(), selected), nil
	}

	res, err = o.runner.Run(ctx, domain.Command{
		Name:    domain.BinaryPath(o.buildDir),
		Dir:     o.buildDir,
		Timeout: o.toolchain.TestTimeout,
		Stream:  true,
	})
	if err != nil {
		span.RecordError(err)
		return domain.BuildResult{}, zerr.Wrap(err, "failed to run tests")
	}
	if !res.Succeeded() {
		span.RecordError(fmt.Errorf("tests exited with status %d", res.ExitCode))
		return domain.RuntimeFailed(res.Combined(), selected), nil
	}

	return domain.Passed(res.Combined(), selected), nil
}

// compileCommand assembles the compiler invocation. Headers are reached
// through the include path and are not compiled on their own.
func (o *Orchestrator) compileCommand(selected []domain.TestArtifact, corpus *domain.Corpus) domain.Command {
	tc := o.toolchain

	args := []string{"-std=" + tc.Standard, "-I", o.sourceDir}
	args = append(args, tc.CompileFlags...)
	for _, a := range selected {
		args = append(args, a.Path)
	}
	for _, u := range corpus.Units() {
		if slices.Contains(tc.CompileExtensions, strings.ToLower(filepath.Ext(u.Identifier))) {
			args = append(args, u.Path)
		}
	}
	args = append(args, tc.LinkFlags...)
	args = append(args, "-o", domain.BinaryPath(o.buildDir))

	return domain.Command{
		Name:    tc.Compiler,
		Args:    args,
		Dir:     o.buildDir,
		Timeout: tc.CompileTimeout,
		Stream:  true,
	}
}
