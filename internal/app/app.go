// Package app implements the application layer for testforge.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.trai.ch/testforge/internal/adapters/artifacts"
	"go.trai.ch/testforge/internal/adapters/config"
	"go.trai.ch/testforge/internal/adapters/detector"
	"go.trai.ch/testforge/internal/adapters/llm"
	"go.trai.ch/testforge/internal/adapters/telemetry"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/testforge/internal/engine/builder"
	"go.trai.ch/testforge/internal/engine/coverage"
	"go.trai.ch/testforge/internal/engine/pipeline"
	"go.trai.ch/testforge/internal/engine/repair"
	"go.trai.ch/testforge/internal/engine/stages"
	"go.trai.ch/testforge/internal/ui/summary"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       ports.ProcessRunner
	logger       ports.Logger
	instructions ports.InstructionLoader
	sanitizer    ports.Sanitizer
	reader       ports.SourceReader
	locker       ports.Locker
	watcher      ports.Watcher

	out   io.Writer
	newID func() string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	runner ports.ProcessRunner,
	log ports.Logger,
	instructions ports.InstructionLoader,
	sanitizer ports.Sanitizer,
	reader ports.SourceReader,
	locker ports.Locker,
	watcher ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		logger:       log,
		instructions: instructions,
		sanitizer:    sanitizer,
		reader:       reader,
		locker:       locker,
		watcher:      watcher,
		out:          os.Stdout,
		newID:        uuid.NewString,
	}
}

// WithOutput sets the writer the run summary is rendered to.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Overrides are command line values that take precedence over the config file.
type Overrides struct {
	ConfigFile  string
	Concurrency *int
	Retries     *int
	Model       string
	SkipRefine  bool
	LogFormat   string
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Overrides
}

// Run generates, refines, builds and repairs tests for the source tree, then
// reports coverage. Exhausting the repair budget is an error.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	s, err := a.open(ctx, opts.Overrides)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	report, err := s.pipeline(a).Run(ctx)
	return a.finish(s, report, err)
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	Overrides
}

// Build runs the build-repair loop over the tests already written.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	s, err := a.open(ctx, opts.Overrides)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	s.rc.ReuseArtifacts = true
	report, err := s.pipeline(a).Build(ctx)
	return a.finish(s, report, err)
}

// CoverageOptions configuration for the Coverage method.
type CoverageOptions struct {
	Overrides
}

// Coverage reports coverage for the current build directory.
func (a *App) Coverage(ctx context.Context, opts CoverageOptions) error {
	s, err := a.open(ctx, opts.Overrides)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	report := s.pipeline(a).Coverage(ctx)
	return a.finish(s, report, nil)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	ConfigFile string
	// Artifacts also removes every generated, refined and fixed test and the manifest.
	Artifacts bool
}

// Clean removes the build directory and optionally the written tests.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	s, err := a.open(ctx, Overrides{ConfigFile: opts.ConfigFile})
	if err != nil {
		return err
	}
	defer s.close(ctx)

	var errs error

	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove "+name), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(s.rc.BuildDir, "build directory")
	if opts.Artifacts {
		tests, err := s.store.List(nil)
		if err != nil {
			return errors.Join(errs, err)
		}
		for _, t := range tests {
			remove(t.Path, t.Filename())
		}
		remove(s.rc.ManifestPath(), "artifact manifest")
		// Only an emptied directory goes; anything else in it belongs to the user.
		_ = os.Remove(s.rc.ArtifactDir)
	}

	return errs
}

// finish renders the summary and turns a failed repair loop into an error.
func (a *App) finish(s *session, report *domain.RunReport, runErr error) error {
	report.Timings = s.collector.Timings()
	if err := summary.Render(a.out, report); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to render summary: %v", err))
	}

	if runErr != nil {
		return runErr
	}
	if report.State() == domain.GaveUp {
		err := zerr.With(domain.ErrGaveUp, "attempts", report.Outcome.Attempts)
		return zerr.With(err, "diagnostic", report.Outcome.Result.Diagnostic)
	}
	return nil
}

// session holds what one command needs while it owns the workspace.
type session struct {
	cfg       *domain.Config
	rc        domain.RunContext
	tracer    ports.Tracer
	collector *telemetry.Collector
	shutdown  func(context.Context) error
	release   func() error
	store     ports.ArtifactStore
	logger    ports.Logger
}

// open loads the configuration, locks the workspace and installs tracing.
func (a *App) open(ctx context.Context, o Overrides) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}

	cfg, err := a.configLoader.Load(cwd, o.ConfigFile)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	applyOverrides(cfg, o)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	a.configureLogging(o.LogFormat)

	rc := domain.NewRunContext(a.newID(), cwd, cfg)
	release, err := a.locker.Lock(rc.LockPath())
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		rc:      rc,
		release: release,
		logger:  a.logger,
	}
	if err := s.begin(rc.ID); err != nil {
		_ = release()
		return nil, err
	}

	collector := telemetry.NewCollector()
	tp := telemetry.NewProvider(collector)
	telemetry.Install(tp)

	s.tracer = telemetry.NewOTelTracer(tp, "testforge")
	s.collector = collector
	s.shutdown = tp.Shutdown
	return s, nil
}

// begin starts a new run inside the session. Tests saved from now on carry id.
func (s *session) begin(id string) error {
	store, err := artifacts.NewStore(s.rc.ArtifactDir, id)
	if err != nil {
		return err
	}
	s.rc.ID = id
	s.store = store
	return nil
}

func (s *session) close(ctx context.Context) {
	if err := s.shutdown(ctx); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to shut down tracing: %v", err))
	}
	if err := s.release(); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to release workspace lock: %v", err))
	}
}

// pipeline assembles the run components over the session's RunContext.
func (s *session) pipeline(a *App) *pipeline.Pipeline {
	tc := s.cfg.Toolchain

	gateway := llm.NewGateway(a.runner, a.logger, tc)
	st := stages.New(gateway, a.sanitizer, s.store, a.instructions, s.tracer, a.logger, s.rc, s.cfg.Instructions)
	orch := builder.NewOrchestrator(a.runner, s.store, s.tracer, a.logger, s.rc, tc)
	loop := repair.NewLoop(orch, st, s.tracer, a.logger, s.rc.RetryBudget)
	cov := coverage.NewReporter(a.runner, s.tracer, a.logger, s.rc, tc)

	return pipeline.New(a.reader, st, loop, cov, s.tracer, a.logger, s.rc, pipeline.Options{
		Filter:     s.cfg.SourceFilter(),
		SkipRefine: s.cfg.SkipRefine,
	})
}

func applyOverrides(cfg *domain.Config, o Overrides) {
	if o.Concurrency != nil {
		cfg.Concurrency = *o.Concurrency
	}
	if o.Retries != nil {
		cfg.RetryBudget = *o.Retries
	}
	if o.Model != "" {
		cfg.Toolchain.Model = o.Model
	}
	if o.SkipRefine {
		cfg.SkipRefine = true
	}
}

// configureLogging switches the logger to JSON output when requested or
// when running unattended.
func (a *App) configureLogging(flag string) {
	l, ok := a.logger.(interface{ SetJSON(enable bool) })
	if !ok {
		return
	}
	format := detector.ResolveFormat(detector.DetectEnvironment(), flag)
	l.SetJSON(format == detector.FormatJSON)
}
