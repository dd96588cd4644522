// Package coverage turns the profile data of a passing test run into a report.
package coverage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CoverageReporter = (*Reporter)(nil)

// Reporter implements ports.CoverageReporter with lcov and genhtml, falling
// back to plain gcov output.
type Reporter struct {
	runner    ports.ProcessRunner
	tracer    ports.Tracer
	logger    ports.Logger
	toolchain domain.Toolchain
	root      string
	buildDir  string
}

// NewReporter creates a Reporter for the build directory of rc.
func NewReporter(runner ports.ProcessRunner, tracer ports.Tracer, logger ports.Logger, rc domain.RunContext, toolchain domain.Toolchain) *Reporter {
	return &Reporter{
		runner:    runner,
		tracer:    tracer,
		logger:    logger,
		toolchain: toolchain,
		root:      rc.Root,
		buildDir:  rc.BuildDir,
	}
}

// Report generates a coverage report. It never fails; problems are
// reflected in the returned report.
func (r *Reporter) Report(ctx context.Context) domain.CoverageReport {
	ctx, span := r.tracer.Start(ctx, "coverage")
	defer span.End()

	report, err := r.lcov(ctx)
	if err == nil {
		return report
	}

	r.logger.Warn(fmt.Sprintf("lcov report unavailable (%v), falling back to gcov", err))
	report = r.gcov(ctx)
	if !report.Succeeded {
		span.RecordError(zerr.New(report.Message))
	}
	return report
}

func (r *Reporter) lcov(ctx context.Context) (domain.CoverageReport, error) {
	tc := r.toolchain
	info := filepath.Join(r.buildDir, domain.CoverageInfoName)
	html := filepath.Join(r.buildDir, domain.CoverageHTMLDirName)

	steps := []domain.Command{
		{
			Name:    tc.Lcov,
			Args:    []string{"--capture", "--directory", r.buildDir, "--output-file", info},
			Dir:     r.root,
			Timeout: tc.CoverageTimeout,
		},
		{
			Name:    tc.Genhtml,
			Args:    []string{info, "--output-directory", html},
			Dir:     r.root,
			Timeout: tc.CoverageTimeout,
		},
	}

	for _, cmd := range steps {
		res, err := r.runner.Run(ctx, cmd)
		if err != nil {
			return domain.CoverageReport{}, err
		}
		if !res.Succeeded() {
			return domain.CoverageReport{}, zerr.With(zerr.New(cmd.Name+" failed"), "exit_code", res.ExitCode)
		}
	}

	return domain.CoverageReport{
		Succeeded: true,
		Message:   "Coverage report generated in " + r.display(html),
		ReportDir: html,
	}, nil
}

// gcov runs gcov over the profile data in the build directory and lists
// the .gcov files it left there.
func (r *Reporter) gcov(ctx context.Context) domain.CoverageReport {
	gcda := r.profileData()
	if len(gcda) > 0 {
		res, err := r.runner.Run(ctx, domain.Command{
			Name:    r.toolchain.Gcov,
			Args:    append([]string{"-r"}, gcda...),
			Dir:     r.buildDir,
			Timeout: r.toolchain.CoverageTimeout,
		})
		switch {
		case err != nil:
			r.logger.Warn(fmt.Sprintf("gcov could not run: %v", err))
		case !res.Succeeded():
			r.logger.Warn(fmt.Sprintf("gcov exited with status %d", res.ExitCode))
		}
	}

	files := r.gcovFiles()
	if len(files) == 0 {
		return domain.CoverageReport{Message: "No coverage files found"}
	}
	return domain.CoverageReport{
		Succeeded: true,
		Message:   "Basic coverage files generated: [" + strings.Join(files, ", ") + "]",
		Files:     files,
	}
}

// profileData returns the .gcda files below the build directory, relative to it.
func (r *Reporter) profileData() []string {
	var out []string
	_ = filepath.WalkDir(r.buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries carry no coverage
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".gcda") {
			if rel, relErr := filepath.Rel(r.buildDir, path); relErr == nil {
				out = append(out, rel)
			}
		}
		return nil
	})
	return out
}

func (r *Reporter) gcovFiles() []string {
	entries, err := os.ReadDir(r.buildDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".gcov") {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out
}

// display shortens path relative to the project root when possible.
func (r *Reporter) display(path string) string {
	if rel, err := filepath.Rel(r.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
