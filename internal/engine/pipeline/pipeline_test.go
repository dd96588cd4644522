package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/adapters/artifacts"
	"go.trai.ch/testforge/internal/adapters/corpus"
	"go.trai.ch/testforge/internal/adapters/sanitize"
	"go.trai.ch/testforge/internal/adapters/telemetry"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports/mocks"
	"go.trai.ch/testforge/internal/engine/builder"
	"go.trai.ch/testforge/internal/engine/coverage"
	"go.trai.ch/testforge/internal/engine/pipeline"
	"go.trai.ch/testforge/internal/engine/repair"
	"go.trai.ch/testforge/internal/engine/stages"
	"go.uber.org/mock/gomock"
)

const fooSource = "int add(int a, int b) { return a + b; }\n"

type fixture struct {
	gateway *mocks.MockLLMGateway
	runner  *mocks.MockProcessRunner
	cfg     *domain.Config
	rc      domain.RunContext
	store   *artifacts.Store

	compiles [][]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	cfg := domain.DefaultConfig()
	rc := domain.NewRunContext("run-test", root, cfg)
	require.NoError(t, os.MkdirAll(rc.SourceDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(rc.SourceDir, "foo.cpp"), []byte(fooSource), 0o600))

	store, err := artifacts.NewStore(rc.ArtifactDir, rc.ID)
	require.NoError(t, err)

	return &fixture{
		gateway: mocks.NewMockLLMGateway(ctrl),
		runner:  mocks.NewMockProcessRunner(ctrl),
		cfg:     cfg,
		rc:      rc,
		store:   store,
	}
}

func (f *fixture) pipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	instr := mocks.NewMockInstructionLoader(ctrl)
	instr.EXPECT().Load(gomock.Any()).Return("Write GoogleTest unit tests.", nil).AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	tc := f.cfg.Toolchain

	st := stages.New(f.gateway, sanitize.NewFenceStripper(), f.store, instr, tracer, log, f.rc, f.cfg.Instructions)
	orch := builder.NewOrchestrator(f.runner, f.store, tracer, log, f.rc, tc)
	loop := repair.NewLoop(orch, st, tracer, log, f.rc.RetryBudget)
	cov := coverage.NewReporter(f.runner, tracer, log, f.rc, tc)

	return pipeline.New(corpus.NewReader(), st, loop, cov, tracer, log, f.rc, pipeline.Options{
		Filter:     f.cfg.SourceFilter(),
		SkipRefine: f.cfg.SkipRefine,
	})
}

// toolchain answers compiler, test binary and coverage invocations.
// compileExit is consumed one entry per compiler call; the last entry repeats.
func (f *fixture) toolchain(compileExit []int, diagnostic string) {
	calls := 0
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (domain.ProcessResult, error) {
			switch cmd.Name {
			case "g++":
				f.compiles = append(f.compiles, cmd.Args)
				code := compileExit[min(calls, len(compileExit)-1)]
				calls++
				if code != 0 {
					return domain.ProcessResult{ExitCode: code, Stderr: diagnostic}, nil
				}
				return domain.ProcessResult{}, nil
			case domain.BinaryPath(f.rc.BuildDir):
				return domain.ProcessResult{Stdout: "[  PASSED  ] 1 test."}, nil
			default:
				return domain.ProcessResult{}, nil
			}
		}).AnyTimes()
}

func (f *fixture) artifact(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.rc.ArtifactDir, name))
	require.NoError(t, err)
	return string(data)
}

func fenced(body string) string {
	return "```cpp\n" + body + "\n```"
}

func TestRun_GeneratesRefinesAndPasses(t *testing.T) {
	f := newFixture(t)
	f.toolchain([]int{0}, "")

	gomock.InOrder(
		f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, fooSource)
			return fenced("TEST(Foo, Add) { EXPECT_EQ(add(1, 2), 3); }"), nil
		}),
		f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "TEST(Foo, Add)")
			return fenced("TEST(Foo, AddNegative) { EXPECT_EQ(add(-1, -2), -3); }"), nil
		}),
	)

	report, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "TEST(Foo, Add) { EXPECT_EQ(add(1, 2), 3); }", f.artifact(t, "foo_test.cpp"))
	assert.Equal(t, "TEST(Foo, AddNegative) { EXPECT_EQ(add(-1, -2), -3); }", f.artifact(t, "foo_test_refined.cpp"))

	assert.Equal(t, 1, report.Sources)
	require.NotNil(t, report.Generation)
	assert.Len(t, report.Generation.Produced, 1)
	require.NotNil(t, report.Refinement)
	assert.Len(t, report.Refinement.Produced, 1)

	assert.Equal(t, domain.Done, report.State())
	assert.Equal(t, 1, report.Outcome.Attempts)
	assert.Empty(t, report.Repairs)

	require.Len(t, f.compiles, 1)
	assert.Contains(t, f.compiles[0], filepath.Join(f.rc.ArtifactDir, "foo_test_refined.cpp"))
	assert.Contains(t, f.compiles[0], filepath.Join(f.rc.SourceDir, "foo.cpp"))
	assert.NotContains(t, f.compiles[0], filepath.Join(f.rc.ArtifactDir, "foo_test.cpp"))

	require.NotNil(t, report.Coverage)
	assert.True(t, report.Coverage.Succeeded)
	assert.Equal(t, "Coverage report generated in build/coverage_html", report.Coverage.Message)
}

func TestRun_RepairsUndefinedReference(t *testing.T) {
	f := newFixture(t)
	const diagnostic = "foo_test_refined.cpp:3: undefined reference to `subtract(int, int)'"
	f.toolchain([]int{1, 0}, diagnostic)

	gomock.InOrder(
		f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(fenced("TEST(Foo, Add) {}"), nil),
		f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(fenced("TEST(Foo, Sub) { subtract(1, 2); }"), nil),
		f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			assert.Contains(t, prompt, "TEST(Foo, Sub) { subtract(1, 2); }")
			assert.Contains(t, prompt, diagnostic)
			return fenced("TEST(Foo, Add) { EXPECT_EQ(add(1, 2), 3); }"), nil
		}),
	)

	report, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.Done, report.State())
	assert.Equal(t, 2, report.Outcome.Attempts)
	require.Len(t, report.Repairs, 1)
	assert.Len(t, report.Repairs[0].Produced, 1)
	assert.Equal(t, "TEST(Foo, Add) { EXPECT_EQ(add(1, 2), 3); }", f.artifact(t, "foo_test_fixed.cpp"))

	require.Len(t, f.compiles, 2)
	assert.Contains(t, f.compiles[1], filepath.Join(f.rc.ArtifactDir, "foo_test_fixed.cpp"))
	assert.NotContains(t, f.compiles[1], filepath.Join(f.rc.ArtifactDir, "foo_test_refined.cpp"))
	assert.NotNil(t, report.Coverage)
}

func TestRun_GivesUpWithoutCoverage(t *testing.T) {
	f := newFixture(t)
	f.toolchain([]int{1}, "undefined reference to `add'")
	f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(fenced("TEST(Foo, Add) {}"), nil).Times(3)

	report, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.GaveUp, report.State())
	assert.Equal(t, f.rc.RetryBudget+1, report.Outcome.Attempts)
	assert.Equal(t, "undefined reference to `add'", report.Outcome.Result.Diagnostic)
	assert.Nil(t, report.Coverage)
}

func TestRun_SkipRefine(t *testing.T) {
	f := newFixture(t)
	f.cfg.SkipRefine = true
	f.toolchain([]int{0}, "")
	f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).Return(fenced("TEST(Foo, Add) {}"), nil).Times(1)

	report, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)

	assert.Nil(t, report.Refinement)
	assert.Equal(t, domain.Done, report.State())
	require.Len(t, f.compiles, 1)
	assert.True(t, slices.ContainsFunc(f.compiles[0], func(arg string) bool {
		return strings.HasSuffix(arg, "foo_test.cpp")
	}))
}

func TestRun_IgnoresTestsLeftByEarlierRun(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.rc.SourceDir, "bar.cpp"), []byte("int bar();\n"), 0o600))
	f.toolchain([]int{0}, "")

	earlier, err := artifacts.NewStore(f.rc.ArtifactDir, "run-earlier")
	require.NoError(t, err)
	for _, id := range []string{"foo.cpp", "bar.cpp"} {
		_, err = earlier.Save(context.Background(), domain.StageGenerated, id, "STALE")
		require.NoError(t, err)
		_, err = earlier.Save(context.Background(), domain.StageFixed, id, "STALE")
		require.NoError(t, err)
	}

	f.gateway.EXPECT().Ask(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "bar") {
			return "", domain.ErrProcessTimeout
		}
		return fenced("FRESH"), nil
	}).Times(3)

	report, err := f.pipeline(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Done, report.State())
	assert.Equal(t, []string{"bar.cpp"}, report.Generation.Skipped)

	assert.Equal(t, "FRESH", f.artifact(t, "foo_test_refined.cpp"))
	assert.Equal(t, "STALE", f.artifact(t, "foo_test_fixed.cpp"))

	require.Len(t, f.compiles, 1)
	assert.Contains(t, f.compiles[0], filepath.Join(f.rc.ArtifactDir, "foo_test_refined.cpp"))
	for _, stale := range []string{"bar_test.cpp", "bar_test_fixed.cpp", "foo_test_fixed.cpp"} {
		assert.NotContains(t, f.compiles[0], filepath.Join(f.rc.ArtifactDir, stale))
	}
}

func TestRun_EmptySourceDir(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.rc.SourceDir, "foo.cpp")))

	report, err := f.pipeline(t).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrEmptyCorpus.Error())
	assert.Nil(t, report.Generation)
}

func TestBuild_UsesExistingArtifacts(t *testing.T) {
	f := newFixture(t)
	f.rc.ReuseArtifacts = true
	f.toolchain([]int{0}, "")

	earlier, err := artifacts.NewStore(f.rc.ArtifactDir, "run-earlier")
	require.NoError(t, err)
	_, err = earlier.Save(context.Background(), domain.StageGenerated, "foo.cpp", "TEST(Foo, Add) {}")
	require.NoError(t, err)
	f.store, err = artifacts.NewStore(f.rc.ArtifactDir, f.rc.ID)
	require.NoError(t, err)

	report, err := f.pipeline(t).Build(context.Background())
	require.NoError(t, err)

	assert.Nil(t, report.Generation)
	assert.Equal(t, domain.Done, report.State())
	require.Len(t, f.compiles, 1)
	assert.Contains(t, f.compiles[0], filepath.Join(f.rc.ArtifactDir, "foo_test.cpp"))
}

func TestBuild_NoArtifacts(t *testing.T) {
	f := newFixture(t)

	_, err := f.pipeline(t).Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNoArtifacts.Error())
}

func TestCoverage(t *testing.T) {
	f := newFixture(t)
	f.toolchain([]int{0}, "")

	report := f.pipeline(t).Coverage(context.Background())
	require.NotNil(t, report.Coverage)
	assert.True(t, report.Coverage.Succeeded)
}
