package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/adapters/corpus"
	"go.trai.ch/testforge/internal/adapters/sanitize"
	"go.trai.ch/testforge/internal/app"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/testforge/internal/core/ports/mocks"
	_ "go.trai.ch/testforge/internal/wiring"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	root    string
	cfg     *domain.Config
	loader  *mocks.MockConfigLoader
	runner  *mocks.MockProcessRunner
	locker  *mocks.MockLocker
	watcher *mocks.MockWatcher
	out     bytes.Buffer

	mu       sync.Mutex
	compiles int
	released bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	t.Chdir(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "foo.cpp"), []byte("int add(int a, int b) { return a + b; }\n"), 0o600))

	return &fixture{
		root:    root,
		cfg:     domain.DefaultConfig(),
		loader:  mocks.NewMockConfigLoader(ctrl),
		runner:  mocks.NewMockProcessRunner(ctrl),
		locker:  mocks.NewMockLocker(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
	}
}

func (f *fixture) app(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	instr := mocks.NewMockInstructionLoader(ctrl)
	instr.EXPECT().Load(gomock.Any()).Return("Write GoogleTest unit tests.", nil).AnyTimes()

	a := app.New(f.loader, f.runner, log, instr, sanitize.NewFenceStripper(), corpus.NewReader(), f.locker, f.watcher).
		WithOutput(&f.out)
	a.SetRunID("run-1")
	return a
}

func (f *fixture) expectConfig() {
	f.loader.EXPECT().Load(gomock.Any(), "").Return(f.cfg, nil)
}

func (f *fixture) expectLock() {
	f.locker.EXPECT().Lock(filepath.Join(f.root, domain.LockFileName)).Return(func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.released = true
		return nil
	}, nil)
}

// toolchain fakes the model, compiler, test binary and coverage tools.
func (f *fixture) toolchain(compileExit int) {
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (domain.ProcessResult, error) {
			switch cmd.Name {
			case "ollama":
				return domain.ProcessResult{Stdout: "```cpp\nTEST(Foo, Add) { EXPECT_EQ(add(1, 2), 3); }\n```"}, nil
			case "g++":
				f.mu.Lock()
				f.compiles++
				f.mu.Unlock()
				if compileExit != 0 {
					return domain.ProcessResult{ExitCode: compileExit, Stderr: "undefined reference to `add'"}, nil
				}
				return domain.ProcessResult{}, nil
			default:
				return domain.ProcessResult{Stdout: "[  PASSED  ] 1 test."}, nil
			}
		}).AnyTimes()
}

func (f *fixture) compileCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.compiles
}

func TestApp_Run_Done(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()
	f.toolchain(0)

	err := f.app(t).Run(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(f.root, "output", "tests", "foo_test.cpp"))
	assert.FileExists(t, filepath.Join(f.root, "output", "tests", "foo_test_refined.cpp"))
	assert.Equal(t, 1, f.compileCount())
	assert.True(t, f.released)

	out := f.out.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "done after 1 attempt")
	assert.Contains(t, out, "Coverage report generated in build/coverage_html")
	assert.Contains(t, out, "generate")
}

func TestApp_Run_GaveUp(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()
	f.toolchain(1)

	retries := 2
	err := f.app(t).Run(context.Background(), app.RunOptions{Overrides: app.Overrides{Retries: &retries}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrGaveUp.Error())

	assert.Equal(t, 3, f.compileCount())
	assert.FileExists(t, filepath.Join(f.root, "output", "tests", "foo_test_fixed.cpp"))
	assert.Contains(t, f.out.String(), "gave up after 3 attempts")
	assert.True(t, f.released)
}

func TestApp_Run_SkipRefineOverride(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()
	f.toolchain(0)

	err := f.app(t).Run(context.Background(), app.RunOptions{Overrides: app.Overrides{SkipRefine: true, Model: "llama3"}})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(f.root, "output", "tests", "foo_test.cpp"))
	assert.NoFileExists(t, filepath.Join(f.root, "output", "tests", "foo_test_refined.cpp"))
	assert.Equal(t, "llama3", f.cfg.Toolchain.Model)
}

func TestApp_Run_InvalidOverride(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()

	zero := 0
	err := f.app(t).Run(context.Background(), app.RunOptions{Overrides: app.Overrides{Concurrency: &zero}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigInvalid)
}

func TestApp_Run_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any(), "custom.yaml").Return(nil, domain.ErrConfigReadFailed)

	err := f.app(t).Run(context.Background(), app.RunOptions{Overrides: app.Overrides{ConfigFile: "custom.yaml"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestApp_Run_WorkspaceLocked(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.locker.EXPECT().Lock(gomock.Any()).Return(nil, domain.ErrWorkspaceLocked)

	err := f.app(t).Run(context.Background(), app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrWorkspaceLocked)
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()
	f.toolchain(0)

	dir := filepath.Join(f.root, "output", "tests")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo_test.cpp"), []byte("TEST(Foo, Add) {}"), 0o600))

	err := f.app(t).Build(context.Background(), app.BuildOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, f.compileCount())
	assert.Contains(t, f.out.String(), "done after 1 attempt")
}

func TestApp_Coverage(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()
	f.runner.EXPECT().Run(gomock.Any(), gomock.Any()).Return(domain.ProcessResult{}, errors.New("lcov: not found"))

	err := f.app(t).Coverage(context.Background(), app.CoverageOptions{})
	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "No coverage files found")
}

func TestApp_Clean(t *testing.T) {
	tests := []struct {
		name          string
		artifacts     bool
		wantArtifacts bool
	}{
		{name: "build only", artifacts: false, wantArtifacts: true},
		{name: "with artifacts", artifacts: true, wantArtifacts: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectConfig()
			f.expectLock()

			build := filepath.Join(f.root, "build")
			tests := filepath.Join(f.root, "output", "tests")
			require.NoError(t, os.MkdirAll(build, 0o750))
			require.NoError(t, os.MkdirAll(tests, 0o750))
			require.NoError(t, os.WriteFile(filepath.Join(build, "test_executable"), nil, 0o600))
			require.NoError(t, os.WriteFile(filepath.Join(tests, "foo_test.cpp"), []byte("TEST(Foo, Bar) {}"), 0o600))

			err := f.app(t).Clean(context.Background(), app.CleanOptions{Artifacts: tt.artifacts})
			require.NoError(t, err)

			assert.NoDirExists(t, build)
			if tt.wantArtifacts {
				assert.FileExists(t, filepath.Join(tests, "foo_test.cpp"))
			} else {
				assert.NoDirExists(t, tests)
			}
		})
	}
}

func TestApp_CleanKeepsUnrelatedFiles(t *testing.T) {
	f := newFixture(t)
	f.expectConfig()
	f.expectLock()

	tests := filepath.Join(f.root, "output", "tests")
	require.NoError(t, os.MkdirAll(tests, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tests, "foo_test_fixed.cpp"), []byte("TEST(Foo, Bar) {}"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tests, "NOTES.md"), []byte("keep"), 0o600))

	err := f.app(t).Clean(context.Background(), app.CleanOptions{Artifacts: true})
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(tests, "foo_test_fixed.cpp"))
	assert.FileExists(t, filepath.Join(tests, "NOTES.md"))
}

func TestApp_Init(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	f := &fixture{}
	a := f.app(t)

	require.NoError(t, a.Init(context.Background(), app.InitOptions{}))

	assert.FileExists(t, filepath.Join(root, domain.ConfigFileName))
	assert.FileExists(t, filepath.Join(root, "prompts", "initial.yaml"))
	assert.FileExists(t, filepath.Join(root, "prompts", "refine.yaml"))
	assert.FileExists(t, filepath.Join(root, "prompts", "fix_build.yaml"))
	assert.DirExists(t, filepath.Join(root, "src"))

	err := a.Init(context.Background(), app.InitOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrAlreadyInitialized.Error())

	require.NoError(t, a.Init(context.Background(), app.InitOptions{Force: true}))
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.expectConfig()
		f.expectLock()
		f.toolchain(0)

		events := make(chan ports.WatchEvent)
		f.watcher.EXPECT().Start(gomock.Any(), filepath.Join(f.root, "src")).Return(nil)
		f.watcher.EXPECT().Events().Return(func(yield func(ports.WatchEvent) bool) {
			for ev := range events {
				if !yield(ev) {
					return
				}
			}
		})
		f.watcher.EXPECT().Stop().Return(nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		a := f.app(t)
		go func() {
			done <- a.Watch(ctx, app.WatchOptions{Debounce: 100 * time.Millisecond})
		}()

		synctest.Wait()
		assert.Equal(t, 1, f.compileCount())

		src := filepath.Join(f.root, "src", "foo.cpp")
		require.NoError(t, os.WriteFile(src, []byte("int add(int a, int b) { return b + a; }\n"), 0o600))
		events <- ports.WatchEvent{Path: src, Operation: ports.OpWrite}
		events <- ports.WatchEvent{Path: src, Operation: ports.OpWrite}
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 2, f.compileCount())

		// A change that leaves the sources identical does not rebuild.
		events <- ports.WatchEvent{Path: src, Operation: ports.OpWrite}
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 2, f.compileCount())

		// Files outside the source filter never schedule a run.
		require.NoError(t, os.WriteFile(src, []byte("int add(int a, int b) { return a + b + 0; }\n"), 0o600))
		events <- ports.WatchEvent{Path: filepath.Join(f.root, "src", ".foo.cpp.swp"), Operation: ports.OpWrite}
		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 2, f.compileCount())

		close(events)
		cancel()
		require.NoError(t, <-done)
	})
}

func TestAppWiring(t *testing.T) {
	t.Chdir(t.TempDir())

	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
