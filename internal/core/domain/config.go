package domain

import (
	"path/filepath"
	"time"
)

// Default tuning values.
const (
	DefaultConcurrency     = 1
	DefaultRetryBudget     = 1
	DefaultLLMRunner       = "ollama"
	DefaultModel           = "codellama:7b"
	DefaultLLMTimeout      = 300 * time.Second
	DefaultCompileTimeout  = 10 * time.Minute
	DefaultTestTimeout     = 5 * time.Minute
	DefaultCoverageTimeout = 2 * time.Minute
	DefaultCompiler        = "g++"
	DefaultStandard        = "c++17"
)

// Toolchain names the external collaborators and how to invoke them.
type Toolchain struct {
	LLMRunner  string
	Model      string
	LLMTimeout time.Duration

	Compiler          string
	Standard          string
	CompileFlags      []string
	LinkFlags         []string
	CompileExtensions []string
	CompileTimeout    time.Duration
	TestTimeout       time.Duration

	Lcov            string
	Genhtml         string
	Gcov            string
	CoverageTimeout time.Duration
}

// InstructionPaths locates the instruction template of each stage.
type InstructionPaths struct {
	Generate string
	Refine   string
	Fix      string
}

// For returns the template path of the given stage.
func (p InstructionPaths) For(stage Stage) string {
	switch stage {
	case StageRefined:
		return p.Refine
	case StageFixed:
		return p.Fix
	default:
		return p.Generate
	}
}

// Config is the validated project configuration.
type Config struct {
	SourceDir        string
	SourceExtensions []string
	Ignore           []string
	ArtifactDir      string
	BuildDir         string

	Concurrency int
	RetryBudget int
	SkipRefine  bool

	Toolchain    Toolchain
	Instructions InstructionPaths
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SourceDir:        DefaultSourceDir,
		SourceExtensions: []string{".cpp", ".cc", ".cxx", ".h", ".hpp"},
		ArtifactDir:      DefaultArtifactDir,
		BuildDir:         DefaultBuildDir,
		Concurrency:      DefaultConcurrency,
		RetryBudget:      DefaultRetryBudget,
		Toolchain: Toolchain{
			LLMRunner:         DefaultLLMRunner,
			Model:             DefaultModel,
			LLMTimeout:        DefaultLLMTimeout,
			Compiler:          DefaultCompiler,
			Standard:          DefaultStandard,
			CompileFlags:      []string{"--coverage", "-g", "-O0", "-fprofile-arcs", "-ftest-coverage"},
			LinkFlags:         []string{"-lgtest", "-lgtest_main", "-lpthread"},
			CompileExtensions: []string{".cpp", ".cc", ".cxx"},
			CompileTimeout:    DefaultCompileTimeout,
			TestTimeout:       DefaultTestTimeout,
			Lcov:              "lcov",
			Genhtml:           "genhtml",
			Gcov:              "gcov",
			CoverageTimeout:   DefaultCoverageTimeout,
		},
		Instructions: InstructionPaths{
			Generate: DefaultInstructionPath(StageGenerated),
			Refine:   DefaultInstructionPath(StageRefined),
			Fix:      DefaultInstructionPath(StageFixed),
		},
	}
}

// SourceFilter returns the corpus filter described by the configuration.
func (c *Config) SourceFilter() SourceFilter {
	return SourceFilter{Extensions: c.SourceExtensions, Ignore: c.Ignore}
}

// RunContext carries the per-run settings every component is built from.
type RunContext struct {
	ID          string
	Root        string
	SourceDir   string
	ArtifactDir string
	BuildDir    string
	Concurrency int
	RetryBudget int
	// ReuseArtifacts lets builds select tests saved by earlier runs.
	// Otherwise only tests saved under ID are built.
	ReuseArtifacts bool
}

// NewRunContext resolves the configured directories against root.
func NewRunContext(id, root string, cfg *Config) RunContext {
	return RunContext{
		ID:          id,
		Root:        root,
		SourceDir:   resolve(root, cfg.SourceDir),
		ArtifactDir: resolve(root, cfg.ArtifactDir),
		BuildDir:    resolve(root, cfg.BuildDir),
		Concurrency: max(cfg.Concurrency, 1),
		RetryBudget: max(cfg.RetryBudget, 0),
	}
}

// LockPath returns the path of the single-instance lock file.
func (rc RunContext) LockPath() string {
	return filepath.Join(rc.Root, LockFileName)
}

// ArtifactScope returns the run whose tests a build may select, or "" for any run.
func (rc RunContext) ArtifactScope() string {
	if rc.ReuseArtifacts {
		return ""
	}
	return rc.ID
}

// ManifestPath returns the path of the artifact manifest.
func (rc RunContext) ManifestPath() string {
	return filepath.Join(rc.ArtifactDir, ManifestFileName)
}

// Resolve joins a config-relative path with the run root.
func (rc RunContext) Resolve(path string) string {
	return resolve(rc.Root, path)
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
