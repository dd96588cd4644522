package domain

import "path/filepath"

const (
	// DefaultSourceDir is the directory holding the C++ sources under test.
	DefaultSourceDir = "src"

	// DefaultArtifactDir is the directory holding generated, refined and fixed tests.
	DefaultArtifactDir = "output/tests"

	// DefaultBuildDir is the directory holding the test binary and coverage data.
	DefaultBuildDir = "build"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "testforge.yaml"

	// LockFileName is the name of the single-instance lock file.
	LockFileName = ".testforge.lock"

	// ManifestFileName is the name of the artifact provenance manifest.
	ManifestFileName = ".manifest.json"

	// BinaryName is the name of the compiled test executable.
	BinaryName = "test_executable"

	// CoverageInfoName is the name of the lcov capture file.
	CoverageInfoName = "coverage.info"

	// CoverageHTMLDirName is the name of the generated HTML coverage directory.
	CoverageHTMLDirName = "coverage_html"

	// PromptDir is the directory holding the default instruction templates.
	PromptDir = "prompts"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultInstructionPath returns the default template path for the given stage.
func DefaultInstructionPath(stage Stage) string {
	switch stage {
	case StageRefined:
		return filepath.Join(PromptDir, "refine.yaml")
	case StageFixed:
		return filepath.Join(PromptDir, "fix_build.yaml")
	default:
		return filepath.Join(PromptDir, "initial.yaml")
	}
}

// BinaryPath returns the path of the test executable inside buildDir.
func BinaryPath(buildDir string) string {
	return filepath.Join(buildDir, BinaryName)
}
