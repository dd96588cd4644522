package domain

// RuntimeFailurePrefix prefixes the diagnostic of a test binary that exited non-zero.
const RuntimeFailurePrefix = "tests failed to run: "

// FailureKind distinguishes why a build attempt failed.
type FailureKind uint8

const (
	// FailureNone means the attempt succeeded.
	FailureNone FailureKind = iota
	// FailureCompile means the compiler or linker exited non-zero.
	FailureCompile
	// FailureRuntime means the test binary exited non-zero.
	FailureRuntime
)

// String returns a short name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureCompile:
		return "compile"
	case FailureRuntime:
		return "runtime"
	default:
		return "none"
	}
}

// BuildResult is the outcome of one build attempt.
type BuildResult struct {
	Succeeded  bool
	Diagnostic string
	Failure    FailureKind
	// Artifacts is the selected set that took part in the attempt.
	Artifacts []TestArtifact
}

// CompileFailed builds the result of a failed compiler invocation.
func CompileFailed(output string, artifacts []TestArtifact) BuildResult {
	return BuildResult{Diagnostic: output, Failure: FailureCompile, Artifacts: artifacts}
}

// RuntimeFailed builds the result of a test binary that exited non-zero.
func RuntimeFailed(output string, artifacts []TestArtifact) BuildResult {
	return BuildResult{Diagnostic: RuntimeFailurePrefix + output, Failure: FailureRuntime, Artifacts: artifacts}
}

// Passed builds the result of a successful test run.
func Passed(output string, artifacts []TestArtifact) BuildResult {
	return BuildResult{Succeeded: true, Diagnostic: output, Artifacts: artifacts}
}

// RepairState is a state of the repair loop.
type RepairState uint8

const (
	// BuildPending means a build attempt is about to run.
	BuildPending RepairState = iota
	// Repairing means failing artifacts are being regenerated.
	Repairing
	// Done means a build succeeded, possibly after repair.
	Done
	// GaveUp means the repair budget ran out with the build still failing.
	GaveUp
)

// String returns the state name.
func (s RepairState) String() string {
	switch s {
	case BuildPending:
		return "build-pending"
	case Repairing:
		return "repairing"
	case Done:
		return "done"
	case GaveUp:
		return "gave-up"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends the loop.
func (s RepairState) Terminal() bool {
	return s == Done || s == GaveUp
}

// RepairOutcome is the terminal result of the repair loop.
type RepairOutcome struct {
	State RepairState
	// Attempts counts build attempts, including the first one.
	Attempts int
	// Result is the last build result.
	Result BuildResult
	// History holds every build result in order.
	History []BuildResult
}

// CoverageReport is the normalized result of the coverage toolchain.
type CoverageReport struct {
	Succeeded bool
	Message   string
	// ReportDir is set when an HTML report was generated.
	ReportDir string
	// Files lists raw per-file coverage outputs found by the fallback.
	Files []string
}
