package domain

import "time"

// StageReport summarizes one pass of a per-artifact stage.
type StageReport struct {
	Stage    Stage
	Produced []TestArtifact
	// Skipped holds identifiers for which the model gave no usable output.
	Skipped []string
}

// Timing is the duration of one traced operation.
type Timing struct {
	Name     string
	Duration time.Duration
	Failed   bool
}

// RunReport summarizes a pipeline run for the operator.
type RunReport struct {
	RunID      string
	Sources    int
	Generation *StageReport
	Refinement *StageReport
	Repairs    []StageReport
	Outcome    *RepairOutcome
	Coverage   *CoverageReport
	Timings    []Timing
}

// State returns the terminal repair state, or BuildPending if no build ran.
func (r *RunReport) State() RepairState {
	if r == nil || r.Outcome == nil {
		return BuildPending
	}
	return r.Outcome.State
}
