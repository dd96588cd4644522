package config

// File represents the structure of the testforge.yaml configuration file.
// Absent fields keep their built-in defaults.
type File struct {
	Version      string           `yaml:"version"`
	Source       *SourceDTO       `yaml:"source,omitempty"`
	Output       *OutputDTO       `yaml:"output,omitempty"`
	Pipeline     *PipelineDTO     `yaml:"pipeline,omitempty"`
	LLM          *LLMDTO          `yaml:"llm,omitempty"`
	Compiler     *CompilerDTO     `yaml:"compiler,omitempty"`
	Coverage     *CoverageDTO     `yaml:"coverage,omitempty"`
	Instructions *InstructionsDTO `yaml:"instructions,omitempty"`
}

// SourceDTO selects the files of the project under test.
type SourceDTO struct {
	Dir        string   `yaml:"dir,omitempty"`
	Extensions []string `yaml:"extensions,omitempty"`
	Ignore     []string `yaml:"ignore,omitempty"`
}

// OutputDTO names the generated directories.
type OutputDTO struct {
	Artifacts string `yaml:"artifacts,omitempty"`
	Build     string `yaml:"build,omitempty"`
}

// PipelineDTO tunes the pipeline run.
type PipelineDTO struct {
	Concurrency *int  `yaml:"concurrency,omitempty"`
	Retries     *int  `yaml:"retries,omitempty"`
	SkipRefine  *bool `yaml:"skip_refine,omitempty"`
}

// LLMDTO configures the model runner.
type LLMDTO struct {
	Runner  string `yaml:"runner,omitempty"`
	Model   string `yaml:"model,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// CompilerDTO configures the test build.
type CompilerDTO struct {
	Command     string   `yaml:"command,omitempty"`
	Standard    string   `yaml:"standard,omitempty"`
	Flags       []string `yaml:"flags,omitempty"`
	Libs        []string `yaml:"libs,omitempty"`
	Extensions  []string `yaml:"extensions,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	TestTimeout string   `yaml:"test_timeout,omitempty"`
}

// CoverageDTO configures the coverage toolchain.
type CoverageDTO struct {
	Lcov    string `yaml:"lcov,omitempty"`
	Genhtml string `yaml:"genhtml,omitempty"`
	Gcov    string `yaml:"gcov,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// InstructionsDTO points at the instruction templates per stage.
type InstructionsDTO struct {
	Generate string `yaml:"generate,omitempty"`
	Refine   string `yaml:"refine,omitempty"`
	Fix      string `yaml:"fix,omitempty"`
}
