package config

import (
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Render encodes cfg as a complete testforge.yaml document.
func Render(cfg *domain.Config) ([]byte, error) {
	tc := cfg.Toolchain
	concurrency, retries, skip := cfg.Concurrency, cfg.RetryBudget, cfg.SkipRefine

	f := File{
		Version: CurrentVersion,
		Source: &SourceDTO{
			Dir:        cfg.SourceDir,
			Extensions: cfg.SourceExtensions,
			Ignore:     cfg.Ignore,
		},
		Output: &OutputDTO{
			Artifacts: cfg.ArtifactDir,
			Build:     cfg.BuildDir,
		},
		Pipeline: &PipelineDTO{
			Concurrency: &concurrency,
			Retries:     &retries,
			SkipRefine:  &skip,
		},
		LLM: &LLMDTO{
			Runner:  tc.LLMRunner,
			Model:   tc.Model,
			Timeout: tc.LLMTimeout.String(),
		},
		Compiler: &CompilerDTO{
			Command:     tc.Compiler,
			Standard:    tc.Standard,
			Flags:       tc.CompileFlags,
			Libs:        tc.LinkFlags,
			Extensions:  tc.CompileExtensions,
			Timeout:     tc.CompileTimeout.String(),
			TestTimeout: tc.TestTimeout.String(),
		},
		Coverage: &CoverageDTO{
			Lcov:    tc.Lcov,
			Genhtml: tc.Genhtml,
			Gcov:    tc.Gcov,
			Timeout: tc.CoverageTimeout.String(),
		},
		Instructions: &InstructionsDTO{
			Generate: cfg.Instructions.Generate,
			Refine:   cfg.Instructions.Refine,
			Fix:      cfg.Instructions.Fix,
		},
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode configuration")
	}
	return out, nil
}
