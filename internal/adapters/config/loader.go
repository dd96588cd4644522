// Package config provides the configuration loader for testforge.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the schema version written by Render.
const CurrentVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration for the project rooted at cwd.
// With an empty file the default testforge.yaml is used if it exists, and
// the built-in defaults otherwise. An explicit file must exist.
func (l *Loader) Load(cwd, file string) (*domain.Config, error) {
	explicit := file != ""
	if !explicit {
		file = domain.ConfigFileName
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(cwd, file)
	}

	// #nosec G304 -- the path is chosen by the operator
	data, err := os.ReadFile(file)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", file)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", file)
	}

	if l.Logger != nil {
		l.Logger.Info(fmt.Sprintf("using configuration %s", file))
	}
	return cfg, nil
}

// Parse decodes a configuration document and applies it over the defaults.
func Parse(data []byte) (*domain.Config, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	if f.Version != "" && f.Version != CurrentVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unsupported version"), "version", f.Version)
	}

	cfg := domain.DefaultConfig()
	if err := apply(cfg, &f); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

//nolint:cyclop // one branch per optional section
func apply(cfg *domain.Config, f *File) error {
	if s := f.Source; s != nil {
		setString(&cfg.SourceDir, s.Dir)
		setList(&cfg.SourceExtensions, s.Extensions)
		setList(&cfg.Ignore, s.Ignore)
	}

	if o := f.Output; o != nil {
		setString(&cfg.ArtifactDir, o.Artifacts)
		setString(&cfg.BuildDir, o.Build)
	}

	if p := f.Pipeline; p != nil {
		if p.Concurrency != nil {
			cfg.Concurrency = *p.Concurrency
		}
		if p.Retries != nil {
			cfg.RetryBudget = *p.Retries
		}
		if p.SkipRefine != nil {
			cfg.SkipRefine = *p.SkipRefine
		}
	}

	tc := &cfg.Toolchain
	if m := f.LLM; m != nil {
		setString(&tc.LLMRunner, m.Runner)
		setString(&tc.Model, m.Model)
		if err := setDuration(&tc.LLMTimeout, m.Timeout, "llm.timeout"); err != nil {
			return err
		}
	}

	if c := f.Compiler; c != nil {
		setString(&tc.Compiler, c.Command)
		setString(&tc.Standard, c.Standard)
		setList(&tc.CompileFlags, c.Flags)
		setList(&tc.LinkFlags, c.Libs)
		setList(&tc.CompileExtensions, c.Extensions)
		if err := setDuration(&tc.CompileTimeout, c.Timeout, "compiler.timeout"); err != nil {
			return err
		}
		if err := setDuration(&tc.TestTimeout, c.TestTimeout, "compiler.test_timeout"); err != nil {
			return err
		}
	}

	if c := f.Coverage; c != nil {
		setString(&tc.Lcov, c.Lcov)
		setString(&tc.Genhtml, c.Genhtml)
		setString(&tc.Gcov, c.Gcov)
		if err := setDuration(&tc.CoverageTimeout, c.Timeout, "coverage.timeout"); err != nil {
			return err
		}
	}

	if i := f.Instructions; i != nil {
		setString(&cfg.Instructions.Generate, i.Generate)
		setString(&cfg.Instructions.Refine, i.Refine)
		setString(&cfg.Instructions.Fix, i.Fix)
	}

	return nil
}

// Validate checks the ranges of a configuration.
func Validate(cfg *domain.Config) error {
	switch {
	case cfg.Concurrency < 1:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "concurrency must be at least 1"), "concurrency", cfg.Concurrency)
	case cfg.RetryBudget < 0:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "retries must not be negative"), "retries", cfg.RetryBudget)
	case strings.TrimSpace(cfg.SourceDir) == "":
		return zerr.Wrap(domain.ErrConfigInvalid, "source directory must not be empty")
	case strings.TrimSpace(cfg.Toolchain.LLMRunner) == "":
		return zerr.Wrap(domain.ErrConfigInvalid, "llm runner must not be empty")
	case strings.TrimSpace(cfg.Toolchain.Model) == "":
		return zerr.Wrap(domain.ErrConfigInvalid, "model must not be empty")
	case strings.TrimSpace(cfg.Toolchain.Compiler) == "":
		return zerr.Wrap(domain.ErrConfigInvalid, "compiler must not be empty")
	}

	for _, ext := range append(append([]string(nil), cfg.SourceExtensions...), cfg.Toolchain.CompileExtensions...) {
		if !strings.HasPrefix(ext, ".") {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "extensions must start with a dot"), "extension", ext)
		}
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return zerr.With(zerr.With(errors.Join(domain.ErrConfigInvalid, err), "field", field), "value", v)
	}
	if d <= 0 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "timeout must be positive"), "field", field), "value", v)
	}
	*dst = d
	return nil
}
