// Package instructions loads the per-stage instruction templates.
package instructions

import (
	"errors"
	"os"
	"strings"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.InstructionLoader = (*Loader)(nil)

// Template is the structure of an instruction template file.
type Template struct {
	Instructions []string `yaml:"instructions"`
}

// Loader implements ports.InstructionLoader for YAML templates.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the template at path and joins its instruction lines with newlines.
func (l *Loader) Load(path string) (string, error) {
	// #nosec G304 -- template paths come from project configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return "", zerr.With(errors.Join(domain.ErrInstructionsReadFailed, err), "path", path)
	}

	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return "", zerr.With(errors.Join(domain.ErrInstructionsInvalid, err), "path", path)
	}
	if len(tpl.Instructions) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrInstructionsInvalid, "missing instructions list"), "path", path)
	}

	return strings.Join(tpl.Instructions, "\n"), nil
}
