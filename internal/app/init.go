package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/testforge/internal/adapters/config"
	"go.trai.ch/testforge/internal/adapters/instructions"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/zerr"
)

// InitOptions configuration for the Init method.
type InitOptions struct {
	// Force overwrites existing files.
	Force bool
}

type scaffoldFile struct {
	path string
	data []byte
}

// Init writes a default configuration file and the instruction templates
// into the working directory, and creates the source directory.
func (a *App) Init(_ context.Context, opts InitOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to determine working directory")
	}

	cfg := domain.DefaultConfig()
	files, err := scaffold(cfg)
	if err != nil {
		return err
	}

	if !opts.Force {
		for _, f := range files {
			path := filepath.Join(cwd, f.path)
			if _, err := os.Stat(path); err == nil {
				return zerr.With(domain.ErrAlreadyInitialized, "path", path)
			}
		}
	}

	for _, f := range files {
		path := filepath.Join(cwd, f.path)
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
		}
		if err := os.WriteFile(path, f.data, domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
		}
		a.logger.Info(fmt.Sprintf("wrote %s", f.path))
	}

	src := filepath.Join(cwd, cfg.SourceDir)
	if err := os.MkdirAll(src, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", src)
	}
	return nil
}

func scaffold(cfg *domain.Config) ([]scaffoldFile, error) {
	data, err := config.Render(cfg)
	if err != nil {
		return nil, err
	}
	files := []scaffoldFile{{path: domain.ConfigFileName, data: data}}

	for _, stage := range domain.SelectionOrder {
		data, err := instructions.Render(instructions.Default(stage))
		if err != nil {
			return nil, err
		}
		files = append(files, scaffoldFile{path: cfg.Instructions.For(stage), data: data})
	}
	return files, nil
}
