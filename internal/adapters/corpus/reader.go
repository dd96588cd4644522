// Package corpus reads the source units of the project under test.
package corpus

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceReader = (*Reader)(nil)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git": true,
	".jj":  true,
}

// Reader implements ports.SourceReader on the local file system.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read walks dir recursively and returns every accepted file as a source unit
// identified by its base name.
func (r *Reader) Read(ctx context.Context, dir string, filter domain.SourceFilter) (*domain.Corpus, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrSourceDirMissing, "path", dir)
		}
		return nil, zerr.With(errors.Join(domain.ErrSourceReadFailed, err), "path", dir)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrSourceDirMissing, "path", dir)
	}

	var units []domain.SourceUnit
	for path, walkErr := range r.walkFiles(dir, filter) {
		if walkErr != nil {
			return nil, zerr.With(errors.Join(domain.ErrSourceReadFailed, walkErr), "path", path)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		//nolint:gosec // path comes from walking the configured source directory
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrSourceReadFailed, err), "path", path)
		}

		units = append(units, domain.SourceUnit{
			Identifier: filepath.Base(path),
			Content:    string(content),
			Path:       path,
		})
	}

	if len(units) == 0 {
		return nil, zerr.With(domain.ErrEmptyCorpus, "path", dir)
	}

	return domain.NewCorpus(units)
}

// walkFiles yields accepted regular files under root in lexical order.
func (r *Reader) walkFiles(root string, filter domain.SourceFilter) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				yield(path, err)
				return filepath.SkipAll
			}

			if path != root && skip(d, filter.Ignore) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !filter.Accepts(d.Name()) {
				return nil
			}

			if !yield(path, nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func skip(d fs.DirEntry, ignores []string) bool {
	name := d.Name()
	if d.IsDir() && skippedDirs[name] {
		return true
	}
	for _, pattern := range ignores {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
