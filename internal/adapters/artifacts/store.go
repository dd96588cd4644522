// Package artifacts persists generated test files and the manifest that
// ties each file back to its source unit.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/testforge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ArtifactStore = (*Store)(nil)

// manifestEntry records where an artifact file came from.
type manifestEntry struct {
	Source   string    `json:"source"`
	Stage    string    `json:"stage"`
	Checksum string    `json:"checksum"`
	Run      string    `json:"run,omitempty"`
	SavedAt  time.Time `json:"saved_at"`
}

// Store implements ports.ArtifactStore on a flat directory.
// Filenames are derived from (stage, source identifier), so saving the same
// pair twice overwrites the earlier file. Every save is stamped with the
// store's run ID.
type Store struct {
	dir      string
	run      string
	mu       sync.RWMutex
	manifest map[string]manifestEntry
	now      func() time.Time
}

// NewStore creates a Store rooted at dir for the given run and loads its
// manifest if present.
func NewStore(dir, run string) (*Store, error) {
	s := &Store{
		dir:      filepath.Clean(dir),
		run:      run,
		manifest: make(map[string]manifestEntry),
		now:      time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.dir, domain.ManifestFileName)
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.manifestPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(errors.Join(domain.ErrArtifactReadFailed, err), "path", s.manifestPath())
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.manifest); err != nil {
		return zerr.With(errors.Join(domain.ErrManifestCorrupt, err), "path", s.manifestPath())
	}

	for name, entry := range s.manifest {
		stage, err := domain.ParseStage(entry.Stage)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrManifestCorrupt, err), "entry", name)
		}
		if name != domain.ArtifactFilename(entry.Source, stage) {
			return zerr.With(errors.Join(domain.ErrManifestCorrupt, fmt.Errorf("entry does not match source %s", entry.Source)), "entry", name)
		}
	}

	return nil
}

// saveManifestLocked must be called with mu held.
func (s *Store) saveManifestLocked() error {
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal artifact manifest")
	}

	//nolint:gosec // manifest path lives under the configured artifact directory
	if err := os.WriteFile(s.manifestPath(), data, domain.FilePerm); err != nil {
		return zerr.With(errors.Join(domain.ErrArtifactWriteFailed, err), "path", s.manifestPath())
	}
	return nil
}

// Save writes content as the artifact for (stage, sourceIdentifier).
// A finished answer is kept even when ctx is already canceled.
func (s *Store) Save(_ context.Context, stage domain.Stage, sourceIdentifier, content string) (domain.TestArtifact, error) {
	if !stage.Valid() {
		return domain.TestArtifact{}, zerr.With(domain.ErrUnknownStage, "stage", stage.String())
	}

	name := domain.ArtifactFilename(sourceIdentifier, stage)
	path := filepath.Join(s.dir, name)
	checksum := checksumOf(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, domain.DirPerm); err != nil {
		return domain.TestArtifact{}, zerr.With(errors.Join(domain.ErrArtifactWriteFailed, err), "path", s.dir)
	}

	//nolint:gosec // path is derived from the artifact directory and a sanitized stem
	if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil {
		return domain.TestArtifact{}, zerr.With(errors.Join(domain.ErrArtifactWriteFailed, err), "path", path)
	}

	savedAt := s.now().UTC()
	s.manifest[name] = manifestEntry{
		Source:   sourceIdentifier,
		Stage:    stage.String(),
		Checksum: checksum,
		Run:      s.run,
		SavedAt:  savedAt,
	}

	if err := s.saveManifestLocked(); err != nil {
		return domain.TestArtifact{}, err
	}

	return domain.TestArtifact{
		SourceIdentifier: sourceIdentifier,
		Stage:            stage,
		Content:          content,
		Path:             path,
		Checksum:         checksum,
		RunID:            s.run,
		SavedAt:          savedAt,
	}, nil
}

// Load reads the artifact for (stage, sourceIdentifier), or returns nil if it does not exist.
func (s *Store) Load(stage domain.Stage, sourceIdentifier string) (*domain.TestArtifact, error) {
	if !stage.Valid() {
		return nil, zerr.With(domain.ErrUnknownStage, "stage", stage.String())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := s.readLocked(domain.ArtifactFilename(sourceIdentifier, stage), sourceIdentifier, stage)
	if err != nil || a == nil {
		return nil, err
	}
	return a, nil
}

// List returns every artifact file in the directory accepted by keep, ordered by filename.
// A nil keep accepts everything.
func (s *Store) List(keep func(domain.TestArtifact) bool) ([]domain.TestArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrArtifactReadFailed, err), "path", s.dir)
	}

	var out []domain.TestArtifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, stage, ok := domain.ParseArtifactFilename(e.Name())
		if !ok {
			continue
		}

		id := stem + domain.PrimaryExtension
		if entry, found := s.manifest[e.Name()]; found {
			id = entry.Source
		}

		a, err := s.readLocked(e.Name(), id, stage)
		if err != nil {
			return nil, err
		}
		if a == nil {
			continue
		}
		if keep == nil || keep(*a) {
			out = append(out, *a)
		}
	}
	return out, nil
}

// Select resolves the preferred artifact for each identifier.
// Only files derived from the given identifiers are considered and, when run
// is not empty, only files saved by that run. Older stages stay on disk.
func (s *Store) Select(identifiers []string, run string) ([]domain.TestArtifact, []string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	available := make(map[domain.ArtifactKey]domain.TestArtifact)
	for _, id := range identifiers {
		for _, stage := range domain.SelectionOrder {
			a, err := s.readLocked(domain.ArtifactFilename(id, stage), id, stage)
			if err != nil {
				return nil, nil, err
			}
			if a != nil && (run == "" || a.RunID == run) {
				available[domain.ArtifactKey{SourceIdentifier: id, Stage: stage}] = *a
			}
		}
	}

	selected, unresolved := domain.SelectArtifacts(identifiers, available)
	return selected, unresolved, nil
}

// readLocked must be called with mu held for reading.
func (s *Store) readLocked(name, sourceIdentifier string, stage domain.Stage) (*domain.TestArtifact, error) {
	path := filepath.Join(s.dir, name)

	//nolint:gosec // path is derived from the artifact directory
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrArtifactReadFailed, err), "path", path)
	}

	content := string(data)
	return &domain.TestArtifact{
		SourceIdentifier: sourceIdentifier,
		Stage:            stage,
		Content:          content,
		Path:             path,
		Checksum:         checksumOf(content),
		RunID:            s.manifest[name].Run,
		SavedAt:          s.manifest[name].SavedAt,
	}, nil
}

func checksumOf(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
