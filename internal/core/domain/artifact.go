package domain

import (
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Stage is the pipeline phase that produced a test artifact.
type Stage uint8

const (
	// StageGenerated marks the first model answer for a source unit.
	StageGenerated Stage = iota + 1
	// StageRefined marks a refined version of a generated test.
	StageRefined
	// StageFixed marks a test regenerated from a build diagnostic.
	StageFixed
)

// PrimaryExtension is the source extension that maps to a bare artifact stem.
const PrimaryExtension = ".cpp"

// SelectionOrder lists stages from the most to the least preferred for a build.
var SelectionOrder = []Stage{StageFixed, StageRefined, StageGenerated}

var stageSuffixes = map[Stage]string{
	StageGenerated: "_test.cpp",
	StageRefined:   "_test_refined.cpp",
	StageFixed:     "_test_fixed.cpp",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StageGenerated:
		return "generated"
	case StageRefined:
		return "refined"
	case StageFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Suffix returns the filename suffix that encodes the stage.
func (s Stage) Suffix() string {
	return stageSuffixes[s]
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	_, ok := stageSuffixes[s]
	return ok
}

// ParseStage converts a stage name back into a Stage.
func ParseStage(name string) (Stage, error) {
	switch strings.ToLower(name) {
	case "generated":
		return StageGenerated, nil
	case "refined":
		return StageRefined, nil
	case "fixed":
		return StageFixed, nil
	default:
		return 0, zerr.With(ErrUnknownStage, "stage", name)
	}
}

// ArtifactStem derives the filename stem for a source identifier.
// The primary extension is dropped; any other extension is folded into the
// stem so that foo.cpp and foo.h never address the same artifact.
func ArtifactStem(sourceIdentifier string) string {
	ext := filepath.Ext(sourceIdentifier)
	stem := strings.TrimSuffix(sourceIdentifier, ext)
	if ext == "" || ext == PrimaryExtension {
		return stem
	}
	return stem + "_" + strings.TrimPrefix(ext, ".")
}

// ArtifactFilename derives the artifact filename for a source identifier and stage.
func ArtifactFilename(sourceIdentifier string, stage Stage) string {
	return ArtifactStem(sourceIdentifier) + stage.Suffix()
}

// ParseArtifactFilename splits an artifact filename into its stem and stage.
// Longer suffixes are matched first since every suffix ends in ".cpp".
func ParseArtifactFilename(name string) (stem string, stage Stage, ok bool) {
	for _, s := range SelectionOrder {
		if strings.HasSuffix(name, s.Suffix()) {
			stem = strings.TrimSuffix(name, s.Suffix())
			if stem == "" {
				return "", 0, false
			}
			return stem, s, true
		}
	}
	return "", 0, false
}

// TestArtifact is a test file tied to the source unit it was produced for.
type TestArtifact struct {
	SourceIdentifier string
	Stage            Stage
	Content          string
	Path             string
	Checksum         string
	// RunID and SavedAt come from the manifest. They are zero for files the
	// manifest does not know about.
	RunID   string
	SavedAt time.Time
}

// Filename returns the base name of the artifact's path.
func (a TestArtifact) Filename() string {
	return filepath.Base(a.Path)
}

// ArtifactKey addresses an artifact by stage and source identifier.
type ArtifactKey struct {
	SourceIdentifier string
	Stage            Stage
}

// SelectArtifacts applies the Fixed > Refined > Generated precedence to every
// identifier, in the order given. A later stage saved before an earlier stage
// of the same identifier is stale and never selected. Identifiers without any
// usable artifact are returned as unresolved. The result depends only on the
// contents of available.
func SelectArtifacts(identifiers []string, available map[ArtifactKey]TestArtifact) (selected []TestArtifact, unresolved []string) {
	for _, id := range identifiers {
		var best *TestArtifact
		var floor time.Time
		for i := len(SelectionOrder) - 1; i >= 0; i-- {
			a, ok := available[ArtifactKey{SourceIdentifier: id, Stage: SelectionOrder[i]}]
			if !ok || a.SavedAt.Before(floor) {
				continue
			}
			floor = a.SavedAt
			best = &a
		}
		if best == nil {
			unresolved = append(unresolved, id)
			continue
		}
		selected = append(selected, *best)
	}
	return selected, unresolved
}
