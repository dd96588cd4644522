package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// SourceUnit is one compilation input of the project under test.
type SourceUnit struct {
	// Identifier is the file's base name, unique within a corpus.
	Identifier string
	Content    string
	// Path is the location the unit was read from.
	Path string
}

// Corpus is the ordered set of source units read for one run.
type Corpus struct {
	units []SourceUnit
	index map[string]int
}

// NewCorpus sorts units by identifier and validates identifier uniqueness.
func NewCorpus(units []SourceUnit) (*Corpus, error) {
	sorted := slices.Clone(units)
	slices.SortFunc(sorted, func(a, b SourceUnit) int {
		return strings.Compare(a.Identifier, b.Identifier)
	})

	c := &Corpus{
		units: sorted,
		index: make(map[string]int, len(sorted)),
	}
	stems := make(map[string]string, len(sorted))

	for i, u := range sorted {
		if prev, ok := c.index[u.Identifier]; ok {
			err := zerr.With(ErrDuplicateSource, "identifier", u.Identifier)
			err = zerr.With(err, "first", sorted[prev].Path)
			return nil, zerr.With(err, "second", u.Path)
		}
		c.index[u.Identifier] = i

		stem := ArtifactStem(u.Identifier)
		if other, ok := stems[stem]; ok {
			err := zerr.With(ErrArtifactNameCollision, "first", other)
			return nil, zerr.With(err, "second", u.Identifier)
		}
		stems[stem] = u.Identifier
	}

	return c, nil
}

// Units returns the units in identifier order.
func (c *Corpus) Units() []SourceUnit {
	if c == nil {
		return nil
	}
	return c.units
}

// Identifiers returns the unit identifiers in order.
func (c *Corpus) Identifiers() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.units))
	for i, u := range c.units {
		ids[i] = u.Identifier
	}
	return ids
}

// Get returns the unit with the given identifier.
func (c *Corpus) Get(identifier string) (SourceUnit, bool) {
	if c == nil {
		return SourceUnit{}, false
	}
	i, ok := c.index[identifier]
	if !ok {
		return SourceUnit{}, false
	}
	return c.units[i], true
}

// Len returns the number of units.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.units)
}

// SourceFilter selects which files under the source directory form the corpus.
type SourceFilter struct {
	// Extensions lists accepted file extensions including the dot.
	Extensions []string
	// Ignore holds base-name glob patterns for files and directories to skip.
	Ignore []string
}

// Accepts reports whether a file named name has an accepted extension.
// An empty extension list accepts every file.
func (f SourceFilter) Accepts(name string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	return slices.Contains(f.Extensions, filepath.Ext(name))
}
