package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestNewCorpus_SortsByIdentifier(t *testing.T) {
	c, err := domain.NewCorpus([]domain.SourceUnit{
		{Identifier: "zeta.cpp", Content: "z"},
		{Identifier: "alpha.h", Content: "a"},
		{Identifier: "alpha.cpp", Content: "b"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha.cpp", "alpha.h", "zeta.cpp"}, c.Identifiers())
	assert.Equal(t, 3, c.Len())

	u, ok := c.Get("alpha.h")
	require.True(t, ok)
	assert.Equal(t, "a", u.Content)

	_, ok = c.Get("missing.cpp")
	assert.False(t, ok)
}

func TestNewCorpus_DuplicateIdentifier(t *testing.T) {
	_, err := domain.NewCorpus([]domain.SourceUnit{
		{Identifier: "util.cpp", Path: "src/a/util.cpp"},
		{Identifier: "util.cpp", Path: "src/b/util.cpp"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source identifier")

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, "util.cpp", meta["identifier"])
	assert.Equal(t, "src/a/util.cpp", meta["first"])
	assert.Equal(t, "src/b/util.cpp", meta["second"])
}

func TestNewCorpus_ArtifactNameCollision(t *testing.T) {
	_, err := domain.NewCorpus([]domain.SourceUnit{
		{Identifier: "foo.h"},
		{Identifier: "foo_h.cpp"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same artifact filename")
}

func TestCorpus_NilSafe(t *testing.T) {
	var c *domain.Corpus
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Units())
	assert.Nil(t, c.Identifiers())
	_, ok := c.Get("x")
	assert.False(t, ok)
}

func TestSourceFilter_Accepts(t *testing.T) {
	f := domain.DefaultConfig().SourceFilter()
	assert.True(t, f.Accepts("calc.cpp"))
	assert.True(t, f.Accepts("shape.hpp"))
	assert.False(t, f.Accepts("README.md"))
	assert.False(t, f.Accepts("Makefile"))

	assert.True(t, domain.SourceFilter{}.Accepts("anything.txt"))
}
