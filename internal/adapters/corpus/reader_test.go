package corpus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/adapters/corpus"
	"go.trai.ch/testforge/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestReader_Read(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "calc.cpp"), "int add(int a, int b);")
	writeFile(t, filepath.Join(src, "calc.h"), "#pragma once")
	writeFile(t, filepath.Join(src, "geometry", "shape.cc"), "struct Shape {};")
	writeFile(t, filepath.Join(src, "README.md"), "docs")
	writeFile(t, filepath.Join(src, ".git", "hooks.cpp"), "nope")

	c, err := corpus.NewReader().Read(context.Background(), src, domain.DefaultConfig().SourceFilter())
	require.NoError(t, err)

	assert.Equal(t, []string{"calc.cpp", "calc.h", "shape.cc"}, c.Identifiers())

	u, ok := c.Get("shape.cc")
	require.True(t, ok)
	assert.Equal(t, "struct Shape {};", u.Content)
	assert.Equal(t, filepath.Join(src, "geometry", "shape.cc"), u.Path)
}

func TestReader_Read_Ignore(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "main.cpp"), "int main() {}")
	writeFile(t, filepath.Join(src, "lib.cpp"), "void f() {}")
	writeFile(t, filepath.Join(src, "third_party", "dep.cpp"), "void g() {}")

	filter := domain.DefaultConfig().SourceFilter()
	filter.Ignore = []string{"main.cpp", "third_party"}

	c, err := corpus.NewReader().Read(context.Background(), src, filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib.cpp"}, c.Identifiers())
}

func TestReader_Read_MissingDir(t *testing.T) {
	_, err := corpus.NewReader().Read(context.Background(), filepath.Join(t.TempDir(), "src"), domain.SourceFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source directory not found")
}

func TestReader_Read_FileInsteadOfDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src")
	writeFile(t, path, "not a dir")

	_, err := corpus.NewReader().Read(context.Background(), path, domain.SourceFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source directory not found")
}

func TestReader_Read_Empty(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "notes.txt"), "x")

	_, err := corpus.NewReader().Read(context.Background(), src, domain.DefaultConfig().SourceFilter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source files found")
}

func TestReader_Read_DuplicateBaseName(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a", "util.cpp"), "1")
	writeFile(t, filepath.Join(src, "b", "util.cpp"), "2")

	_, err := corpus.NewReader().Read(context.Background(), src, domain.DefaultConfig().SourceFilter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate source identifier")
}

func TestReader_Read_Canceled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "calc.cpp"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := corpus.NewReader().Read(ctx, src, domain.DefaultConfig().SourceFilter())
	require.ErrorIs(t, err, context.Canceled)
}
