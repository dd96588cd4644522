package lock_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/testforge/internal/adapters/lock"
)

func TestFileLocker_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".testforge.lock")
	locker := lock.NewFileLocker()

	release, err := locker.Lock(path)
	require.NoError(t, err)

	// flock locks belong to the open file description, so a second open
	// in the same process conflicts just like another process would.
	_, err = locker.Lock(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace is locked by another run")

	require.NoError(t, release())
	require.NoError(t, release())

	releaseAgain, err := locker.Lock(path)
	require.NoError(t, err)
	require.NoError(t, releaseAgain())
}

func TestFileLocker_WritesPid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".testforge.lock")

	release, err := lock.NewFileLocker().Lock(path)
	require.NoError(t, err)
	defer func() { _ = release() }()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))
}
