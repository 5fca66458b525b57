package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.txt"), "1 2 3")
	touch(t, filepath.Join(dir, "a.PROB"), "1")
	touch(t, filepath.Join(dir, "notes.md"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	got, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.PROB", got[0].Name)
	assert.Equal(t, "b.txt", got[1].Name)
	assert.Equal(t, int64(5), got[1].Size)
	assert.Equal(t, filepath.Join(dir, "b.txt"), got[1].Path)
}

func TestDiscoverErrors(t *testing.T) {
	t.Parallel()

	_, err := Discover(" ")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.txt")
	touch(t, file, "")
	_, err = Discover(file)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "car.txt"), "0 0 0")

	e, err := Resolve(dir, "car.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "car.txt"), e.Path)

	_, err = Resolve(dir, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, bad := range []string{"", "..", "../car.txt", "sub/car.txt", "car.exe"} {
		_, err = Resolve(dir, bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}
