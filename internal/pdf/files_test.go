package pdf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryCache(t *testing.T) {
	cache := NewDirectoryCache(time.Hour)

	_, ok := cache.Get("missing")
	assert.False(t, ok)

	files := []FileInfo{{Name: "a.pdf"}}
	cache.Set("dir|0", files)
	got, ok := cache.Get("dir|0")
	require.True(t, ok)
	assert.Equal(t, files, got)

	expired := NewDirectoryCache(time.Nanosecond)
	expired.Set("dir|0", files)
	time.Sleep(time.Millisecond)
	_, ok = expired.Get("dir|0")
	assert.False(t, ok)
}

func TestFinder_FindPDFs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PDF", "sub/c.pdf", ".git/d.pdf", "notes.txt", "empty.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		data := []byte("%PDF-1.4")
		if name == "empty.pdf" {
			data = nil
		}
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}

	finder := NewFinder(NewValidator(1024), 0)

	files, err := finder.FindPDFs(dir, 0)
	require.NoError(t, err)
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"a.PDF", "b.pdf", "c.pdf"}, names)
	assert.Equal(t, int64(8), files[0].Size)

	limited, err := finder.FindPDFs(dir, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = finder.FindPDFs("", 0)
	assert.Error(t, err)
	_, err = finder.FindPDFs(filepath.Join(dir, "nope"), 0)
	assert.ErrorContains(t, err, "directory does not exist")
}

func TestFinder_Caches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("%PDF"), 0o644))

	finder := NewFinder(NewValidator(1024), time.Hour)
	first, err := finder.FindPDFs(dir, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("%PDF"), 0o644))
	cached, err := finder.FindPDFs(dir, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	uncached, err := NewFinder(NewValidator(1024), 0).FindPDFs(dir, 0)
	require.NoError(t, err)
	assert.Len(t, uncached, 2)
}
