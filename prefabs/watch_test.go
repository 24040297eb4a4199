package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir}, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	spec := filepath.Join(dir, "pawn.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(spec, []byte("name: pawn\n"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, spec, name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the changed prefab")
	}

	select {
	case name := <-w.Events:
		t.Fatalf("unexpected second event %q", name)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher([]string{t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, open := <-w.Events
	assert.False(t, open)
	_, open = <-w.Errors
	assert.False(t, open)
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
}
