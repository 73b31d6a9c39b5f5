package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/gompa/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return fs
}

func TestFS_SetGetRoundtrip(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	require.NoError(t, fs.Set(ctx, "monastery-offline-data", []byte(`{"a":1}`)))

	got, err := fs.Get(ctx, "monastery-offline-data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	ok, err := fs.Has(ctx, "monastery-offline-data")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFS_GetMissing(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.Get(context.Background(), "nothing-here")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := fs.Has(context.Background(), "nothing-here")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFS_NoticesExternalChanges(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "k", []byte("v1")))

	// Another process replaces the file behind our back.
	path := filepath.Join(fs.Dir(), "k.json")
	require.NoError(t, os.WriteFile(path, []byte("version-two"), 0o644))

	got, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "version-two", string(got))

	// And then clears it.
	require.NoError(t, os.Remove(path))
	_, err = fs.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFS_KeysMapToFiles(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "monastery-offline-data", []byte("x")))
	require.NoError(t, fs.Set(ctx, "monastery-offline-download:guide", []byte("x")))

	_, err := os.Stat(filepath.Join(fs.Dir(), "monastery-offline-data.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(fs.Dir(), "monastery-offline-download%3Aguide.json"))
	assert.NoError(t, err)
}

func TestFS_ColonAndUnderscoreKeysDoNotCollide(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "guide:1", []byte("colon")))
	require.NoError(t, fs.Set(ctx, "guide_1", []byte("underscore")))

	reopened, err := NewFS(fs.Dir())
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "guide:1")
	require.NoError(t, err)
	assert.Equal(t, "colon", string(got))

	got, err = reopened.Get(ctx, "guide_1")
	require.NoError(t, err)
	assert.Equal(t, "underscore", string(got))
}

func TestFS_RejectsInvalidKeys(t *testing.T) {
	fs := newTestFS(t)
	for _, key := range []string{"", "../escape", "a/b", " spaced"} {
		err := fs.Set(context.Background(), key, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestFS_SetHonoursCancelledContext(t *testing.T) {
	fs := newTestFS(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, fs.Set(ctx, "k", []byte("v")))
	ok, err := fs.Has(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFS_SetWriteFailureKeepsPrevious(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	fs := newTestFS(t)
	ctx := context.Background()
	require.NoError(t, fs.Set(ctx, "k", []byte("good")))

	require.NoError(t, os.Chmod(fs.Dir(), 0o500))
	t.Cleanup(func() { _ = os.Chmod(fs.Dir(), 0o755) })

	require.Error(t, fs.Set(ctx, "k", []byte("bad")))

	got, err := fs.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "good", string(got))
}

func TestMemory_FailWrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", []byte("v1")))

	m.FailWrites = assert.AnError
	assert.ErrorIs(t, m.Set(ctx, "k", []byte("v2")), assert.AnError)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))
	assert.Equal(t, 1, m.Writes())
}
