package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mit-motorsports/purchasing-api/internal/domain"
	"github.com/mit-motorsports/purchasing-api/pkg/config"
)

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.UploadConfig{Dir: t.TempDir(), MaxSizeMB: 1})
	require.NoError(t, err)
	return store
}

func TestSave_AndExists(t *testing.T) {
	store := newStore(t)
	content := "not really a png"

	ref, err := store.Save(context.Background(), "arrival photo.PNG", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(ref, ".png"))
	assert.True(t, strings.HasPrefix(ref, "arrival_photo_"))
	assert.True(t, store.Exists(ref))
	assert.False(t, store.Exists("never-stored.png"))
}

func TestSave_RejectsUnknownExtensions(t *testing.T) {
	store := newStore(t)

	for _, name := range []string{"malware.exe", "script.sh", "noextension"} {
		_, err := store.Save(context.Background(), name, strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, domain.ErrValidation, "file %s", name)
	}
}

func TestSave_RejectsOversizedFiles(t *testing.T) {
	store := newStore(t)

	_, err := store.Save(context.Background(), "big.jpg", strings.NewReader("x"), 2*1024*1024)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = store.Save(context.Background(), "empty.jpg", strings.NewReader(""), 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSave_UniqueNames(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "photo.jpg", strings.NewReader("a"), 1)
	require.NoError(t, err)
	b, err := store.Save(ctx, "photo.jpg", strings.NewReader("b"), 1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, store.Exists(a))
	assert.True(t, store.Exists(b))
}

func TestExists_RejectsPathEscapes(t *testing.T) {
	store := newStore(t)
	assert.False(t, store.Exists("../outside.png"))
	assert.False(t, store.Exists(""))
}
