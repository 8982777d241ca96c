package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarbeat/newsfeed/internal/domain"
)

func TestStore_LoadMissingFile(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "curation.json"))

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{}, state.Hidden)
	assert.Empty(t, state.Pinned)
}

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "curation.json")
	store := New(path)

	saved := domain.CurationState{
		Hidden: []string{"https://news.test/spam"},
		Pinned: []domain.PinnedArticle{{
			Title:    "Big solar milestone",
			URL:      "https://news.test/milestone",
			Note:     "must-read",
			PinnedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.Hidden, loaded.Hidden)
	require.Len(t, loaded.Pinned, 1)
	assert.Equal(t, "must-read", loaded.Pinned[0].Note)
	assert.True(t, loaded.Pinned[0].PinnedAt.Equal(saved.Pinned[0].PinnedAt))

	// The write must not leave a temp file behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_SaveCreatesParentDirectories(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "curation.json")
	store := New(path)

	require.NoError(t, store.Save(ctx, domain.CurationState{Hidden: []string{}}))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curation.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(path).Load(context.Background())
	assert.Error(t, err)
}

func TestStore_LoadNormalizesNilHidden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curation.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pinned":[]}`), 0o644))

	state, err := New(path).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, state.Hidden)
}
