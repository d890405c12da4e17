package file

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage"
)

func TestStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	settings := model.DefaultSettings(10)
	require.NoError(t, store.Save(ctx, storage.KeySettings, settings))

	var loaded model.Settings
	found, err := store.Load(ctx, storage.KeySettings, &loaded)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, settings, loaded)
}

func TestStoreMissingDocument(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	// Absent document: found=false and the target is untouched so the
	// caller's hard-coded default survives.
	users := []int64{1, 2, 3}
	found, err := store.Load(context.Background(), storage.KeyUsers, &users)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []int64{1, 2, 3}, users)
}

func TestStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, storage.KeyGroups, []int64{-100}))
	require.NoError(t, store.Save(ctx, storage.KeyGroups, []int64{-100, -200}))

	var groups []int64
	found, err := store.Load(ctx, storage.KeyGroups, &groups)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []int64{-100, -200}, groups)
}

func TestWriteSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	table := model.DefaultWeekTable()

	first, err := storage.WriteSnapshot(dir, testTime(t), table)
	require.NoError(t, err)
	assert.FileExists(t, first)

	second, err := storage.WriteSnapshot(dir, testTime(t), table)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "snapshots are append-only, never overwritten")
}

func testTime(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}
