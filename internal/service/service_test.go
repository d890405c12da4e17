package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/clock"
	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage/file"
)

func newFileStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := file.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestScheduleServiceSeedAndEdit(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)

	svc, err := NewScheduleService(ctx, store, t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	// Seeded with defaults.
	text, ok := svc.Day(model.VariantUpper, "Monday")
	require.True(t, ok)
	assert.NotEmpty(t, text)

	require.NoError(t, svc.SetDay(ctx, model.VariantLower, "Friday", "08:00 - Yangi fan"))

	// A fresh service over the same store sees the persisted edit.
	again, err := NewScheduleService(ctx, store, t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	got, ok := again.Day(model.VariantLower, "Friday")
	require.True(t, ok)
	assert.Equal(t, "08:00 - Yangi fan", got)
}

func TestScheduleServiceDeleteDay(t *testing.T) {
	ctx := context.Background()
	svc, err := NewScheduleService(ctx, newFileStore(t), t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	existed, err := svc.DeleteDay(ctx, model.VariantUpper, "Monday")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.DeleteDay(ctx, model.VariantUpper, "Monday")
	require.NoError(t, err)
	assert.False(t, existed, "second delete must report a missing entry")
}

func TestScheduleServiceBackup(t *testing.T) {
	ctx := context.Background()
	backupDir := t.TempDir()
	svc, err := NewScheduleService(ctx, newFileStore(t), backupDir, zap.NewNop())
	require.NoError(t, err)

	path, err := svc.Backup(time.Date(2025, 3, 10, 8, 0, 0, 0, clock.Zone))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestSettingsToggleVariant(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, newFileStore(t), 1, zap.NewNop())
	require.NoError(t, err)

	start := svc.Variant()
	_, err = svc.ToggleVariant(ctx)
	require.NoError(t, err)
	assert.Equal(t, start.Toggle(), svc.Variant())

	_, err = svc.ToggleVariant(ctx)
	require.NoError(t, err)
	assert.Equal(t, start, svc.Variant(), "toggling twice returns to the original variant")
}

func TestSettingsRotateIfDue(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, newFileStore(t), 1, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, model.VariantUpper, svc.Variant())

	monday := time.Date(2025, 3, 10, 6, 0, 0, 0, clock.Zone) // a Monday
	require.Equal(t, time.Monday, monday.Weekday())

	rotated, variant, err := svc.RotateIfDue(ctx, monday)
	require.NoError(t, err)
	assert.True(t, rotated)
	assert.Equal(t, model.VariantLower, variant)

	// A second wake the same day must not rotate again.
	rotated, variant, err = svc.RotateIfDue(ctx, monday.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, rotated)
	assert.Equal(t, model.VariantLower, variant)

	// Non-rotation days never rotate.
	tuesday := monday.AddDate(0, 0, 1)
	rotated, _, err = svc.RotateIfDue(ctx, tuesday)
	require.NoError(t, err)
	assert.False(t, rotated)
}

func TestSettingsPreviewVariant(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, newFileStore(t), 1, zap.NewNop())
	require.NoError(t, err)

	monday := time.Date(2025, 3, 10, 18, 0, 0, 0, clock.Zone)
	tuesday := monday.AddDate(0, 0, 1)

	// Preview flips for the rotation day without persisting.
	assert.Equal(t, model.VariantLower, svc.PreviewVariant(monday))
	assert.Equal(t, model.VariantUpper, svc.Variant(), "preview must not persist the flip")
	assert.Equal(t, model.VariantUpper, svc.PreviewVariant(tuesday))
}

func TestSettingsToggleAdmin(t *testing.T) {
	ctx := context.Background()
	svc, err := NewSettingsService(ctx, newFileStore(t), 1, zap.NewNop())
	require.NoError(t, err)

	added, err := svc.ToggleAdmin(ctx, 99)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, svc.IsAdmin(99))

	added, err = svc.ToggleAdmin(ctx, 99)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, svc.IsAdmin(99))
}

func TestRecipientsIdempotentMembership(t *testing.T) {
	ctx := context.Background()
	store := newFileStore(t)
	svc, err := NewRecipientService(ctx, store, zap.NewNop())
	require.NoError(t, err)

	added, err := svc.AddUser(ctx, 100)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.AddUser(ctx, 100)
	require.NoError(t, err)
	assert.False(t, added, "adding twice is a no-op")
	assert.Equal(t, []int64{100}, svc.Users())

	_, err = svc.AddGroup(ctx, -500)
	require.NoError(t, err)
	require.NoError(t, svc.RemoveGroup(ctx, -500))
	assert.Empty(t, svc.Groups())

	// Removing an unknown group is not an error.
	require.NoError(t, svc.RemoveGroup(ctx, -999))
}

func TestRecipientsOrderAndCounts(t *testing.T) {
	ctx := context.Background()
	svc, err := NewRecipientService(ctx, newFileStore(t), zap.NewNop())
	require.NoError(t, err)

	for _, id := range []int64{3, 1, 2} {
		_, err := svc.AddUser(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, []int64{3, 1, 2}, svc.Users(), "insertion order is preserved")
	assert.Equal(t, []int64{1, 2}, svc.LastUsers(2))

	users, groups := svc.Counts()
	assert.Equal(t, 3, users)
	assert.Zero(t, groups)
}
