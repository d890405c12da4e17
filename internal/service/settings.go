package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/model"
	"github.com/sardorbek-uz/raspisanie-bot/internal/storage"
)

// SettingsService owns the settings document: the current variant, the
// broadcast toggles, the reminder lead time and the admin set.
type SettingsService struct {
	mu     sync.RWMutex
	cfg    model.Settings
	store  storage.Store
	logger *zap.Logger
}

func NewSettingsService(ctx context.Context, store storage.Store, operatorID int64, logger *zap.Logger) (*SettingsService, error) {
	s := &SettingsService{
		cfg:    model.DefaultSettings(operatorID),
		store:  store,
		logger: logger,
	}

	found, err := store.Load(ctx, storage.KeySettings, &s.cfg)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !found {
		if err := store.Save(ctx, storage.KeySettings, s.cfg); err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
	}
	if !s.cfg.CurrentVariant.Valid() {
		s.cfg.CurrentVariant = model.VariantUpper
	}
	return s, nil
}

// Current returns a copy of the settings.
func (s *SettingsService) Current() model.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.cfg
	cfg.AdminIDs = append([]int64(nil), s.cfg.AdminIDs...)
	return cfg
}

// Variant returns the current schedule variant.
func (s *SettingsService) Variant() model.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg.CurrentVariant
}

// ToggleVariant flips the current variant and persists immediately.
func (s *SettingsService) ToggleVariant(ctx context.Context) (model.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.CurrentVariant = s.cfg.CurrentVariant.Toggle()
	if err := s.store.Save(ctx, storage.KeySettings, s.cfg); err != nil {
		return s.cfg.CurrentVariant, fmt.Errorf("persist settings: %w", err)
	}
	s.logger.Info("Variant toggled", zap.String("variant", string(s.cfg.CurrentVariant)))
	return s.cfg.CurrentVariant, nil
}

// PreviewVariant computes the variant a given date should be rendered
// under: when the date is the rotation day and auto-switch is on, the
// flipped variant is returned without persisting anything. Used by the
// 18:00 broadcast and /ertaga so "tomorrow" shows the post-rotation week
// while the real flip only happens Monday morning.
func (s *SettingsService) PreviewVariant(date time.Time) model.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cfg.AutoSwitchOnMonday && date.Weekday() == time.Monday {
		return s.cfg.CurrentVariant.Toggle()
	}
	return s.cfg.CurrentVariant
}

// RotateIfDue performs the automatic Monday rotation: if today is the
// rotation day, auto-switch is enabled and no rotation was recorded for
// this date yet, the variant flips and is persisted. Reports whether a
// flip happened and the variant now in effect.
func (s *SettingsService) RotateIfDue(ctx context.Context, today time.Time) (bool, model.Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.AutoSwitchOnMonday || today.Weekday() != time.Monday {
		return false, s.cfg.CurrentVariant, nil
	}
	date := today.Format("2006-01-02")
	if s.cfg.LastRotation == date {
		return false, s.cfg.CurrentVariant, nil
	}

	s.cfg.CurrentVariant = s.cfg.CurrentVariant.Toggle()
	s.cfg.LastRotation = date
	if err := s.store.Save(ctx, storage.KeySettings, s.cfg); err != nil {
		return true, s.cfg.CurrentVariant, fmt.Errorf("persist settings: %w", err)
	}

	s.logger.Info("Automatic Monday rotation",
		zap.String("variant", string(s.cfg.CurrentVariant)),
		zap.String("date", date))
	return true, s.cfg.CurrentVariant, nil
}

// IsAdmin reports whether id belongs to the global admin set.
func (s *SettingsService) IsAdmin(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg.IsAdmin(id)
}

// OperatorID returns the first admin, the recipient of delivery reports.
func (s *SettingsService) OperatorID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.cfg.AdminIDs) == 0 {
		return 0
	}
	return s.cfg.AdminIDs[0]
}

// ToggleAdmin adds id to the admin set, or removes it when already
// present. Reports whether the id was added.
func (s *SettingsService) ToggleAdmin(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.cfg.AdminIDs {
		if a == id {
			s.cfg.AdminIDs = append(s.cfg.AdminIDs[:i], s.cfg.AdminIDs[i+1:]...)
			if err := s.store.Save(ctx, storage.KeySettings, s.cfg); err != nil {
				return false, fmt.Errorf("persist settings: %w", err)
			}
			s.logger.Info("Admin removed", zap.Int64("admin_id", id))
			return false, nil
		}
	}

	s.cfg.AdminIDs = append(s.cfg.AdminIDs, id)
	if err := s.store.Save(ctx, storage.KeySettings, s.cfg); err != nil {
		return true, fmt.Errorf("persist settings: %w", err)
	}
	s.logger.Info("Admin added", zap.Int64("admin_id", id))
	return true, nil
}
