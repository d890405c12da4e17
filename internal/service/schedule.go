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

// ScheduleService owns the two-variant week table. All access is serialized
// behind its mutex; every mutation rewrites the schedules document in full.
type ScheduleService struct {
	mu        sync.RWMutex
	table     model.WeekTable
	store     storage.Store
	backupDir string
	logger    *zap.Logger
}

func NewScheduleService(ctx context.Context, store storage.Store, backupDir string, logger *zap.Logger) (*ScheduleService, error) {
	s := &ScheduleService{
		table:     model.DefaultWeekTable(),
		store:     store,
		backupDir: backupDir,
		logger:    logger,
	}

	found, err := store.Load(ctx, storage.KeySchedules, &s.table)
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if !found {
		if err := store.Save(ctx, storage.KeySchedules, s.table); err != nil {
			return nil, fmt.Errorf("seed schedules: %w", err)
		}
		logger.Info("Seeded default schedule table")
	}
	return s, nil
}

// Day returns the raw text of one day of one variant.
func (s *ScheduleService) Day(variant model.Variant, day string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.table[variant][day]
	return text, ok
}

// Snapshot returns a deep copy safe to render without locks.
func (s *ScheduleService) Snapshot() model.WeekTable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.table.Clone()
}

// SetDay creates or overwrites a day's text and persists the table.
func (s *ScheduleService) SetDay(ctx context.Context, variant model.Variant, day, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table[variant] == nil {
		s.table[variant] = model.DayTable{}
	}
	s.table[variant][day] = text

	if err := s.store.Save(ctx, storage.KeySchedules, s.table); err != nil {
		return fmt.Errorf("persist schedules: %w", err)
	}
	s.logger.Info("Schedule day updated",
		zap.String("variant", string(variant)),
		zap.String("day", day))
	return nil
}

// DeleteDay removes a day entry. Reports whether the entry existed.
func (s *ScheduleService) DeleteDay(ctx context.Context, variant model.Variant, day string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.table[variant][day]; !ok {
		return false, nil
	}
	delete(s.table[variant], day)

	if err := s.store.Save(ctx, storage.KeySchedules, s.table); err != nil {
		return true, fmt.Errorf("persist schedules: %w", err)
	}
	s.logger.Info("Schedule day deleted",
		zap.String("variant", string(variant)),
		zap.String("day", day))
	return true, nil
}

// Backup snapshots the table into the backup directory and returns the path.
func (s *ScheduleService) Backup(now time.Time) (string, error) {
	s.mu.RLock()
	table := s.table.Clone()
	s.mu.RUnlock()

	path, err := storage.WriteSnapshot(s.backupDir, now, table)
	if err != nil {
		return "", err
	}
	s.logger.Info("Schedule backup written", zap.String("path", path))
	return path, nil
}
