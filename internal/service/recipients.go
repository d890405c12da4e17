package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sardorbek-uz/raspisanie-bot/internal/storage"
)

// RecipientService owns the subscriber and group registries. Membership is
// idempotent; insertion order is preserved for display. Individual
// subscribers are never removed automatically — a failed delivery does not
// touch the registry.
type RecipientService struct {
	mu     sync.RWMutex
	users  []int64
	groups []int64
	store  storage.Store
	logger *zap.Logger
}

func NewRecipientService(ctx context.Context, store storage.Store, logger *zap.Logger) (*RecipientService, error) {
	s := &RecipientService{store: store, logger: logger}

	if _, err := store.Load(ctx, storage.KeyUsers, &s.users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if _, err := store.Load(ctx, storage.KeyGroups, &s.groups); err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	return s, nil
}

// AddUser registers an individual subscriber. Reports whether it was new.
func (s *RecipientService) AddUser(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contains(s.users, id) {
		return false, nil
	}
	s.users = append(s.users, id)

	if err := s.store.Save(ctx, storage.KeyUsers, s.users); err != nil {
		return true, fmt.Errorf("persist users: %w", err)
	}
	s.logger.Info("Subscriber registered", zap.Int64("chat_id", id))
	return true, nil
}

// AddGroup registers a group chat. Reports whether it was new.
func (s *RecipientService) AddGroup(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if contains(s.groups, id) {
		return false, nil
	}
	s.groups = append(s.groups, id)

	if err := s.store.Save(ctx, storage.KeyGroups, s.groups); err != nil {
		return true, fmt.Errorf("persist groups: %w", err)
	}
	s.logger.Info("Group registered", zap.Int64("chat_id", id))
	return true, nil
}

// RemoveGroup deregisters a group the bot was ejected from.
func (s *RecipientService) RemoveGroup(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.groups {
		if g == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			if err := s.store.Save(ctx, storage.KeyGroups, s.groups); err != nil {
				return fmt.Errorf("persist groups: %w", err)
			}
			s.logger.Info("Group removed", zap.Int64("chat_id", id))
			return nil
		}
	}
	return nil
}

// Users returns a copy of the subscriber list.
func (s *RecipientService) Users() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]int64(nil), s.users...)
}

// Groups returns a copy of the group list.
func (s *RecipientService) Groups() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]int64(nil), s.groups...)
}

// Counts returns the registry sizes for the stats panel.
func (s *RecipientService) Counts() (users, groups int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), len(s.groups)
}

// LastUsers returns up to n most recently registered subscribers.
func (s *RecipientService) LastUsers(n int) []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.users) {
		n = len(s.users)
	}
	return append([]int64(nil), s.users[len(s.users)-n:]...)
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
