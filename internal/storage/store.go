// Package storage defines the document store the bot persists its state
// through: four independent JSON documents, each loaded with a default when
// absent and rewritten in full on every mutation.
package storage

import (
	"context"
	"errors"
)

// Document keys.
const (
	KeyUsers     = "users"
	KeyGroups    = "groups"
	KeySchedules = "schedules"
	KeySettings  = "settings"
)

// Store persists whole JSON-shaped documents keyed by name.
type Store interface {
	// Load reads the document into `into`. found is false when the
	// document does not exist yet; `into` is left untouched in that case.
	Load(ctx context.Context, key string, into any) (found bool, err error)

	// Save rewrites the document in full. Last writer wins.
	Save(ctx context.Context, key string, doc any) error
}

// ErrUnknownDriver is returned by the composition root for an
// unrecognized STORAGE_DRIVER value.
var ErrUnknownDriver = errors.New("storage: unknown driver")
