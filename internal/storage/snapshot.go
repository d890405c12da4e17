package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// WriteSnapshot drops a timestamped copy of the schedules document into the
// append-only backup directory and returns the file path. The uuid suffix
// keeps two backups taken in the same second from colliding.
func WriteSnapshot(dir string, now time.Time, doc any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}

	name := fmt.Sprintf("schedules_backup_%s_%s.json",
		now.Format("20060102_150405"), uuid.NewString()[:8])
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
