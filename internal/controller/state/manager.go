package state

import "sync"

// Manager tracks the active admin dialog per initiating identity. The
// transport may invoke handlers concurrently for different updates, so
// access is mutex-guarded.
type Manager struct {
	mu      sync.RWMutex
	dialogs map[int64]Dialog
}

func NewManager() *Manager {
	return &Manager{
		dialogs: make(map[int64]Dialog),
	}
}

// Get returns the identity's dialog, or the zero Dialog (StepNone).
func (m *Manager) Get(id int64) Dialog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.dialogs[id]
}

// Set replaces the identity's dialog. A StepNone dialog clears the entry.
func (m *Manager) Set(id int64, d Dialog) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.Step == StepNone {
		delete(m.dialogs, id)
		return
	}
	m.dialogs[id] = d
}

// Clear drops the identity's dialog, canceling any pending step.
func (m *Manager) Clear(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.dialogs, id)
}
