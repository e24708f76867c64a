package loopy

import (
	"sync"

	"github.com/vovakirdan/loopy/internal/progress"
)

// SaveStore is the persistence collaborator. The level reads it once at
// start and merges into it exactly once per successful completion.
type SaveStore interface {
	Load() (progress.SaveState, error)
	Merge(levelID, score int, earned progress.Earned) (progress.SaveState, error)
}

// MemoryStore is an in-process SaveStore used by tests and headless runs.
type MemoryStore struct {
	mu     sync.Mutex
	state  progress.SaveState
	merges int
}

// NewMemoryStore creates a store holding the default save.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: progress.Defaults()}
}

// NewMemoryStoreWith creates a store seeded with s after sanitizing it.
func NewMemoryStoreWith(s progress.SaveState) *MemoryStore {
	return &MemoryStore{state: progress.Sanitize(s)}
}

// Load returns a copy of the stored save.
func (m *MemoryStore) Load() (progress.SaveState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return progress.Sanitize(m.state), nil
}

// Merge folds a completion into the stored save.
func (m *MemoryStore) Merge(levelID, score int, earned progress.Earned) (progress.SaveState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = progress.Merge(m.state, levelID, score, earned)
	m.merges++
	return progress.Sanitize(m.state), nil
}

// Merges returns how many completions were merged.
func (m *MemoryStore) Merges() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.merges
}
