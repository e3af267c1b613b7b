package listing

import (
	"context"
	"sync"
)

// SessionStore is the session-scoped slot holding the last selected page.
type SessionStore interface {
	LoadPage(ctx context.Context) (page int, ok bool, err error)
	SavePage(ctx context.Context, page int) error
}

// MemorySession lives as long as the process.
type MemorySession struct {
	mu   sync.Mutex
	page int
}

func (m *MemorySession) LoadPage(ctx context.Context) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page, m.page > 0, nil
}

func (m *MemorySession) SavePage(ctx context.Context, page int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page = page
	return nil
}
