package application_test

import (
	"context"
	"sync"

	"github.com/openkraft/jsonkraft/internal/domain"
)

type fakeValidator struct {
	errs  []domain.ValidationError
	err   error
	calls int
}

func (f *fakeValidator) Validate(_ context.Context, _ []byte, _ any) ([]domain.ValidationError, error) {
	f.calls++
	return f.errs, f.err
}

type fakeAI struct {
	reply string
	err   error
	calls int
	got   string
}

func (f *fakeAI) Repair(ctx context.Context, text string) (string, error) {
	f.calls++
	f.got = text
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.reply, f.err
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]*domain.ValidationResult
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*domain.ValidationResult)}
}

func (m *memCache) Key(text string, schema []byte) string { return text + "|" + string(schema) }

func (m *memCache) Get(key string) (*domain.ValidationResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.entries[key]
	return r, ok
}

func (m *memCache) Put(key string, r *domain.ValidationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[key] = r
	return nil
}
