package service

import (
	"context"
	"sync"
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

// MemoryRegistry — реестр делегирований в памяти процесса.
// Используется в тестах и в режиме без Postgres; реализует Registry
// и RequestLog за тем же интерфейсом, что и internal/repo.Store.
type MemoryRegistry struct {
	mu       sync.RWMutex
	byID     map[string]models.Delegation
	requests []models.DelegationRequest
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{byID: make(map[string]models.Delegation)}
}

func (m *MemoryRegistry) Insert(_ context.Context, d models.Delegation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[d.ID] = d
	return nil
}

func (m *MemoryRegistry) Get(_ context.Context, id string) (models.Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.byID[id]
	if !ok {
		return models.Delegation{}, ErrNotFound
	}
	return d, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	return true, nil
}

func (m *MemoryRegistry) List(_ context.Context, namespace string) ([]models.Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Delegation, 0, len(m.byID))
	for _, d := range m.byID {
		if namespace != "" && d.Namespace != namespace {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *MemoryRegistry) ListExpired(_ context.Context, now time.Time) ([]models.Delegation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Delegation
	for _, d := range m.byID {
		if d.Expired(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MemoryRegistry) UpdateQuota(_ context.Context, id string, usage models.QuotaUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	d.QuotaUsed = usage
	m.byID[id] = d
	return nil
}

func (m *MemoryRegistry) SaveRequest(_ context.Context, req models.DelegationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return nil
}
