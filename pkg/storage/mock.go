package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID][]byte
	saves     map[uuid.UUID][]byte
	pingError error
	saveError error
	loadError error

	SaveCalls int
	LoadCalls int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID][]byte),
		saves:    make(map[uuid.UUID][]byte),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every write fail with err.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SetLoadError makes every read fail with err.
func (m *MockStorage) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadError = err
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveSession mocks saving a session blob
func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, blob []byte) error {
	if blob == nil {
		return errors.New("session blob cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.saveError != nil {
		return m.saveError
	}
	m.sessions[id] = slices.Clone(blob)
	return nil
}

// LoadSession mocks loading a session blob
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls++
	if m.loadError != nil {
		return nil, m.loadError
	}
	blob, exists := m.sessions[id]
	if !exists {
		return nil, nil // Return nil for not found
	}
	return slices.Clone(blob), nil
}

// DeleteSession mocks deleting a session and its save slot
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.saves, id)
	return nil
}

// PutSave mocks writing the save slot
func (m *MockStorage) PutSave(ctx context.Context, id uuid.UUID, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.saves[id] = slices.Clone(blob)
	return nil
}

// GetSave mocks reading the save slot
func (m *MockStorage) GetSave(ctx context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loadError != nil {
		return nil, m.loadError
	}
	blob, exists := m.saves[id]
	if !exists {
		return nil, nil
	}
	return slices.Clone(blob), nil
}

// SessionCount returns how many sessions are stored (for testing)
func (m *MockStorage) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
