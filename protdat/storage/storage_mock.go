package storage

import "sync"

// MockSink is a simple in-memory Sink implementation for tests.
type MockSink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMockSink constructs an empty MockSink.
func NewMockSink() *MockSink {
	return &MockSink{files: make(map[string][]byte)}
}

// WriteFile stores a copy of data under name.
func (m *MockSink) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// File returns the stored content for name, if any.
func (m *MockSink) File(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	return data, ok
}

// Names returns all stored file names.
func (m *MockSink) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	return names
}

// Files returns a copy of the whole name-to-content map.
func (m *MockSink) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string][]byte, len(m.files))
	for name, data := range m.files {
		out[name] = append([]byte(nil), data...)
	}
	return out
}
