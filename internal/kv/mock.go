package kv

import "sync"

// Mock is an in-memory test double for Store with error injection.
type Mock struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error

	setCalls int
}

// NewMock creates a new mock store for testing.
func NewMock() *Mock {
	return &Mock{data: make(map[string][]byte)}
}

func (m *Mock) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Mock) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

func (m *Mock) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// SetCalls returns how many times Set was invoked.
func (m *Mock) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

// Verify Mock implements Store at compile time.
var _ Store = (*Mock)(nil)
