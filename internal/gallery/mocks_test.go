package gallery

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// --- Mocks ---

type memoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	saves   int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// mockRemote は go-remote-io の Reader/Writer の代わりにパスごとのバイト列を保持します。
type mockRemote struct {
	objects  map[string][]byte
	lastType string
}

func (m *mockRemote) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	v, ok := m.objects[uri]
	if !ok {
		return nil, errors.New("object does not exist")
	}
	return io.NopCloser(bytes.NewReader(v)), nil
}

func (m *mockRemote) Write(ctx context.Context, uri string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[uri] = data
	m.lastType = contentType
	return nil
}
