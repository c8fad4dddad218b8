package handlers

import (
	"context"
	"sync"
	"time"

	"ai-image-web/internal/adapters"
	"ai-image-web/internal/domain"
	"ai-image-web/internal/gallery"
)

// --- Mocks ---

type mockGenerator struct {
	mu      sync.Mutex
	result  domain.GenerationResult
	panics  bool
	delay   time.Duration
	calls   int
	lastReq domain.GenerationRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	m.mu.Lock()
	m.calls++
	m.lastReq = req
	m.mu.Unlock()

	if m.panics {
		panic("upstream exploded: secret-token-123")
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.result
}

func (m *mockGenerator) Model() string { return "test-model" }

func (m *mockGenerator) lastRequest() domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastReq
}

type memoryStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{data: make(map[string][]byte)}
}

func (m *memoryStorage) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, gallery.ErrSnapshotNotFound
	}
	return v, nil
}

func (m *memoryStorage) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

type mockDownloader struct {
	image   adapters.DownloadedImage
	err     error
	lastURL string
}

func (m *mockDownloader) Download(ctx context.Context, imageURL string) (adapters.DownloadedImage, error) {
	m.lastURL = imageURL
	return m.image, m.err
}

type mockNotifier struct {
	successes chan domain.GeneratedImage
	failures  chan string
	// gate が nil でなければ、閉じられるまで送信を完了しない
	gate chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{
		successes: make(chan domain.GeneratedImage, 4),
		failures:  make(chan string, 4),
	}
}

func (m *mockNotifier) Notify(ctx context.Context, img domain.GeneratedImage, req domain.NotificationRequest) error {
	if m.gate != nil {
		<-m.gate
	}
	m.successes <- img
	return nil
}

func (m *mockNotifier) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	m.failures <- errDetail.Error()
	return nil
}

type mockMetrics struct {
	mu          sync.Mutex
	successes   int
	failures    int
	gallerySize int
}

func (m *mockMetrics) RecordGeneration(model string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.successes++
	} else {
		m.failures++
	}
}

func (m *mockMetrics) SetGallerySize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gallerySize = n
}

func (m *mockMetrics) snapshot() (successes, failures, size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes, m.failures, m.gallerySize
}
