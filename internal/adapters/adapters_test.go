package adapters

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ai-image-web/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls.Add(1)
	return m.data, m.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000")

func TestImageDownloader(t *testing.T) {
	ctx := context.Background()

	t.Run("初期化パラメータの検証", func(t *testing.T) {
		_, err := NewImageDownloader(nil, time.Minute)
		assert.Error(t, err)
		_, err = NewImageDownloader(&mockFetcher{}, 0)
		assert.Error(t, err)
	})

	t.Run("2回目はキャッシュから返る", func(t *testing.T) {
		fetcher := &mockFetcher{data: pngHeader}
		d, err := NewImageDownloader(fetcher, time.Minute)
		require.NoError(t, err)

		first, err := d.Download(ctx, "http://x.com/a.png")
		require.NoError(t, err)
		second, err := d.Download(ctx, "http://x.com/a.png")
		require.NoError(t, err)

		assert.Equal(t, int32(1), fetcher.calls.Load())
		assert.Equal(t, first, second)
		assert.Equal(t, "image/png", first.ContentType)
	})

	t.Run("取得エラーはラップされキャッシュされない", func(t *testing.T) {
		fetcher := &mockFetcher{err: errors.New("404 not found")}
		d, err := NewImageDownloader(fetcher, time.Minute)
		require.NoError(t, err)

		_, err = d.Download(ctx, "http://x.com/a.png")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404 not found")

		_, _ = d.Download(ctx, "http://x.com/a.png")
		assert.Equal(t, int32(2), fetcher.calls.Load())
	})

	t.Run("空のレスポンスは ErrEmptyImage", func(t *testing.T) {
		d, err := NewImageDownloader(&mockFetcher{data: []byte{}}, time.Minute)
		require.NoError(t, err)

		_, err = d.Download(ctx, "http://x.com/a.png")
		assert.True(t, errors.Is(err, ErrEmptyImage))
	})
}

func TestSlackAdapter_Disabled(t *testing.T) {
	ctx := context.Background()
	a, err := NewSlackAdapter(nil, "")
	require.NoError(t, err)

	req := domain.NewNotificationRequest(domain.GenerationRequest{Prompt: "cat"}, "model")
	assert.NoError(t, a.Notify(ctx, domain.GeneratedImage{ID: "1"}, req))
	assert.NoError(t, a.NotifyError(ctx, errors.New("boom"), req))
}

func TestSlackContent(t *testing.T) {
	t.Run("既定値の指定は省略される", func(t *testing.T) {
		req := domain.NewNotificationRequest(domain.GenerationRequest{Prompt: "a cat"}, "flux")
		content := buildSuccessContent(domain.GeneratedImage{ID: "id-1", URL: "http://x.com/a.png"}, req)

		assert.Contains(t, content, "`a cat`")
		assert.Contains(t, content, "`flux`")
		assert.Contains(t, content, "http://x.com/a.png")
		assert.NotContains(t, content, "縦横比")
		assert.NotContains(t, content, "画風")
	})

	t.Run("エラー内容と指定がすべて含まれる", func(t *testing.T) {
		req := domain.NewNotificationRequest(domain.GenerationRequest{Prompt: "p", AspectRatio: "wide", Style: "vintage"}, "flux")
		content := buildErrorContent(errors.New("HTTP 503: Service Unavailable"), req)

		assert.Contains(t, content, "`wide`")
		assert.Contains(t, content, "`vintage`")
		assert.Contains(t, content, "HTTP 503: Service Unavailable")
	})
}
