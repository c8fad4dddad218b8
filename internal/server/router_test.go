package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-image-web/internal/adapters"
	"ai-image-web/internal/builder"
	"ai-image-web/internal/domain"
	"ai-image-web/internal/gallery"
	"ai-image-web/internal/metrics"
	"ai-image-web/internal/server/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	return domain.Succeeded("http://x.com/a.png")
}

func (stubGenerator) Model() string { return "stub" }

type stubStorage struct{}

func (stubStorage) Load(ctx context.Context, key string) ([]byte, error) {
	return nil, gallery.ErrSnapshotNotFound
}

func (stubStorage) Save(ctx context.Context, key string, data []byte) error { return nil }

type stubFetcher struct{}

func (stubFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return []byte("img"), nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store, err := gallery.NewStore(stubStorage{}, "")
	require.NoError(t, err)
	downloader, err := adapters.NewImageDownloader(stubFetcher{}, time.Minute)
	require.NoError(t, err)
	collector := metrics.NewCollector("router_test")

	api, err := handlers.NewHandler(handlers.Dependencies{
		Generator:  stubGenerator{},
		Gallery:    store,
		Downloader: downloader,
		Metrics:    collector,
	})
	require.NoError(t, err)

	return NewRouter(&builder.AppHandlers{
		API:            api,
		Metrics:        collector.Middleware,
		MetricsHandler: collector.Handler(),
	})
}

func TestNewRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{name: "ヘルスチェック", method: http.MethodGet, target: "/healthz", want: http.StatusOK},
		{name: "選択肢", method: http.MethodGet, target: "/api/options", want: http.StatusOK},
		{name: "ギャラリー一覧", method: http.MethodGet, target: "/api/gallery", want: http.StatusOK},
		{name: "画像生成", method: http.MethodPost, target: "/api/generate-image", body: `{"prompt":"a cat"}`, want: http.StatusOK},
		{name: "プロンプト無しの画像生成", method: http.MethodPost, target: "/api/generate-image", body: `{}`, want: http.StatusBadRequest},
		{name: "存在しない画像の削除", method: http.MethodDelete, target: "/api/gallery/none", want: http.StatusNotFound},
		{name: "メトリクス", method: http.MethodGet, target: "/metrics", want: http.StatusOK},
		{name: "未定義のルート", method: http.MethodGet, target: "/nope", want: http.StatusNotFound},
		{name: "許可されていないメソッド", method: http.MethodGet, target: "/api/generate-image", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			} else {
				req = httptest.NewRequest(tt.method, tt.target, nil)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
