package builder

import (
	"fmt"
	"net/http"

	"ai-image-web/internal/app"
	"ai-image-web/internal/server/handlers"
)

// AppHandlers は生成されたすべての HTTP ハンドラーを保持する構造体です。
// server パッケージはこの構造体を受け取ってルーティングを行います。
type AppHandlers struct {
	API *handlers.Handler

	// Metrics はリクエスト数とレイテンシを記録するミドルウェアです。
	Metrics        func(http.Handler) http.Handler
	MetricsHandler http.Handler
}

// BuildHandlers は各ハンドラーの依存関係をすべて組み立て、AppHandlers 構造体を返します。
func BuildHandlers(c *app.Container) (*AppHandlers, error) {
	apiHandler, err := handlers.NewHandler(handlers.Dependencies{
		Generator:        c.Generator,
		Gallery:          c.Gallery,
		Downloader:       c.Downloader,
		Notifier:         c.SlackNotifier,
		Metrics:          c.Metrics,
		ProgressInterval: c.Config.ProgressInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("APIハンドラーの初期化に失敗しました: %w", err)
	}

	return &AppHandlers{
		API:            apiHandler,
		Metrics:        c.Metrics.Middleware,
		MetricsHandler: c.Metrics.Handler(),
	}, nil
}
