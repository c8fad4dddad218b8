package builder

import (
	"context"
	"fmt"
	"net/http"

	"ai-image-web/internal/adapters"
	"ai-image-web/internal/app"
	"ai-image-web/internal/config"
	"ai-image-web/internal/gallery"
	"ai-image-web/internal/generator"
	"ai-image-web/internal/metrics"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const metricsNamespace = "ai_image_web"

// BuildContainer は外部サービスとの接続を確立し、依存関係を組み立てます。
// 途中で失敗した場合は確保済みのリソースを解放してから返します。
func BuildContainer(ctx context.Context, cfg *config.Config) (c *app.Container, err error) {
	c = &app.Container{Config: cfg}
	defer func() {
		if err != nil {
			c.Close()
			c = nil
		}
	}()

	// 1. 基盤クライアントの初期化
	c.HTTPClient = httpkit.New(cfg.HTTPTimeout)
	c.Metrics = metrics.NewCollector(metricsNamespace)

	// 2. ギャラリーの保存先と読み込み
	c.Storage, c.RemoteIO, err = buildGalleryStorage(ctx, cfg)
	if err != nil {
		return c, err
	}
	c.Gallery, err = gallery.NewStore(c.Storage, cfg.GalleryKey)
	if err != nil {
		return c, fmt.Errorf("failed to create gallery store: %w", err)
	}
	c.Gallery.Load(ctx)

	// 3. 画像生成クライアント
	// 生成 API の待ち時間はリクエストのコンテキストに任せるため、タイムアウトは設定しない
	c.Generator, err = generator.NewClient(generator.Config{
		Endpoint:   cfg.ImageAPIEndpoint,
		APIKey:     cfg.ImageAPIKey,
		CustomerID: cfg.ImageAPICustomerID,
		Model:      cfg.ImageModel,
	}, &http.Client{})
	if err != nil {
		return c, fmt.Errorf("failed to create image generation client: %w", err)
	}

	// 4. アダプターの初期化
	c.Downloader, err = adapters.NewImageDownloader(c.HTTPClient, cfg.DownloadCacheTTL)
	if err != nil {
		return c, fmt.Errorf("failed to initialize image downloader: %w", err)
	}
	c.SlackNotifier, err = adapters.NewSlackAdapter(c.HTTPClient, cfg.SlackWebhookURL)
	if err != nil {
		return c, fmt.Errorf("failed to initialize Slack adapter: %w", err)
	}

	return c, nil
}
