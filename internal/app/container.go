package app

import (
	"io"
	"log/slog"

	"ai-image-web/internal/adapters"
	"ai-image-web/internal/config"
	"ai-image-web/internal/gallery"
	"ai-image-web/internal/generator"
	"ai-image-web/internal/metrics"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// Container はアプリケーションの依存関係（DIコンテナ）を保持します。
type Container struct {
	Config *config.Config

	// I/O and Storage
	RemoteIO *RemoteIO       // GALLERY_BACKEND=remote の場合のみ
	Storage  gallery.Storage // ギャラリーのスナップショット保存先
	Gallery  *gallery.Store

	// Business Logic
	Generator *generator.Client

	// External Adapters
	HTTPClient    httpkit.ClientInterface
	Downloader    *adapters.ImageDownloader
	SlackNotifier adapters.SlackNotifier

	Metrics *metrics.Collector
}

type RemoteIO struct {
	Factory remoteio.IOFactory
	Reader  remoteio.InputReader
	Writer  remoteio.OutputWriter
}

// Close は、Container が保持するすべての外部接続リソースを安全に解放します。
func (c *Container) Close() {
	if c.RemoteIO != nil && c.RemoteIO.Factory != nil {
		if err := c.RemoteIO.Factory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
	if closer, ok := c.Storage.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			slog.Error("failed to close gallery storage", "error", err)
		}
	}
}
