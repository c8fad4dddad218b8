package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-image-web/internal/adapters"
	"ai-image-web/internal/domain"
)

// ImageGenerator はリモートの画像生成モデルを呼び出すクライアントです。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
	Model() string
}

// Gallery は生成済み画像とシステムプロンプトの保存先です。
type Gallery interface {
	Snapshot() domain.GallerySnapshot
	Get(id string) (domain.GeneratedImage, bool)
	SystemPrompt() string
	Add(ctx context.Context, img domain.GeneratedImage) error
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	SetSystemPrompt(ctx context.Context, systemPrompt string) error
}

type ImageDownloader interface {
	Download(ctx context.Context, imageURL string) (adapters.DownloadedImage, error)
}

type MetricsRecorder interface {
	RecordGeneration(model string, success bool, duration time.Duration)
	SetGallerySize(n int)
}

// Dependencies は Handler が利用するコンポーネントの組です。
type Dependencies struct {
	Generator  ImageGenerator
	Gallery    Gallery
	Downloader ImageDownloader
	Notifier   adapters.SlackNotifier
	Metrics    MetricsRecorder

	// ProgressInterval はストリーミング時の疑似進捗の更新間隔です。
	ProgressInterval time.Duration
	// Now は記録のタイムスタンプに使う時刻関数です。nil なら time.Now。
	Now func() time.Time
}

type Handler struct {
	generator  ImageGenerator
	gallery    Gallery
	downloader ImageDownloader
	notifier   adapters.SlackNotifier
	metrics    MetricsRecorder

	progressInterval time.Duration
	now              func() time.Time

	// pending は送信中の通知の数です。
	pending sync.WaitGroup
}

// NewHandler は API ハンドラーを初期化します。生成クライアントとギャラリーは必須です。
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("image generator is required")
	}
	if deps.Gallery == nil {
		return nil, fmt.Errorf("gallery is required")
	}
	if deps.Downloader == nil {
		return nil, fmt.Errorf("image downloader is required")
	}

	h := &Handler{
		generator:        deps.Generator,
		gallery:          deps.Gallery,
		downloader:       deps.Downloader,
		notifier:         deps.Notifier,
		metrics:          deps.Metrics,
		progressInterval: deps.ProgressInterval,
		now:              deps.Now,
	}
	if h.notifier == nil {
		h.notifier = noopNotifier{}
	}
	if h.metrics == nil {
		h.metrics = noopMetrics{}
	}
	if h.now == nil {
		h.now = time.Now
	}

	h.metrics.SetGallerySize(len(h.gallery.Snapshot().Images))
	return h, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.GeneratedImage, domain.NotificationRequest) error {
	return nil
}

func (noopNotifier) NotifyError(context.Context, error, domain.NotificationRequest) error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordGeneration(string, bool, time.Duration) {}
func (noopMetrics) SetGallerySize(int)                           {}
