package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

var ErrEmptyImage = errors.New("downloaded image is empty")

// ImageFetcher は httpkit.ClientInterface のうち画像取得に使う部分です。
type ImageFetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// DownloadedImage はダウンロード済みの画像データです。
type DownloadedImage struct {
	Data        []byte
	ContentType string
}

// ImageDownloader は生成済み画像をリモートから取得し、一定時間メモリに保持します。
type ImageDownloader struct {
	fetcher ImageFetcher
	cache   *cache.Cache
}

// NewImageDownloader は ttl の間、取得結果をキャッシュする ImageDownloader を生成します。
func NewImageDownloader(fetcher ImageFetcher, ttl time.Duration) (*ImageDownloader, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive: %s", ttl)
	}
	return &ImageDownloader{
		fetcher: fetcher,
		cache:   cache.New(ttl, 2*ttl),
	}, nil
}

// Download は画像URLのバイト列を返します。キャッシュにあればリモートには問い合わせません。
func (d *ImageDownloader) Download(ctx context.Context, imageURL string) (DownloadedImage, error) {
	if cached, ok := d.cache.Get(imageURL); ok {
		if img, ok := cached.(DownloadedImage); ok {
			slog.DebugContext(ctx, "Image served from download cache", "url", imageURL)
			return img, nil
		}
	}

	data, err := d.fetcher.FetchBytes(ctx, imageURL)
	if err != nil {
		return DownloadedImage{}, fmt.Errorf("画像の取得に失敗しました (%s): %w", imageURL, err)
	}
	if len(data) == 0 {
		return DownloadedImage{}, fmt.Errorf("%w: %s", ErrEmptyImage, imageURL)
	}

	img := DownloadedImage{
		Data:        data,
		ContentType: http.DetectContentType(data),
	}
	d.cache.Set(imageURL, img, cache.DefaultExpiration)
	return img, nil
}
