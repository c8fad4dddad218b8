package builder

import (
	"context"
	"fmt"
	"log/slog"

	"ai-image-web/internal/app"
	"ai-image-web/internal/config"
	"ai-image-web/internal/gallery"
)

// buildGalleryStorage は GALLERY_BACKEND に応じてスナップショットの保存先を構築します。
// remote の場合は生成した RemoteIO も返します (redis の場合は nil)。
func buildGalleryStorage(ctx context.Context, cfg *config.Config) (gallery.Storage, *app.RemoteIO, error) {
	switch cfg.GalleryBackend {
	case config.BackendRedis:
		storage, err := gallery.NewRedisStorage(ctx, gallery.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis gallery storage: %w", err)
		}
		slog.InfoContext(ctx, "Gallery storage: redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return storage, nil, nil

	case config.BackendRemote:
		rio, err := buildRemoteIO(ctx)
		if err != nil {
			return nil, nil, err
		}
		storage, err := gallery.NewRemoteStorage(rio.Reader, rio.Writer, cfg.GCSBucket, cfg.BaseOutputDir)
		if err != nil {
			_ = rio.Factory.Close()
			return nil, nil, fmt.Errorf("failed to initialize remote gallery storage: %w", err)
		}
		slog.InfoContext(ctx, "Gallery storage: remote", "uri", storage.ObjectURI(cfg.GalleryKey), "gcs", cfg.UsesGCS())
		return storage, rio, nil

	default:
		return nil, nil, fmt.Errorf("unknown gallery backend: %s", cfg.GalleryBackend)
	}
}
