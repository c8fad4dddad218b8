package builder

import (
	"context"
	"testing"
	"time"

	"ai-image-web/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisConfig(addr string) *config.Config {
	return &config.Config{
		ServiceURL:       "http://localhost:8080",
		ImageAPIEndpoint: config.DefaultImageAPIEndpoint,
		ImageAPIKey:      "key",
		ImageModel:       config.DefaultImageModel,
		GalleryBackend:   config.BackendRedis,
		GalleryKey:       config.DefaultGalleryKey,
		RedisAddr:        addr,
		ProgressInterval: time.Second,
		DownloadCacheTTL: time.Minute,
		HTTPTimeout:      time.Second,
	}
}

func TestBuildContainer(t *testing.T) {
	ctx := context.Background()

	t.Run("redis バックエンドで保存済みギャラリーを読み込む", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		t.Cleanup(mr.Close)
		require.NoError(t, mr.Set(config.DefaultGalleryKey, `{"images":[{"id":"x","url":"http://x.com/x.png","prompt":"p","timestamp":1}],"systemPrompt":"sp"}`))

		c, err := BuildContainer(ctx, redisConfig(mr.Addr()))
		require.NoError(t, err)
		t.Cleanup(c.Close)

		snap := c.Gallery.Snapshot()
		require.Len(t, snap.Images, 1)
		assert.Equal(t, "x", snap.Images[0].ID)
		assert.Equal(t, "sp", snap.SystemPrompt)
		assert.Nil(t, c.RemoteIO)
		assert.Equal(t, config.DefaultImageModel, c.Generator.Model())

		h, err := BuildHandlers(c)
		require.NoError(t, err)
		assert.NotNil(t, h.API)
		assert.NotNil(t, h.Metrics)
		assert.NotNil(t, h.MetricsHandler)
	})

	t.Run("redis に接続できない場合はエラー", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, err = BuildContainer(ctx, redisConfig(addr))
		assert.Error(t, err)
	})

	t.Run("不明なバックエンドはエラー", func(t *testing.T) {
		cfg := redisConfig("localhost:0")
		cfg.GalleryBackend = "sqlite"

		_, err := BuildContainer(ctx, cfg)
		assert.Error(t, err)
	})
}
