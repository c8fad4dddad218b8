package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/netarmor/securenet"
)

// getEnv は環境変数を読み込み、未設定または空の場合は fallback を返します。
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("環境変数の値が整数ではないため既定値を使います", "key", key, "value", raw, "fallback", fallback)
		return fallback
	}
	return n
}

// getEnvDuration は "1s" や "500ms" 形式の値を読み込みます。
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("環境変数の値が期間として不正なため既定値を使います", "key", key, "value", raw, "fallback", fallback)
		return fallback
	}
	return d
}

// UsesGCS はギャラリーの保存先が GCS かどうかを返します。
func (c Config) UsesGCS() bool {
	return c.GalleryBackend == BackendRemote && c.GCSBucket != ""
}

// --- バリデーション ---

// ValidateEssentialConfig はアプリケーション実行に不可欠な設定を検証します。
func ValidateEssentialConfig(cfg *Config) error {
	if !IsSecureURL(cfg.ServiceURL) {
		return fmt.Errorf("security error: SERVICE_URL ('%s') must be HTTPS in production", cfg.ServiceURL)
	}

	if !IsSecureURL(cfg.ImageAPIEndpoint) {
		return fmt.Errorf("security error: IMAGE_API_ENDPOINT ('%s') must be HTTPS", cfg.ImageAPIEndpoint)
	}

	if cfg.ImageAPIKey == "" {
		return fmt.Errorf("configuration error: IMAGE_API_KEY is not set")
	}

	if cfg.ImageModel == "" {
		return fmt.Errorf("configuration error: IMAGE_MODEL is empty")
	}

	switch cfg.GalleryBackend {
	case BackendRemote:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("configuration error: REDIS_ADDR is required for the redis backend")
		}
	default:
		return fmt.Errorf("GALLERY_BACKEND の値が不正です ('%s')。%s または %s を指定してください", cfg.GalleryBackend, BackendRemote, BackendRedis)
	}

	return nil
}

// IsSecureURL は指定された URL が HTTPS または localhost であるか判定します。
func IsSecureURL(rawURL string) bool {
	return securenet.IsSecureServiceURL(rawURL)
}
