package config

import (
	"time"
)

const (
	DefaultImageAPIEndpoint = "https://oi-server.onrender.com/chat/completions"
	DefaultImageModel       = "replicate/black-forest-labs/flux-1.1-pro"
	DefaultGalleryKey       = "ai-image-generator-data"
	// DefaultHTTPTimeout 画像ダウンロード用クライアントのタイムアウト
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultProgressInterval = 1 * time.Second
	// DefaultDownloadCacheTTL 同じ画像の連続ダウンロードを想定したキャッシュ期間
	DefaultDownloadCacheTTL = 10 * time.Minute
	DefaultShutdownTimeout  = 15 * time.Second

	BackendRemote = "remote"
	BackendRedis  = "redis"
)

// Config は環境変数から読み込まれたアプリケーションの全設定を保持します。
type Config struct {
	ServiceURL string
	Port       string

	// 画像生成 API
	ImageAPIEndpoint   string
	ImageAPIKey        string
	ImageAPICustomerID string
	ImageModel         string

	// Gallery Settings
	GalleryBackend string // "remote" (ローカル or GCS) または "redis"
	GalleryKey     string
	GCSBucket      string // 空の場合はローカルファイルに保存
	BaseOutputDir  string // スナップショットの保存ディレクトリ (例: "data")
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	SlackWebhookURL  string
	ProgressInterval time.Duration
	DownloadCacheTTL time.Duration
	HTTPTimeout      time.Duration
	ShutdownTimeout  time.Duration
}

// LoadConfig は環境変数から設定を読み込み、Config 構造体を生成します。
func LoadConfig() *Config {
	return &Config{
		ServiceURL: getEnv("SERVICE_URL", "http://localhost:8080"),
		Port:       getEnv("PORT", "8080"),

		ImageAPIEndpoint:   getEnv("IMAGE_API_ENDPOINT", DefaultImageAPIEndpoint),
		ImageAPIKey:        getEnv("IMAGE_API_KEY", ""),
		ImageAPICustomerID: getEnv("IMAGE_API_CUSTOMER_ID", ""),
		ImageModel:         getEnv("IMAGE_MODEL", DefaultImageModel),

		GalleryBackend: getEnv("GALLERY_BACKEND", BackendRemote),
		GalleryKey:     getEnv("GALLERY_KEY", DefaultGalleryKey),
		GCSBucket:      getEnv("GCS_BUCKET", ""),
		BaseOutputDir:  getEnv("BASE_OUTPUT_DIR", "data"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		SlackWebhookURL:  getEnv("SLACK_WEBHOOK_URL", ""),
		ProgressInterval: getEnvDuration("PROGRESS_INTERVAL", DefaultProgressInterval),
		DownloadCacheTTL: getEnvDuration("DOWNLOAD_CACHE_TTL", DefaultDownloadCacheTTL),
		HTTPTimeout:      DefaultHTTPTimeout,
		ShutdownTimeout:  DefaultShutdownTimeout,
	}
}
