package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-image-web/internal/builder"
	"ai-image-web/internal/config"
)

const (
	fallbackShutdownTimeout = 30 * time.Second
	readHeaderTimeout       = 10 * time.Second
)

// drainFunc はリクエスト完了後も動いている処理 (通知の送信など) を待ちます。
type drainFunc func(ctx context.Context) error

// Run は設定を読み込んで画像生成サーバーを起動し、SIGINT/SIGTERM で停止します。
func Run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := config.ValidateEssentialConfig(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	container, err := builder.BuildContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application container: %w", err)
	}
	// 通知の待機は serve 内で終わっているので、ここで閉じても送信は失われない
	defer func() {
		slog.Info("♻️ Closing application container...")
		container.Close()
	}()

	h, err := builder.BuildHandlers(container)
	if err != nil {
		return fmt.Errorf("failed to build handlers: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("🚀 Server starting...",
		"port", cfg.Port,
		"service_url", cfg.ServiceURL,
		"model", cfg.ImageModel,
		"gallery_backend", cfg.GalleryBackend,
	)
	return serve(sigCtx, srv, h.API.WaitNotifications, shutdownTimeout(cfg))
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.ShutdownTimeout <= 0 {
		return fallbackShutdownTimeout
	}
	return cfg.ShutdownTimeout
}

// serve は ctx が終わるまで srv を動かします。
// 停止時は処理中のリクエストと drain の両方を、合わせて timeout の範囲で待ちます。
func serve(ctx context.Context, srv *http.Server, drain drainFunc, timeout time.Duration) error {
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("⚠️ Starting graceful shutdown...", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed, forcing close", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
		}
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}

	// ハンドラーが返った後に開始された通知もここで送り切る
	if drain != nil {
		if err := drain(shutdownCtx); err != nil {
			slog.Warn("Pending notifications abandoned at shutdown", "error", err)
		}
	}

	slog.Info("✅ Server stopped cleanly")
	return nil
}
