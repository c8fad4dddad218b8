// Package metrics は画像生成とギャラリーの Prometheus メトリクスを収集します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Collector はアプリケーション専用のレジストリに登録されたメトリクスを保持します。
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	galleryImages      prometheus.Gauge
}

// NewCollector は namespace 付きのメトリクスを新しいレジストリに登録します。
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_generations_total",
				Help:      "Total number of image generation attempts",
			},
			[]string{"model", "status"},
		),
		// 生成 API は数秒から数十秒かかる
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "image_generation_duration_seconds",
				Help:      "Image generation duration in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
		galleryImages: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "gallery_images",
				Help:      "Number of images currently stored in the gallery",
			},
		),
	}
}

// RecordGeneration は 1 回の生成結果と所要時間を記録します。
func (c *Collector) RecordGeneration(model string, success bool, duration time.Duration) {
	status := StatusFailure
	if success {
		status = StatusSuccess
	}
	c.generationsTotal.WithLabelValues(model, status).Inc()
	c.generationDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// SetGallerySize はギャラリー内の画像数を更新します。
func (c *Collector) SetGallerySize(n int) {
	c.galleryImages.Set(float64(n))
}

// Handler は /metrics 用のハンドラーを返します。
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Middleware はルートパターン単位で HTTP リクエスト数とレイテンシを記録します。
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
