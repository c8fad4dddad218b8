package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"ai-image-web/internal/domain"
	"ai-image-web/internal/gallery"
)

const (
	msgPromptRequired = "Prompt is required"
	msgGenerated      = "Image generated successfully"
)

type generateResponse struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// GenerateImage は POST /api/generate-image を処理します。
//   - プロンプトが空: 400 {success:false, error:"Prompt is required"}
//   - 生成成功: 200 {success:true, imageUrl, message}
//   - 生成失敗: 500 {success:false, error:<クライアントのメッセージ>}
//   - 不正なボディや想定外のエラー: 500 の汎用メッセージ
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer recoverInternalError(ctx, w)

	req, ok := h.decodeGenerationRequest(w, r)
	if !ok {
		return
	}

	started := h.now()
	res := h.generator.Generate(ctx, req)
	h.completeGeneration(ctx, req, res, started)

	if !res.Success {
		writeError(w, http.StatusInternalServerError, res.Error)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Success:  true,
		ImageURL: res.ImageURL,
		Message:  msgGenerated,
	})
}

// decodeGenerationRequest はボディの解析と検証を行い、失敗時はレスポンスを書き込んで false を返します。
func (h *Handler) decodeGenerationRequest(w http.ResponseWriter, r *http.Request) (domain.GenerationRequest, bool) {
	ctx := r.Context()

	var req domain.GenerationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		slog.ErrorContext(ctx, "Image generation API error", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return req, false
	}
	if !req.HasPrompt() {
		writeError(w, http.StatusBadRequest, msgPromptRequired)
		return req, false
	}

	if req.AspectRatio != "" && !domain.IsKnownAspectRatio(req.AspectRatio) {
		slog.WarnContext(ctx, "Unknown aspect ratio, passing through", "aspect_ratio", req.AspectRatio)
	}
	if req.Style != "" && !domain.IsKnownStyle(req.Style) {
		slog.WarnContext(ctx, "Unknown style, passing through", "style", req.Style)
	}

	// リクエストに無ければ保存済みのシステムプロンプトを使う
	if req.SystemPrompt == "" {
		req.SystemPrompt = h.gallery.SystemPrompt()
	}
	return req, true
}

// completeGeneration は生成結果をメトリクスとギャラリーに記録し、通知を送ります。
// 生成に成功した場合は作成した記録を返し、失敗時は nil です。
func (h *Handler) completeGeneration(ctx context.Context, req domain.GenerationRequest, res domain.GenerationResult, started time.Time) *domain.GeneratedImage {
	model := h.generator.Model()
	finished := h.now()
	h.metrics.RecordGeneration(model, res.Success, finished.Sub(started))
	notification := domain.NewNotificationRequest(req, model)

	if !res.Success {
		slog.WarnContext(ctx, "Image generation failed", "model", model, "error", res.Error)
		h.notifyAsync(ctx, func(nctx context.Context) error {
			return h.notifier.NotifyError(nctx, errors.New(res.Error), notification)
		})
		return nil
	}

	img, err := gallery.NewImage(req, res.ImageURL, finished)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create gallery record", "error", err)
		return nil
	}

	// クライアントが切断していても記録は残す
	if err := h.gallery.Add(context.WithoutCancel(ctx), img); err != nil {
		slog.ErrorContext(ctx, "Error saving data", "image_id", img.ID, "error", err)
	}
	h.syncGallerySize()

	slog.InfoContext(ctx, "Image generated", "model", model, "image_id", img.ID, "duration", finished.Sub(started))
	h.notifyAsync(ctx, func(nctx context.Context) error {
		return h.notifier.Notify(nctx, img, notification)
	})
	return &img
}

func (h *Handler) syncGallerySize() {
	h.metrics.SetGallerySize(len(h.gallery.Snapshot().Images))
}
