package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"ai-image-web/internal/domain"
	"ai-image-web/internal/gallery"

	"github.com/go-chi/chi/v5"
)

const (
	msgImageNotFound  = "Image not found"
	msgInvalidBody    = "Invalid request body"
	msgDownloadFailed = "Failed to download image"
)

type galleryResponse struct {
	Success      bool                    `json:"success"`
	Images       []domain.GeneratedImage `json:"images"`
	SystemPrompt string                  `json:"systemPrompt"`
}

type systemPromptRequest struct {
	SystemPrompt *string `json:"systemPrompt"`
}

type systemPromptResponse struct {
	Success      bool   `json:"success"`
	SystemPrompt string `json:"systemPrompt"`
}

type optionsResponse struct {
	AspectRatios []domain.Option `json:"aspectRatios"`
	Styles       []domain.Option `json:"styles"`
}

// ListGallery は GET /api/gallery を処理します。新しい順に返します。
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	snap := h.gallery.Snapshot()
	writeJSON(w, http.StatusOK, galleryResponse{
		Success:      true,
		Images:       snap.Images,
		SystemPrompt: snap.SystemPrompt,
	})
}

// DeleteImage は DELETE /api/gallery/{id} を処理します。
// 保存に失敗してもメモリ上の削除は反映済みのため、ログのみ残して成功を返します。
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	err := h.gallery.Remove(ctx, id)
	switch {
	case errors.Is(err, gallery.ErrImageNotFound):
		writeError(w, http.StatusNotFound, msgImageNotFound)
		return
	case err != nil:
		slog.ErrorContext(ctx, "Error saving data", "image_id", id, "error", err)
	}

	h.syncGallerySize()
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// ClearGallery は DELETE /api/gallery を処理します。システムプロンプトは残ります。
func (h *Handler) ClearGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.gallery.Clear(ctx); err != nil {
		slog.ErrorContext(ctx, "Error saving data", "error", err)
	}

	h.syncGallerySize()
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// UpdateSystemPrompt は PUT /api/gallery/system-prompt を処理します。
func (h *Handler) UpdateSystemPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req systemPromptRequest
	if err := decodeJSON(w, r, &req); err != nil || req.SystemPrompt == nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.gallery.SetSystemPrompt(ctx, *req.SystemPrompt); err != nil {
		slog.ErrorContext(ctx, "Error saving data", "error", err)
	}

	writeJSON(w, http.StatusOK, systemPromptResponse{
		Success:      true,
		SystemPrompt: h.gallery.SystemPrompt(),
	})
}

// DownloadImage は GET /api/gallery/{id}/download を処理します。
// 画像を取得し、プロンプトから組み立てたファイル名の添付として返します。
func (h *Handler) DownloadImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	img, ok := h.gallery.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, msgImageNotFound)
		return
	}

	downloaded, err := h.downloader.Download(ctx, img.URL)
	if err != nil {
		slog.ErrorContext(ctx, "Error downloading image", "image_id", id, "error", err)
		writeError(w, http.StatusBadGateway, msgDownloadFailed)
		return
	}

	filename := gallery.GenerateFilename(img.Prompt, h.now())
	w.Header().Set("Content-Type", downloaded.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(downloaded.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(downloaded.Data); err != nil {
		slog.WarnContext(ctx, "画像の書き込みに失敗しました", "image_id", id, "error", err)
	}
}

// Options は GET /api/options を処理します。
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, optionsResponse{
		AspectRatios: domain.AspectRatioOptions(),
		Styles:       domain.StyleOptions(),
	})
}

// Health は GET /healthz を処理します。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
