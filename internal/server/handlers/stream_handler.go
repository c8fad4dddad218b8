package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"ai-image-web/internal/domain"
	"ai-image-web/internal/generator"
)

const (
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

// streamEvent は SSE の data に載せる内容です。完了時は保存した画像の記録を含みます。
type streamEvent struct {
	generator.ProgressEvent
	Image *domain.GeneratedImage `json:"image,omitempty"`
}

// GenerateImageStream は POST /api/generate-image/stream を処理します。
// 検証は GenerateImage と同じで、その後 text/event-stream で疑似進捗を送り、
// 最後に complete または error のイベントを 1 つ送って終了します。
func (h *Handler) GenerateImageStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer recoverInternalError(ctx, w)

	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.ErrorContext(ctx, "Streaming is not supported by the response writer")
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	req, ok := h.decodeGenerationRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	started := h.now()
	events := generator.GenerateWithProgress(ctx, h.generator, req, generator.ProgressOptions{
		Interval: h.progressInterval,
	})

	// チャネルは終端イベントの後に閉じられる
	for ev := range events {
		name := eventProgress
		out := streamEvent{ProgressEvent: ev}

		if ev.Done {
			res := domain.Failed(msgInternalError)
			if ev.Result != nil {
				res = *ev.Result
			}
			out.Image = h.completeGeneration(ctx, req, res, started)
			name = eventComplete
			if !res.Success {
				name = eventError
			}
		}

		if err := writeSSE(w, name, out); err != nil {
			slog.DebugContext(ctx, "Stream client went away", "error", err)
			continue
		}
		flusher.Flush()
	}
}

// writeSSE は 1 件のイベントを "event: <name>\ndata: <json>\n\n" の形式で書き込みます。
func writeSSE(w http.ResponseWriter, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode stream event: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("failed to write stream event: %w", err)
	}
	return nil
}
