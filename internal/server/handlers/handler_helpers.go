package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// maxRequestBodyBytes はプロンプト入力に対して十分な上限
	maxRequestBodyBytes = 1 << 20
	notifyTimeout       = 10 * time.Second

	msgInternalError = "Internal server error during image generation"
)

var (
	errEmptyBody    = errors.New("request body is empty")
	errNotObject    = errors.New("request body is not a JSON object")
	errTrailingData = errors.New("request body has data after the JSON object")
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// writeJSON は JSON レスポンスを書き込みます。
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// writeError は {success:false, error} の形でエラーを返します。
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// decodeJSON はリクエストボディを dst にデコードします。
// ボディは 1 つの JSON オブジェクトだけで構成されている必要があります (null も不可)。
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return errNotObject
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// recoverInternalError は panic を捕捉し、内部情報を含まない 500 を返します。
// レスポンスヘッダー送信前に限り有効です。
func recoverInternalError(ctx context.Context, w http.ResponseWriter) {
	if rec := recover(); rec != nil {
		slog.ErrorContext(ctx, "Unexpected panic in image generation handler", "panic", rec)
		writeError(w, http.StatusInternalServerError, msgInternalError)
	}
}

// notifyAsync はリクエストの完了を待たずに通知を送ります。失敗はログのみ。
// 送信中の通知は WaitNotifications で待てます。
func (h *Handler) notifyAsync(ctx context.Context, send func(ctx context.Context) error) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := send(nctx); err != nil {
			slog.WarnContext(nctx, "通知の送信に失敗しました", "error", err)
		}
	}()
}

// WaitNotifications は送信中の通知がすべて終わるまで待ちます。
// ctx が先に終わった場合は残りを待たずに ctx.Err() を返します。
func (h *Handler) WaitNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
