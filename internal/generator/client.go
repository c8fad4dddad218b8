package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"ai-image-web/internal/domain"
	"ai-image-web/internal/prompt"
)

// maxResponseBytes は上流レスポンスとして読み込む上限です。
const maxResponseBytes = 1 << 20

// Config はリモートモデルのエンドポイントと認証情報です。
// テストでエンドポイントを差し替えられるよう、すべて構築時に注入します。
type Config struct {
	Endpoint   string
	APIKey     string
	CustomerID string
	Model      string
}

// Client は単一のリモートモデルと通信し、応答を GenerationResult に正規化します。
// リトライは行わず、1 回の呼び出しにつき 1 回だけリクエストします。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient は Client を初期化します。httpClient が nil の場合はタイムアウト無しの既定クライアントを使います。
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// Model は送信に使うモデル識別子を返します。
func (c *Client) Model() string {
	return c.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// Generate はプロンプトを組み立ててリモートモデルを呼び出し、画像URLを取り出します。
// 通信失敗・非 2xx・不正な応答・URL形状の不一致はすべて Success=false の結果になります。
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt.Compose(req)}},
	})
	if err != nil {
		return domain.Failed(err.Error())
	}

	content, err := c.send(ctx, body)
	if err != nil {
		slog.ErrorContext(ctx, "Image generation error", "model", c.cfg.Model, "error", err)
		return domain.Failed(err.Error())
	}

	return interpret(ctx, content)
}

// send は 1 回の HTTP 呼び出しを行い、検証済みの応答本文を返します。
func (c *Client) send(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("customerId", c.cfg.CustomerID)
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 接続再利用のため本文は読み捨てる
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// interpret はスキーマ検証と URL 形状の検査を順に行います。
func interpret(ctx context.Context, body []byte) domain.GenerationResult {
	parsed := parseCompletion(body)
	if !parsed.ok() {
		slog.WarnContext(ctx, "Unexpected completion envelope", "reason", parsed.reason)
		return domain.Failed(ErrNoImageURL.Error())
	}
	if !IsImageURL(parsed.content) {
		slog.WarnContext(ctx, "Completion content is not an image URL", "content", parsed.content)
		return domain.Failed(ErrInvalidImageURL.Error())
	}
	return domain.Succeeded(parsed.content)
}
