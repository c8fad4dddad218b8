package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ai-image-web/internal/domain"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-notifier/pkg/factory"
	"github.com/shouni/go-notifier/pkg/slack"
)

// --- インターフェース定義 ---

type SlackNotifier interface {
	Notify(ctx context.Context, img domain.GeneratedImage, req domain.NotificationRequest) error
	NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error
}

// --- 具象アダプター ---

type SlackAdapter struct {
	webhookURL  string
	slackClient *slack.Client
}

// NewSlackAdapter は Webhook URL が空の場合、通知をすべてスキップするアダプターを返します。
func NewSlackAdapter(httpClient httpkit.ClientInterface, webhookURL string) (*SlackAdapter, error) {
	if webhookURL == "" {
		return &SlackAdapter{}, nil
	}
	client, err := factory.GetSlackClient(httpClient)
	if err != nil {
		return nil, fmt.Errorf("Slackクライアントの初期化に失敗したのだ: %w", err)
	}

	return &SlackAdapter{
		webhookURL:  webhookURL,
		slackClient: client,
	}, nil
}

// Notify 生成された画像のURLとプロンプト情報を含む完了通知の送信。
func (a *SlackAdapter) Notify(ctx context.Context, img domain.GeneratedImage, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.InfoContext(ctx, "Slackクライアントが初期化されていないため、通知をスキップします。", "image_id", img.ID)
		return nil
	}

	title := "🎨 画像の生成が完了しました！"
	content := buildSuccessContent(img, req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへの投稿に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Slack に完了通知を送信しました。", "image_id", img.ID)
	return nil
}

// NotifyError 生成失敗の理由とリクエスト内容を含むエラー通知の送信。
func (a *SlackAdapter) NotifyError(ctx context.Context, errDetail error, req domain.NotificationRequest) error {
	if a.slackClient == nil {
		slog.InfoContext(ctx, "Slackクライアントが初期化されていないため、エラー通知をスキップします。", "error", errDetail)
		return nil
	}

	title := "❌ 画像の生成に失敗しました"
	content := buildErrorContent(errDetail, req)

	if err := a.slackClient.SendTextWithHeader(ctx, title, content); err != nil {
		return fmt.Errorf("Slackへのエラー通知に失敗しました: %w", err)
	}

	slog.InfoContext(ctx, "Slack にエラー通知を送信しました。", "error", errDetail)
	return nil
}

func buildSuccessContent(img domain.GeneratedImage, req domain.NotificationRequest) string {
	var sb strings.Builder
	writeRequestSummary(&sb, req)
	sb.WriteString(fmt.Sprintf("🆔 **ID:** `%s`\n", img.ID))
	sb.WriteString(fmt.Sprintf("🌐 **画像:** <%s|ここから確認するのだ！>\n", img.URL))
	return sb.String()
}

func buildErrorContent(errDetail error, req domain.NotificationRequest) string {
	var sb strings.Builder
	writeRequestSummary(&sb, req)
	sb.WriteString("\n*エラー内容:*\n")
	sb.WriteString(fmt.Sprintf("```\n%v\n```\n", errDetail))
	return sb.String()
}

func writeRequestSummary(sb *strings.Builder, req domain.NotificationRequest) {
	sb.WriteString(fmt.Sprintf("*プロンプト:* `%s`\n", req.Prompt))
	sb.WriteString(fmt.Sprintf("*モデル:* `%s`\n", req.Model))
	// 既定値のままの指定は省略する
	if req.AspectRatio != domain.CategoryNotAvailable {
		sb.WriteString(fmt.Sprintf("*縦横比:* `%s`\n", req.AspectRatio))
	}
	if req.Style != domain.CategoryNotAvailable {
		sb.WriteString(fmt.Sprintf("*画風:* `%s`\n", req.Style))
	}
}
