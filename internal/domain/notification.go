package domain

const CategoryNotAvailable = "N/A"

// NotificationRequest は Slack 等の通知コンポーネントで共有されるデータ構造です。
// 画像生成の入力メタデータを通知先に伝えるために使用します。
type NotificationRequest struct {
	// Prompt は利用者が入力したプロンプトです。
	Prompt string `json:"prompt"`

	// AspectRatio は指定された縦横比です。未指定なら CategoryNotAvailable。
	AspectRatio string `json:"aspect_ratio"`

	// Style は指定された画風です。未指定なら CategoryNotAvailable。
	Style string `json:"style"`

	// Model は生成に使われたモデル識別子です。
	Model string `json:"model"`
}

// NewNotificationRequest は生成リクエストから通知用メタデータを組み立てます。
func NewNotificationRequest(req GenerationRequest, model string) NotificationRequest {
	return NotificationRequest{
		Prompt:      req.Prompt,
		AspectRatio: orNotAvailable(req.AspectRatio),
		Style:       orNotAvailable(req.Style),
		Model:       model,
	}
}

func orNotAvailable(v string) string {
	if v == "" {
		return CategoryNotAvailable
	}
	return v
}
