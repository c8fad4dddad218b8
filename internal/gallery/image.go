package gallery

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"ai-image-web/internal/domain"

	"github.com/google/uuid"
)

const (
	filenamePrefix    = "ai_image_"
	filenameExt       = ".jpg"
	filenamePromptLen = 30
	// ISO 8601 の日時部分から区切り記号を除いた形式 (例: 20260102T030405)
	filenameTimeLayout = "20060102T150405"
)

var (
	nonAlnum       = regexp.MustCompile(`[^a-zA-Z0-9]`)
	repeatedUnders = regexp.MustCompile(`_+`)
)

// NewImage は生成成功時の記録を作成します。ID は生成時刻順に並ぶ UUIDv7 です。
func NewImage(req domain.GenerationRequest, imageURL string, now time.Time) (domain.GeneratedImage, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return domain.GeneratedImage{}, fmt.Errorf("failed to generate image id: %w", err)
	}
	return domain.GeneratedImage{
		ID:          id.String(),
		URL:         imageURL,
		Prompt:      req.Prompt,
		Timestamp:   now.UnixMilli(),
		AspectRatio: req.AspectRatio,
		Style:       req.Style,
	}, nil
}

// GenerateFilename はダウンロード用のファイル名を生成します。
// プロンプト先頭 30 文字の英数字以外を "_" に置換し、UTC のタイムスタンプを付けます。
// 文字数はブラウザ側と同じく UTF-16 のコード単位で数えます。
func GenerateFilename(prompt string, now time.Time) string {
	clean := nonAlnum.ReplaceAllString(truncateUTF16(prompt, filenamePromptLen), "_")
	clean = repeatedUnders.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, "_")

	return filenamePrefix + clean + "_" + now.UTC().Format(filenameTimeLayout) + filenameExt
}

// truncateUTF16 は s を UTF-16 のコード単位で n 個までに切り詰めます。
// サロゲートペアの途中で切れた場合、残った片割れは U+FFFD になります。
func truncateUTF16(s string, n int) string {
	units := utf16.Encode([]rune(s))
	if len(units) <= n {
		return s
	}
	return string(utf16.Decode(units[:n]))
}
