// Package prompt は生成リクエストをモデルに送る単一の指示文へ変換します。
package prompt

import (
	"strings"

	"ai-image-web/internal/domain"
)

const instructionPrefix = "Generate an image: "

// Compose はシステムプロンプト、本文、縦横比、画風を 1 つの指示文にまとめます。
// 既定値 (square / default) と空文字の指定は文面に現れません。
func Compose(req domain.GenerationRequest) string {
	var sb strings.Builder

	if req.SystemPrompt != "" {
		sb.WriteString(req.SystemPrompt)
		sb.WriteString("\n\n")
	}

	sb.WriteString(instructionPrefix)
	sb.WriteString(req.Prompt)

	if req.AspectRatio != "" && req.AspectRatio != string(domain.DefaultAspectRatio) {
		sb.WriteString(" (")
		sb.WriteString(req.AspectRatio)
		sb.WriteString(" aspect ratio)")
	}

	if req.Style != "" && req.Style != string(domain.DefaultStyle) {
		sb.WriteString(" in ")
		sb.WriteString(req.Style)
		sb.WriteString(" style")
	}

	return sb.String()
}
