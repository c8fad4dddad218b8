package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoImageURL      = errors.New("No image URL in API response")
	ErrInvalidImageURL = errors.New("Invalid image URL received from API")
)

// StatusError は上流が 2xx 以外を返したことを表します。
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, http.StatusText(e.Code))
}

// imageExtensions は画像URLと認める拡張子です。
// 末尾一致ではなく部分一致で判定するため、クエリ文字列中の ".png" でも一致します。
var imageExtensions = []string{".jpg", ".png", ".jpeg", ".webp"}

// IsImageURL は content が http で始まり、既知の画像拡張子を含むかを判定します。
func IsImageURL(content string) bool {
	if !strings.HasPrefix(content, "http") {
		return false
	}
	for _, ext := range imageExtensions {
		if strings.Contains(content, ext) {
			return true
		}
	}
	return false
}

type completionEnvelope struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// completion はスキーマ検証の結果です。reason が空なら content が有効です。
type completion struct {
	content string
	reason  string
}

func (c completion) ok() bool { return c.reason == "" }

func completionOK(content string) completion { return completion{content: content} }
func completionErr(reason string) completion { return completion{reason: reason} }

// parseCompletion は {choices:[{message:{content:string}}]} を厳密に検証し、
// 前後の空白を除いた content を取り出します。空白のみの content は URL 検査で弾かれます。
func parseCompletion(body []byte) completion {
	var env completionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return completionErr("malformed json: " + err.Error())
	}
	if len(env.Choices) == 0 {
		return completionErr("choices missing")
	}
	msg := env.Choices[0].Message
	if msg == nil {
		return completionErr("message missing")
	}
	if msg.Content == nil || *msg.Content == "" {
		return completionErr("content missing")
	}
	return completionOK(strings.TrimSpace(*msg.Content))
}
