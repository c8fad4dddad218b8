package domain

import "strings"

// AspectRatio は生成画像の縦横比の指定です。プロンプト文面にのみ影響します。
type AspectRatio string

const (
	AspectSquare    AspectRatio = "square"
	AspectLandscape AspectRatio = "landscape"
	AspectPortrait  AspectRatio = "portrait"
	AspectWide      AspectRatio = "wide"
)

// DefaultAspectRatio はプロンプトに比率の注記を加えない既定値です。
const DefaultAspectRatio = AspectSquare

// Style は生成画像の画風の指定です。
type Style string

const (
	StyleDefault        Style = "default"
	StylePhotorealistic Style = "photorealistic"
	StyleArtistic       Style = "artistic"
	StyleCartoon        Style = "cartoon"
	StyleAbstract       Style = "abstract"
	StyleVintage        Style = "vintage"
)

// DefaultStyle はプロンプトに画風の注記を加えない既定値です。
const DefaultStyle = StyleDefault

// GeneratedImage はギャラリーに保存される生成済み画像の記録です。
// 作成後は変更されず、ID が同一性を表します。
type GeneratedImage struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Prompt      string `json:"prompt"`
	Timestamp   int64  `json:"timestamp"` // Unix ミリ秒
	AspectRatio string `json:"aspectRatio,omitempty"`
	Style       string `json:"style,omitempty"`
}

// GenerationRequest は 1 回の画像生成の入力です。永続化はしません。
type GenerationRequest struct {
	Prompt       string `json:"prompt"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
	AspectRatio  string `json:"aspectRatio,omitempty"`
	Style        string `json:"style,omitempty"`
}

// HasPrompt は前後の空白を除いたプロンプトが空でないかを返します。
func (r GenerationRequest) HasPrompt() bool {
	return strings.TrimSpace(r.Prompt) != ""
}

// GenerationResult は生成クライアントの結果です。失敗もエラーではなく値として返します。
type GenerationResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Succeeded は画像URL付きの成功結果を生成します。
func Succeeded(imageURL string) GenerationResult {
	return GenerationResult{Success: true, ImageURL: imageURL}
}

// Failed はエラーメッセージ付きの失敗結果を生成します。
func Failed(msg string) GenerationResult {
	return GenerationResult{Success: false, Error: msg}
}

// GallerySnapshot は永続化キーに保存されるギャラリー全体です。
type GallerySnapshot struct {
	Images       []GeneratedImage `json:"images"`
	SystemPrompt string           `json:"systemPrompt"`
}

// EmptySnapshot は保存データが無い、または壊れている場合の既定値です。
func EmptySnapshot() GallerySnapshot {
	return GallerySnapshot{Images: []GeneratedImage{}, SystemPrompt: ""}
}
