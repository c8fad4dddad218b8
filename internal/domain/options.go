package domain

// Option は UI のセレクトボックス等で使う値と表示名の組です。
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var aspectRatioOptions = []Option{
	{Value: string(AspectSquare), Label: "Square (1:1)"},
	{Value: string(AspectLandscape), Label: "Landscape (16:9)"},
	{Value: string(AspectPortrait), Label: "Portrait (9:16)"},
	{Value: string(AspectWide), Label: "Wide (21:9)"},
}

var styleOptions = []Option{
	{Value: string(StyleDefault), Label: "Default"},
	{Value: string(StylePhotorealistic), Label: "Photorealistic"},
	{Value: string(StyleArtistic), Label: "Artistic"},
	{Value: string(StyleCartoon), Label: "Cartoon"},
	{Value: string(StyleAbstract), Label: "Abstract"},
	{Value: string(StyleVintage), Label: "Vintage"},
}

// AspectRatioOptions は選択可能な縦横比の一覧を返します。
func AspectRatioOptions() []Option {
	return append([]Option(nil), aspectRatioOptions...)
}

// StyleOptions は選択可能な画風の一覧を返します。
func StyleOptions() []Option {
	return append([]Option(nil), styleOptions...)
}

// IsKnownAspectRatio は値が定義済みの縦横比かどうかを返します。
func IsKnownAspectRatio(v string) bool {
	return containsValue(aspectRatioOptions, v)
}

// IsKnownStyle は値が定義済みの画風かどうかを返します。
func IsKnownStyle(v string) bool {
	return containsValue(styleOptions, v)
}

func containsValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
