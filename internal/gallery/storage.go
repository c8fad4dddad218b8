package gallery

import (
	"context"
	"errors"
)

// DefaultKey はギャラリーのスナップショットを保存する名前空間付きキーです。
const DefaultKey = "ai-image-generator-data"

// ErrSnapshotNotFound は保存済みスナップショットが存在しないことを表します。
var ErrSnapshotNotFound = errors.New("gallery snapshot not found")

// Storage はスナップショット全体を 1 つのキーで読み書きする永続化先です。
// 差分や履歴は持たず、毎回全体を上書きします。
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
