package gallery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ai-image-web/internal/domain"
)

var (
	ErrDuplicateID   = errors.New("image id already exists")
	ErrImageNotFound = errors.New("image not found")
)

// Store は生成済み画像の順序付きリスト (新しい順) とシステムプロンプトを保持します。
// 変更のたびにスナップショット全体を Storage に書き戻します。
// HTTP ハンドラから並行に呼ばれるため、読み込みから保存までをロックで直列化します。
type Store struct {
	storage Storage
	key     string

	mu       sync.RWMutex
	snapshot domain.GallerySnapshot
}

// NewStore は Store を初期化します。key が空の場合は DefaultKey を使います。
// 保存済みデータの読み込みは Load で明示的に行います。
func NewStore(storage Storage, key string) (*Store, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage:  storage,
		key:      key,
		snapshot: domain.EmptySnapshot(),
	}, nil
}

// Load は保存済みスナップショットを読み込んでメモリ上の状態を置き換えます。
// データが無い、または解析できない場合は空の既定値になり、エラーにはしません。
func (s *Store) Load(ctx context.Context) domain.GallerySnapshot {
	data, err := s.storage.Load(ctx, s.key)
	snap := domain.EmptySnapshot()
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		slog.InfoContext(ctx, "No saved gallery found, starting empty", "key", s.key)
	case err != nil:
		slog.WarnContext(ctx, "Failed to load saved gallery, starting empty", "key", s.key, "error", err)
	default:
		snap = decodeSnapshot(ctx, data)
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	return cloneSnapshot(snap)
}

func decodeSnapshot(ctx context.Context, data []byte) domain.GallerySnapshot {
	var raw domain.GallerySnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.WarnContext(ctx, "Error loading saved data", "error", err)
		return domain.EmptySnapshot()
	}

	snap := domain.GallerySnapshot{
		Images:       make([]domain.GeneratedImage, 0, len(raw.Images)),
		SystemPrompt: raw.SystemPrompt,
	}
	seen := make(map[string]struct{}, len(raw.Images))
	for _, img := range raw.Images {
		if _, dup := seen[img.ID]; dup {
			slog.WarnContext(ctx, "Dropping duplicate gallery entry", "id", img.ID)
			continue
		}
		seen[img.ID] = struct{}{}
		snap.Images = append(snap.Images, img)
	}
	return snap
}

// Snapshot は現在の状態のコピーを返します。
func (s *Store) Snapshot() domain.GallerySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSnapshot(s.snapshot)
}

// Get は ID に一致する画像を返します。
func (s *Store) Get(id string) (domain.GeneratedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, img := range s.snapshot.Images {
		if img.ID == id {
			return img, true
		}
	}
	return domain.GeneratedImage{}, false
}

// SystemPrompt は保存済みのシステムプロンプトを返します。
func (s *Store) SystemPrompt() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.SystemPrompt
}

// Add は画像を先頭に追加して保存します。同じ ID が既にあれば ErrDuplicateID を返します。
func (s *Store) Add(ctx context.Context, img domain.GeneratedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.snapshot.Images {
		if existing.ID == img.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, img.ID)
		}
	}

	images := make([]domain.GeneratedImage, 0, len(s.snapshot.Images)+1)
	images = append(images, img)
	s.snapshot.Images = append(images, s.snapshot.Images...)
	return s.persistLocked(ctx)
}

// Remove は ID に一致する画像を取り除いて保存します。
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]domain.GeneratedImage, 0, len(s.snapshot.Images))
	for _, img := range s.snapshot.Images {
		if img.ID != id {
			kept = append(kept, img)
		}
	}
	if len(kept) == len(s.snapshot.Images) {
		return fmt.Errorf("%w: %s", ErrImageNotFound, id)
	}

	s.snapshot.Images = kept
	return s.persistLocked(ctx)
}

// Clear はすべての画像を削除して保存します。システムプロンプトは残ります。
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Images = []domain.GeneratedImage{}
	return s.persistLocked(ctx)
}

// SetSystemPrompt はシステムプロンプトを更新して保存します。
func (s *Store) SetSystemPrompt(ctx context.Context, systemPrompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.SystemPrompt = systemPrompt
	return s.persistLocked(ctx)
}

// persistLocked はスナップショット全体を書き戻します。呼び出し側でロックを保持していること。
// 保存に失敗してもメモリ上の変更は残ります。
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode gallery snapshot: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist gallery: %w", err)
	}
	return nil
}

func cloneSnapshot(snap domain.GallerySnapshot) domain.GallerySnapshot {
	images := make([]domain.GeneratedImage, len(snap.Images))
	copy(images, snap.Images)
	return domain.GallerySnapshot{Images: images, SystemPrompt: snap.SystemPrompt}
}
