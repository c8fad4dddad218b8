package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisConfig は Redis 接続設定です。
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStorage はスナップショットを Redis の単一キーに保存します。
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage は接続を確立し、疎通確認を行ってから RedisStorage を返します。
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis %s: %w", cfg.Addr, err)
	}

	return &RedisStorage{client: client}, nil
}

func (s *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return data, nil
}

func (s *RedisStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot %s: %w", key, err)
	}
	return nil
}

// Close は Redis 接続を解放します。
func (s *RedisStorage) Close() error {
	return s.client.Close()
}
