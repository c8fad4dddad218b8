package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

const snapshotContentType = "application/json"

// SnapshotReader は go-remote-io の InputReader が満たす読み込み口です。
type SnapshotReader interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// SnapshotWriter は go-remote-io の OutputWriter が満たす書き込み口です。
type SnapshotWriter interface {
	Write(ctx context.Context, uri string, r io.Reader, contentType string) error
}

// RemoteStorage はローカルファイルまたは GCS オブジェクトにスナップショットを保存します。
// bucket が空の場合はローカルパス、指定がある場合は "gs://bucket/..." を使います。
type RemoteStorage struct {
	reader  SnapshotReader
	writer  SnapshotWriter
	bucket  string
	baseDir string
}

// NewRemoteStorage は RemoteStorage を初期化します。
func NewRemoteStorage(reader SnapshotReader, writer SnapshotWriter, bucket, baseDir string) (*RemoteStorage, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &RemoteStorage{reader: reader, writer: writer, bucket: bucket, baseDir: baseDir}, nil
}

// ObjectURI はキーに対応する保存先パスを返します。
// 例: "data/ai-image-generator-data.json" または "gs://bucket/data/ai-image-generator-data.json"
func (s *RemoteStorage) ObjectURI(key string) string {
	p := path.Join(s.baseDir, key+".json")
	if s.bucket == "" {
		return p
	}
	return fmt.Sprintf("gs://%s/%s", s.bucket, strings.TrimPrefix(p, "/"))
}

// Load はスナップショットを読み込みます。開けない場合は ErrSnapshotNotFound をラップして返します。
func (s *RemoteStorage) Load(ctx context.Context, key string) ([]byte, error) {
	uri := s.ObjectURI(key)
	rc, err := s.reader.Open(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotNotFound, uri, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", uri, err)
	}
	return data, nil
}

// Save はスナップショット全体を上書き保存します。
func (s *RemoteStorage) Save(ctx context.Context, key string, data []byte) error {
	uri := s.ObjectURI(key)
	if err := s.writer.Write(ctx, uri, bytes.NewReader(data), snapshotContentType); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", uri, err)
	}
	return nil
}
