package tokenstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"scale-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectStore persists credentials as JSON objects in an object storage
// bucket. Used for deployments with an ephemeral filesystem where the
// bucket is the durable store.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates an object-backed store under bucket/prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) SaveGarminSession(ctx context.Context, data []byte) error {
	return s.put(ctx, garminSessionFile, data)
}

func (s *ObjectStore) LoadGarminSession(ctx context.Context) ([]byte, error) {
	return s.get(ctx, garminSessionFile)
}

func (s *ObjectStore) SaveWithingsRefreshToken(ctx context.Context, token string) error {
	data, err := json.Marshal(map[string]string{"refresh_token": token})
	if err != nil {
		return err
	}
	return s.put(ctx, withingsRefreshFile, data)
}

func (s *ObjectStore) LoadWithingsRefreshToken(ctx context.Context) (string, error) {
	data, err := s.get(ctx, withingsRefreshFile)
	if err != nil {
		return "", err
	}

	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("tokenstore: corrupt refresh token object: %w", err)
	}
	return payload["refresh_token"], nil
}

func (s *ObjectStore) put(ctx context.Context, name string, data []byte) error {
	key := s.prefix + name
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("tokenstore: put %s: %w", key, err)
	}
	return nil
}

func (s *ObjectStore) get(ctx context.Context, name string) ([]byte, error) {
	key := s.prefix + name
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("tokenstore: get %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tokenstore: read %s: %w", key, err)
	}
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	return data, nil
}
