package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	garminSessionFile   = "garmin_session.json"
	withingsRefreshFile = "withings_refresh.json"
)

// FileStore persists credentials as JSON files under a local directory.
// Used for local development and single-host deployments.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = ".tokens"
	}
	return &FileStore{dir: dir}
}

func (s *FileStore) SaveGarminSession(ctx context.Context, data []byte) error {
	return s.write(garminSessionFile, data)
}

func (s *FileStore) LoadGarminSession(ctx context.Context) ([]byte, error) {
	return s.read(garminSessionFile)
}

func (s *FileStore) SaveWithingsRefreshToken(ctx context.Context, token string) error {
	data, err := json.Marshal(map[string]string{"refresh_token": token})
	if err != nil {
		return err
	}
	return s.write(withingsRefreshFile, data)
}

func (s *FileStore) LoadWithingsRefreshToken(ctx context.Context) (string, error) {
	data, err := s.read(withingsRefreshFile)
	if err != nil {
		return "", err
	}

	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("tokenstore: corrupt refresh token file: %w", err)
	}
	return payload["refresh_token"], nil
}

func (s *FileStore) write(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: create dir: %w", err)
	}

	path := filepath.Join(s.dir, name)

	// Write-then-rename so a crash mid-write can't leave a truncated
	// credential file behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("tokenstore: write %s: %w", name, err)
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tokenstore: read %s: %w", name, err)
	}
	return data, nil
}
