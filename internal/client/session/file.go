package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the refresh token in a JSON file readable only by the
// current user.
type FileStore struct {
	path string
}

type savedSession struct {
	RefreshToken string `json:"refresh_token"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the saved token, or "" when nothing is saved.
func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var saved savedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		return "", fmt.Errorf("failed to decode session file: %w", err)
	}
	return saved.RefreshToken, nil
}

// Save replaces the saved token.
func (f *FileStore) Save(refreshToken string) error {
	data, err := json.Marshal(savedSession{RefreshToken: refreshToken})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the saved token.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
