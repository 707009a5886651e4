package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON key-value file per chat under dir. Field
// labels are arbitrary Unicode text, which rules out the env-file
// grammar; JSON keeps the file a plain structured key-value document.
type FileStore struct {
	dir string
}

// NewFileStore creates the backing directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(chatID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d.profile", chatID))
}

func (s *FileStore) Load(_ context.Context, chatID int64) (map[string]string, error) {
	data, err := os.ReadFile(s.path(chatID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("load profile %d: %w", chatID, err)
	}

	var answers map[string]string
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse profile %d: %w", chatID, err)
	}
	return answers, nil
}

func (s *FileStore) Save(_ context.Context, chatID int64, answers map[string]string) error {
	data, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal profile %d: %w", chatID, err)
	}

	// Write-then-rename so a crashed write never leaves a half profile.
	tmp := s.path(chatID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("save profile %d: %w", chatID, err)
	}
	if err := os.Rename(tmp, s.path(chatID)); err != nil {
		return fmt.Errorf("save profile %d: %w", chatID, err)
	}
	return nil
}
