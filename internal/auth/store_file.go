package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists teachers as a JSON array so accounts survive restarts.
type FileStore struct {
	path     string
	teachers []Teacher
}

func NewFileStore(path string) (*FileStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("teacher state file path is required")
	}

	s := &FileStore{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Add(t Teacher) error {
	s.teachers = append(s.teachers, t)
	if err := s.persist(); err != nil {
		s.teachers = s.teachers[:len(s.teachers)-1]
		return err
	}
	return nil
}

func (s *FileStore) All() []Teacher {
	return append([]Teacher(nil), s.teachers...)
}

func (s *FileStore) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read teacher store file: %w", err)
	}
	if len(b) == 0 {
		return nil
	}

	var decoded []Teacher
	if err := json.Unmarshal(b, &decoded); err != nil {
		return fmt.Errorf("decode teacher store file: %w", err)
	}
	for _, t := range decoded {
		if t.PasswordHash == "" {
			continue
		}
		s.teachers = append(s.teachers, t)
	}
	return nil
}

func (s *FileStore) persist() error {
	b, err := json.MarshalIndent(s.teachers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode teacher store file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir teacher store dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write teacher store file: %w", err)
	}
	return nil
}
