package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/blend/pkg/domain"
)

const ext = ".json"

// Store implements ports.CombinationStore using the local filesystem.
// It stores each combination as a JSON file in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".blend/combinations".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".blend", "combinations")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", errors.New("combination id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid combination id %q", id)
	}
	return filepath.Join(s.BasePath, id+ext), nil
}

// Save persists the combination to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, c *domain.Combination) error {
	destPath, err := s.path(c.ID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure combination directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal combination: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+c.ID+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing combination file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load retrieves the combination from its JSON file.
func (s *Store) Load(ctx context.Context, id string) (*domain.Combination, error) {
	filePath, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCombinationNotFound
		}
		return nil, fmt.Errorf("failed to read combination file: %w", err)
	}

	var c domain.Combination
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal combination: %w", err)
	}
	if c.Terms == nil {
		c.Terms = []domain.Term{}
	}
	return &c, nil
}

// Delete removes the combination file.
func (s *Store) Delete(ctx context.Context, id string) error {
	filePath, err := s.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete combination file: %w", err)
	}
	return nil
}

// List returns all stored combination IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list combinations: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, "tmp-") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}
