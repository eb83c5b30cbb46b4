package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	handlemodels "github.com/Malmz/TalesFromTheSprawl/internal/handle/models"
	"github.com/Malmz/TalesFromTheSprawl/internal/template/models"
	"github.com/Malmz/TalesFromTheSprawl/pkg/platform/sentinel"
)

// FileStore backs templates with a YAML file that admins edit by hand while
// the world runs. The file is re-read on every Get so edits take effect
// without a restart, matching how the original known-handles file behaved.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore uses the YAML file at path. A missing file is treated as an
// empty template set until the first Add creates it.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(ctx context.Context, primaryHandleID string) (*models.ProvisioningTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return nil, err
	}
	return all[handlemodels.Normalize(primaryHandleID)], nil
}

func (s *FileStore) Add(ctx context.Context, primaryHandleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := handlemodels.Normalize(primaryHandleID)
	all, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := all[key]; exists {
		return sentinel.ErrAlreadyUsed
	}
	all[key] = models.NewScaffold()
	return s.save(all)
}

func (s *FileStore) load() (map[string]*models.ProvisioningTemplate, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*models.ProvisioningTemplate{}, nil
		}
		return nil, fmt.Errorf("read templates file: %w", err)
	}
	all := map[string]*models.ProvisioningTemplate{}
	if err := yaml.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("parse templates file: %w", err)
	}
	return all, nil
}

// save writes through a temp file and rename so a crash mid-write never
// corrupts the hand-edited file.
func (s *FileStore) save(all map[string]*models.ProvisioningTemplate) error {
	raw, err := yaml.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode templates file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".known_handles-*")
	if err != nil {
		return fmt.Errorf("write templates file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write templates file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write templates file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write templates file: %w", err)
	}
	return nil
}
