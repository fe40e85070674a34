package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore reads and writes a profile kept in a YAML file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore returns a store over path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the profile. A missing file is an empty profile.
func (s *FileStore) Load(ctx context.Context) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("profile: no profile file", "path", s.path)
		return &Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", s.path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", s.path, err)
	}
	return &p, nil
}

// Save validates p and writes it out.
func (s *FileStore) Save(ctx context.Context, p *Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write profile %s: %w", s.path, err)
	}
	return nil
}

// Get returns the requested keys, or every stored key when keys is empty.
// It always returns a usable map; on failure the map is empty and the error
// says why.
func (s *FileStore) Get(ctx context.Context, keys []string) (map[string]string, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return map[string]string{}, err
	}
	values, err := p.Values()
	if err != nil {
		return map[string]string{}, err
	}
	if len(keys) == 0 {
		return values, nil
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}
