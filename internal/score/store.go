// Package score persists the high score and summarizes finished sessions.
package score

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a single persisted integer slot.
type Store interface {
	// Load returns the stored high score. Missing or malformed data is
	// reported as 0 with a nil error.
	Load() (int, error)
	// Save overwrites the stored high score.
	Save(score int) error
	// SaveIfHigher stores score only if it beats the stored value, with the
	// read, compare and write done as one step. prev is the value it was
	// compared against; a failing read counts as 0.
	SaveIfHigher(score int) (prev int, saved bool, err error)
}

type record struct {
	HighScore int `yaml:"high_score"`
}

// FileStore keeps the high score in a small YAML document. Safe for
// concurrent use within one process.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Save(score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(score)
}

func (s *FileStore) SaveIfHigher(score int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.load()
	if err != nil {
		prev = 0
	}
	if score <= prev {
		return prev, false, nil
	}
	if err := s.save(score); err != nil {
		return prev, false, err
	}
	return prev, true, nil
}

func (s *FileStore) load() (int, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read high score: %w", err)
	}
	var r record
	if err := yaml.Unmarshal(data, &r); err != nil || r.HighScore < 0 {
		return 0, nil
	}
	return r.HighScore, nil
}

func (s *FileStore) save(score int) error {
	data, err := yaml.Marshal(record{HighScore: score})
	if err != nil {
		return fmt.Errorf("encode high score: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create score dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write high score: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace high score: %w", err)
	}
	return nil
}

// MemoryStore keeps the high score for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	score int
}

func (m *MemoryStore) Load() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score, nil
}

func (m *MemoryStore) Save(score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.score = score
	return nil
}

func (m *MemoryStore) SaveIfHigher(score int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.score
	if score <= prev {
		return prev, false, nil
	}
	m.score = score
	return prev, true, nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
