package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"taskodo/internal/model"
)

type fileState struct {
	Tasks []model.Task `json:"tasks"`
}

// FilePersister keeps the board as indented JSON in <dir>/tasks.json.
type FilePersister struct {
	mu   sync.Mutex
	path string
}

var _ Persister = (*FilePersister)(nil)

func NewFilePersister(dataDir string) (*FilePersister, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FilePersister{path: filepath.Join(dataDir, "tasks.json")}, nil
}

// NewFileRepo opens a Store backed by <dataDir>/tasks.json.
func NewFileRepo(dataDir string) (*Store, error) {
	p, err := NewFilePersister(dataDir)
	if err != nil {
		return nil, err
	}
	return NewStore(p)
}

func (p *FilePersister) Path() string { return p.path }

func (p *FilePersister) Load() ([]model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.path, err)
	}
	if loaded.Tasks == nil {
		loaded.Tasks = []model.Task{}
	}
	return loaded.Tasks, nil
}

// Save writes to a temp file next to the target and renames it over, so a
// crash mid-write never leaves a truncated board.
func (p *FilePersister) Save(tasks []model.Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.MarshalIndent(fileState{Tasks: tasks}, "", "  ")
	if err != nil {
		return err
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
