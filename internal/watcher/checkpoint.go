package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SlotStore persists the last refreshed slot under a name.
type SlotStore interface {
	LoadState(ctx context.Context, name string) (uint64, bool, error)
	SaveState(ctx context.Context, name string, slot uint64) error
}

// Checkpoint tracks the last refreshed slot per watcher name.
type Checkpoint struct {
	Slots     map[string]uint64 `json:"slots"`
	UpdatedAt string            `json:"updated_at"`
}

// CheckpointStore persists checkpoints to disk.
type CheckpointStore struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

func NewCheckpointStore(path string, enabled bool) *CheckpointStore {
	return &CheckpointStore{path: path, enabled: enabled && path != ""}
}

// LoadState returns the slot saved under name.
func (c *CheckpointStore) LoadState(_ context.Context, name string) (uint64, bool, error) {
	if !c.enabled {
		return 0, false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cp, err := c.read()
	if err != nil {
		return 0, false, err
	}
	slot, ok := cp.Slots[name]
	return slot, ok, nil
}

// SaveState records slot under name, replacing the file atomically.
func (c *CheckpointStore) SaveState(_ context.Context, name string, slot uint64) error {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cp, err := c.read()
	if err != nil {
		return err
	}
	cp.Slots[name] = slot
	cp.UpdatedAt = time.Now().UTC().Format(time.RFC3339Nano)

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

func (c *CheckpointStore) read() (Checkpoint, error) {
	cp := Checkpoint{Slots: make(map[string]uint64)}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cp, nil
		}
		return cp, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return cp, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return cp, fmt.Errorf("read checkpoint: %w", err)
	}
	if err := json.Unmarshal(data, &cp); err != nil {
		return cp, fmt.Errorf("parse checkpoint: %w", err)
	}
	if cp.Slots == nil {
		cp.Slots = make(map[string]uint64)
	}
	return cp, nil
}
