// Package storage persists the skin collections to disk.
//
// A single JSON file maps identity -> collection. Before every overwrite of
// the primary the previous contents are copied to a sibling .bak file; when
// the primary fails to load, the backup is tried and, if valid, immediately
// re-promoted to primary.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/zeroends/skinhub/internal/collection"
	"github.com/zeroends/skinhub/internal/identity"
	"github.com/zeroends/skinhub/internal/observability/logger"
)

// ErrCorrupt is returned by Load when neither the primary nor the backup
// file could be read. Fatal at startup.
var ErrCorrupt = fmt.Errorf("storage: primary and backup files are unreadable")

// FileStore reads and writes the collection snapshot.
type FileStore struct {
	path       string
	backupPath string
	log        *zap.Logger

	// mu serializes writes so concurrent saves cannot interleave partial
	// file contents. The last writer's snapshot wins, which is the only
	// ordering guarantee the callers rely on.
	mu sync.Mutex
}

// NewFileStore creates a store writing to path, with path+".bak" as backup.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:       path,
		backupPath: path + ".bak",
		log:        logger.Named("storage"),
	}
}

// Load reads the persisted snapshot. A missing primary is not an error (a
// fresh file is created on the first save). A corrupt primary falls back to
// the backup; a recovered backup is re-promoted right away.
func (s *FileStore) Load() (map[identity.ID]collection.Collection, error) {
	data, err := s.read(s.path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug("data file not found, starting empty", logger.String("path", s.path))
		return map[identity.ID]collection.Collection{}, nil
	}

	s.log.Warn("primary data file unreadable, trying backup", logger.Err(err))
	data, berr := s.read(s.backupPath)
	if berr != nil {
		s.log.Error("backup data file unreadable", logger.Err(berr))
		return nil, ErrCorrupt
	}

	s.log.Info("recovered collections from backup", logger.Count(len(data)))
	if err := s.Save(data); err != nil {
		s.log.Warn("failed to re-promote backup to primary", logger.Err(err))
	}
	return data, nil
}

// Save writes the snapshot to the primary file, backing up the previous
// primary first. Failure to write the backup is logged but does not abort
// the save.
func (s *FileStore) Save(data map[identity.ID]collection.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.backupPath, prev, 0o644); err != nil {
			s.log.Warn("failed to write backup file", logger.Err(err))
		}
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", s.path, err)
	}
	return nil
}

// SaveAsync persists the snapshot without blocking the caller. Errors are
// logged; the mutation that triggered the save already succeeded in memory
// and is reported as such.
func (s *FileStore) SaveAsync(data map[identity.ID]collection.Collection) {
	go func() {
		if err := s.Save(data); err != nil {
			s.log.Warn("async save failed", logger.Err(err))
		}
	}()
}

func (s *FileStore) read(path string) (map[identity.ID]collection.Collection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[identity.ID]collection.Collection
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", path, err)
	}
	if data == nil {
		data = map[identity.ID]collection.Collection{}
	}
	return data, nil
}
