package token

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jrsteele09/go-portfolio-server/internal/errors"
	"github.com/rs/zerolog/log"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo keeps the token record in a JSON file. The file's modification time is the
// token's issue time, so the file must not be copied without preserving mtime.
type FileRepo struct {
	path string
	mu   sync.RWMutex
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (r *FileRepo) Path() string {
	return r.path
}

func (r *FileRepo) Load() (Record, time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, time.Time{}, errors.Wrapf(errors.ErrNotAuthenticated, "no token file at %s", r.path)
		}
		return Record{}, time.Time{}, fmt.Errorf("[token FileRepo.Load] stat %s: %w", r.path, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return Record{}, time.Time{}, fmt.Errorf("[token FileRepo.Load] read %s: %w", r.path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, time.Time{}, errors.Malformed(fmt.Errorf("parse token file %s: %w", r.path, err))
	}
	return record, info.ModTime(), nil
}

// Save replaces the token file. Writers are serialized in-process by a mutex and across
// processes by a lock file; the new content is published with an atomic rename.
func (r *FileRepo) Save(record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("[token FileRepo.Save] create token dir: %w", err)
	}

	lock, err := acquireFileLock(r.path)
	if err != nil {
		return fmt.Errorf("[token FileRepo.Save] %w", err)
	}
	defer func() {
		if releaseErr := lock.release(); releaseErr != nil {
			log.Warn().Err(releaseErr).Str("path", lock.lockPath).Msg("failed to release token file lock")
		}
	}()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("[token FileRepo.Save] encode: %w", err)
	}

	tempFile := r.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o600); err != nil {
		return fmt.Errorf("[token FileRepo.Save] write temp file: %w", err)
	}
	if err := os.Rename(tempFile, r.path); err != nil {
		if removeErr := os.Remove(tempFile); removeErr != nil {
			return fmt.Errorf("[token FileRepo.Save] rename temp file: %v; additionally failed to remove temp file: %w", err, removeErr)
		}
		return fmt.Errorf("[token FileRepo.Save] rename temp file: %w", err)
	}
	return nil
}
