// Package scratch manages the local scratch directory holding transient
// audio artifacts: downloaded voice messages on the way in, synthesized
// replies on the way out.
//
// Every file under the scratch directory is owned by exactly one in-flight
// request, which deletes it when done. [Store.Sweep] is the safety net for
// files orphaned by a request that never reached its cleanup path.
package scratch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Store manages a single scratch directory. All methods are safe for
// concurrent use; the store holds no state beyond the directory path.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory (including
// parents) if it does not exist.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("scratch: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("scratch: create dir %q: %w", dir, err)
	}
	slog.Debug("scratch directory ready", "dir", dir)
	return &Store{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string {
	return s.dir
}

// VoicePath returns the path for an inbound voice recording. It is a pure
// function of (userID, fileID) — the same inputs always yield the same path —
// and does not touch the filesystem.
func (s *Store) VoicePath(userID int64, fileID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("voice_%d_%s.ogg", userID, fileID))
}

// ResponsePath returns a timestamped path for a synthesized reply. The
// timestamp carries microsecond precision so that two replies generated in
// the same second do not collide.
func (s *Store) ResponsePath() string {
	now := time.Now()
	name := fmt.Sprintf("response_%s_%06d.mp3",
		now.Format("20060102_150405"),
		now.Nanosecond()/1000,
	)
	return filepath.Join(s.dir, name)
}

// Delete removes the file at path. It is idempotent and never fails loudly:
// a missing file is a no-op and removal errors are logged as warnings.
// Cleanup callers must not have to care whether the file still exists.
func (s *Store) Delete(path string) {
	err := os.Remove(path)
	switch {
	case err == nil:
		slog.Debug("deleted scratch file", "path", path)
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("scratch file already gone", "path", path)
	default:
		slog.Warn("failed to delete scratch file", "path", path, "err", err)
	}
}

// Sweep deletes regular files directly under the scratch directory whose age
// (now minus modification time) exceeds maxAge, and returns the number of
// files handed to [Store.Delete]. Files exactly at the threshold are kept.
// Individual file errors are skipped; a directory-level read error is logged
// and the count accumulated so far is returned.
func (s *Store) Sweep(maxAge time.Duration) int {
	deleted := 0

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		slog.Error("sweep: read scratch dir", "dir", s.dir, "err", err)
		return deleted
	}

	now := time.Now()
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			slog.Warn("sweep: stat scratch file", "name", entry.Name(), "err", err)
			continue
		}
		if now.Sub(info.ModTime()) > maxAge {
			s.Delete(filepath.Join(s.dir, entry.Name()))
			deleted++
		}
	}

	slog.Info("scratch sweep complete", "dir", s.dir, "deleted", deleted)
	return deleted
}
