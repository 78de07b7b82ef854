package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wayscriber/internal/logger"
)

// ErrTooLarge marks a snapshot file over the configured size limit;
// loading refuses it rather than risking a runaway allocation.
var ErrTooLarge = errors.New("session snapshot exceeds size limit")

// Store reads and writes one snapshot file per output identity under a
// base directory.
type Store struct {
	// Dir is the storage directory; created on first save.
	Dir string
	// MaxFileSize bounds loads, in bytes. Zero means unlimited.
	MaxFileSize int64
	// BackupRetention keeps this many rotated backups per output.
	BackupRetention int
}

// sanitizeIdentity turns an output identity (name/make/model
// concatenation) into a safe file stem.
func sanitizeIdentity(identity string) string {
	mapper := func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}
	out := strings.Map(mapper, strings.TrimSpace(identity))
	if out == "" {
		out = "default"
	}
	return out
}

// Path returns the snapshot file path for an output identity.
func (s *Store) Path(identity string) string {
	return filepath.Join(s.Dir, sanitizeIdentity(identity)+".wsb")
}

// Save writes the encoded snapshot atomically: temp file in the same
// directory, fsync, rename. The previous file rotates to its backup
// chain first.
func (s *Store) Save(identity string, encoded []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	path := s.Path(identity)

	tmp, err := os.CreateTemp(s.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close snapshot: %w", err)
	}

	s.rotate(path)

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// rotate shifts path's backup chain: file -> .bak, .bak -> .bak.2, up
// to the retention count. Rotation failures are logged, never fatal.
func (s *Store) rotate(path string) {
	if s.BackupRetention <= 0 {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	log := logger.WithComponent("session")
	bakName := func(n int) string {
		if n == 1 {
			return path + ".bak"
		}
		return fmt.Sprintf("%s.bak.%d", path, n)
	}
	_ = os.Remove(bakName(s.BackupRetention))
	for n := s.BackupRetention - 1; n >= 1; n-- {
		if _, err := os.Stat(bakName(n)); err == nil {
			if err := os.Rename(bakName(n), bakName(n+1)); err != nil {
				log.Warn().Err(err).Str("path", bakName(n)).Msg("backup rotation failed")
			}
		}
	}
	if err := os.Rename(path, bakName(1)); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("backup rotation failed")
	}
}

// Load reads the snapshot file for an output identity. A missing file
// returns (nil, nil); corrupt or oversized files return typed errors.
func (s *Store) Load(identity string) (*Snapshot, error) {
	path := s.Path(identity)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	if s.MaxFileSize > 0 && info.Size() > s.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), s.MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}
