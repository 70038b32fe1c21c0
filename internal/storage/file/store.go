// Package file persists inventories as flat text files, one record per slot.
package file

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/satchel/internal/game/inventory"
	"github.com/cory-johannsen/satchel/internal/observability"
)

// Store reads and writes one inventory file conformed to a fixed capacity.
type Store struct {
	path     string
	capacity int
	logger   *zap.Logger
}

// NewStore returns a Store for path.
//
// Precondition: capacity >= 0; logger is non-nil.
func NewStore(path string, capacity int, logger *zap.Logger) *Store {
	return &Store{path: path, capacity: capacity, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Capacity returns the slot count every load conforms to.
func (s *Store) Capacity() int {
	return s.capacity
}

// Read loads the file into a new Inventory of the store's capacity. A
// missing file yields an empty Inventory.
//
// Postcondition: I/O failures wrap inventory.ErrIO; unparsable lines wrap
// inventory.ErrCorruptRecord.
func (s *Store) Read() (*inventory.Inventory, error) {
	start := time.Now()
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("inventory file missing, starting empty", zap.String("path", s.path))
		return inventory.New(s.capacity)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", s.path, inventory.ErrIO, err)
	}
	defer f.Close()

	inv, err := inventory.Read(f, s.capacity)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	s.logger.Debug("inventory read",
		zap.String("path", s.path),
		zap.Int("capacity", inv.Size()),
		zap.Int("items", inv.Count()),
		observability.Elapsed(start),
	)
	return inv, nil
}

// Open reads the file and immediately rewrites it in conformed form, so the
// file on disk always holds exactly Capacity() lines afterwards.
func (s *Store) Open() (*inventory.Inventory, error) {
	inv, err := s.Read()
	if err != nil {
		return nil, err
	}
	if err := s.Save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Save atomically replaces the file with inv using the temp-file, fsync,
// rename pattern.
//
// Postcondition: on error the previous file contents are intact.
func (s *Store) Save(inv *inventory.Inventory) error {
	start := time.Now()
	if err := writeAtomic(s.path, inv); err != nil {
		return fmt.Errorf("saving %s: %w: %w", s.path, inventory.ErrIO, err)
	}
	s.logger.Debug("inventory saved",
		zap.String("path", s.path),
		zap.Int("capacity", inv.Size()),
		zap.Int("items", inv.Count()),
		observability.Elapsed(start),
	)
	return nil
}

// fileMode returns the permission bits of the file being replaced, or 0644
// for a new file.
func fileMode(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0644
	}
	return info.Mode().Perm()
}

func writeAtomic(path string, inv *inventory.Inventory) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if err := inv.Save(w); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Chmod(fileMode(path)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
