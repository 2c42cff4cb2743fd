package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/homedash/homedash/src/internal/catalog"
	"github.com/homedash/homedash/src/internal/log"
)

// Format is the encoding of the data file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FileStore persists the catalog document in a single file.
// It implements catalog.Persister.
type FileStore struct {
	path   string
	format Format

	mu      sync.Mutex
	session *fileLock
}

// NewFileStore creates a store for path. The format is chosen by extension:
// .yaml and .yml select YAML, anything else JSON.
func NewFileStore(path string) (*FileStore, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	return &FileStore{path: abs, format: format}, nil
}

// Path returns the absolute path of the data file.
func (f *FileStore) Path() string {
	return f.path
}

// Format returns the encoding used for the data file.
func (f *FileStore) Format() Format {
	return f.format
}

// Lock takes the exclusive inter-process lock until the returned function is
// called. Load, Save and Update run inside that lock instead of taking their own.
func (f *FileStore) Lock() (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session != nil {
		return nil, errors.New("data file is already locked by this store")
	}
	l, err := f.acquire(true)
	if err != nil {
		return nil, err
	}
	f.session = l

	return func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.session = nil
		return l.release()
	}, nil
}

// Load reads the data file. A missing file yields an empty document.
func (f *FileStore) Load() (catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(false)
	if err != nil {
		return catalog.Snapshot{}, err
	}
	defer unlock()

	return f.read()
}

// Save writes the document atomically (temp file + rename).
func (f *FileStore) Save(snap catalog.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	return f.write(snap)
}

// Update reads the document, applies fn and writes the result while holding
// the exclusive lock, so writers in other processes are never overwritten.
// If fn fails nothing is written and its error is returned unchanged.
func (f *FileStore) Update(fn func(catalog.Snapshot) (catalog.Snapshot, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	unlock, err := f.lock(true)
	if err != nil {
		return err
	}
	defer unlock()

	snap, err := f.read()
	if err != nil {
		return err
	}
	next, err := fn(snap)
	if err != nil {
		return err
	}
	return f.write(next)
}

// lock takes a lock for a single operation unless a session lock is held.
// Callers must hold mu.
func (f *FileStore) lock(exclusive bool) (func(), error) {
	if f.session != nil {
		return func() {}, nil
	}
	l, err := f.acquire(exclusive)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := l.release(); err != nil {
			log.Warnf("Failed to release lock on %s: %v", f.path, err)
		}
	}, nil
}

// acquire creates the data directory if needed, since the lock file lives there.
func (f *FileStore) acquire(exclusive bool) (*fileLock, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return acquireLock(f.lockPath(), exclusive)
}

func (f *FileStore) read() (catalog.Snapshot, error) {
	content, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("Data file %s does not exist yet, starting with an empty catalog", f.path)
		return catalog.Snapshot{Links: []catalog.Entry{}}, nil
	}
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("failed to read data file: %w", err)
	}

	var snap catalog.Snapshot
	if len(bytes.TrimSpace(content)) > 0 {
		if err := f.decode(content, &snap); err != nil {
			return catalog.Snapshot{}, fmt.Errorf("data file %s is corrupt: %w", f.path, err)
		}
	}
	if snap.Links == nil {
		snap.Links = []catalog.Entry{}
	}

	log.Debugf("Loaded %d entries from %s", len(snap.Links), f.path)
	return snap, nil
}

func (f *FileStore) write(snap catalog.Snapshot) error {
	if snap.Links == nil {
		snap.Links = []catalog.Entry{}
	}
	content, err := f.encode(snap)
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	log.Debugf("Saved %d entries to %s", len(snap.Links), f.path)
	return nil
}

func (f *FileStore) lockPath() string {
	return f.path + ".lock"
}

func (f *FileStore) decode(content []byte, snap *catalog.Snapshot) error {
	if f.format == FormatYAML {
		return yaml.Unmarshal(content, snap)
	}
	return json.Unmarshal(content, snap)
}

func (f *FileStore) encode(snap catalog.Snapshot) ([]byte, error) {
	if f.format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	content, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(content, '\n'), nil
}
