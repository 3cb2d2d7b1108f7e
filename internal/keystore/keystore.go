// Package keystore persists exported hybrid key documents on disk, one JSON
// file per entry.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/supersphincs/supersphincs-go"
)

const (
	fileExt  = ".json"
	fileMode = 0o600
	dirMode  = 0o700
)

var (
	// ErrNotFound is returned when no entry matches an ID or name.
	ErrNotFound = errors.New("key not found")

	// ErrNameTaken is returned when saving a second entry under an existing name.
	ErrNameTaken = errors.New("key name already in use")

	// ErrInvalidEntry is returned for entries that cannot be stored or were
	// stored corrupted.
	ErrInvalidEntry = errors.New("invalid key entry")
)

// Entry is one stored key.
type Entry struct {
	ID                  string                     `json:"id"`
	Name                string                     `json:"name"`
	CreatedAt           time.Time                  `json:"createdAt"`
	RSABits             int                        `json:"rsaBits"`
	SPHINCSParameterSet string                     `json:"sphincsParameterSet"`
	Keys                *supersphincs.ExportedKeys `json:"keys"`
}

// HasPrivateKey reports whether the entry carries private key material.
func (e *Entry) HasPrivateKey() bool {
	return e.Keys != nil && e.Keys.Private != nil &&
		(e.Keys.Private.SuperSphincs != nil || e.Keys.Private.RSA != nil || e.Keys.Private.SPHINCS != nil)
}

// FileStore stores entries as <id>.json under a directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create key store directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the store directory.
func (s *FileStore) Dir() string { return s.dir }

// Options returns the scheme options the entry's keys were made with.
func (e *Entry) Options() []supersphincs.Option {
	return []supersphincs.Option{
		supersphincs.WithRSABits(e.RSABits),
		supersphincs.WithSPHINCSParameterSet(e.SPHINCSParameterSet),
	}
}

// Save stores e under a fresh ID and returns the stored entry. ID and
// CreatedAt are assigned here; names are unique.
func (s *FileStore) Save(e Entry) (*Entry, error) {
	if strings.TrimSpace(e.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.Keys == nil {
		return nil, fmt.Errorf("%w: keys are required", ErrInvalidEntry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.list()
	if err != nil {
		return nil, err
	}
	for _, existing := range entries {
		if existing.Name == e.Name {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, e.Name)
		}
	}

	entry := &e
	entry.ID = uuid.New().String()
	entry.CreatedAt = s.now().UTC()
	if err := writeJSON(s.path(entry.ID), entry, fileMode); err != nil {
		return nil, fmt.Errorf("write key %s: %w", entry.ID, err)
	}
	return entry, nil
}

// Load returns the entry whose ID or name equals ref.
func (s *FileStore) Load(ref string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ref)
}

// List returns all entries ordered by creation time, then name.
func (s *FileStore) List() ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.list()
}

// Delete removes the entry whose ID or name equals ref.
func (s *FileStore) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.load(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(s.path(entry.ID)); err != nil {
		return fmt.Errorf("delete key %s: %w", entry.ID, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

func (s *FileStore) load(ref string) (*Entry, error) {
	if err := uuid.Validate(ref); err == nil {
		entry, err := s.read(s.path(ref))
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	entries, err := s.list()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == ref {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
}

func (s *FileStore) list() ([]*Entry, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read key store: %w", err)
	}

	var entries []*Entry
	for _, de := range des {
		if de.IsDir() || filepath.Ext(de.Name()) != fileExt {
			continue
		}
		if uuid.Validate(strings.TrimSuffix(de.Name(), fileExt)) != nil {
			continue
		}
		entry, err := s.read(filepath.Join(s.dir, de.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

func (s *FileStore) read(path string) (*Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(b, &entry); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEntry, filepath.Base(path), err)
	}
	if entry.Keys == nil {
		return nil, fmt.Errorf("%w: %s: missing keys", ErrInvalidEntry, filepath.Base(path))
	}
	return &entry, nil
}
