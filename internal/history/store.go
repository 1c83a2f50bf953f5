// Package history persists the ledger of successful app builds.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"
	"github.com/steveyegge/pakeforge/internal/logging"
)

// DateLayout is the timestamp format stored in the ledger.
const DateLayout = "2006-01-02 15:04:05"

// DefaultIdentifier is recorded when a build had no identifier.
const DefaultIdentifier = "Default"

// Record is one successful build. (Name, URL) identifies it.
type Record struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Identifier string `json:"identifier"`
	Date       string `json:"date"`
}

// NewRecord builds a record stamped with now.
func NewRecord(name, url, identifier string, now time.Time) Record {
	if strings.TrimSpace(identifier) == "" {
		identifier = DefaultIdentifier
	}
	return Record{
		Name:       name,
		URL:        url,
		Identifier: identifier,
		Date:       now.Format(DateLayout),
	}
}

// Key returns the identity of r.
func (r Record) Key() Key { return Key{Name: r.Name, URL: r.URL} }

// Key identifies a record.
type Key struct {
	Name string
	URL  string
}

// Store is the build ledger.
type Store interface {
	// Load returns the ledger, most recent first. It never fails: a missing
	// or unreadable ledger is empty.
	Load() []Record
	// Save inserts r at the front, or updates the record with the same key
	// in place.
	Save(r Record) error
	// Remove deletes the record with the given key and reports whether one existed.
	Remove(name, url string) (bool, error)
	// Clear empties the ledger.
	Clear() error
}

// FileStore keeps the ledger in a JSON file.
type FileStore struct {
	path string
	log  logrus.FieldLogger

	mu   sync.Mutex
	lock *flock.Flock
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store for the ledger at path. A nil logger discards.
func NewFileStore(path string, log logrus.FieldLogger) *FileStore {
	if log == nil {
		log = logging.Discard()
	}
	return &FileStore{
		path: path,
		log:  log,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the ledger location.
func (s *FileStore) Path() string { return s.path }

// Load reads the ledger.
func (s *FileStore) Load() []Record {
	records, err := s.read()
	if err != nil {
		s.log.WithError(err).Debug("history unreadable, treating as empty")
		return []Record{}
	}
	return records
}

// Save upserts r.
func (s *FileStore) Save(r Record) error {
	return s.mutate(func(records []Record) []Record {
		for i := range records {
			if records[i].Key() == r.Key() {
				records[i].Identifier = r.Identifier
				records[i].Date = r.Date
				return records
			}
		}
		return append([]Record{r}, records...)
	})
}

// Remove deletes the record keyed by name and url.
func (s *FileStore) Remove(name, url string) (bool, error) {
	key := Key{Name: name, URL: url}
	removed := false
	err := s.mutate(func(records []Record) []Record {
		out := records[:0]
		for _, r := range records {
			if r.Key() == key {
				removed = true
				continue
			}
			out = append(out, r)
		}
		return out
	})
	return removed, err
}

// Clear writes an empty ledger.
func (s *FileStore) Clear() error {
	return s.mutate(func([]Record) []Record { return []Record{} })
}

// mutate applies fn to the current ledger under both the in-process mutex
// and the cross-process file lock, then rewrites the file.
func (s *FileStore) mutate(fn func([]Record) []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	records, err := s.read()
	if err != nil {
		s.log.WithError(err).Warn("history unreadable, rewriting")
		records = []Record{}
	}
	return s.write(fn(records))
}

func (s *FileStore) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// write replaces the ledger atomically so readers see the old or new file,
// never a partial one.
func (s *FileStore) write(records []Record) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
