package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zeebo/blake3"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Store is a file-based implementation of domain.ResultCache. Entries are
// one JSON file per key and expire after the configured TTL.
type Store struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type entry struct {
	CreatedAt time.Time                `json:"created_at"`
	Result    *domain.ValidationResult `json:"result"`
}

// New creates a cache store rooted at dir.
func New(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl, now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(dir string, ttl time.Duration, now func() time.Time) *Store {
	return &Store{dir: dir, ttl: ttl, now: now}
}

// Key derives the content address of an analysis: the input text plus
// the schema it was validated against.
func Key(text string, schema []byte) string {
	h := blake3.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write(schema)
	return hex.EncodeToString(h.Sum(nil))
}

// Key implements domain.ResultCache.
func (s *Store) Key(text string, schema []byte) string {
	return Key(text, schema)
}

// Get returns a cached result. Missing, unreadable and expired entries are
// all misses; expired files are removed.
func (s *Store) Get(key string) (*domain.ValidationResult, bool) {
	path := s.path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Result == nil {
		return nil, false
	}
	if s.now().Sub(e.CreatedAt) > s.ttl {
		_ = os.Remove(path)
		return nil, false
	}
	return e.Result, true
}

// Put writes a result to disk, creating directories as needed.
func (s *Store) Put(key string, result *domain.ValidationResult) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	data, err := json.Marshal(entry{CreatedAt: s.now(), Result: result})
	if err != nil {
		return err
	}

	// Identical documents in one batch share a key; each writer needs its
	// own temp file.
	f, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0644)
	}
	if err == nil {
		err = os.Rename(tmp, s.path(key))
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	return err
}

// Invalidate removes the entry for key.
func (s *Store) Invalidate(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes every cached entry.
func (s *Store) Clear() error {
	return os.RemoveAll(s.dir)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
