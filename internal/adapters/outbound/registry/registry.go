// Package registry stores JSON schema documents on disk. Documents live
// beside a YAML index that carries their metadata.
package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Dir is the registry location relative to a project root.
const Dir = ".jsonkraft/schemas"

const indexFile = "index.yaml"

type index struct {
	Schemas []domain.SchemaRecord `yaml:"schemas"`
}

// FileRegistry implements domain.SchemaRegistry.
type FileRegistry struct {
	dir string
	now func() time.Time
}

// New creates a registry rooted at dir.
func New(dir string) *FileRegistry {
	return &FileRegistry{dir: dir, now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(dir string, now func() time.Time) *FileRegistry {
	return &FileRegistry{dir: dir, now: now}
}

// Add stores doc under a fresh id. Adding a name and version that already
// exist replaces the document and keeps the id.
func (r *FileRegistry) Add(name, version string, tags []string, doc []byte) (domain.SchemaRecord, error) {
	if name == "" {
		return domain.SchemaRecord{}, errors.New("schema name is required")
	}
	if !domain.Valid(string(doc)) {
		return domain.SchemaRecord{}, fmt.Errorf("schema %q is not valid JSON", name)
	}

	idx, err := r.load()
	if err != nil {
		return domain.SchemaRecord{}, err
	}

	stamp := r.now().UTC().Format(time.RFC3339)
	rec := domain.SchemaRecord{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   version,
		Tags:      tags,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}

	replaced := false
	for i, existing := range idx.Schemas {
		if existing.Name == name && existing.Version == version {
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			idx.Schemas[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		idx.Schemas = append(idx.Schemas, rec)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return domain.SchemaRecord{}, err
	}
	if err := os.WriteFile(r.docPath(rec.ID), doc, 0644); err != nil {
		return domain.SchemaRecord{}, err
	}
	if err := r.save(idx); err != nil {
		return domain.SchemaRecord{}, err
	}
	return rec, nil
}

// Get looks a schema up by id, or by name when no id matches. A name
// resolves to its most recently updated version.
func (r *FileRegistry) Get(id string) (domain.SchemaRecord, []byte, error) {
	rec, ok, err := r.find(id)
	if err != nil {
		return domain.SchemaRecord{}, nil, err
	}
	if !ok {
		return domain.SchemaRecord{}, nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, id)
	}

	doc, err := os.ReadFile(r.docPath(rec.ID))
	if err != nil {
		return domain.SchemaRecord{}, nil, fmt.Errorf("reading schema %s: %w", rec.ID, err)
	}
	return rec, doc, nil
}

// List returns all records ordered by name, then version.
func (r *FileRegistry) List() ([]domain.SchemaRecord, error) {
	idx, err := r.load()
	if err != nil {
		return nil, err
	}
	out := append([]domain.SchemaRecord(nil), idx.Schemas...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	return out, nil
}

// Remove deletes a schema and its index entry.
func (r *FileRegistry) Remove(id string) error {
	rec, ok, err := r.find(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, id)
	}

	idx, err := r.load()
	if err != nil {
		return err
	}
	kept := idx.Schemas[:0]
	for _, s := range idx.Schemas {
		if s.ID != rec.ID {
			kept = append(kept, s)
		}
	}
	idx.Schemas = kept

	if err := os.Remove(r.docPath(rec.ID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return r.save(idx)
}

func (r *FileRegistry) find(ref string) (domain.SchemaRecord, bool, error) {
	idx, err := r.load()
	if err != nil {
		return domain.SchemaRecord{}, false, err
	}

	var best domain.SchemaRecord
	found := false
	for _, s := range idx.Schemas {
		if s.ID == ref {
			return s, true, nil
		}
		if s.Name == ref && (!found || s.UpdatedAt >= best.UpdatedAt) {
			best = s
			found = true
		}
	}
	return best, found, nil
}

func (r *FileRegistry) load() (index, error) {
	var idx index
	data, err := os.ReadFile(filepath.Join(r.dir, indexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return idx, nil
		}
		return idx, err
	}
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("parsing %s: %w", indexFile, err)
	}
	return idx, nil
}

func (r *FileRegistry) save(idx index) error {
	data, err := yaml.Marshal(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, indexFile), data, 0644)
}

func (r *FileRegistry) docPath(id string) string {
	return filepath.Join(r.dir, id+".json")
}
