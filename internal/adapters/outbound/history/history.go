package history

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/openkraft/jsonkraft/internal/domain"
)

const historyFile = ".jsonkraft/history/scores.json"

// maxEntries bounds the file; the oldest entries are dropped first.
const maxEntries = 500

// FileHistory implements domain.ScoreHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(dir string, entry domain.ScoreEntry) error {
	entries, err := h.Load(dir)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	fp := filepath.Join(dir, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fp)
}

func (h *FileHistory) Load(dir string) ([]domain.ScoreEntry, error) {
	fp := filepath.Join(dir, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.ScoreEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Previous returns the most recent entry recorded for file.
func Previous(entries []domain.ScoreEntry, file string) (domain.ScoreEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].File == file {
			return entries[i], true
		}
	}
	return domain.ScoreEntry{}, false
}
