package history_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/history"
	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entry := domain.ScoreEntry{
		Timestamp:  "2026-02-25T10:00:00Z",
		File:       "users.json",
		CommitHash: "abc1234",
		Score:      87,
		Tier:       domain.TierExcellent,
	}

	err := h.Save(dir, entry)
	require.NoError(t, err)

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestHistory_AppendMultiple(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	require.NoError(t, h.Save(dir, domain.ScoreEntry{Timestamp: "t1", File: "a.json", Score: 47}))
	require.NoError(t, h.Save(dir, domain.ScoreEntry{Timestamp: "t2", File: "b.json", Score: 62}))
	require.NoError(t, h.Save(dir, domain.ScoreEntry{Timestamp: "t3", File: "a.json", Score: 85}))

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 47, entries[0].Score)
	assert.Equal(t, 85, entries[2].Score)

	prev, ok := history.Previous(entries, "a.json")
	require.True(t, ok)
	assert.Equal(t, "t3", prev.Timestamp)

	_, ok = history.Previous(entries, "c.json")
	assert.False(t, ok)
}

func TestHistory_DropsOldestBeyondLimit(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	for i := 0; i < 505; i++ {
		require.NoError(t, h.Save(dir, domain.ScoreEntry{Timestamp: fmt.Sprintf("t%d", i)}))
	}

	entries, err := h.Load(dir)
	require.NoError(t, err)
	require.Len(t, entries, 500)
	assert.Equal(t, "t5", entries[0].Timestamp)
	assert.Equal(t, "t504", entries[499].Timestamp)
}

func TestHistory_LoadEmpty(t *testing.T) {
	dir := t.TempDir()
	h := history.New()

	entries, err := h.Load(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistory_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, ".jsonkraft", "history", "scores.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(fp), 0755))
	require.NoError(t, os.WriteFile(fp, []byte("{not json"), 0644))

	_, err := history.New().Load(dir)
	assert.Error(t, err)
}

func TestHistory_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	nestedDir := filepath.Join(dir, "deep", "nested")
	h := history.New()

	err := h.Save(nestedDir, domain.ScoreEntry{Timestamp: "t1", Score: 50})
	require.NoError(t, err)

	entries, err := h.Load(nestedDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
