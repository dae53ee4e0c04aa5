package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	}
}

func TestFileScanner_FindsJSONRecursively(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.json", "a.json", "nested/c.JSON", "notes.txt", "nested/deep/d.json")

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "nested", "c.JSON"),
		filepath.Join(dir, "nested", "deep", "d.json"),
	}, files)
}

func TestFileScanner_ExcludesVendorAndGit(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.json", "vendor/x.json", "node_modules/pkg/package.json",
		".git/config.json", ".jsonkraft/cache/abc.json")

	files, err := scanner.New().Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "keep.json")}, files)
}

func TestFileScanner_CustomExcludes(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep.json", "fixtures/skip.json")

	files, err := scanner.New("fixtures/").Scan(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "keep.json")}, files)
}

func TestFileScanner_ExplicitFilesKeptAndDeduplicated(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "config.txt", "a.json")
	txt := filepath.Join(dir, "config.txt")

	files, err := scanner.New().Scan(txt, dir, txt)
	require.NoError(t, err)
	assert.Equal(t, []string{txt, filepath.Join(dir, "a.json")}, files)
}

func TestFileScanner_MissingPath(t *testing.T) {
	_, err := scanner.New().Scan(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "scanning")
}
