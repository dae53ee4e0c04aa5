package application_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/jsonkraft/internal/application"
)

func TestBatchService_PreservesInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		p := filepath.Join(dir, fmt.Sprintf("f%02d.json", i))
		content := `{"ok":true}`
		if i%5 == 0 {
			content = `{"url":"http://example.com"}`
		}
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		paths = append(paths, p)
	}

	results := application.NewBatchService(newAnalyzer(), 4).AnalyzeFiles(context.Background(), paths, nil)
	require.Len(t, results, 20)
	for i, fr := range results {
		assert.Equal(t, paths[i], fr.File)
		require.NoError(t, fr.Err)
		require.NotNil(t, fr.Result)
		if i%5 == 0 {
			assert.Len(t, fr.Result.SecurityIssues, 1, fr.File)
		} else {
			assert.Empty(t, fr.Result.SecurityIssues, fr.File)
		}
	}
}

func TestBatchService_UnreadableFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`[]`), 0644))
	missing := filepath.Join(dir, "missing.json")

	results := application.NewBatchService(newAnalyzer(), 0).AnalyzeFiles(context.Background(), []string{missing, good}, nil)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Contains(t, results[0].Error, "reading")
	assert.Nil(t, results[0].Result)
	assert.NotNil(t, results[1].Result)
}

func TestBatchService_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := application.NewBatchService(newAnalyzer(), 2).AnalyzeFiles(ctx, []string{p}, nil)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
