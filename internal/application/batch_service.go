package application

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// BatchService analyzes many files concurrently.
type BatchService struct {
	analyzer *AnalyzeService
	workers  int
	readFile func(string) ([]byte, error)
}

// NewBatchService bounds concurrency to workers; zero means NumCPU.
func NewBatchService(analyzer *AnalyzeService, workers int) *BatchService {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchService{analyzer: analyzer, workers: workers, readFile: os.ReadFile}
}

// AnalyzeFiles returns one FileResult per path, in input order. A file
// that cannot be read gets an error entry; the rest still run.
func (s *BatchService) AnalyzeFiles(ctx context.Context, paths []string, schema []byte) []domain.FileResult {
	results := make([]domain.FileResult, len(paths))

	p := pool.New().WithMaxGoroutines(s.workers).WithContext(ctx)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			results[i] = s.analyzeFile(ctx, path, schema)
			return nil
		})
	}
	_ = p.Wait()

	return results
}

func (s *BatchService) analyzeFile(ctx context.Context, path string, schema []byte) domain.FileResult {
	fr := domain.FileResult{File: path}
	if err := ctx.Err(); err != nil {
		fr.Err = err
		fr.Error = err.Error()
		return fr
	}

	data, err := s.readFile(path)
	if err != nil {
		fr.Err = fmt.Errorf("reading %s: %w", path, err)
		fr.Error = fr.Err.Error()
		return fr
	}

	result, err := s.analyzer.Analyze(ctx, string(data), schema)
	if err != nil {
		fr.Err = err
		fr.Error = err.Error()
		return fr
	}
	fr.Result = result
	return fr
}
