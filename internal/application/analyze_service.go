package application

import (
	"context"
	"errors"
	"io"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/quality"
	"github.com/openkraft/jsonkraft/internal/domain/scoring"
	"github.com/openkraft/jsonkraft/internal/domain/structure"
)

// AnalyzeService orchestrates one analysis run:
// parse → structure → security + data quality → schema → scoring.
type AnalyzeService struct {
	cfg       domain.ProjectConfig
	validator domain.SchemaValidator
	cache     domain.ResultCache
	logger    *charmlog.Logger
	now       func() time.Time
}

// AnalyzeOption configures an AnalyzeService.
type AnalyzeOption func(*AnalyzeService)

// WithValidator enables schema validation when a schema is supplied.
func WithValidator(v domain.SchemaValidator) AnalyzeOption {
	return func(s *AnalyzeService) { s.validator = v }
}

// WithCache stores and reuses results by content hash.
func WithCache(c domain.ResultCache) AnalyzeOption {
	return func(s *AnalyzeService) { s.cache = c }
}

// WithLogger sets the service logger.
func WithLogger(l *charmlog.Logger) AnalyzeOption {
	return func(s *AnalyzeService) { s.logger = l }
}

// WithClock fixes the reference time used by date heuristics.
func WithClock(now func() time.Time) AnalyzeOption {
	return func(s *AnalyzeService) { s.now = now }
}

func NewAnalyzeService(cfg domain.ProjectConfig, opts ...AnalyzeOption) *AnalyzeService {
	s := &AnalyzeService{
		cfg:    cfg,
		logger: discardLogger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze runs every analyzer over text. Findings are data on the result;
// the only error is a cancelled context.
func (s *AnalyzeService) Analyze(ctx context.Context, text string, schema []byte) (*domain.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var key string
	if s.cache != nil {
		key = s.cache.Key(text, schema)
		if cached, ok := s.cache.Get(key); ok {
			s.logger.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	doc, err := domain.ParseDocument(text)
	if err != nil {
		return unparseable(err), nil
	}

	result, err := s.analyze(ctx, doc.Value, doc.DuplicateKeyPaths, schema)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(key, result); err != nil {
			s.logger.Warn("cache write failed", "err", err)
		}
	}
	return result, nil
}

// AnalyzeValue analyzes an already-parsed value. Values built in code may
// contain cycles; they are reported, never followed.
func (s *AnalyzeService) AnalyzeValue(ctx context.Context, value any, schema []byte) (*domain.ValidationResult, error) {
	return s.analyze(ctx, value, nil, schema)
}

func (s *AnalyzeService) analyze(ctx context.Context, value any, duplicateKeys []string, schema []byte) (*domain.ValidationResult, error) {
	// 1. Shape
	analysis := structure.Analyze(value, duplicateKeys...)
	warnings := structure.Warnings(value, analysis, s.cfg.Structure)

	// 2. Independent quality analyzers
	security := quality.NewSecurityScanner(s.cfg.Security).Scan(value)
	report := quality.NewDataQualityScanner(s.cfg.Heuristics, s.now()).Scan(value)

	// 3. Schema, when supplied
	schemaErrors := []domain.ValidationError{}
	if len(schema) > 0 {
		switch {
		case s.validator == nil:
			warnings = append(warnings, collaboratorWarning("schema supplied but no validator is configured"))
		default:
			errs, err := s.validator.Validate(ctx, schema, value)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil, err
				}
				s.logger.Warn("schema validation unavailable", "err", err)
				warnings = append(warnings, collaboratorWarning("schema validation skipped: "+err.Error()))
			} else {
				schemaErrors = errs
			}
		}
	}

	// 4. Score
	in := scoring.Input{
		SchemaErrors: len(schemaErrors),
		Security:     security,
		Quality:      report,
		Warnings:     warnings,
	}
	breakdown := scoring.Score(in)
	s.logger.Debug("analysis complete",
		"score", breakdown.FinalScore,
		"security", len(security),
		"warnings", len(warnings),
		"schema_errors", len(schemaErrors))

	if warnings == nil {
		warnings = []domain.ValidationWarning{}
	}
	return &domain.ValidationResult{
		IsValid:         len(schemaErrors) == 0,
		Errors:          schemaErrors,
		Warnings:        warnings,
		SecurityIssues:  security,
		DataQuality:     report,
		Structure:       analysis,
		ScoreBreakdown:  breakdown,
		Recommendations: scoring.Recommendations(in),
	}, nil
}

// unparseable is the terminal result for text that is not JSON: no other
// analyzer runs.
func unparseable(err error) *domain.ValidationResult {
	verr := domain.ValidationError{Path: domain.RootPath, Message: err.Error(), Keyword: "syntax"}
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		verr.Message = perr.Message
		verr.Line = perr.Line
		verr.Column = perr.Column
	}
	return &domain.ValidationResult{
		IsValid:         false,
		Errors:          []domain.ValidationError{verr},
		Warnings:        []domain.ValidationWarning{},
		SecurityIssues:  []domain.SecurityIssue{},
		Structure:       domain.StructuralAnalysis{TypeHistogram: map[domain.TypeTag]int{}},
		ScoreBreakdown:  scoring.Unparseable(err),
		Recommendations: []string{"Fix the JSON syntax, or run `jsonkraft repair`, then analyze again."},
	}
}

func collaboratorWarning(msg string) domain.ValidationWarning {
	return domain.ValidationWarning{Category: domain.WarningCollaborator, Path: domain.RootPath, Message: msg}
}

func discardLogger() *charmlog.Logger {
	return charmlog.New(io.Discard)
}
