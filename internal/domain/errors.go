package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned when no encoder exists for a format.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrRepairUnavailable means local rules failed and the AI fallback
	// could not produce a result. The local best effort is still returned.
	ErrRepairUnavailable = errors.New("repair unavailable")
	// ErrRateLimited means the AI fallback budget for the current window is spent.
	ErrRateLimited = errors.New("repair rate limit exceeded")
	// ErrCollaboratorUnavailable marks failures of external services.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrSchemaNotFound is returned by the schema registry for unknown ids.
	ErrSchemaNotFound = errors.New("schema not found")
)

// ParseError describes text that is not valid JSON. It is always
// recoverable by attempting a repair.
type ParseError struct {
	Message string `json:"message"`
	Offset  int64  `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ConversionShapeError is fatal for one conversion only; the source value
// stays valid.
type ConversionShapeError struct {
	Format   Format
	Required string
	Actual   string
}

func (e *ConversionShapeError) Error() string {
	return fmt.Sprintf("%s conversion requires an %s, got %s",
		strings.ToUpper(string(e.Format)), e.Required, e.Actual)
}
