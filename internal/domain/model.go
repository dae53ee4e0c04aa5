package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks findings and score adjustments.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// StructuralAnalysis is the result of one walk over a parsed value.
type StructuralAnalysis struct {
	Depth             int             `json:"depth"`
	KeyCount          int             `json:"key_count"`
	ObjectCount       int             `json:"object_count"`
	ArrayCount        int             `json:"array_count"`
	PrimitiveCount    int             `json:"primitive_count"`
	NullCount         int             `json:"null_count"`
	EmptyCount        int             `json:"empty_count"`
	TypeHistogram     map[TypeTag]int `json:"type_histogram"`
	CircularPaths     []string        `json:"circular_paths,omitempty"`
	DuplicateKeyPaths []string        `json:"duplicate_key_paths,omitempty"`
}

// NodeCount is the number of values visited, containers included.
func (a StructuralAnalysis) NodeCount() int {
	return a.ObjectCount + a.ArrayCount + a.PrimitiveCount
}

// SecurityIssue is one advisory security finding.
type SecurityIssue struct {
	Path           string   `json:"path"`
	Kind           string   `json:"kind"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

// QualityFinding is one advisory data-quality finding.
type QualityFinding struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	FindingInconsistency = "inconsistency"
	FindingInvalidFormat = "invalid_format"
	FindingRange         = "range_violation"
	FindingDuplicate     = "duplicate"
	FindingAnomaly       = "anomaly"
)

// DataQualityReport holds the four quality ratios, each in [0,1].
type DataQualityReport struct {
	Completeness    float64          `json:"completeness"`
	Consistency     float64          `json:"consistency"`
	Validity        float64          `json:"validity"`
	Accuracy        float64          `json:"accuracy"`
	DuplicateCount  int              `json:"duplicate_count"`
	Anomalies       []string         `json:"anomalies,omitempty"`
	AnomalyCount    int              `json:"anomaly_count"`
	Inconsistencies int              `json:"inconsistencies"`
	InvalidFormats  int              `json:"invalid_formats"`
	RangeViolations int              `json:"range_violations"`
	Findings        []QualityFinding `json:"findings,omitempty"`
}

// ValidationError is one schema violation, or the parse error of an
// unparseable document.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Keyword string `json:"keyword,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// Warning categories. The first three feed the structure score.
const (
	WarningStructure    = "structure"
	WarningPerformance  = "performance"
	WarningBestPractice = "best_practice"
	WarningCollaborator = "collaborator"
)

// ValidationWarning is a non-fatal observation about the document.
type ValidationWarning struct {
	Category string `json:"category"`
	Path     string `json:"path"`
	Message  string `json:"message"`
}

// Score categories used in deductions, bonuses and component scores.
const (
	CategorySyntax      = "syntax"
	CategorySecurity    = "security"
	CategoryDataQuality = "data_quality"
	CategoryStructure   = "structure"
)

// ScoreDeduction is an attributable reduction of a component score.
type ScoreDeduction struct {
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Impact   int      `json:"impact"`
	Severity Severity `json:"severity"`
}

// ScoreBonus is an attributable addition to the weighted score.
type ScoreBonus struct {
	Category string   `json:"category"`
	Reason   string   `json:"reason"`
	Impact   int      `json:"impact"`
	Severity Severity `json:"severity"`
}

// ComponentScore is one of the four weighted sub-scores.
type ComponentScore struct {
	Name   string  `json:"name"`
	Score  int     `json:"score"`
	Weight float64 `json:"weight"`
}

// Tier is the qualitative band of a final score.
type Tier string

const (
	TierOutstanding Tier = "outstanding"
	TierExcellent   Tier = "excellent"
	TierGood        Tier = "good"
	TierAcceptable  Tier = "acceptable"
	TierPoor        Tier = "poor"
	TierCritical    Tier = "critical"
)

func TierFor(score int) Tier {
	switch {
	case score >= 95:
		return TierOutstanding
	case score >= 85:
		return TierExcellent
	case score >= 75:
		return TierGood
	case score >= 60:
		return TierAcceptable
	case score >= 40:
		return TierPoor
	default:
		return TierCritical
	}
}

func BadgeColor(score int) string {
	switch TierFor(score) {
	case TierOutstanding:
		return "brightgreen"
	case TierExcellent:
		return "green"
	case TierGood:
		return "yellowgreen"
	case TierAcceptable:
		return "yellow"
	case TierPoor:
		return "orange"
	default:
		return "red"
	}
}

// ScoreBreakdown is the audit trail behind a final score.
type ScoreBreakdown struct {
	BaseScore     int              `json:"base_score"`
	Components    []ComponentScore `json:"components,omitempty"`
	Deductions    []ScoreDeduction `json:"deductions"`
	Bonuses       []ScoreBonus     `json:"bonuses"`
	WeightedScore int              `json:"weighted_score"`
	FinalScore    int              `json:"final_score"`
	Tier          Tier             `json:"tier"`
	Summary       string           `json:"summary"`
}

// Component returns the named component score, or zero if absent.
func (b ScoreBreakdown) Component(name string) int {
	for _, c := range b.Components {
		if c.Name == name {
			return c.Score
		}
	}
	return 0
}

// RepairResult is the outcome of a repair attempt.
type RepairResult struct {
	Text string `json:"text"`
	// RulesApplied names the local rules that produced Text. It is empty
	// when Text came from the AI fallback.
	RulesApplied []string `json:"rules_applied"`
	Succeeded    bool     `json:"succeeded"`
	UsedFallback bool     `json:"used_fallback,omitempty"`
}

// ValidationResult is the single return value of a full analysis run.
type ValidationResult struct {
	IsValid         bool                `json:"is_valid"`
	Errors          []ValidationError   `json:"errors"`
	Warnings        []ValidationWarning `json:"warnings"`
	SecurityIssues  []SecurityIssue     `json:"security_issues"`
	DataQuality     DataQualityReport   `json:"data_quality"`
	Structure       StructuralAnalysis  `json:"structure"`
	ScoreBreakdown  ScoreBreakdown      `json:"score_breakdown"`
	Recommendations []string            `json:"recommendations"`
}

// Score is a shortcut for the final score.
func (r ValidationResult) Score() int { return r.ScoreBreakdown.FinalScore }

// FileResult is the analysis of one file in a batch. Exactly one of
// Result and Err is set.
type FileResult struct {
	File   string            `json:"file"`
	Result *ValidationResult `json:"result,omitempty"`
	Err    error             `json:"-"`
	Error  string            `json:"error,omitempty"`
}

// Format names a conversion target.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatXML  Format = "xml"
	FormatCSV  Format = "csv"
	FormatTOON Format = "toon"
)

// ValidFormats enumerates every known conversion target.
var ValidFormats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatXML, FormatCSV, FormatTOON}

// Tabular reports whether the format needs an array of objects.
func (f Format) Tabular() bool { return f == FormatCSV }

// ParseFormat normalizes a user supplied format name.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "yml" {
		n = "yaml"
	}
	for _, f := range ValidFormats {
		if string(f) == n {
			return f, nil
		}
	}
	valid := make([]string, len(ValidFormats))
	for i, f := range ValidFormats {
		valid[i] = string(f)
	}
	sort.Strings(valid)
	return "", fmt.Errorf("%w %q (valid: %s)", ErrUnsupportedFormat, name, strings.Join(valid, ", "))
}

// ScoreEntry is one line of the analysis history.
type ScoreEntry struct {
	Timestamp  string `json:"timestamp"`
	File       string `json:"file"`
	CommitHash string `json:"commit_hash,omitempty"`
	Score      int    `json:"score"`
	Tier       Tier   `json:"tier"`
}

// SchemaRecord describes a schema stored in the registry.
type SchemaRecord struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Version   string   `json:"version" yaml:"version"`
	Tags      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
	UpdatedAt string   `json:"updated_at" yaml:"updated_at"`
}
