// Package scoring combines analyzer output into a weighted 0-100 score with
// an itemized audit trail.
package scoring

import (
	"fmt"
	"math"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Component weights. They sum to 1.
const (
	WeightSyntax      = 0.25
	WeightSecurity    = 0.25
	WeightDataQuality = 0.30
	WeightStructure   = 0.20
)

// qualityBar is the ratio completeness, consistency and validity must all
// reach for the data-quality bonus.
const qualityBar = 0.99

// Input is everything the model scores. It never sees the document itself.
type Input struct {
	SchemaErrors int
	Security     []domain.SecurityIssue
	Quality      domain.DataQualityReport
	Warnings     []domain.ValidationWarning
}

// Score computes the breakdown for a parseable document. The final score
// of a parseable document is at least 1; 0 is reserved for Unparseable.
func Score(in Input) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		BaseScore:  100,
		Deductions: []domain.ScoreDeduction{},
	}

	component := func(name string, weight float64, lost int, deds []domain.ScoreDeduction) int {
		b.Deductions = append(b.Deductions, deds...)
		score := max(0, 100-min(100, lost))
		b.Components = append(b.Components, domain.ComponentScore{Name: name, Score: score, Weight: weight})
		return score
	}

	lost, deds := syntaxDeductions(in.SchemaErrors)
	syntax := component(domain.CategorySyntax, WeightSyntax, lost, deds)
	lost, deds = securityDeductions(in.Security)
	security := component(domain.CategorySecurity, WeightSecurity, lost, deds)
	lost, deds = qualityDeductions(in.Quality)
	quality := component(domain.CategoryDataQuality, WeightDataQuality, lost, deds)
	lost, deds = structureDeductions(in.Warnings)
	structure := component(domain.CategoryStructure, WeightStructure, lost, deds)

	weighted := float64(syntax)*WeightSyntax +
		float64(security)*WeightSecurity +
		float64(quality)*WeightDataQuality +
		float64(structure)*WeightStructure
	b.WeightedScore = int(math.Round(weighted))

	b.Bonuses = bonuses(in)
	bonus := 0
	for _, x := range b.Bonuses {
		bonus += x.Impact
	}

	b.FinalScore = max(1, min(100, b.WeightedScore+bonus))
	b.Tier = domain.TierFor(b.FinalScore)
	b.Summary = Summary(b)
	return b
}

// Unparseable is the terminal breakdown for text that is not JSON.
func Unparseable(err error) domain.ScoreBreakdown {
	reason := "document is not valid JSON"
	if err != nil {
		reason = fmt.Sprintf("%s: %v", reason, err)
	}
	return domain.ScoreBreakdown{
		BaseScore: 100,
		Deductions: []domain.ScoreDeduction{{
			Category: domain.CategorySyntax,
			Reason:   reason,
			Impact:   100,
			Severity: domain.SeverityCritical,
		}},
		Bonuses:    []domain.ScoreBonus{},
		FinalScore: 0,
		Tier:       domain.TierCritical,
		Summary:    UnparseableSummary,
	}
}

func syntaxDeductions(schemaErrors int) (int, []domain.ScoreDeduction) {
	return tierDeductions(domain.CategorySyntax, cappedTier{
		what: "schema violation", count: schemaErrors, per: 25, cap: 100, severity: domain.SeverityHigh,
	})
}

func securityDeductions(issues []domain.SecurityIssue) (int, []domain.ScoreDeduction) {
	var high, medium, low int
	for _, iss := range issues {
		switch iss.Severity {
		case domain.SeverityCritical, domain.SeverityHigh:
			high++
		case domain.SeverityMedium:
			medium++
		case domain.SeverityLow:
			low++
		}
	}
	return tierDeductions(domain.CategorySecurity,
		cappedTier{what: "high severity security issue", count: high, per: 40, cap: 100, severity: domain.SeverityHigh},
		cappedTier{what: "medium severity security issue", count: medium, per: 20, cap: 60, severity: domain.SeverityMedium},
		cappedTier{what: "low severity security issue", count: low, per: 10, cap: 40, severity: domain.SeverityLow},
	)
}

func qualityDeductions(q domain.DataQualityReport) (int, []domain.ScoreDeduction) {
	items := []struct {
		reason string
		impact int
	}{
		{fmt.Sprintf("completeness %.0f%%", q.Completeness*100), ratioPenalty(q.Completeness, 100)},
		{fmt.Sprintf("consistency %.0f%%", q.Consistency*100), ratioPenalty(q.Consistency, 80)},
		{fmt.Sprintf("validity %.0f%%", q.Validity*100), ratioPenalty(q.Validity, 60)},
		{fmt.Sprintf("accuracy %.0f%%", q.Accuracy*100), ratioPenalty(q.Accuracy, 40)},
		{fmt.Sprintf("%d duplicate %s", q.DuplicateCount, plural("value", q.DuplicateCount)), min(q.DuplicateCount*5, 30)},
		{fmt.Sprintf("%d %s", q.AnomalyCount, plural("anomaly", q.AnomalyCount)), min(q.AnomalyCount*3, 20)},
	}

	total := 0
	var out []domain.ScoreDeduction
	for _, it := range items {
		if it.impact <= 0 {
			continue
		}
		total += it.impact
		out = append(out, domain.ScoreDeduction{
			Category: domain.CategoryDataQuality,
			Reason:   it.reason,
			Impact:   it.impact,
			Severity: impactSeverity(it.impact),
		})
	}
	return total, out
}

func structureDeductions(warnings []domain.ValidationWarning) (int, []domain.ScoreDeduction) {
	var structural, performance, practice int
	for _, w := range warnings {
		switch w.Category {
		case domain.WarningStructure:
			structural++
		case domain.WarningPerformance:
			performance++
		case domain.WarningBestPractice:
			practice++
		}
	}
	return tierDeductions(domain.CategoryStructure,
		cappedTier{what: "structural warning", count: structural, per: 15, cap: 60, severity: domain.SeverityMedium},
		cappedTier{what: "performance warning", count: performance, per: 10, cap: 40, severity: domain.SeverityMedium},
		cappedTier{what: "best-practice warning", count: practice, per: 8, cap: 30, severity: domain.SeverityLow},
	)
}

func bonuses(in Input) []domain.ScoreBonus {
	out := []domain.ScoreBonus{}
	if in.SchemaErrors == 0 {
		out = append(out, domain.ScoreBonus{
			Category: domain.CategorySyntax, Reason: "no schema violations", Impact: 3, Severity: domain.SeverityInfo,
		})
	}
	if len(in.Security) == 0 {
		out = append(out, domain.ScoreBonus{
			Category: domain.CategorySecurity, Reason: "no security issues", Impact: 4, Severity: domain.SeverityInfo,
		})
	}
	q := in.Quality
	if q.Completeness >= qualityBar && q.Consistency >= qualityBar && q.Validity >= qualityBar {
		out = append(out, domain.ScoreBonus{
			Category: domain.CategoryDataQuality, Reason: "complete, consistent and valid data", Impact: 3, Severity: domain.SeverityInfo,
		})
	}
	return out
}
