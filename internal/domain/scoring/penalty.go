package scoring

import (
	"fmt"
	"math"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// cappedTier is one bucket of a component deduction: count occurrences at
// per points each, never more than cap in total.
type cappedTier struct {
	what     string
	count    int
	per      int
	cap      int
	severity domain.Severity
}

func (t cappedTier) impact() int {
	return min(t.count*t.per, t.cap)
}

// tierDeductions turns non-empty tiers into deductions and returns their
// summed impact.
func tierDeductions(category string, tiers ...cappedTier) (int, []domain.ScoreDeduction) {
	total := 0
	var out []domain.ScoreDeduction
	for _, t := range tiers {
		if t.count == 0 {
			continue
		}
		impact := t.impact()
		total += impact
		out = append(out, domain.ScoreDeduction{
			Category: category,
			Reason:   fmt.Sprintf("%d %s", t.count, plural(t.what, t.count)),
			Impact:   impact,
			Severity: t.severity,
		})
	}
	return total, out
}

// ratioPenalty rounds (1-ratio)*weight to whole points.
func ratioPenalty(ratio float64, weight float64) int {
	return int(math.Round((1 - ratio) * weight))
}

// impactSeverity grades a deduction by how many points it costs.
func impactSeverity(impact int) domain.Severity {
	switch {
	case impact >= 40:
		return domain.SeverityHigh
	case impact >= 15:
		return domain.SeverityMedium
	case impact > 0:
		return domain.SeverityLow
	default:
		return domain.SeverityInfo
	}
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
