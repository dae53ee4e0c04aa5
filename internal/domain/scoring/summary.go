package scoring

import (
	"fmt"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// UnparseableSummary is the fixed summary of the terminal state.
const UnparseableSummary = "The input is not valid JSON, so no analysis was performed. Repair the syntax and analyze again."

var tierSentences = map[domain.Tier]string{
	domain.TierOutstanding: "Outstanding: the document is clean, consistent and safe to use.",
	domain.TierExcellent:   "Excellent: only minor issues remain.",
	domain.TierGood:        "Good: a few issues are worth fixing.",
	domain.TierAcceptable:  "Acceptable: several issues lower confidence in this data.",
	domain.TierPoor:        "Poor: significant problems need attention.",
	domain.TierCritical:    "Critical: the document needs substantial work before use.",
}

// Summary lists the four component scores with their weights, then the
// tier sentence.
func Summary(b domain.ScoreBreakdown) string {
	return fmt.Sprintf("Syntax: %d/100 (25%%), Security: %d/100 (25%%), Data quality: %d/100 (30%%), Structure: %d/100 (20%%). %s",
		b.Component(domain.CategorySyntax),
		b.Component(domain.CategorySecurity),
		b.Component(domain.CategoryDataQuality),
		b.Component(domain.CategoryStructure),
		TierSentence(b.Tier),
	)
}

// TierSentence describes a tier in one sentence.
func TierSentence(t domain.Tier) string {
	return tierSentences[t]
}
