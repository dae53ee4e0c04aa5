package scoring

import (
	"fmt"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Recommendations turns the scored findings into advice, in component
// order. The result is never nil.
func Recommendations(in Input) []string {
	out := []string{}
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	if in.SchemaErrors > 0 {
		add(fmt.Sprintf("Fix %d schema %s reported against the supplied schema",
			in.SchemaErrors, plural("violation", in.SchemaErrors)))
	}
	for _, iss := range in.Security {
		add(iss.Recommendation)
	}

	q := in.Quality
	if q.Completeness < 0.9 {
		add(fmt.Sprintf("Fill in or remove null and empty values (completeness %.0f%%)", q.Completeness*100))
	}
	if q.Inconsistencies > 0 {
		add("Make the elements of each array share one type and one key set")
	}
	if q.InvalidFormats > 0 {
		add("Correct malformed email, URL and date values")
	}
	if q.RangeViolations > 0 {
		add("Review values outside their expected ranges (ages, years, percentages, very long strings)")
	}
	if q.DuplicateCount > 0 {
		add(fmt.Sprintf("Remove %d duplicate array %s", q.DuplicateCount, plural("element", q.DuplicateCount)))
	}
	if q.AnomalyCount > 0 {
		add("Replace placeholder values and double-check numeric outliers")
	}

	for _, w := range in.Warnings {
		switch w.Category {
		case domain.WarningStructure:
			add("Flatten deep nesting and remove circular references and case-duplicated keys")
		case domain.WarningPerformance:
			add("Paginate large arrays and split very wide objects")
		case domain.WarningBestPractice:
			add("Use one key naming convention and avoid empty or whitespace keys")
		}
	}
	return out
}
