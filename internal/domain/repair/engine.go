// Package repair turns almost-JSON text into valid JSON with an ordered set
// of textual heuristics. Rewrites only touch code: string literals and
// comments are left alone unless a rule targets them.
package repair

import (
	"github.com/openkraft/jsonkraft/internal/domain"
)

// Engine applies rules in order and records the ones that changed the text.
type Engine struct {
	rules []Rule
}

// New returns an Engine with DefaultRules.
func New() *Engine {
	return &Engine{rules: DefaultRules()}
}

// NewWithRules returns an Engine with a custom rule list.
func NewWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's rules in application order.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Repair rewrites text until it parses, or runs out of rules. Text that
// already parses is returned unchanged with no rules applied, so repairing a
// repaired document is a no-op.
func (e *Engine) Repair(text string) domain.RepairResult {
	if domain.Valid(text) {
		return domain.RepairResult{Text: text, RulesApplied: []string{}, Succeeded: true}
	}

	out := text
	applied := []string{}
	for _, r := range e.rules {
		next := r.Apply(out)
		if next == out {
			continue
		}
		applied = append(applied, r.Name)
		out = next
	}

	return domain.RepairResult{
		Text:         out,
		RulesApplied: applied,
		Succeeded:    domain.Valid(out),
	}
}
