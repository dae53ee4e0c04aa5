package structure

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Warnings derives structure, performance and best-practice warnings for v.
// The analysis must come from Analyze(v).
func Warnings(v any, a domain.StructuralAnalysis, limits domain.StructureLimits) []domain.ValidationWarning {
	var out []domain.ValidationWarning
	add := func(category, path, format string, args ...any) {
		out = append(out, domain.ValidationWarning{
			Category: category,
			Path:     path,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if a.Depth > limits.MaxDepth {
		add(domain.WarningStructure, domain.RootPath,
			"nesting depth %d exceeds the recommended maximum of %d", a.Depth, limits.MaxDepth)
	}
	for _, p := range a.CircularPaths {
		add(domain.WarningStructure, p, "circular reference to an enclosing container")
	}
	for _, p := range a.DuplicateKeyPaths {
		add(domain.WarningStructure, p, "object has keys that differ only by case")
	}
	if n := a.NodeCount(); n > limits.MaxNodes {
		add(domain.WarningPerformance, domain.RootPath,
			"document has %d values, more than the recommended %d", n, limits.MaxNodes)
	}

	Walk(v, func(n Node) {
		switch t := n.Value.(type) {
		case []any:
			if len(t) > limits.LargeArray {
				add(domain.WarningPerformance, n.Path,
					"array has %d elements, consider pagination above %d", len(t), limits.LargeArray)
			}
		case *domain.Object:
			if t == nil {
				return
			}
			if t.Len() > limits.WideObject {
				add(domain.WarningPerformance, n.Path,
					"object has %d keys, more than the recommended %d", t.Len(), limits.WideObject)
			}
			if styles := namingStyles(t); len(styles) > 1 {
				add(domain.WarningBestPractice, n.Path,
					"object mixes key naming conventions (%s)", strings.Join(styles, ", "))
			}
			for pair := t.Oldest(); pair != nil; pair = pair.Next() {
				switch {
				case strings.TrimSpace(pair.Key) == "":
					add(domain.WarningBestPractice, n.Path, "object has an empty key")
				case strings.ContainsAny(pair.Key, " \t\n"):
					add(domain.WarningBestPractice, domain.JoinKey(n.Path, pair.Key),
						"key %q contains whitespace", pair.Key)
				}
			}
		}
	}, nil)

	return out
}

func namingStyles(obj *domain.Object) []string {
	set := make(map[string]bool)
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if s := KeyStyle(pair.Key); s != "" {
			set[s] = true
		}
	}
	styles := make([]string, 0, len(set))
	for s := range set {
		styles = append(styles, s)
	}
	sort.Strings(styles)
	return styles
}
