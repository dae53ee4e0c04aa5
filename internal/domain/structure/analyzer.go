// Package structure computes shape statistics of parsed JSON values and the
// structural warnings derived from them.
package structure

import (
	"strings"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// Analyze walks v once and reports counts, depth, type histogram, circular
// paths and case-insensitive duplicate keys. It never fails; an empty input
// yields a zeroed report.
//
// A decoded object cannot hold the same key twice, so exact duplicates seen
// by the decoder (Document.DuplicateKeyPaths) are passed in as decoded.
func Analyze(v any, decoded ...string) domain.StructuralAnalysis {
	a := domain.StructuralAnalysis{TypeHistogram: make(map[domain.TypeTag]int)}
	exact := make(map[string]bool, len(decoded))
	for _, p := range decoded {
		exact[p] = true
	}

	Walk(v, func(n Node) {
		tag := domain.TypeOf(n.Value)
		a.TypeHistogram[tag]++

		switch tag {
		case domain.TypeObject:
			obj := n.Value.(*domain.Object)
			a.ObjectCount++
			a.KeyCount += obj.Len()
			a.Depth = max(a.Depth, n.Depth+1)
			if obj.Len() == 0 {
				a.EmptyCount++
			}
			if exact[n.Path] || hasCaseInsensitiveDuplicate(obj) {
				a.DuplicateKeyPaths = append(a.DuplicateKeyPaths, n.Path)
			}
		case domain.TypeArray:
			a.ArrayCount++
			a.Depth = max(a.Depth, n.Depth+1)
			if len(n.Value.([]any)) == 0 {
				a.EmptyCount++
			}
		default:
			a.PrimitiveCount++
			if tag == domain.TypeNull {
				a.NullCount++
			}
			if s, ok := n.Value.(string); ok && s == "" {
				a.EmptyCount++
			}
		}
	}, func(path string) {
		a.CircularPaths = append(a.CircularPaths, path)
	})

	return a
}

func hasCaseInsensitiveDuplicate(obj *domain.Object) bool {
	seen := make(map[string]bool, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		k := strings.ToLower(pair.Key)
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}
