package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/structure"
)

var placeholders = map[string]bool{
	"n/a":         true,
	"tbd":         true,
	"todo":        true,
	"xxx":         true,
	"changeme":    true,
	"placeholder": true,
	"asdf":        true,
}

// DataQualityScanner computes completeness, consistency, validity and
// accuracy in one fused walk. Containers reachable through several paths
// are counted once per path, which matches running four separate walks.
type DataQualityScanner struct {
	h   domain.Heuristics
	now time.Time
}

// NewDataQualityScanner returns a scanner; now anchors the year range check.
func NewDataQualityScanner(h domain.Heuristics, now time.Time) *DataQualityScanner {
	return &DataQualityScanner{h: h, now: now}
}

type dqState struct {
	heuristics    domain.Heuristics
	maxYear       float64
	anomalySample int

	leaves, empty int
	inconsistent  int
	invalid       int
	outOfRange    int
	duplicates    int
	anomalies     []string
	findings      []domain.QualityFinding
}

// Scan analyzes v. An empty document has perfect ratios.
func (s *DataQualityScanner) Scan(v any) domain.DataQualityReport {
	st := &dqState{
		heuristics:    s.h,
		anomalySample: s.h.AnomalySample,
		maxYear:       float64(s.now.Year() + s.h.YearSlack),
	}

	structure.Walk(v, func(n structure.Node) {
		switch t := n.Value.(type) {
		case *domain.Object:
			return
		case []any:
			st.array(n.Path, t)
		case string:
			st.leaves++
			if t == "" {
				st.empty++
				return
			}
			st.str(n.Path, n.Key, t)
		case nil:
			st.leaves++
			st.empty++
		default:
			st.leaves++
			if f, ok := domain.Float(t); ok {
				st.number(n.Path, n.Key, f)
			}
		}
	}, nil)

	report := domain.DataQualityReport{
		Completeness:    1,
		Consistency:     ratio(st.inconsistent),
		Validity:        ratio(st.invalid),
		Accuracy:        ratio(st.outOfRange),
		DuplicateCount:  st.duplicates,
		AnomalyCount:    len(st.anomalies),
		Inconsistencies: st.inconsistent,
		InvalidFormats:  st.invalid,
		RangeViolations: st.outOfRange,
		Findings:        st.findings,
	}
	if st.leaves > 0 {
		report.Completeness = 1 - float64(st.empty)/float64(st.leaves)
	}
	if n := len(st.anomalies); n > 0 {
		if n > st.anomalySample {
			n = st.anomalySample
		}
		report.Anomalies = st.anomalies[:n]
	}
	return report
}

// ratio maps a violation count to 1 - min(1, 0.1 x count).
func ratio(count int) float64 {
	return float64(10-min(count, 10)) / 10
}

func (st *dqState) add(kind, path, format string, args ...any) {
	st.findings = append(st.findings, domain.QualityFinding{
		Path:    path,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

func (st *dqState) anomaly(path, format string, args ...any) {
	msg := path + ": " + fmt.Sprintf(format, args...)
	st.anomalies = append(st.anomalies, msg)
	st.findings = append(st.findings, domain.QualityFinding{Path: path, Kind: domain.FindingAnomaly, Message: msg})
}

func (st *dqState) str(path, key, value string) {
	kind := formatForKey(key)
	if kind == formatNone {
		kind = formatForValue(value)
	}
	if kind != formatNone && !validFormat(kind, value) {
		st.invalid++
		st.add(domain.FindingInvalidFormat, path, "%q is not a valid %s", truncate(value, 60), kind)
	}

	if n := utf8.RuneCountInString(value); n > st.heuristics.MaxStringLength {
		st.outOfRange++
		st.add(domain.FindingRange, path, "string has %d characters, more than %d", n, st.heuristics.MaxStringLength)
	}

	lower := strings.ToLower(strings.TrimSpace(value))
	if placeholders[lower] || strings.HasPrefix(lower, "lorem ipsum") {
		st.anomaly(path, "placeholder value %q", truncate(value, 40))
	}
}

func (st *dqState) number(path, key string, f float64) {
	h := st.heuristics
	check := func(what string, lo, hi float64) {
		if f < lo || f > hi {
			st.outOfRange++
			st.add(domain.FindingRange, path, "%s %g outside [%g, %g]", what, f, lo, hi)
		}
	}
	has := func(words ...string) bool {
		if !h.RangeKeySubstring {
			return structure.HasKeyWord(key, words...)
		}
		lower := strings.ToLower(key)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has("age"):
		check("age", h.MinAge, h.MaxAge)
	case has("year"):
		check("year", float64(h.MinYear), st.maxYear)
	case has("percent", "percentage", "rate") || strings.HasSuffix(strings.TrimSpace(key), "%"):
		check("percentage", h.MinPercent, h.MaxPercent)
	}
}

func (st *dqState) array(path string, arr []any) {
	if len(arr) == 0 {
		return
	}
	if msg := inconsistency(arr); msg != "" {
		st.inconsistent++
		st.add(domain.FindingInconsistency, path, "%s", msg)
	}
	if n := st.countDuplicates(arr); n > 0 {
		st.duplicates += n
		st.add(domain.FindingDuplicate, path, "%d duplicate elements", n)
	}
	st.outliers(path, arr)
}

// inconsistency describes why arr is inconsistent, or returns "". Every
// element, null included, is compared with the type of the first one.
func inconsistency(arr []any) string {
	first := domain.TypeOf(arr[0])
	var firstKeys []string
	if obj, ok := arr[0].(*domain.Object); ok {
		firstKeys = sortedKeys(obj)
	}
	for _, item := range arr[1:] {
		if t := domain.TypeOf(item); t != first {
			return fmt.Sprintf("array mixes %s and %s elements", first, t)
		}
		if obj, ok := item.(*domain.Object); ok && !equalKeys(firstKeys, sortedKeys(obj)) {
			return "array objects have different key sets"
		}
	}
	return ""
}

func sortedKeys(obj *domain.Object) []string {
	keys := domain.Keys(obj)
	sort.Strings(keys)
	return keys
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// countDuplicates counts repeated primitives, or equal container pairs when
// the array holds containers.
func (st *dqState) countDuplicates(arr []any) int {
	if !domain.IsContainer(arr[0]) {
		seen := make(map[string]bool)
		dups := 0
		for _, item := range arr {
			if domain.IsContainer(item) {
				continue
			}
			c := domain.Canonical(item)
			if seen[c] {
				dups++
				continue
			}
			seen[c] = true
		}
		return dups
	}

	var canon []string
	for _, item := range arr {
		if domain.IsContainer(item) {
			canon = append(canon, domain.Canonical(item))
		}
	}
	if len(canon) <= st.heuristics.DuplicateScanLimit {
		return equalPairs(canon)
	}
	return equalPairsHashed(canon)
}

func equalPairs(canon []string) int {
	pairs := 0
	for i := 0; i < len(canon); i++ {
		for j := i + 1; j < len(canon); j++ {
			if canon[i] == canon[j] {
				pairs++
			}
		}
	}
	return pairs
}

// equalPairsHashed counts the same pairs as equalPairs by grouping equal
// forms and summing k*(k-1)/2 per group.
func equalPairsHashed(canon []string) int {
	type bucket struct {
		form  string
		count int
	}
	groups := make(map[uint64][]*bucket)
	for _, c := range canon {
		h := xxhash.Sum64String(c)
		var found *bucket
		for _, b := range groups[h] {
			if b.form == c {
				found = b
				break
			}
		}
		if found == nil {
			found = &bucket{form: c}
			groups[h] = append(groups[h], found)
		}
		found.count++
	}

	pairs := 0
	for _, bs := range groups {
		for _, b := range bs {
			pairs += b.count * (b.count - 1) / 2
		}
	}
	return pairs
}

func (st *dqState) outliers(path string, arr []any) {
	var xs []float64
	var idx []int
	for i, item := range arr {
		if f, ok := domain.Float(item); ok {
			xs = append(xs, f)
			idx = append(idx, i)
		}
	}
	if len(xs) < st.heuristics.OutlierMinSamples {
		return
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if std == 0 || math.IsNaN(std) {
		return
	}
	for i, x := range xs {
		if z := math.Abs(x-mean) / std; z > st.heuristics.OutlierZScore {
			st.anomaly(domain.JoinIndex(path, idx[i]), "value %g is an outlier (z=%.1f)", x, z)
		}
	}
}
