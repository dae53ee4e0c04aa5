package structure_test

import (
	"testing"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) any {
	t.Helper()
	v, err := domain.Parse(text)
	require.NoError(t, err)
	return v
}

func TestAnalyze_Counts(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":[true,null,""],"c":{"d":"x"},"e":{}}`)
	a := structure.Analyze(v)

	assert.Equal(t, 3, a.ObjectCount)
	assert.Equal(t, 1, a.ArrayCount)
	assert.Equal(t, 5, a.PrimitiveCount)
	assert.Equal(t, 5, a.KeyCount)
	assert.Equal(t, 1, a.NullCount)
	assert.Equal(t, 2, a.EmptyCount, "empty string and empty object")
	assert.Equal(t, 2, a.Depth)
	assert.Equal(t, 2, a.TypeHistogram[domain.TypeString])
	assert.Equal(t, 1, a.TypeHistogram[domain.TypeBoolean])
	assert.Empty(t, a.CircularPaths)
}

func TestAnalyze_PrimitiveRootHasZeroDepth(t *testing.T) {
	a := structure.Analyze(mustParse(t, `42`))
	assert.Equal(t, 0, a.Depth)
	assert.Equal(t, 1, a.PrimitiveCount)
	assert.Equal(t, 1, a.TypeHistogram[domain.TypeNumber])
}

func TestAnalyze_DuplicateKeysCaseInsensitive(t *testing.T) {
	a := structure.Analyze(mustParse(t, `{"user":{"Id":1,"id":2},"ok":{"a":1,"b":2}}`))
	assert.Equal(t, []string{"$.user"}, a.DuplicateKeyPaths)
}

func TestAnalyze_ExactDuplicateKeys(t *testing.T) {
	doc, err := domain.ParseDocument(`{"id":1,"id":2,"items":[{"k":1,"k":2,"K":3}],"ok":{"a":1}}`)
	require.NoError(t, err)

	a := structure.Analyze(doc.Value, doc.DuplicateKeyPaths...)
	assert.Equal(t, []string{"$", "$.items[0]"}, a.DuplicateKeyPaths)
	assert.Equal(t, 6, a.KeyCount, "repeated keys collapse into one entry")
}

func TestAnalyze_SelfReferenceTerminates(t *testing.T) {
	root := domain.NewObject()
	root.Set("name", "loop")
	root.Set("self", root)

	a := structure.Analyze(root)
	assert.Equal(t, []string{"$.self"}, a.CircularPaths)
	assert.Equal(t, 1, a.ObjectCount)
}

func TestAnalyze_CycleReportedOncePerPath(t *testing.T) {
	root := domain.NewObject()
	shared := domain.NewObject()
	shared.Set("back", root)
	root.Set("a", shared)
	root.Set("b", shared)

	a := structure.Analyze(root)
	assert.ElementsMatch(t, []string{"$.a.back", "$.b.back"}, a.CircularPaths)
}

func TestAnalyze_SharedChildIsNotACycle(t *testing.T) {
	shared := domain.NewObject()
	shared.Set("v", "x")
	root := domain.NewObject()
	root.Set("first", shared)
	root.Set("second", shared)
	root.Set("list", []any{shared, shared})

	a := structure.Analyze(root)
	assert.Empty(t, a.CircularPaths)
	assert.Equal(t, 5, a.ObjectCount, "shared object is counted on every path")
}

func TestAnalyze_ArrayCycle(t *testing.T) {
	arr := make([]any, 2)
	arr[0] = "x"
	arr[1] = arr

	a := structure.Analyze(arr)
	assert.Equal(t, []string{"$[1]"}, a.CircularPaths)
}

func TestWarnings_DepthAndDuplicates(t *testing.T) {
	v := mustParse(t, `{"a":{"b":{"c":{}}},"x":{"K":1,"k":2}}`)
	a := structure.Analyze(v)
	limits := domain.DefaultStructureLimits()
	limits.MaxDepth = 2

	ws := structure.Warnings(v, a, limits)
	var structural int
	for _, w := range ws {
		if w.Category == domain.WarningStructure {
			structural++
		}
	}
	assert.Equal(t, 2, structural)
}

func TestWarnings_LargeArrayAndWideObject(t *testing.T) {
	arr := make([]any, 5)
	obj := domain.NewObject()
	for i, k := range []string{"a", "b", "c", "d"} {
		obj.Set(k, i)
	}
	root := domain.NewObject()
	root.Set("items", arr)
	root.Set("wide", obj)

	limits := domain.DefaultStructureLimits()
	limits.LargeArray = 3
	limits.WideObject = 3

	ws := structure.Warnings(root, structure.Analyze(root), limits)
	require.Len(t, ws, 2)
	assert.Equal(t, domain.WarningPerformance, ws[0].Category)
	assert.Equal(t, "$.items", ws[0].Path)
	assert.Equal(t, "$.wide", ws[1].Path)
}

func TestWarnings_MixedNamingConventions(t *testing.T) {
	v := mustParse(t, `{"firstName":"a","last_name":"b","age":3}`)
	ws := structure.Warnings(v, structure.Analyze(v), domain.DefaultStructureLimits())
	require.Len(t, ws, 1)
	assert.Equal(t, domain.WarningBestPractice, ws[0].Category)
	assert.Contains(t, ws[0].Message, "camelCase")
	assert.Contains(t, ws[0].Message, "snake_case")
}

func TestWarnings_WhitespaceKey(t *testing.T) {
	v := mustParse(t, `{"first name":"a"}`)
	ws := structure.Warnings(v, structure.Analyze(v), domain.DefaultStructureLimits())
	require.Len(t, ws, 1)
	assert.Equal(t, `$["first name"]`, ws[0].Path)
}

func TestWarnings_CleanDocument(t *testing.T) {
	v := mustParse(t, `{"_id":"1","userName":"bob","createdAt":"2024-01-01"}`)
	assert.Empty(t, structure.Warnings(v, structure.Analyze(v), domain.DefaultStructureLimits()))
}
