package repair_test

import (
	"testing"

	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/repair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair_TrailingComma(t *testing.T) {
	res := repair.New().Repair(`{"a":1,}`)

	assert.True(t, res.Succeeded)
	assert.Equal(t, `{"a":1}`, res.Text)
	assert.Equal(t, []string{"Removed trailing commas"}, res.RulesApplied)
}

func TestRepair_UnquotedKeyAndSingleQuotes(t *testing.T) {
	res := repair.New().Repair(`{a: 'x'}`)

	assert.True(t, res.Succeeded)
	assert.Equal(t, `{"a": "x"}`, res.Text)
	assert.Equal(t, []string{"Quoted unquoted keys", "Converted single quotes to double quotes"}, res.RulesApplied)
}

func TestRepair_ValidInputIsUntouched(t *testing.T) {
	in := `{"a": [1, 2, {"b": null}]}`
	res := repair.New().Repair(in)

	assert.True(t, res.Succeeded)
	assert.Equal(t, in, res.Text)
	assert.Empty(t, res.RulesApplied)
	assert.NotNil(t, res.RulesApplied)
}

func TestRepair_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		rules []string
	}{
		{
			name:  "comments",
			input: "{\n  // note\n  \"a\": 1 /* inline */\n}",
			want:  "{\n  \n  \"a\": 1 \n}",
			rules: []string{"Removed comments"},
		},
		{
			name:  "python literals",
			input: `{"ok": True, "v": None}`,
			want:  `{"ok": true, "v": null}`,
			rules: []string{"Converted Python-style literals"},
		},
		{
			name:  "unclosed containers",
			input: `{"a": [1, 2`,
			want:  `{"a": [1, 2]}`,
			rules: []string{"Balanced braces"},
		},
		{
			name:  "missing comma between objects",
			input: `[{"a":1}{"b":2}]`,
			want:  `[{"a":1},{"b":2}]`,
			rules: []string{"Inserted missing commas between values"},
		},
		{
			name:  "missing colon",
			input: `{"a" "b"}`,
			want:  `{"a": "b"}`,
			rules: []string{"Inserted missing colons"},
		},
		{
			name:  "string concatenation",
			input: `{"a": "foo" + "bar"}`,
			want:  `{"a": "foobar"}`,
			rules: []string{"Merged string concatenations"},
		},
		{
			name:  "constructors",
			input: `{"d": new Date("2024-01-01"), "e": new Date(), "id": ObjectId("abc"), "n": NumberLong(5)}`,
			want:  `{"d": "2024-01-01", "e": null, "id": "abc", "n": 5}`,
			rules: []string{"Replaced constructor calls with literals"},
		},
		{
			name:  "stringified literals",
			input: `{"a": "true", "b": "42",}`,
			want:  `{"a": true, "b": 42}`,
			rules: []string{
				"Removed trailing commas",
				"Unquoted stringified booleans and null",
				"Unquoted numeric strings",
			},
		},
		{
			name:  "escaped quotes",
			input: `{\"a\": 1}`,
			want:  `{"a": 1}`,
			rules: []string{"Removed escaped quotes"},
		},
		{
			name:  "undefined and NaN",
			input: `{"a": undefined, "b": NaN}`,
			want:  `{"a": null, "b": null}`,
			rules: []string{"Replaced undefined and NaN with null"},
		},
		{
			name:  "bare pairs",
			input: `a: 1, b: 2`,
			want:  `{"a": 1, "b": 2}`,
			rules: []string{"Quoted unquoted keys", "Wrapped bare key-value pairs in braces"},
		},
		{
			name:  "bare string value",
			input: `{"status": active}`,
			want:  `{"status": "active"}`,
			rules: []string{"Quoted bare string values"},
		},
		{
			name:  "duplicate and trailing commas",
			input: `[1,,2,]`,
			want:  `[1,2]`,
			rules: []string{"Removed trailing commas", "Normalized commas and whitespace"},
		},
		{
			name:  "byte order mark",
			input: "\ufeff{\"a\":1}",
			want:  `{"a":1}`,
			rules: []string{"Normalized commas and whitespace"},
		},
		{
			name:  "string contents are not rewritten",
			input: `{"note": "a, }", x: 1}`,
			want:  `{"note": "a, }", "x": 1}`,
			rules: []string{"Quoted unquoted keys"},
		},
		{
			name:  "double quotes inside single quotes",
			input: `{'say': 'he said "hi"'}`,
			want:  `{"say": "he said \"hi\""}`,
			rules: []string{"Converted single quotes to double quotes"},
		},
	}

	engine := repair.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.Repair(tt.input)
			require.True(t, res.Succeeded, "output: %s", res.Text)
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, tt.rules, res.RulesApplied)
			assert.True(t, domain.Valid(res.Text))
		})
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a":1,}`,
		`{a: 'x'}`,
		`{"a": [1, 2`,
		`a: 1, b: 2`,
		`{"ok": True}`,
	}
	engine := repair.New()
	for _, in := range inputs {
		first := engine.Repair(in)
		require.True(t, first.Succeeded, in)

		second := engine.Repair(first.Text)
		assert.Equal(t, first.Text, second.Text, in)
		assert.Empty(t, second.RulesApplied, in)
	}
}

func TestRepair_Unrepairable(t *testing.T) {
	res := repair.New().Repair(`not json at all`)

	assert.False(t, res.Succeeded)
	assert.Equal(t, `not json at all`, res.Text)
	assert.Empty(t, res.RulesApplied)
}

func TestRepair_EmptyInput(t *testing.T) {
	res := repair.New().Repair("")
	assert.False(t, res.Succeeded)
}

func TestNewWithRules_OnlyRecordsChangingRules(t *testing.T) {
	engine := repair.NewWithRules([]repair.Rule{
		{Name: "noop", Apply: func(s string) string { return s }},
		{Name: "close", Apply: func(s string) string { return s + "}" }},
	})
	res := engine.Repair(`{"a":1`)

	assert.True(t, res.Succeeded)
	assert.Equal(t, []string{"close"}, res.RulesApplied)
}
