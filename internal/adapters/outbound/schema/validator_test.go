package schema_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/jsonkraft/internal/adapters/outbound/schema"
	"github.com/openkraft/jsonkraft/internal/domain"
)

const userSchema = `{
  "type": "object",
  "required": ["id", "email"],
  "properties": {
    "id": {"type": "integer"},
    "email": {"type": "string"},
    "tags": {"type": "array", "items": {"type": "string"}}
  }
}`

func parse(t *testing.T, text string) any {
	t.Helper()
	v, err := domain.Parse(text)
	require.NoError(t, err)
	return v
}

func TestValidator_Valid(t *testing.T) {
	v := schema.New()
	errs, err := v.Validate(context.Background(), []byte(userSchema), parse(t, `{"id":1,"email":"a@b.co"}`))
	require.NoError(t, err)
	assert.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidator_ReportsLeafErrors(t *testing.T) {
	v := schema.New()
	errs, err := v.Validate(context.Background(), []byte(userSchema),
		parse(t, `{"id":"x","tags":["ok",7]}`))
	require.NoError(t, err)
	require.Len(t, errs, 3)

	byKeyword := make(map[string]domain.ValidationError)
	for _, e := range errs {
		byKeyword[e.Keyword+" "+e.Path] = e
	}

	assert.Contains(t, byKeyword, "required $")
	assert.Contains(t, byKeyword["required $"].Message, "email")
	assert.Contains(t, byKeyword, "type $.id")
	assert.Contains(t, byKeyword, "type $.tags[1]")
}

func TestValidator_NumericKeysAreNotIndices(t *testing.T) {
	s := `{"type":"object","properties":{"0":{"type":"string"}}}`
	errs, err := schema.New().Validate(context.Background(), []byte(s), parse(t, `{"0":1}`))
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "$[\"0\"]", errs[0].Path)
}

func TestValidator_BadSchema(t *testing.T) {
	v := schema.New()
	_, err := v.Validate(context.Background(), []byte(`{"type":`), parse(t, `{}`))
	assert.ErrorContains(t, err, "parsing schema")

	_, err = v.Validate(context.Background(), []byte(`{"type":"banana"}`), parse(t, `{}`))
	assert.ErrorContains(t, err, "compiling schema")
}

func TestValidator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := schema.New().Validate(ctx, []byte(userSchema), parse(t, `{}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidator_ReusesCompiledSchema(t *testing.T) {
	v := schema.New()
	for i := 0; i < 3; i++ {
		errs, err := v.Validate(context.Background(), []byte(userSchema), parse(t, `{"id":1}`))
		require.NoError(t, err)
		assert.Len(t, errs, 1)
	}
}
