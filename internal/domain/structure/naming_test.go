package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyWords(t *testing.T) {
	assert.Equal(t, []string{"birth", "year"}, KeyWords("birthYear"))
	assert.Equal(t, []string{"birth", "year"}, KeyWords("birth_year"))
	assert.Equal(t, []string{"user", "age"}, KeyWords("user-age"))
	assert.Equal(t, []string{"page"}, KeyWords("page"))
}

func TestHasKeyWord(t *testing.T) {
	assert.True(t, HasKeyWord("userAge", "age"))
	assert.False(t, HasKeyWord("page", "age"))
	assert.False(t, HasKeyWord("message", "age"))
}

func TestKeyStyle(t *testing.T) {
	tests := []struct {
		key   string
		style string
	}{
		{"firstName", StyleCamel},
		{"FirstName", StylePascal},
		{"first_name", StyleSnake},
		{"first-name", StyleKebab},
		{"name", ""},
		{"_id", ""},
		{"first name", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.style, KeyStyle(tt.key), "key %q", tt.key)
	}
}
