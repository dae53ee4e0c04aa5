package structure

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// Key naming conventions recognized by KeyStyle.
const (
	StyleCamel  = "camelCase"
	StylePascal = "PascalCase"
	StyleSnake  = "snake_case"
	StyleKebab  = "kebab-case"
)

// KeyWords splits a key into lower-case words across camelCase, snake_case,
// kebab-case and spaces: "birthYear" and "birth_year" both give
// [birth year].
func KeyWords(key string) []string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	var words []string
	for _, p := range parts {
		for _, w := range camelcase.Split(p) {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}

// HasKeyWord reports whether any word of key equals one of want.
func HasKeyWord(key string, want ...string) bool {
	for _, w := range KeyWords(key) {
		for _, x := range want {
			if w == x {
				return true
			}
		}
	}
	return false
}

// KeyStyle classifies a multi-word key. Single-word keys fit every style
// and return "".
func KeyStyle(key string) string {
	switch {
	case strings.ContainsAny(key, " \t\n"):
		return ""
	case strings.Contains(strings.Trim(key, "_"), "_"):
		return StyleSnake
	case strings.Contains(strings.Trim(key, "-"), "-"):
		return StyleKebab
	}

	letterWords := 0
	for _, w := range camelcase.Split(key) {
		if strings.IndexFunc(w, unicode.IsLetter) >= 0 {
			letterWords++
		}
	}
	if letterWords < 2 {
		return ""
	}
	first := []rune(key)[0]
	if unicode.IsUpper(first) {
		return StylePascal
	}
	return StyleCamel
}
