package repair

import (
	"regexp"
	"strings"
)

// Rule is a single text rewrite. Apply must return its input unchanged when
// the rule does not match.
type Rule struct {
	Name  string
	Apply func(text string) string
}

// DefaultRules returns the repair rules in the order the engine applies them.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "Removed trailing commas", Apply: removeTrailingCommas},
		{Name: "Quoted unquoted keys", Apply: quoteKeys},
		{Name: "Converted single quotes to double quotes", Apply: convertSingleQuotes},
		{Name: "Quoted bare string values", Apply: quoteBareValues},
		{Name: "Removed comments", Apply: removeComments},
		{Name: "Replaced undefined and NaN with null", Apply: replaceNonFinite},
		{Name: "Balanced braces", Apply: func(s string) string { return balance(s, '{', '}') }},
		{Name: "Balanced brackets", Apply: func(s string) string { return balance(s, '[', ']') }},
		{Name: "Inserted missing colons", Apply: insertMissingColons},
		{Name: "Merged string concatenations", Apply: mergeConcatenations},
		{Name: "Replaced constructor calls with literals", Apply: replaceConstructors},
		{Name: "Unquoted stringified booleans and null", Apply: unquoteKeywords},
		{Name: "Unquoted numeric strings", Apply: unquoteNumbers},
		{Name: "Removed escaped quotes", Apply: unescapeQuotes},
		{Name: "Inserted missing commas between values", Apply: insertMissingCommas},
		{Name: "Converted Python-style literals", Apply: convertPythonLiterals},
		{Name: "Normalized commas and whitespace", Apply: normalize},
		{Name: "Wrapped bare key-value pairs in braces", Apply: wrapBarePairs},
	}
}

var (
	trailingCommaRe = regexp.MustCompile(`,(?:\s*,)*(\s*[}\]])`)
	bareKeyRe       = regexp.MustCompile(`(^|[{,])(\s*)([A-Za-z_$][\w$]*)(\s*:)`)
	bareValueRe     = regexp.MustCompile(`(:\s*)([A-Za-z_][\w.\-]*(?:[ \t]+[A-Za-z_][\w.\-]*)*)(\s*[,}\]])`)
	nonFiniteRe     = regexp.MustCompile(`-?\b(?:undefined|NaN|Infinity)\b`)
	quotedKeywordRe = regexp.MustCompile(`(:\s*)"(true|false|null)"`)
	quotedNumberRe  = regexp.MustCompile(`(:\s*)"(-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?)"`)
	adjacentRe      = regexp.MustCompile(`([}\]])(\s*)([{\[])`)
	pythonRe        = regexp.MustCompile(`\b(?:True|False|None|TRUE|FALSE|NULL|Null|nil)\b`)
	repeatCommaRe   = regexp.MustCompile(`,(?:\s*,)+`)
	leadingCommaRe  = regexp.MustCompile(`([{\[])(\s*),`)
	nbspRe          = regexp.MustCompile(`\x{00A0}`)
)

// keywords are never quoted by quoteBareValues; later rules rewrite them.
var keywords = map[string]bool{
	"true": true, "false": true, "null": true,
	"undefined": true, "NaN": true, "Infinity": true,
	"True": true, "False": true, "None": true,
	"TRUE": true, "FALSE": true, "NULL": true, "Null": true, "nil": true,
}

func removeTrailingCommas(text string) string {
	return replaceInCode(text, trailingCommaRe, func(g []string) string { return g[1] })
}

func quoteKeys(text string) string {
	return replaceInCode(text, bareKeyRe, func(g []string) string {
		return g[1] + g[2] + `"` + g[3] + `"` + g[4]
	})
}

func convertSingleQuotes(text string) string {
	segs := segments(text)
	changed := false
	for i, s := range segs {
		if s.kind != segString || s.quote != '\'' {
			continue
		}
		segs[i].text = `"` + requote(s.text[1:len(s.text)-1], '\'') + `"`
		changed = true
	}
	if !changed {
		return text
	}
	return join(segs)
}

// requote rewrites the body of a string delimited by from so that it is
// valid between double quotes.
func requote(body string, from byte) string {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			if body[i+1] == from {
				b.WriteByte(from)
			} else {
				b.WriteByte(c)
				b.WriteByte(body[i+1])
			}
			i++
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func quoteBareValues(text string) string {
	return replaceInCode(text, bareValueRe, func(g []string) string {
		if keywords[g[2]] {
			return g[0]
		}
		return g[1] + `"` + g[2] + `"` + g[3]
	})
}

func removeComments(text string) string {
	segs := segments(text)
	kept := segs[:0]
	for _, s := range segs {
		if s.kind != segComment {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(segs) {
		return text
	}
	return join(kept)
}

func replaceNonFinite(text string) string {
	return replaceInCode(text, nonFiniteRe, func([]string) string { return "null" })
}

// balance repairs the nesting of one bracket kind. A closer of the other
// kind that would close over an open target gets the missing target
// closers inserted in front of it; unclosed targets are closed at the end;
// stray target closers get an opener prepended.
func balance(text string, open, close byte) string {
	otherOpen, otherClose := byte('['), byte(']')
	if open == '[' {
		otherOpen, otherClose = '{', '}'
	}
	closerFor := func(c byte) byte {
		if c == '{' {
			return '}'
		}
		return ']'
	}

	mask := codeMask(text)
	var stack []byte
	var b strings.Builder
	strays := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !mask[i] {
			b.WriteByte(c)
			continue
		}
		top := byte(0)
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}
		switch c {
		case '{', '[':
			stack = append(stack, c)
		case close:
			if top == open {
				stack = stack[:len(stack)-1]
			} else if idx := lastIndexByte(stack, open); idx >= 0 {
				stack = stack[:idx]
			} else {
				strays++
			}
		case otherClose:
			switch {
			case top == otherOpen:
				stack = stack[:len(stack)-1]
			case lastIndexByte(stack, otherOpen) >= 0:
				for len(stack) > 0 && stack[len(stack)-1] == open {
					b.WriteByte(close)
					stack = stack[:len(stack)-1]
				}
				if idx := lastIndexByte(stack, otherOpen); idx >= 0 {
					stack = stack[:idx]
				}
			}
		}
		b.WriteByte(c)
	}

	if bottom := strings.IndexByte(string(stack), open); bottom >= 0 {
		for i := len(stack) - 1; i >= bottom; i-- {
			b.WriteByte(closerFor(stack[i]))
		}
	}
	return strings.Repeat(string(open), strays) + b.String()
}

func lastIndexByte(s []byte, c byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// insertMissingColons adds a colon between two adjacent strings when the
// first one sits in key position inside an object.
func insertMissingColons(text string) string {
	segs := segments(text)
	var b strings.Builder
	var stack []byte
	var prev byte
	changed := false
	for i, s := range segs {
		b.WriteString(s.text)
		switch s.kind {
		case segCode:
			for j := 0; j < len(s.text); j++ {
				c := s.text[j]
				switch c {
				case '{', '[':
					stack = append(stack, c)
				case '}', ']':
					if len(stack) > 0 {
						stack = stack[:len(stack)-1]
					}
				}
				if !isSpace(c) {
					prev = c
				}
			}
		case segString:
			inObject := len(stack) > 0 && stack[len(stack)-1] == '{'
			keyPos := inObject && (prev == '{' || prev == ',')
			if keyPos && i+2 < len(segs) &&
				segs[i+1].kind == segCode && strings.TrimSpace(segs[i+1].text) == "" &&
				segs[i+2].kind == segString {
				b.WriteByte(':')
				changed = true
			}
			prev = '"'
		}
	}
	if !changed {
		return text
	}
	return b.String()
}

func mergeConcatenations(text string) string {
	segs := segments(text)
	out := make([]segment, 0, len(segs))
	changed := false
	for _, s := range segs {
		n := len(out)
		if s.kind == segString && s.quote == '"' && s.closed && n >= 2 &&
			out[n-1].kind == segCode && strings.TrimSpace(out[n-1].text) == "+" &&
			out[n-2].kind == segString && out[n-2].quote == '"' && out[n-2].closed {
			prev := out[n-2].text
			out[n-2].text = prev[:len(prev)-1] + s.text[1:]
			out = out[:n-1]
			changed = true
			continue
		}
		out = append(out, s)
	}
	if !changed {
		return text
	}
	return join(out)
}

const stringLit = `"(?:[^"\\\n]|\\.)*"`

var constructors = []struct {
	re   *regexp.Regexp
	repl func(g []string) string
}{
	{
		re: regexp.MustCompile(`\bnew\s+Date\s*\(\s*(` + stringLit + `|-?\d+(?:\.\d+)?)?\s*\)`),
		repl: func(g []string) string {
			if g[1] == "" {
				return "null"
			}
			return g[1]
		},
	},
	{
		re:   regexp.MustCompile(`\b(?:ISODate|ObjectId|UUID|NumberDecimal)\s*\(\s*(` + stringLit + `)\s*\)`),
		repl: func(g []string) string { return g[1] },
	},
	{
		re:   regexp.MustCompile(`\b(?:NumberLong|NumberInt)\s*\(\s*"?(-?\d+)"?\s*\)`),
		repl: func(g []string) string { return g[1] },
	},
	{
		re:   regexp.MustCompile(`\bnew\s+[A-Za-z_$][\w$]*\s*\([^()]*\)`),
		repl: func([]string) string { return "null" },
	},
}

func replaceConstructors(text string) string {
	for _, c := range constructors {
		text = replaceFromCode(text, c.re, c.repl)
	}
	return text
}

func unquoteKeywords(text string) string {
	return replaceFromCode(text, quotedKeywordRe, func(g []string) string { return g[1] + g[2] })
}

func unquoteNumbers(text string) string {
	return replaceFromCode(text, quotedNumberRe, func(g []string) string { return g[1] + g[2] })
}

// unescapeQuotes turns \"...\" delimited strings in code into plain
// double-quoted strings.
func unescapeQuotes(text string) string {
	segs := segments(text)
	changed := false
	for i, s := range segs {
		if s.kind != segString || s.quote != escQuote {
			continue
		}
		body := s.text[2 : len(s.text)-2]
		body = strings.ReplaceAll(body, `\\`, `\`)
		segs[i].text = `"` + body + `"`
		changed = true
	}
	if !changed {
		return text
	}
	return join(segs)
}

func insertMissingCommas(text string) string {
	return replaceInCode(text, adjacentRe, func(g []string) string { return g[1] + "," + g[2] + g[3] })
}

func convertPythonLiterals(text string) string {
	return replaceInCode(text, pythonRe, func(g []string) string {
		switch g[0] {
		case "True", "TRUE":
			return "true"
		case "False", "FALSE":
			return "false"
		default:
			return "null"
		}
	})
}

func normalize(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = replaceInCode(text, repeatCommaRe, func([]string) string { return "," })
	text = replaceInCode(text, leadingCommaRe, func(g []string) string { return g[1] + g[2] })
	text = removeTrailingCommas(text)
	text = replaceInCode(text, nbspRe, func([]string) string { return " " })
	return strings.TrimSpace(text)
}

func wrapBarePairs(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || trimmed[0] == '{' || trimmed[0] == '[' {
		return text
	}
	mask := codeMask(trimmed)
	for i := 0; i < len(trimmed); i++ {
		if mask[i] && trimmed[i] == ':' {
			return "{" + trimmed + "}"
		}
	}
	return text
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
