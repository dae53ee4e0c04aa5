package repair

import (
	"regexp"
	"strings"
)

type segKind uint8

const (
	segCode segKind = iota
	segString
	segComment
)

// escQuote marks a string delimited by backslash-escaped quotes, as found
// in double-encoded JSON pasted without its outer quotes.
const escQuote = '\\'

type segment struct {
	kind  segKind
	text  string
	quote byte
	// closed is false for a string that runs to the end of its line.
	closed bool
}

// segments splits text into code, string literal and comment runs. Double
// and single quoted strings are recognized; a single quote that is not
// closed on the same line is treated as code.
func segments(text string) []segment {
	var segs []segment
	codeStart := 0
	flush := func(end int) {
		if end > codeStart {
			segs = append(segs, segment{kind: segCode, text: text[codeStart:end]})
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"':
			end, closed := scanString(text, i+1, `"`)
			flush(i)
			segs = append(segs, segment{kind: segString, text: text[i:end], quote: '"', closed: closed})
			i, codeStart = end, end
		case c == '\'':
			end, closed := scanString(text, i+1, `'`)
			if !closed {
				i++
				continue
			}
			flush(i)
			segs = append(segs, segment{kind: segString, text: text[i:end], quote: '\'', closed: true})
			i, codeStart = end, end
		case c == '\\' && i+1 < len(text) && text[i+1] == '"':
			end, closed := scanString(text, i+2, `\"`)
			if !closed {
				i++
				continue
			}
			flush(i)
			segs = append(segs, segment{kind: segString, text: text[i:end], quote: escQuote, closed: true})
			i, codeStart = end, end
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(text)
			} else {
				end += i
			}
			flush(i)
			segs = append(segs, segment{kind: segComment, text: text[i:end]})
			i, codeStart = end, end
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				end = len(text)
			} else {
				end += i + 4
			}
			flush(i)
			segs = append(segs, segment{kind: segComment, text: text[i:end]})
			i, codeStart = end, end
		default:
			i++
		}
	}
	flush(len(text))
	return segs
}

// scanString returns the index just past the closing delimiter, starting
// at from (just after the opening one). Strings stop at a newline.
func scanString(text string, from int, closer string) (int, bool) {
	for i := from; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], closer):
			return i + len(closer), true
		case text[i] == '\\':
			i++
		case text[i] == '\n':
			return i, false
		}
	}
	return len(text), false
}

// codeMask reports for every byte of text whether it lies outside string
// literals and comments.
func codeMask(text string) []bool {
	mask := make([]bool, len(text))
	pos := 0
	for _, s := range segments(text) {
		if s.kind == segCode {
			for i := pos; i < pos+len(s.text); i++ {
				mask[i] = true
			}
		}
		pos += len(s.text)
	}
	return mask
}

func join(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

// replaceInCode rewrites matches of re that lie entirely in code.
func replaceInCode(text string, re *regexp.Regexp, repl func(groups []string) string) string {
	return replaceMatches(text, re, true, repl)
}

// replaceFromCode rewrites matches of re that start in code; the match may
// extend into string literals.
func replaceFromCode(text string, re *regexp.Regexp, repl func(groups []string) string) string {
	return replaceMatches(text, re, false, repl)
}

func replaceMatches(text string, re *regexp.Regexp, whole bool, repl func(groups []string) string) string {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	mask := codeMask(text)

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start == end || !inCode(mask, start, end, whole) {
			continue
		}
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		b.WriteString(text[last:start])
		b.WriteString(repl(groups))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func inCode(mask []bool, start, end int, whole bool) bool {
	if !mask[start] {
		return false
	}
	if !whole {
		return true
	}
	for i := start; i < end; i++ {
		if !mask[i] {
			return false
		}
	}
	return true
}
