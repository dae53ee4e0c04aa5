package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a decoded JSON object that keeps its keys in document order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// TypeTag names the JSON type of a value.
type TypeTag string

const (
	TypeNull    TypeTag = "null"
	TypeBoolean TypeTag = "boolean"
	TypeNumber  TypeTag = "number"
	TypeString  TypeTag = "string"
	TypeObject  TypeTag = "object"
	TypeArray   TypeTag = "array"
	TypeUnknown TypeTag = "unknown"
)

// TypeOf reports the JSON type of a parsed value. Native Go numbers are
// accepted so values built in code analyze the same as decoded ones.
func TypeOf(v any) TypeTag {
	switch t := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case json.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return TypeNumber
	case string:
		return TypeString
	case *Object:
		if t == nil {
			return TypeNull
		}
		return TypeObject
	case []any:
		return TypeArray
	default:
		return TypeUnknown
	}
}

// IsContainer reports whether v is an object or an array.
func IsContainer(v any) bool {
	tag := TypeOf(v)
	return tag == TypeObject || tag == TypeArray
}

// Identity returns a stable identity for non-empty containers. Two values
// share an identity only when they are the same object or the same backing
// array, which is what cycle detection needs.
func Identity(v any) (uintptr, bool) {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return 0, false
		}
		return reflect.ValueOf(t).Pointer(), true
	case []any:
		if len(t) == 0 {
			return 0, false
		}
		return reflect.ValueOf(t).Pointer(), true
	}
	return 0, false
}

// Float returns the numeric value of v when it is a JSON number.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case uint32:
		return float64(t), true
	}
	return 0, false
}

// Document is a parsed value plus what the decoder saw that Value cannot
// hold.
type Document struct {
	Value any
	// DuplicateKeyPaths lists objects in which a key appeared more than once
	// verbatim. Value keeps the first position and the last value.
	DuplicateKeyPaths []string
}

// Parse decodes text into a ParsedValue. Objects become *Object, arrays
// []any and numbers json.Number, so the original representation survives.
func Parse(text string) (any, error) {
	doc, err := ParseDocument(text)
	if err != nil {
		return nil, err
	}
	return doc.Value, nil
}

// ParseDocument is Parse that also reports exact duplicate keys.
func ParseDocument(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, &ParseError{Message: "empty input", Line: 1, Column: 1}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc Document
	v, err := decodeValue(dec, RootPath, &doc.DuplicateKeyPaths)
	if err != nil {
		return Document{}, newParseError(text, dec.InputOffset(), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Document{}, newParseError(text, dec.InputOffset(), errors.New("unexpected data after top-level value"))
	}
	doc.Value = v
	return doc, nil
}

// Valid reports whether text parses as a single JSON value.
func Valid(text string) bool {
	_, err := Parse(text)
	return err == nil
}

func decodeValue(dec *json.Decoder, path string, dups *[]string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		duplicated := false
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", kt)
			}
			val, err := decodeValue(dec, JoinKey(path, key), dups)
			if err != nil {
				return nil, err
			}
			if _, exists := obj.Get(key); exists && !duplicated {
				duplicated = true
				*dups = append(*dups, path)
			}
			obj.Set(key, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make([]any, 0)
		for dec.More() {
			val, err := decodeValue(dec, JoinIndex(path, len(arr)), dups)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

func newParseError(text string, offset int64, err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	}
	msg := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of input"
	}
	line, col := lineColumn(text, offset)
	return &ParseError{Message: msg, Offset: offset, Line: line, Column: col}
}

func lineColumn(text string, offset int64) (int, int) {
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	line, col := 1, 1
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Canonical returns the compact, deterministic serialization of v used for
// equality and duplicate comparisons. Key order is preserved.
func Canonical(v any) string {
	return Encode(v, "")
}

// Encode serializes v as JSON. A non-empty indent produces multi-line
// output. Containers that are active ancestors are written as "[Circular]".
func Encode(v any, indent string) string {
	e := &encoder{indent: indent, active: make(map[uintptr]bool)}
	e.write(v, 0)
	return e.b.String()
}

type encoder struct {
	b      strings.Builder
	indent string
	active map[uintptr]bool
}

func (e *encoder) newline(level int) {
	if e.indent == "" {
		return
	}
	e.b.WriteByte('\n')
	e.b.WriteString(strings.Repeat(e.indent, level))
}

func (e *encoder) write(v any, level int) {
	if id, ok := Identity(v); ok {
		if e.active[id] {
			e.b.WriteString(`"[Circular]"`)
			return
		}
		e.active[id] = true
		defer delete(e.active, id)
	}

	switch t := v.(type) {
	case *Object:
		if t == nil {
			e.b.WriteString("null")
			return
		}
		if t.Len() == 0 {
			e.b.WriteString("{}")
			return
		}
		e.b.WriteByte('{')
		first := true
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				e.b.WriteByte(',')
			}
			first = false
			e.newline(level + 1)
			e.b.WriteString(quote(pair.Key))
			e.b.WriteByte(':')
			if e.indent != "" {
				e.b.WriteByte(' ')
			}
			e.write(pair.Value, level+1)
		}
		e.newline(level)
		e.b.WriteByte('}')
	case []any:
		if len(t) == 0 {
			e.b.WriteString("[]")
			return
		}
		e.b.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				e.b.WriteByte(',')
			}
			e.newline(level + 1)
			e.write(item, level+1)
		}
		e.newline(level)
		e.b.WriteByte(']')
	case nil:
		e.b.WriteString("null")
	case bool:
		e.b.WriteString(strconv.FormatBool(t))
	case json.Number:
		e.b.WriteString(t.String())
	case string:
		e.b.WriteString(quote(t))
	default:
		if f, ok := Float(t); ok {
			e.b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return
		}
		e.b.WriteString(quote(fmt.Sprint(t)))
	}
}

func quote(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(data)
}

// ToPlain converts v into map[string]any / []any form for libraries that
// do not understand *Object. Cycles are cut with nil.
func ToPlain(v any) any {
	return toPlain(v, make(map[uintptr]bool))
}

func toPlain(v any, active map[uintptr]bool) any {
	if id, ok := Identity(v); ok {
		if active[id] {
			return nil
		}
		active[id] = true
		defer delete(active, id)
	}
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		m := make(map[string]any, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			m[pair.Key] = toPlain(pair.Value, active)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toPlain(item, active)
		}
		return out
	default:
		return v
	}
}

// Keys returns the keys of o in document order.
func Keys(o *Object) []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.Len())
	for pair := o.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// RootPath is the path of the top-level value.
const RootPath = "$"

var identKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// JoinKey appends an object key to a path: $.a, or $["a b"] for keys that
// are not identifiers.
func JoinKey(path, key string) string {
	if identKey.MatchString(key) {
		return path + "." + key
	}
	return path + "[" + quote(key) + "]"
}

// JoinIndex appends an array index to a path.
func JoinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
