// Package schema validates parsed documents against JSON Schema using
// santhosh-tekuri/jsonschema. Compiled schemas are memoized per document.
package schema

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/openkraft/jsonkraft/internal/domain"
)

const resourceURL = "schema.json"

// Validator implements domain.SchemaValidator.
type Validator struct {
	printer *message.Printer

	mu       sync.Mutex
	compiled map[uint64]*jsonschema.Schema
}

// New creates a validator reporting messages in English.
func New() *Validator {
	return NewWithLanguage(language.English)
}

// NewWithLanguage creates a validator that localizes messages for tag.
func NewWithLanguage(tag language.Tag) *Validator {
	return &Validator{
		printer:  message.NewPrinter(tag),
		compiled: make(map[uint64]*jsonschema.Schema),
	}
}

// Validate returns one ValidationError per failing leaf keyword. An error
// return means the schema itself could not be loaded or compiled.
func (v *Validator) Validate(ctx context.Context, schema []byte, value any) ([]domain.ValidationError, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sch, err := v.compile(schema)
	if err != nil {
		return nil, err
	}

	err = sch.Validate(domain.ToPlain(value))
	if err == nil {
		return []domain.ValidationError{}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("validating: %w", err)
	}

	out := []domain.ValidationError{}
	v.collect(ve, value, &out)
	return out, nil
}

func (v *Validator) compile(schema []byte) (*jsonschema.Schema, error) {
	key := xxhash.Sum64(schema)

	v.mu.Lock()
	defer v.mu.Unlock()
	if sch, ok := v.compiled[key]; ok {
		return sch, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	v.compiled[key] = sch
	return sch, nil
}

// collect flattens the error tree into its leaves.
func (v *Validator) collect(ve *jsonschema.ValidationError, root any, out *[]domain.ValidationError) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			v.collect(c, root, out)
		}
		return
	}

	keyword := ""
	if kp := ve.ErrorKind.KeywordPath(); len(kp) > 0 {
		keyword = kp[len(kp)-1]
	}
	*out = append(*out, domain.ValidationError{
		Path:    instancePath(root, ve.InstanceLocation),
		Message: ve.ErrorKind.LocalizedString(v.printer),
		Keyword: keyword,
	})
}

// instancePath turns JSON pointer tokens into a $-path, using the value to
// tell array indices from numeric object keys.
func instancePath(root any, tokens []string) string {
	path := domain.RootPath
	cur := root
	for _, tok := range tokens {
		switch t := cur.(type) {
		case []any:
			if i, err := strconv.Atoi(tok); err == nil && i >= 0 && i < len(t) {
				path = domain.JoinIndex(path, i)
				cur = t[i]
				continue
			}
			path = domain.JoinKey(path, tok)
			cur = nil
		case *domain.Object:
			path = domain.JoinKey(path, tok)
			if t != nil {
				cur, _ = t.Get(tok)
			} else {
				cur = nil
			}
		default:
			path = domain.JoinKey(path, tok)
			cur = nil
		}
	}
	return path
}
