package encoder

import "github.com/openkraft/jsonkraft/internal/domain"

// JSON pretty-prints with key order preserved.
type JSON struct {
	Indent string
}

func (JSON) Format() domain.Format { return domain.FormatJSON }

func (e JSON) Encode(v any) (string, error) {
	return domain.Encode(v, e.Indent) + "\n", nil
}
