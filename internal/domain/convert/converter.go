// Package convert owns the conversion contract; the encoders doing the
// actual serialization are injected.
package convert

import (
	"fmt"
	"sort"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// TabularShape is the shape tabular formats require.
const TabularShape = "array of objects"

// Converter dispatches a parsed value to the encoder for a format.
type Converter struct {
	encoders map[domain.Format]domain.Encoder
}

// New registers encoders by their format. A later encoder for the same
// format replaces an earlier one.
func New(encoders ...domain.Encoder) *Converter {
	c := &Converter{encoders: make(map[domain.Format]domain.Encoder, len(encoders))}
	for _, e := range encoders {
		c.encoders[e.Format()] = e
	}
	return c
}

// Formats lists the registered formats in name order.
func (c *Converter) Formats() []domain.Format {
	out := make([]domain.Format, 0, len(c.encoders))
	for f := range c.encoders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Convert encodes v as format. Markup and mapping formats accept any value;
// tabular formats need an array of objects and fail with a
// *domain.ConversionShapeError otherwise. v is never modified.
func (c *Converter) Convert(v any, format domain.Format) (string, error) {
	enc, ok := c.encoders[format]
	if !ok {
		return "", fmt.Errorf("%w %q", domain.ErrUnsupportedFormat, format)
	}
	if format.Tabular() {
		if err := CheckTabular(v, format); err != nil {
			return "", err
		}
	}
	out, err := enc.Encode(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", format, err)
	}
	return out, nil
}

// CheckTabular reports whether v can be laid out as rows.
func CheckTabular(v any, format domain.Format) error {
	arr, ok := v.([]any)
	if !ok {
		return &domain.ConversionShapeError{Format: format, Required: TabularShape, Actual: string(domain.TypeOf(v))}
	}
	for i, item := range arr {
		if domain.TypeOf(item) != domain.TypeObject {
			return &domain.ConversionShapeError{
				Format:   format,
				Required: TabularShape,
				Actual:   fmt.Sprintf("%s at index %d", domain.TypeOf(item), i),
			}
		}
	}
	return nil
}
