package application

import (
	"github.com/openkraft/jsonkraft/internal/domain"
	"github.com/openkraft/jsonkraft/internal/domain/convert"
)

// ConvertService parses JSON text and hands it to the converter.
type ConvertService struct {
	converter *convert.Converter
}

func NewConvertService(encoders ...domain.Encoder) *ConvertService {
	return &ConvertService{converter: convert.New(encoders...)}
}

// Convert returns text rendered in the named format. Unparseable input
// yields a *domain.ParseError.
func (s *ConvertService) Convert(text, format string) (string, error) {
	f, err := domain.ParseFormat(format)
	if err != nil {
		return "", err
	}
	value, err := domain.Parse(text)
	if err != nil {
		return "", err
	}
	return s.converter.Convert(value, f)
}

// Formats lists the formats this service can produce.
func (s *ConvertService) Formats() []domain.Format {
	return s.converter.Formats()
}
