package encoder

import (
	toon "github.com/toon-format/toon-go"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// TOON writes Token-Oriented Object Notation, a compact format for
// feeding JSON-shaped data to language models.
type TOON struct{}

func (TOON) Format() domain.Format { return domain.FormatTOON }

func (TOON) Encode(v any) (string, error) {
	out, err := toon.Marshal(native(v, false), toon.WithIndent(2))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
