package encoder

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strconv"
	"strings"
	"unicode"

	"github.com/openkraft/jsonkraft/internal/domain"
)

const (
	xmlRoot = "root"
	xmlItem = "item"
)

// XML writes objects as child elements named after their keys and arrays
// as repeated <item> elements under <root>. Keys that are not valid element
// names are sanitized and the original kept in a key attribute.
type XML struct{}

func (XML) Format() domain.Format { return domain.FormatXML }

func (XML) Encode(v any) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := writeXML(enc, xml.StartElement{Name: xml.Name{Local: xmlRoot}}, v, make(map[uintptr]bool)); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func writeXML(enc *xml.Encoder, start xml.StartElement, v any, active map[uintptr]bool) error {
	if id, ok := domain.Identity(v); ok {
		if active[id] {
			return textElement(enc, start, circular)
		}
		active[id] = true
		defer delete(active, id)
	}

	switch t := v.(type) {
	case *domain.Object:
		if t == nil {
			return nilElement(enc, start)
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if err := writeXML(enc, xmlElement(pair.Key), pair.Value, active); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case []any:
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		for _, item := range t {
			if err := writeXML(enc, xml.StartElement{Name: xml.Name{Local: xmlItem}}, item, active); err != nil {
				return err
			}
		}
		return enc.EncodeToken(start.End())
	case nil:
		return nilElement(enc, start)
	case bool:
		return textElement(enc, start, strconv.FormatBool(t))
	case json.Number:
		return textElement(enc, start, t.String())
	case string:
		return textElement(enc, start, t)
	default:
		return textElement(enc, start, domain.Canonical(t))
	}
}

func textElement(enc *xml.Encoder, start xml.StartElement, text string) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func nilElement(enc *xml.Encoder, start xml.StartElement) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "nil"}, Value: "true"})
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func xmlElement(key string) xml.StartElement {
	name := xmlName(key)
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if name != key {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "key"}, Value: key}}
	}
	return start
}

// xmlName maps a JSON key onto a valid XML element name.
func xmlName(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || strings.HasPrefix(strings.ToLower(name), "xml") {
		name = "_" + name
	}
	return name
}
