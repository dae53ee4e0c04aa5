package encoder

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// YAML builds a yaml.Node tree so mapping order follows the document.
type YAML struct{}

func (YAML) Format() domain.Format { return domain.FormatYAML }

func (YAML) Encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v, make(map[uintptr]bool))); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func yamlNode(v any, active map[uintptr]bool) *yaml.Node {
	if id, ok := domain.Identity(v); ok {
		if active[id] {
			return scalar("!!str", circular)
		}
		active[id] = true
		defer delete(active, id)
	}

	switch t := v.(type) {
	case *domain.Object:
		if t == nil {
			return scalar("!!null", "null")
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if t.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			n.Content = append(n.Content, scalar("!!str", pair.Key), yamlNode(pair.Value, active))
		}
		return n
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(t) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, item := range t {
			n.Content = append(n.Content, yamlNode(item, active))
		}
		return n
	case nil:
		return scalar("!!null", "null")
	case bool:
		return scalar("!!bool", strconv.FormatBool(t))
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return scalar("!!float", t.String())
		}
		return scalar("!!int", t.String())
	case string:
		return scalar("!!str", t)
	default:
		if f, ok := domain.Float(t); ok {
			return scalar("!!float", strconv.FormatFloat(f, 'g', -1, 64))
		}
		return scalar("!!str", domain.Canonical(t))
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
