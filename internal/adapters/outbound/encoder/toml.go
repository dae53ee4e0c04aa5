package encoder

import (
	"fmt"

	"github.com/pelletier/go-toml"

	"github.com/openkraft/jsonkraft/internal/domain"
)

// tomlRootKey holds a document whose top level is not a table.
const tomlRootKey = "value"

// TOML has no null, so null members are dropped. Keys come out in the
// order go-toml writes them, not document order.
type TOML struct{}

func (TOML) Format() domain.Format { return domain.FormatTOML }

func (TOML) Encode(v any) (string, error) {
	root, ok := native(v, true).(map[string]any)
	if !ok {
		root = map[string]any{}
		if v != nil {
			root[tomlRootKey] = native(v, true)
		}
	}

	tree, err := toml.TreeFromMap(root)
	if err != nil {
		return "", fmt.Errorf("building TOML tree: %w", err)
	}
	return tree.ToTomlString()
}
