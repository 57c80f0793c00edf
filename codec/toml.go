package codec

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/reoring/confseed/tree"
)

// TOML parses and serializes instance trees as TOML. Comments and layout
// hints are not rendered; ordered containers are demoted to the bare kinds
// before encoding, so key order follows the encoder's own conventions.
type TOML struct{}

// Parse decodes a TOML document from r into tree containers (keys in sorted
// order, since TOML decoding does not expose source order).
func (TOML) Parse(r io.Reader) (any, error) {
	var m map[string]any
	if err := toml.NewDecoder(r).Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return tree.FromAny(m), nil
}

// Serialize writes v to w. The top-level value must be mapping-shaped.
func (TOML) Serialize(v any, w io.Writer) error {
	base := tree.ToBase(v)
	m, ok := base.(map[string]any)
	if !ok {
		return fmt.Errorf("codec: toml document must be a mapping, got %T", base)
	}
	return toml.NewEncoder(w).Encode(m)
}
