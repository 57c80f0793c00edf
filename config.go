package confseed

import (
	"fmt"
	"io"

	"github.com/reoring/confseed/codec"
	"github.com/reoring/confseed/i18n"
	"github.com/reoring/confseed/schema"
)

// Parser turns serialized text into an instance tree. Implementations live
// in the codec package; the engine itself never touches streams.
type Parser interface {
	Parse(r io.Reader) (any, error)
}

// Serializer writes an instance tree as serialized text. Implementations
// decide how much of the tree's presentation metadata (comments, flow
// layout) they can render.
type Serializer interface {
	Serialize(v any, w io.Writer) error
}

// LoadConfig parses config data from r, validates it against sc, and fills
// every missing value from the schema's defaults. A setting that is missing
// and has no schema default in a required position surfaces as Issues. A nil
// parser means the annotated text format (codec.YAML).
func LoadConfig(r io.Reader, sc *schema.Schema, p Parser) (any, error) {
	if p == nil {
		p = codec.YAML{}
	}
	instance, err := p.Parse(r)
	if err != nil {
		return nil, Issues{{
			Code:    CodeParseError,
			Message: i18n.T(CodeParseError, nil),
			Cause:   err,
		}}
	}
	if instance == nil {
		instance = map[string]any{}
	}
	if err := Validate(instance, sc, ValidateOpt{InjectDefaults: true}); err != nil {
		return nil, err
	}
	return instance, nil
}

// Format selects the rendering of a dumped default config.
type Format string

const (
	// FormatJSON renders plain JSON, no comments.
	FormatJSON Format = "json"
	// FormatYAML renders block-style YAML without comments.
	FormatYAML Format = "yaml"
	// FormatYAMLWithComments renders YAML with each setting's description
	// as a comment above its key.
	FormatYAMLWithComments Format = "yaml-with-comments"
	// FormatTOML renders plain TOML, no comments.
	FormatTOML Format = "toml"
)

// DumpDefaultConfig writes the default config synthesized from sc to w in
// the given format. Settings without a default appear as the NoDefault
// placeholder, so the output doubles as a template naming everything the
// user must supply. The serializer is constructed per call; there is no
// shared serializer state.
func DumpDefaultConfig(sc *schema.Schema, w io.Writer, format Format) error {
	var s Serializer
	switch format {
	case FormatJSON:
		s = codec.JSON{}
	case FormatYAML, FormatYAMLWithComments:
		s = codec.YAML{}
	case FormatTOML:
		s = codec.TOML{}
	default:
		return fmt.Errorf("confseed: unknown format %q", format)
	}
	instance, err := EmitDefaults(sc, EmitOpt{IncludeComments: format == FormatYAMLWithComments})
	if err != nil {
		return err
	}
	return s.Serialize(instance, w)
}
