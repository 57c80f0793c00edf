package codec

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/confseed/tree"
)

// JSON parses and serializes instance trees as plain JSON: no comments, no
// layout hints. Serialization walks the tree itself so ordered mappings keep
// their key order instead of being sorted the way a bare map marshal would.
type JSON struct {
	// Indent is the indent step in spaces. Zero means 4; negative means
	// compact output.
	Indent int
}

func (j JSON) indent() int {
	if j.Indent == 0 {
		return 4
	}
	if j.Indent < 0 {
		return 0
	}
	return j.Indent
}

// Parse decodes one JSON value from r, preserving object key order through
// a token-level walk. Numbers decode as int64 when integral, float64
// otherwise.
func (j JSON) Parse(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	v, err := parseValue(dec)
	if err == io.EOF {
		return nil, nil
	}
	return v, err
}

func parseValue(dec *gojson.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *gojson.Decoder, tok gojson.Token) (any, error) {
	switch t := tok.(type) {
	case gojson.Delim:
		switch t {
		case '{':
			m := tree.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("codec: object key is %T, not string", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return m, nil
		case '[':
			s := tree.NewSeq()
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, err
				}
				s.Append(val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return s, nil
		}
		return nil, fmt.Errorf("codec: unexpected delimiter %v", t)
	case gojson.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return tok, nil
	}
}

// Serialize writes v to w followed by a newline.
func (j JSON) Serialize(v any, w io.Writer) error {
	buf := &bytes.Buffer{}
	if err := writeJSON(buf, v, j.indent(), 0); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeJSON(b *bytes.Buffer, v any, step, depth int) error {
	switch t := v.(type) {
	case *tree.Map:
		return writeObject(b, t.Keys(), func(k string) any { vv, _ := t.Get(k); return vv }, step, depth)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return writeObject(b, keys, func(k string) any { return t[k] }, step, depth)
	case *tree.Seq:
		return writeArray(b, t.Items(), step, depth)
	case []any:
		return writeArray(b, t, step, depth)
	default:
		raw, err := gojson.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(raw)
		return nil
	}
}

func writeObject(b *bytes.Buffer, keys []string, get func(string) any, step, depth int) error {
	if len(keys) == 0 {
		b.WriteString("{}")
		return nil
	}
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		newlineIndent(b, step, depth+1)
		raw, err := gojson.Marshal(k)
		if err != nil {
			return err
		}
		b.Write(raw)
		b.WriteString(": ")
		if err := writeJSON(b, get(k), step, depth+1); err != nil {
			return err
		}
	}
	newlineIndent(b, step, depth)
	b.WriteByte('}')
	return nil
}

func writeArray(b *bytes.Buffer, items []any, step, depth int) error {
	if len(items) == 0 {
		b.WriteString("[]")
		return nil
	}
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		newlineIndent(b, step, depth+1)
		if err := writeJSON(b, it, step, depth+1); err != nil {
			return err
		}
	}
	newlineIndent(b, step, depth)
	b.WriteByte(']')
	return nil
}

func newlineIndent(b *bytes.Buffer, step, depth int) {
	if step <= 0 {
		return
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", step*depth))
}
