package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/confseed/tree"
)

// YAML parses and serializes instance trees in the annotated structured-text
// format: mappings keep their key order, comments attach above keys, and
// each container chooses block or flow layout. Configuration is per value;
// there is no shared encoder state.
type YAML struct {
	// Indent is the indent step in spaces. Zero means 2.
	Indent int
}

func (y YAML) indent() int {
	if y.Indent <= 0 {
		return 2
	}
	return y.Indent
}

// Parse decodes one document from r into tree containers. Mapping order,
// flow layout and head comments survive the trip. An empty stream yields
// nil.
func (y YAML) Parse(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil, nil
		}
		root = doc.Content[0]
	}
	return fromNode(root)
}

// Serialize writes v to w, honoring the tree's comments and flow flags.
func (y YAML) Serialize(v any, w io.Writer) error {
	node, err := toNode(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(y.indent())
	if err := enc.Encode(node); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return fromNode(n.Alias)
	case yaml.MappingNode:
		m := tree.NewMap()
		if n.Style&yaml.FlowStyle != 0 {
			m.SetFlow(true)
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			val, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, val)
			if key.HeadComment != "" {
				m.SetComment(key.Value, uncommentLines(key.HeadComment))
			}
		}
		return m, nil
	case yaml.SequenceNode:
		s := tree.NewSeq()
		if n.Style&yaml.FlowStyle != 0 {
			s.SetFlow(true)
		}
		for _, c := range n.Content {
			item, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			s.Append(item)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("codec: unsupported yaml node kind %d", n.Kind)
}

func toNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *tree.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if t.Flow() {
			n.Style = yaml.FlowStyle
		}
		for _, k := range t.Keys() {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			if c, ok := t.Comment(k); ok {
				key.HeadComment = strings.TrimLeft(c, "\n")
			}
			val, _ := t.Get(k)
			vn, err := toNode(val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, vn)
		}
		return n, nil
	case *tree.Seq:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if t.Flow() {
			n.Style = yaml.FlowStyle
		}
		for _, it := range t.Items() {
			cn, err := toNode(it)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, cn)
		}
		return n, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			vn, err := toNode(t[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, vn)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range t {
			cn, err := toNode(it)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, cn)
		}
		return n, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// uncommentLines reconstructs comment text from a decoded head comment,
// which arrives with "# " prefixes per line.
func uncommentLines(c string) string {
	lines := strings.Split(c, "\n")
	for i, l := range lines {
		l = strings.TrimPrefix(l, "#")
		lines[i] = strings.TrimPrefix(l, " ")
	}
	return strings.Join(lines, "\n")
}
