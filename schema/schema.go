// Package schema models declarative config schemas: the node type, loading
// from already-parsed documents, dialect resolution and the
// self-consistency check.
package schema

import (
	"fmt"
	"sort"

	"github.com/reoring/confseed/tree"
)

// Schema is one node of a config schema: the constraints, default and
// documentation for a single value. Nodes form a tree through Properties,
// AdditionalProperties and Items.
type Schema struct {
	// Dialect holds the "$schema" URI when the document declares one.
	Dialect string

	// Core
	Type        string
	Description string

	// Default is the synthesized value for this node when the instance
	// omits it. HasDefault distinguishes "default: null" from "no default";
	// a node without a default (and without a concrete instance value)
	// cannot be descended into.
	Default    any
	HasDefault bool

	// Object
	Properties map[string]*Schema
	// PropertyOrder preserves declaration order of Properties when the
	// schema was parsed from a document. Empty for hand-built schemas,
	// in which case sorted order applies.
	PropertyOrder []string
	Required      []string
	// AdditionalProperties is nil (absent), a bool, or a *Schema applied to
	// every key not named in Properties.
	AdditionalProperties any

	// Array
	Items    *Schema
	MinItems *int
	MaxItems *int

	// Value constraints
	Enum      []any
	Pattern   string
	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
}

// PropNames returns property names in declaration order when known,
// otherwise sorted for deterministic behavior.
func (s *Schema) PropNames() []string {
	if len(s.PropertyOrder) == len(s.Properties) && len(s.PropertyOrder) > 0 {
		return s.PropertyOrder
	}
	names := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether name appears in Required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// AdditionalSchema returns the AdditionalProperties node when it is an
// object-typed subschema, or nil when it is absent, a bool, or a non-object
// schema. Only object-typed additional schemas participate in per-key
// defaulting.
func (s *Schema) AdditionalSchema() *Schema {
	sub, ok := s.AdditionalProperties.(*Schema)
	if !ok || sub == nil {
		return nil
	}
	if sub.Type != TypeObject {
		return nil
	}
	return sub
}

// Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// FromAny builds a Schema tree from an already-parsed document (the output
// of a YAML or JSON decode): a mapping of keyword to value. Both bare
// map[string]any and ordered tree.Map documents are accepted; the ordered
// form additionally yields PropertyOrder.
func FromAny(doc any) (*Schema, error) {
	return fromAny(doc, "")
}

func fromAny(doc any, path string) (*Schema, error) {
	kw := keywordReader{path: path}
	switch t := doc.(type) {
	case *tree.Map:
		kw.get = t.Get
		kw.keys = t.Keys()
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kw.get = func(k string) (any, bool) { v, ok := t[k]; return v, ok }
		kw.keys = keys
	default:
		return nil, &Error{Path: path, Reason: fmt.Sprintf("schema node must be a mapping, got %T", doc)}
	}
	return kw.read()
}

type keywordReader struct {
	path string
	get  func(string) (any, bool)
	keys []string
}

func (r keywordReader) read() (*Schema, error) {
	s := &Schema{}
	if v, ok := r.get("$schema"); ok {
		s.Dialect, _ = v.(string)
	}
	if v, ok := r.get("type"); ok {
		ty, ok := v.(string)
		if !ok {
			return nil, &Error{Path: r.path + "/type", Reason: "type must be a string"}
		}
		s.Type = ty
	}
	if v, ok := r.get("description"); ok {
		s.Description, _ = v.(string)
	}
	if v, ok := r.get("default"); ok {
		s.Default = v
		s.HasDefault = true
	}
	if v, ok := r.get("properties"); ok {
		if err := r.readProperties(s, v); err != nil {
			return nil, err
		}
	}
	if v, ok := r.get("required"); ok {
		names, err := stringList(v, r.path+"/required")
		if err != nil {
			return nil, err
		}
		s.Required = names
	}
	if v, ok := r.get("additionalProperties"); ok {
		switch t := v.(type) {
		case bool:
			s.AdditionalProperties = t
		case nil:
			s.AdditionalProperties = nil
		default:
			sub, err := fromAny(v, r.path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			s.AdditionalProperties = sub
		}
	}
	if v, ok := r.get("items"); ok {
		sub, err := fromAny(v, r.path+"/items")
		if err != nil {
			return nil, err
		}
		s.Items = sub
	}
	if v, ok := r.get("enum"); ok {
		items, err := anyList(v, r.path+"/enum")
		if err != nil {
			return nil, err
		}
		s.Enum = items
	}
	if v, ok := r.get("pattern"); ok {
		s.Pattern, _ = v.(string)
	}
	var err error
	if s.Minimum, err = r.numberAt("minimum"); err != nil {
		return nil, err
	}
	if s.Maximum, err = r.numberAt("maximum"); err != nil {
		return nil, err
	}
	if s.MinLength, err = r.intAt("minLength"); err != nil {
		return nil, err
	}
	if s.MaxLength, err = r.intAt("maxLength"); err != nil {
		return nil, err
	}
	if s.MinItems, err = r.intAt("minItems"); err != nil {
		return nil, err
	}
	if s.MaxItems, err = r.intAt("maxItems"); err != nil {
		return nil, err
	}
	return s, nil
}

func (r keywordReader) readProperties(s *Schema, v any) error {
	path := r.path + "/properties"
	s.Properties = map[string]*Schema{}
	switch t := v.(type) {
	case *tree.Map:
		for _, name := range t.Keys() {
			pv, _ := t.Get(name)
			sub, err := fromAny(pv, path+"/"+name)
			if err != nil {
				return err
			}
			s.Properties[name] = sub
			s.PropertyOrder = append(s.PropertyOrder, name)
		}
	case map[string]any:
		names := make([]string, 0, len(t))
		for k := range t {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, name := range names {
			sub, err := fromAny(t[name], path+"/"+name)
			if err != nil {
				return err
			}
			s.Properties[name] = sub
			s.PropertyOrder = append(s.PropertyOrder, name)
		}
	default:
		return &Error{Path: path, Reason: fmt.Sprintf("properties must be a mapping, got %T", v)}
	}
	return nil
}

func (r keywordReader) numberAt(key string) (*float64, error) {
	v, ok := r.get(key)
	if !ok {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil, &Error{Path: r.path + "/" + key, Reason: "must be a number"}
	}
	return &f, nil
}

func (r keywordReader) intAt(key string) (*int, error) {
	v, ok := r.get(key)
	if !ok {
		return nil, nil
	}
	f, ok := asFloat(v)
	if !ok || f != float64(int(f)) {
		return nil, &Error{Path: r.path + "/" + key, Reason: "must be an integer"}
	}
	n := int(f)
	return &n, nil
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case uint64:
		return float64(t), true
	default:
		return 0, false
	}
}

func stringList(v any, path string) ([]string, error) {
	items, err := anyList(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, &Error{Path: fmt.Sprintf("%s/%d", path, i), Reason: "must be a string"}
		}
		out = append(out, s)
	}
	return out, nil
}

func anyList(v any, path string) ([]any, error) {
	switch t := v.(type) {
	case *tree.Seq:
		return t.Items(), nil
	case []any:
		return t, nil
	default:
		return nil, &Error{Path: path, Reason: fmt.Sprintf("must be a sequence, got %T", v)}
	}
}
