package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Error reports a malformed schema document. It is fatal: checking aborts at
// the first malformed node, before any instance processing begins.
type Error struct {
	Path   string // JSON Pointer into the schema document.
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s at %s", e.Reason, e.Path)
}

// Known dialect URIs. An absent "$schema" selects the latest supported
// dialect; an unrecognized one is a schema error.
const (
	DialectDraft7  = "http://json-schema.org/draft-07/schema#"
	Dialect2019_09 = "https://json-schema.org/draft/2019-09/schema"
	Dialect2020_12 = "https://json-schema.org/draft/2020-12/schema"
)

// DialectFor resolves the dialect governing the document: the declared
// "$schema" URI when present and recognized, otherwise the latest supported
// dialect.
func DialectFor(s *Schema) (string, error) {
	if s.Dialect == "" {
		return Dialect2020_12, nil
	}
	switch strings.TrimSuffix(s.Dialect, "#") {
	case strings.TrimSuffix(DialectDraft7, "#"):
		return DialectDraft7, nil
	case Dialect2019_09:
		return Dialect2019_09, nil
	case Dialect2020_12:
		return Dialect2020_12, nil
	}
	return "", &Error{Path: "/$schema", Reason: fmt.Sprintf("unsupported dialect %q", s.Dialect)}
}

var validTypes = map[string]bool{
	TypeObject:  true,
	TypeArray:   true,
	TypeString:  true,
	TypeInteger: true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeNull:    true,
}

// Check verifies the schema tree is self-consistent: known type names,
// compilable patterns, well-formed nested property/items/additionalProperties
// nodes, and coherent bounds. It returns a *Error describing the first
// malformed node found.
func Check(s *Schema) error {
	if _, err := DialectFor(s); err != nil {
		return err
	}
	return checkNode(s, "")
}

func checkNode(s *Schema, path string) error {
	if s == nil {
		return &Error{Path: path, Reason: "nil schema node"}
	}
	if s.Type != "" && !validTypes[s.Type] {
		return &Error{Path: path + "/type", Reason: fmt.Sprintf("unknown type %q", s.Type)}
	}
	if s.Pattern != "" {
		if _, err := regexp.Compile(s.Pattern); err != nil {
			return &Error{Path: path + "/pattern", Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
	}
	if s.Minimum != nil && s.Maximum != nil && *s.Minimum > *s.Maximum {
		return &Error{Path: path, Reason: "minimum exceeds maximum"}
	}
	if err := checkBound(s.MinLength, s.MaxLength, path, "minLength exceeds maxLength"); err != nil {
		return err
	}
	if err := checkBound(s.MinItems, s.MaxItems, path, "minItems exceeds maxItems"); err != nil {
		return err
	}
	for _, name := range s.PropNames() {
		if err := checkNode(s.Properties[name], path+"/properties/"+name); err != nil {
			return err
		}
	}
	for _, req := range s.Required {
		if req == "" {
			return &Error{Path: path + "/required", Reason: "empty property name"}
		}
	}
	if sub, ok := s.AdditionalProperties.(*Schema); ok {
		if err := checkNode(sub, path+"/additionalProperties"); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if err := checkNode(s.Items, path+"/items"); err != nil {
			return err
		}
	}
	return nil
}

func checkBound(lo, hi *int, path, reason string) error {
	if lo != nil && *lo < 0 {
		return &Error{Path: path, Reason: "negative bound"}
	}
	if lo != nil && hi != nil && *lo > *hi {
		return &Error{Path: path, Reason: reason}
	}
	return nil
}
