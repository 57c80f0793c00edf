package confseed

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/reoring/confseed/i18n"
	"github.com/reoring/confseed/schema"
)

// keywordHandler validates one schema keyword of s against the instance v.
// path is the absolute JSON Pointer of v. Issues are collected per sibling
// batch; a non-nil error (shape violation) aborts the walk immediately.
type keywordHandler func(w *walker, s *schema.Schema, v any, path string) (Issues, error)

// handlerTable maps keyword name to its handler. Variants of the engine
// (plain validation, default injection, defaults emission) are composed by
// wrapping entries of the base table rather than by subclassing the walk.
type handlerTable map[string]keywordHandler

// keywordOrder fixes evaluation order within one node. Scalar constraints
// run first, then object keywords with "properties" ahead of "required" so
// injected defaults are visible to the required check, then array keywords.
var keywordOrder = []string{
	"type",
	"enum",
	"pattern",
	"minimum",
	"maximum",
	"minLength",
	"maxLength",
	"properties",
	"additionalProperties",
	"required",
	"items",
	"minItems",
	"maxItems",
}

// walker drives one validation or emission pass over a schema/instance pair.
type walker struct {
	handlers handlerTable

	// emission state; zero for the validating variants
	includeComments bool
	indentStep      int
}

func (w *walker) walk(s *schema.Schema, v any, path string) (Issues, error) {
	var iss Issues
	for _, kw := range keywordOrder {
		if !hasKeyword(s, kw) {
			continue
		}
		h, ok := w.handlers[kw]
		if !ok {
			continue
		}
		more, err := h(w, s, v, path)
		if err != nil {
			return iss, err
		}
		iss = AppendIssues(iss, more...)
	}
	return iss, nil
}

func hasKeyword(s *schema.Schema, kw string) bool {
	switch kw {
	case "type":
		return s.Type != ""
	case "enum":
		return len(s.Enum) > 0
	case "pattern":
		return s.Pattern != ""
	case "minimum":
		return s.Minimum != nil
	case "maximum":
		return s.Maximum != nil
	case "minLength":
		return s.MinLength != nil
	case "maxLength":
		return s.MaxLength != nil
	case "properties":
		return len(s.Properties) > 0
	case "additionalProperties":
		return s.AdditionalProperties != nil
	case "required":
		return len(s.Required) > 0
	case "items":
		return s.Items != nil
	case "minItems":
		return s.MinItems != nil
	case "maxItems":
		return s.MaxItems != nil
	}
	return false
}

// baseHandlers returns the ordinary constraint-checking table, with no
// default injection. The injecting and emitting variants wrap entries of
// this table.
func baseHandlers() handlerTable {
	return handlerTable{
		"type":                 checkType,
		"enum":                 checkEnum,
		"pattern":              checkPattern,
		"minimum":              checkMinimum,
		"maximum":              checkMaximum,
		"minLength":            checkMinLength,
		"maxLength":            checkMaxLength,
		"properties":           checkProperties,
		"additionalProperties": checkAdditional,
		"required":             checkRequired,
		"items":                checkItems,
		"minItems":             checkMinItems,
		"maxItems":             checkMaxItems,
	}
}

func checkType(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	if typeMatches(s.Type, v) {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, nil),
		Params:  map[string]any{"expected": s.Type, "got": fmt.Sprintf("%T", v)},
	}}, nil
}

// typeMatches implements the widened type predicates: any mapping-shaped
// container is an "object" and any sequence-shaped container (never a
// string) is an "array", so instances loaded into ordered containers are
// accepted alongside the bare built-in kinds.
func typeMatches(ty string, v any) bool {
	switch ty {
	case schema.TypeObject:
		return isObject(v)
	case schema.TypeArray:
		return isArray(v)
	case schema.TypeString:
		_, ok := v.(string)
		return ok
	case schema.TypeBoolean:
		_, ok := v.(bool)
		return ok
	case schema.TypeInteger:
		f, ok := numericValue(v)
		return ok && f == float64(int64(f))
	case schema.TypeNumber:
		_, ok := numericValue(v)
		return ok
	case schema.TypeNull:
		return v == nil
	}
	return true
}

func numericValue(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	case bool:
		return 0, false
	}
	return 0, false
}

func checkEnum(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	for _, allowed := range s.Enum {
		if scalarEqual(v, allowed) {
			return nil, nil
		}
	}
	return Issues{{
		Path:    path,
		Code:    CodeInvalidEnum,
		Message: i18n.T(CodeInvalidEnum, nil),
		Params:  map[string]any{"got": v},
	}}, nil
}

// scalarEqual compares enum candidates, treating all numeric kinds as one.
func scalarEqual(a, b any) bool {
	if fa, ok := numericValue(a); ok {
		fb, ok := numericValue(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func checkPattern(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	str, ok := v.(string)
	if !ok {
		return nil, nil
	}
	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		// Check() rejects uncompilable patterns before the walk starts.
		return nil, &schema.Error{Path: path, Reason: err.Error()}
	}
	if re.MatchString(str) {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodePattern,
		Message: i18n.T(CodePattern, nil),
		Params:  map[string]any{"pattern": s.Pattern, "got": str},
	}}, nil
}

func checkMinimum(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	f, ok := numericValue(v)
	if !ok || f >= *s.Minimum {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooSmall,
		Message: i18n.T(CodeTooSmall, nil),
		Params:  map[string]any{"minimum": *s.Minimum, "got": f},
	}}, nil
}

func checkMaximum(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	f, ok := numericValue(v)
	if !ok || f <= *s.Maximum {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooBig,
		Message: i18n.T(CodeTooBig, nil),
		Params:  map[string]any{"maximum": *s.Maximum, "got": f},
	}}, nil
}

func checkMinLength(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	str, ok := v.(string)
	if !ok || len([]rune(str)) >= *s.MinLength {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooShort,
		Message: i18n.T(CodeTooShort, nil),
		Params:  map[string]any{"minLength": *s.MinLength},
	}}, nil
}

func checkMaxLength(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	str, ok := v.(string)
	if !ok || len([]rune(str)) <= *s.MaxLength {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooLong,
		Message: i18n.T(CodeTooLong, nil),
		Params:  map[string]any{"maxLength": *s.MaxLength},
	}}, nil
}

// checkProperties descends into every declared property present on the
// instance. Non-mapping instances are left to the type handler.
func checkProperties(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, nil
	}
	var iss Issues
	for _, name := range s.PropNames() {
		val, present := obj.get(name)
		if !present {
			continue
		}
		more, err := w.walk(s.Properties[name], val, path+"/"+name)
		if err != nil {
			return iss, err
		}
		iss = AppendIssues(iss, more...)
	}
	return iss, nil
}

// checkAdditional validates keys not named by "properties". A false bool
// rejects extras; a subschema is applied to each extra value. When the
// subschema is object-typed, a non-mapping extra value is a shape violation
// and aborts the walk.
func checkAdditional(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, nil
	}
	var iss Issues
	for _, name := range extraKeys(s, obj) {
		val, _ := obj.get(name)
		switch sub := s.AdditionalProperties.(type) {
		case bool:
			if !sub {
				iss = AppendIssues(iss, Issue{
					Path:    path + "/" + name,
					Code:    CodeUnknownKey,
					Message: i18n.T(CodeUnknownKey, nil),
					Params:  map[string]any{"key": name},
				})
			}
		case *schema.Schema:
			if sub.Type == schema.TypeObject && !isObject(val) {
				return iss, &ShapeError{Path: path + "/" + name, Want: "object", Got: val}
			}
			more, err := w.walk(sub, val, path+"/"+name)
			if err != nil {
				return iss, err
			}
			iss = AppendIssues(iss, more...)
		}
	}
	return iss, nil
}

// extraKeys lists instance keys not declared in properties, in instance
// order.
func extraKeys(s *schema.Schema, obj objectView) []string {
	var extras []string
	for _, k := range obj.keys() {
		if _, declared := s.Properties[k]; !declared {
			extras = append(extras, k)
		}
	}
	return extras
}

// checkRequired reports each required property still absent after any
// default injection ran. The issue names the missing property.
func checkRequired(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	obj, ok := asObject(v)
	if !ok {
		return nil, nil
	}
	var iss Issues
	for _, name := range s.Required {
		if obj.has(name) {
			continue
		}
		iss = AppendIssues(iss, Issue{
			Path:    path + "/" + name,
			Code:    CodeRequired,
			Message: i18n.T(CodeRequired, nil),
			Hint:    fmt.Sprintf("property %q is required and has no default", name),
			Params:  map[string]any{"key": name},
		})
	}
	return iss, nil
}

func checkItems(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	arr, ok := asArray(v)
	if !ok {
		return nil, nil
	}
	var iss Issues
	for i := 0; i < arr.len(); i++ {
		more, err := w.walk(s.Items, arr.at(i), fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return iss, err
		}
		iss = AppendIssues(iss, more...)
	}
	return iss, nil
}

func checkMinItems(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	arr, ok := asArray(v)
	if !ok || arr.len() >= *s.MinItems {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooFewItems,
		Message: i18n.T(CodeTooFewItems, nil),
		Params:  map[string]any{"minItems": *s.MinItems, "got": arr.len()},
	}}, nil
}

func checkMaxItems(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	arr, ok := asArray(v)
	if !ok || arr.len() <= *s.MaxItems {
		return nil, nil
	}
	return Issues{{
		Path:    path,
		Code:    CodeTooManyItems,
		Message: i18n.T(CodeTooManyItems, nil),
		Params:  map[string]any{"maxItems": *s.MaxItems, "got": arr.len()},
	}}, nil
}
