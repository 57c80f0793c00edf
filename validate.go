package confseed

import (
	"github.com/reoring/confseed/schema"
	"github.com/reoring/confseed/tree"
)

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// InjectDefaults mutates the instance in place, filling every missing
	// property that has a schema default before constraints are checked.
	// Object-shaped defaults are copied into ordered containers tagged
	// with from-default provenance.
	InjectDefaults bool
}

// Validate checks instance against sc. The schema is checked for
// self-consistency first; a malformed schema surfaces as *SchemaError before
// any instance processing. Constraint violations are collected into Issues
// (all siblings at one nesting level, not just the first) and returned as
// the error. A *ShapeError aborts immediately.
//
// With opt.InjectDefaults, instance is modified in place and the result of
// the injection is what gets validated: a required property that carries a
// default is therefore never an error, however the user omitted it. The
// root's object identity is preserved; descendants may be replaced wholesale
// when a default is substituted.
func Validate(instance any, sc *schema.Schema, opt ValidateOpt) error {
	if err := schema.Check(sc); err != nil {
		return err
	}
	w := &walker{handlers: baseHandlers()}
	if opt.InjectDefaults {
		w.handlers = injectingHandlers(w.handlers)
	}
	iss, err := w.walk(sc, instance, "")
	if err != nil {
		return err
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// injectingHandlers wraps the base table with default injection: properties
// are filled from schema defaults before the ordinary property check runs,
// and array elements are filled or merged from an object-typed items
// default before the ordinary item check runs.
func injectingHandlers(base handlerTable) handlerTable {
	out := handlerTable{}
	for kw, h := range base {
		out[kw] = h
	}
	out["properties"] = injectThen(base["properties"])
	out["additionalProperties"] = injectAdditionalThen(base["additionalProperties"])
	out["items"] = injectItemsThen(base["items"])
	return out
}

// injectThen fills missing declared properties from their schema defaults,
// then delegates to the wrapped handler.
func injectThen(next keywordHandler) keywordHandler {
	return func(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
		if obj, ok := asObject(v); ok {
			for _, name := range s.PropNames() {
				setDefault(obj, name, s.Properties[name])
			}
		}
		return next(w, s, v, path)
	}
}

// setDefault copies sub's default under name when the key is absent. The
// copy is deep, so later mutation by the consumer never reaches the schema's
// own default value. Object-shaped defaults become ordered containers with
// from-default provenance.
func setDefault(obj objectView, name string, sub *schema.Schema) {
	if sub == nil || !sub.HasDefault || obj.has(name) {
		return
	}
	obj.set(name, defaultCopy(sub))
}

// defaultCopy materializes one provenance-tagged deep copy of sub's default.
func defaultCopy(sub *schema.Schema) any {
	if isObject(sub.Default) {
		m := tree.FromAny(sub.Default).(*tree.Map)
		m.SetFromDefault(true)
		return m
	}
	return tree.DeepCopy(sub.Default)
}

// injectAdditionalThen treats every undeclared key as if it were a named
// property governed by an object-typed additionalProperties subschema:
// each extra key's value gets the same per-property default filling before
// the ordinary additional-properties check (which also raises the shape
// violation for non-mapping values) runs.
func injectAdditionalThen(next keywordHandler) keywordHandler {
	return func(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
		sub := s.AdditionalSchema()
		if sub == nil {
			return next(w, s, v, path)
		}
		if obj, ok := asObject(v); ok {
			for _, name := range extraKeys(s, obj) {
				val, _ := obj.get(name)
				inner, ok := asObject(val)
				if !ok {
					// Left for the base handler to refuse as a shape violation.
					continue
				}
				for _, pname := range sub.PropNames() {
					setDefault(inner, pname, sub.Properties[pname])
				}
			}
		}
		return next(w, s, v, path)
	}
}

// injectItemsThen applies the items default across the sequence before the
// ordinary per-element check.
func injectItemsThen(next keywordHandler) keywordHandler {
	return func(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
		if arr, ok := asArray(v); ok {
			fillItemDefaults(s, arr)
		}
		return next(w, s, v, path)
	}
}

// fillItemDefaults applies an object-typed items default across a sequence:
// a literally empty object element becomes a provenance-tagged copy of the
// default, a non-empty one is merged by overlaying the user's keys onto a
// fresh default copy (user values win key-by-key, no further checking of
// the merged result beyond the ordinary item pass) and keeps user
// provenance. Non-object elements pass through untouched.
func fillItemDefaults(s *schema.Schema, arr arrayView) {
	items := s.Items
	if items == nil || !items.HasDefault || !isObject(items.Default) {
		return
	}
	for i := 0; i < arr.len(); i++ {
		if m, ok := arr.at(i).(*tree.Map); ok && m.FromDefault() {
			// already synthesized by an earlier pass; repeating the merge
			// would only flip its provenance
			continue
		}
		elem, ok := asObject(arr.at(i))
		if !ok {
			continue
		}
		filled := defaultCopy(items).(*tree.Map)
		if !elem.empty() {
			for _, k := range elem.keys() {
				uv, _ := elem.get(k)
				filled.Set(k, uv)
			}
			filled.SetFromDefault(false)
		}
		arr.setAt(i, filled)
	}
}
