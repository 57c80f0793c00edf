package confseed

import (
	"strings"

	"github.com/reoring/confseed/schema"
	"github.com/reoring/confseed/tree"
)

// NoDefault is the placeholder injected for any property whose schema
// carries no default. The literal is contractually stable: emitted templates
// are scanned for it to find the settings a user must supply. It reads as a
// valid string to the serializer but fails later validation whenever the
// declared type is not string, which is how "you must fill this in"
// surfaces to a human.
const NoDefault = "{{NO_DEFAULT}}"

// EmitOpt bundles defaults-emission options.
type EmitOpt struct {
	// IncludeComments attaches each property's description as a comment
	// above its key and records per-node indent depth for the annotated
	// serializer. When false the finished tree is stripped of all such
	// annotations.
	IncludeComments bool
	// IndentStep is the indent width the tree will eventually be serialized
	// with; comment placement depends on it. Zero means 2.
	IndentStep int
}

// EmitDefaults builds a best-effort fully-defaulted instance from sc alone.
// Unlike Validate it is purely generative: every constraint and required
// failure is swallowed, and a property without a default is filled with the
// NoDefault placeholder so the result is structurally complete. Only a
// malformed schema (or an irreparable container shape inside a default)
// returns an error.
func EmitDefaults(sc *schema.Schema, opt EmitOpt) (any, error) {
	if err := schema.Check(sc); err != nil {
		return nil, err
	}
	step := opt.IndentStep
	if step == 0 {
		step = 2
	}
	w := &walker{
		includeComments: opt.IncludeComments,
		indentStep:      step,
	}
	w.handlers = emittingHandlers(baseHandlers())

	// Non-object top-level schemas are passed through, not walked.
	if sc.Type != "" && sc.Type != schema.TypeObject {
		if sc.HasDefault {
			return tree.FromAny(sc.Default), nil
		}
		return NoDefault, nil
	}

	instance := tree.NewMap()
	if _, err := w.walk(sc, instance, ""); err != nil {
		return nil, err
	}
	if !opt.IncludeComments {
		tree.StripAnnotations(instance)
	}
	return instance, nil
}

// emittingHandlers wraps the base table for generation: properties are
// filled from defaults or the placeholder and annotated, array items are
// filled and lifted for presentation, required is ignored entirely, and all
// validation issues raised below a node are discarded.
func emittingHandlers(base handlerTable) handlerTable {
	out := handlerTable{}
	for kw, h := range base {
		out[kw] = h
	}
	out["properties"] = emitProperties(base["properties"])
	out["items"] = emitItems(base["items"])
	out["required"] = ignoreRequired
	return out
}

func ignoreRequired(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
	return nil, nil
}

// emitProperties fills every declared property, from its default when one
// exists and with the NoDefault placeholder otherwise, attaches description
// comments, then descends through the wrapped handler with its issues
// discarded. A placeholder reached at this node is a leaf: no descent.
func emitProperties(next keywordHandler) keywordHandler {
	return func(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
		if str, ok := v.(string); ok && str == NoDefault {
			return nil, nil
		}
		obj, ok := asObject(v)
		if !ok {
			return nil, nil
		}
		tm, _ := obj.node.(*tree.Map)
		parentIndent := 0
		if tm != nil {
			parentIndent = tm.KeyIndent()
		}
		for _, name := range s.PropNames() {
			sub := s.Properties[name]
			if !obj.has(name) {
				if sub.HasDefault {
					obj.set(name, w.emitDefaultCopy(sub, parentIndent))
				} else {
					obj.set(name, NoDefault)
				}
			}
			if w.includeComments && sub.Description != "" && tm != nil {
				tm.SetComment(name, "\n"+strings.TrimSuffix(sub.Description, "\n"))
			}
		}
		_, err := next(w, s, v, path)
		return nil, err
	}
}

// emitDefaultCopy deep-copies sub's default into the ordered containers,
// assigns indent depth below parentIndent, tags provenance, and applies the
// flow-style convention for numeric arrays. A default that was explicitly
// built as an ordered sequence keeps whatever flow styling it carries.
func (w *walker) emitDefaultCopy(sub *schema.Schema, parentIndent int) any {
	dv := tree.FromAny(sub.Default)
	switch t := dv.(type) {
	case *tree.Map:
		setIndents(t, parentIndent+w.indentStep, w.indentStep)
		t.SetFromDefault(true)
	case *tree.Seq:
		setIndents(t, parentIndent+w.indentStep, w.indentStep)
		t.SetFromDefault(true)
		if _, explicit := sub.Default.(*tree.Seq); !explicit && isNumericArraySchema(sub.Items) {
			setFlowDeep(t)
		}
	}
	return dv
}

// isNumericArraySchema reports whether items describes numbers or rows of
// numbers (coordinate tuples and the like), which read better inline than
// one element per line.
func isNumericArraySchema(items *schema.Schema) bool {
	if items == nil {
		return false
	}
	if items.Type == schema.TypeInteger || items.Type == schema.TypeNumber {
		return true
	}
	return items.Type == schema.TypeArray && isNumericArraySchema(items.Items)
}

// setIndents assigns indent depth to every container in the subtree, each
// nesting level one step deeper.
func setIndents(v any, indent, step int) {
	switch t := v.(type) {
	case *tree.Map:
		t.SetKeyIndent(indent)
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			setIndents(child, indent+step, step)
		}
	case *tree.Seq:
		t.SetKeyIndent(indent)
		for _, it := range t.Items() {
			setIndents(it, indent+step, step)
		}
	}
}

// emitItems fills object-shaped elements from the items default, lifts them
// into annotated containers at the right depth when comments are on, then
// descends with issues discarded.
func emitItems(next keywordHandler) keywordHandler {
	return func(w *walker, s *schema.Schema, v any, path string) (Issues, error) {
		arr, ok := asArray(v)
		if !ok {
			return nil, nil
		}
		fillItemDefaults(s, arr)
		if w.includeComments && s.Items != nil && s.Items.Type == schema.TypeObject {
			parentIndent := 0
			if ts, ok := arr.node.(*tree.Seq); ok {
				parentIndent = ts.KeyIndent()
			}
			for i := 0; i < arr.len(); i++ {
				switch elem := arr.at(i).(type) {
				case *tree.Map:
					elem.SetKeyIndent(parentIndent + w.indentStep)
				case map[string]any:
					lifted := tree.FromAny(elem).(*tree.Map)
					lifted.SetKeyIndent(parentIndent + w.indentStep)
					arr.setAt(i, lifted)
				}
			}
		}
		_, err := next(w, s, v, path)
		return nil, err
	}
}

// setFlowDeep marks a subtree for inline serialization.
func setFlowDeep(v any) {
	switch t := v.(type) {
	case *tree.Seq:
		t.SetFlow(true)
		for _, it := range t.Items() {
			setFlowDeep(it)
		}
	case *tree.Map:
		t.SetFlow(true)
		for _, k := range t.Keys() {
			child, _ := t.Get(k)
			setFlowDeep(child)
		}
	}
}
