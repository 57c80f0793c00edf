package confseed

import (
	"sort"

	"github.com/reoring/confseed/tree"
)

// The engine accepts instances built from either the bare built-in
// containers (map[string]any, []any) or the ordered containers
// (*tree.Map, *tree.Seq); both satisfy the schema's "object" and "array"
// types. The views below give the walk one read/write surface over all
// four kinds. Strings and byte slices are never treated as arrays.

// objectView is a uniform mutable view over a mapping instance.
type objectView struct {
	get  func(k string) (any, bool)
	set  func(k string, v any)
	keys func() []string
	node any
}

// asObject returns a mutable view over v when v is mapping-shaped.
// Bare-map keys are reported in sorted order for deterministic walks.
func asObject(v any) (objectView, bool) {
	switch t := v.(type) {
	case *tree.Map:
		return objectView{
			get:  t.Get,
			set:  t.Set,
			keys: t.Keys,
			node: t,
		}, true
	case map[string]any:
		return objectView{
			get:  func(k string) (any, bool) { vv, ok := t[k]; return vv, ok },
			set:  func(k string, vv any) { t[k] = vv },
			keys: func() []string { return sortedKeys(t) },
			node: t,
		}, true
	}
	return objectView{}, false
}

func (o objectView) has(k string) bool {
	_, ok := o.get(k)
	return ok
}

func (o objectView) empty() bool { return len(o.keys()) == 0 }

// arrayView is a uniform mutable view over a sequence instance.
type arrayView struct {
	len   func() int
	at    func(i int) any
	setAt func(i int, v any)
	node  any
}

// asArray returns a mutable view over v when v is sequence-shaped.
func asArray(v any) (arrayView, bool) {
	switch t := v.(type) {
	case *tree.Seq:
		return arrayView{
			len:   t.Len,
			at:    t.At,
			setAt: t.SetAt,
			node:  t,
		}, true
	case []any:
		return arrayView{
			len:   func() int { return len(t) },
			at:    func(i int) any { return t[i] },
			setAt: func(i int, v any) { t[i] = v },
			node:  t,
		}, true
	}
	return arrayView{}, false
}

func isObject(v any) bool {
	_, ok := asObject(v)
	return ok
}

func isArray(v any) bool {
	_, ok := asArray(v)
	return ok
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
