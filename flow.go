package confseed

import "github.com/reoring/confseed/tree"

// MarkFlow returns v marked for inline/flow serialization ([a, b, c] or
// {a: 1}) instead of block form. Bare containers are lifted into the
// ordered kinds, which carry the layout flag; the result is still iterable
// and indexable as the original shape. Marking an already-marked value is a
// no-op. Scalars are returned unchanged.
func MarkFlow(v any) any {
	switch t := v.(type) {
	case *tree.Map, *tree.Seq:
		setFlowDeep(t)
		return t
	case map[string]any, []any:
		lifted := tree.FromAny(t)
		setFlowDeep(lifted)
		return lifted
	default:
		return v
	}
}
