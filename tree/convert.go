package tree

import "sort"

// DeepCopy returns a structurally independent copy of v. Map and Seq nodes
// are copied along with their metadata (comments, indent, flow, provenance);
// bare map[string]any and []any containers are copied as their own kind.
// Scalars are returned as-is.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case *Map:
		out := NewMap()
		out.keyIndent = t.keyIndent
		out.flow = t.flow
		out.fromDefault = t.fromDefault
		for _, k := range t.keys {
			out.Set(k, DeepCopy(t.vals[k]))
		}
		for k, c := range t.comments {
			out.SetComment(k, c)
		}
		return out
	case *Seq:
		out := NewSeq()
		out.keyIndent = t.keyIndent
		out.flow = t.flow
		out.fromDefault = t.fromDefault
		for _, it := range t.items {
			out.Append(DeepCopy(it))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = DeepCopy(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = DeepCopy(vv)
		}
		return out
	default:
		return v
	}
}

// FromAny lifts bare containers into ordered tree containers, recursively.
// map[string]any keys are taken in sorted order for deterministic output;
// values that are already Map/Seq are deep-copied so the result shares no
// structure with the input. Scalars pass through.
func FromAny(v any) any {
	switch t := v.(type) {
	case *Map, *Seq:
		return DeepCopy(t)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMap()
		for _, k := range keys {
			out.Set(k, FromAny(t[k]))
		}
		return out
	case []any:
		out := NewSeq()
		for _, vv := range t {
			out.Append(FromAny(vv))
		}
		return out
	default:
		return v
	}
}

// ToBase recursively demotes ordered containers to the bare built-in kinds:
// every Map becomes a map[string]any and every Seq becomes a []any, at every
// level. Scalars (including strings and byte slices) are untouched. All
// presentation and provenance metadata is discarded. Intended for callers
// that perform exact type checks against the built-in container types.
func ToBase(v any) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		for _, k := range t.keys {
			out[k] = ToBase(t.vals[k])
		}
		return out
	case *Seq:
		out := make([]any, 0, t.Len())
		for _, it := range t.items {
			out = append(out, ToBase(it))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = ToBase(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = ToBase(vv)
		}
		return out
	default:
		return v
	}
}

// StripAnnotations walks the tree removing comments and indent metadata from
// every Map and Seq, in place. Flow flags and provenance are kept: flow style
// is a property of the value, not of the commented rendering, and provenance
// must stay readable after a plain emit.
func StripAnnotations(v any) {
	switch t := v.(type) {
	case *Map:
		t.StripAnnotations()
		for _, k := range t.keys {
			StripAnnotations(t.vals[k])
		}
	case *Seq:
		t.keyIndent = 0
		for _, it := range t.items {
			StripAnnotations(it)
		}
	case []any:
		for _, it := range t {
			StripAnnotations(it)
		}
	case map[string]any:
		for _, vv := range t {
			StripAnnotations(vv)
		}
	}
}
