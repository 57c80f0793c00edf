package confseed

import "github.com/reoring/confseed/tree"

// ToBaseTypes recursively demotes every ordered container in v to the bare
// built-in kind: map[string]any for mappings, []any for sequences, at every
// level, with identical scalar leaves. Presentation and provenance metadata
// is discarded. Use it when a downstream consumer performs exact type checks
// against the built-in container types.
func ToBaseTypes(v any) any { return tree.ToBase(v) }
