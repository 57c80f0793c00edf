package tree

// Map is an insertion-ordered string-keyed mapping that pairs its entries
// with the metadata needed to re-serialize a config in human-readable form:
// per-key comments, the indent column its keys will be printed at, and a
// provenance flag recording whether the whole node was synthesized from a
// schema default.
//
// Metadata lives on the container itself rather than being injected onto a
// foreign type, so a Map is always safe to tag.
type Map struct {
	keys []string
	vals map[string]any

	comments    map[string]string
	keyIndent   int
	flow        bool
	fromDefault bool
}

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return &Map{vals: map[string]any{}}
}

// MapOf builds a Map from alternating key/value pairs, preserving the given
// order. It panics on an odd number of arguments or a non-string key; it is
// intended for literals in tests and examples.
func MapOf(pairs ...any) *Map {
	if len(pairs)%2 != 0 {
		panic("tree.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			panic("tree.MapOf: key is not a string")
		}
		m.Set(k, pairs[i+1])
	}
	return m
}

// Get returns the value stored under k and whether it is present.
func (m *Map) Get(k string) (any, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map) Has(k string) bool {
	_, ok := m.vals[k]
	return ok
}

// Set stores v under k, appending k to the key order when it is new.
func (m *Map) Set(k string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Delete removes k and its comment, keeping the order of the remaining keys.
func (m *Map) Delete(k string) {
	if _, ok := m.vals[k]; !ok {
		return
	}
	delete(m.vals, k)
	delete(m.comments, k)
	for i, key := range m.keys {
		if key == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.vals) }

// SetComment attaches comment text to be rendered immediately above k.
func (m *Map) SetComment(k, comment string) {
	if m.comments == nil {
		m.comments = map[string]string{}
	}
	m.comments[k] = comment
}

// Comment returns the comment attached above k, if any.
func (m *Map) Comment(k string) (string, bool) {
	c, ok := m.comments[k]
	return c, ok
}

// KeyIndent reports the column depth at which this mapping's keys print.
func (m *Map) KeyIndent() int { return m.keyIndent }

// SetKeyIndent records the column depth at which this mapping's keys print.
func (m *Map) SetKeyIndent(n int) { m.keyIndent = n }

// Flow reports whether the mapping serializes inline ({a: 1}) instead of
// one key per line.
func (m *Map) Flow() bool { return m.flow }

// SetFlow toggles inline serialization for this mapping.
func (m *Map) SetFlow(flow bool) { m.flow = flow }

// FromDefault reports whether this node was synthesized wholesale from a
// schema default rather than supplied by the user. The flag is an in-memory
// tag only; it never appears in serialized output.
func (m *Map) FromDefault() bool { return m.fromDefault }

// SetFromDefault records the provenance of this node.
func (m *Map) SetFromDefault(b bool) { m.fromDefault = b }

// StripAnnotations removes comments and indent metadata from this mapping
// only; see the package-level StripAnnotations for the recursive form.
func (m *Map) StripAnnotations() {
	m.comments = nil
	m.keyIndent = 0
}
