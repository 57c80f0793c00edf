package tree

// Seq is an ordered sequence carrying the same presentation metadata as Map:
// an indent level for pretty printing and a flow flag selecting inline
// ([a, b, c]) versus block (one item per line) serialization.
type Seq struct {
	items []any

	keyIndent   int
	flow        bool
	fromDefault bool
}

// NewSeq returns an empty sequence.
func NewSeq() *Seq { return &Seq{} }

// SeqOf builds a Seq from the given items in order.
func SeqOf(items ...any) *Seq {
	s := NewSeq()
	s.items = append(s.items, items...)
	return s
}

// At returns the item at index i.
func (s *Seq) At(i int) any { return s.items[i] }

// SetAt replaces the item at index i.
func (s *Seq) SetAt(i int, v any) { s.items[i] = v }

// Append adds items to the end of the sequence.
func (s *Seq) Append(items ...any) { s.items = append(s.items, items...) }

// Len returns the number of items.
func (s *Seq) Len() int { return len(s.items) }

// Items returns the backing slice in order. The slice is shared; callers
// must not append to it.
func (s *Seq) Items() []any { return s.items }

// KeyIndent reports the column depth this sequence's items print at.
func (s *Seq) KeyIndent() int { return s.keyIndent }

// SetKeyIndent records the column depth this sequence's items print at.
func (s *Seq) SetKeyIndent(n int) { s.keyIndent = n }

// Flow reports whether the sequence serializes inline ([a, b, c]).
func (s *Seq) Flow() bool { return s.flow }

// SetFlow toggles inline serialization for this sequence.
func (s *Seq) SetFlow(flow bool) { s.flow = flow }

// FromDefault reports whether this node was synthesized from a schema
// default.
func (s *Seq) FromDefault() bool { return s.fromDefault }

// SetFromDefault records the provenance of this node.
func (s *Seq) SetFromDefault(b bool) { s.fromDefault = b }
