package spec

import "strings"

// Segment is a single step of a PathQuery: either a child segment,
// selecting from the immediate children of each node in its input, or a
// descendant segment, selecting from every descendant of each input node
// (including the node itself), per RFC 9535 §2.5.
type Segment struct {
	selectors  []Selector
	descendant bool
}

// Child returns a child Segment applying selectors to the immediate
// children of each input node.
func Child(selectors ...Selector) *Segment {
	return &Segment{selectors: selectors}
}

// Descendant returns a descendant Segment applying selectors to every
// descendant of each input node, in RFC 9535 §2.5.2 pre-order.
func Descendant(selectors ...Selector) *Segment {
	return &Segment{selectors: selectors, descendant: true}
}

// Selectors returns the selectors applied by seg.
func (seg *Segment) Selectors() []Selector { return seg.selectors }

// IsDescendant returns true if seg is a descendant segment.
func (seg *Segment) IsDescendant() bool { return seg.descendant }

// String returns the bracketed textual form of seg, preceded by ".." if
// seg is a descendant segment.
func (seg *Segment) String() string {
	buf := new(strings.Builder)
	seg.writeTo(buf)
	return buf.String()
}

func (seg *Segment) writeTo(buf *strings.Builder) {
	if seg.descendant {
		buf.WriteString("..")
	}
	buf.WriteByte('[')
	for i, sel := range seg.selectors {
		if i > 0 {
			buf.WriteString(", ")
		}
		sel.writeTo(buf)
	}
	buf.WriteByte(']')
}

// isSingular returns true if seg can select at most one node: a child
// segment with exactly one NameSelector or IndexSelector.
func (seg *Segment) isSingular() bool {
	if seg.descendant || len(seg.selectors) != 1 {
		return false
	}
	switch seg.selectors[0].(type) {
	case NameSelector, IndexSelector:
		return true
	default:
		return false
	}
}

// PathQuery is a parsed JSONPath query: a possibly-empty sequence of
// Segments applied left to right, rooted at either the root node ($) or
// the current node of a filter expression (@).
type PathQuery struct {
	segments []*Segment
	relative bool
}

// Query returns a PathQuery over segs, rooted at $ if root is true, or @
// (relative to the current node of a filter expression) if root is false.
func Query(root bool, segs ...*Segment) *PathQuery {
	return &PathQuery{segments: segs, relative: !root}
}

// Segments returns the segments of q.
func (q *PathQuery) Segments() []*Segment { return q.segments }

// IsRelative returns true if q is rooted at the current node (@) of a
// filter expression rather than the root node ($).
func (q *PathQuery) IsRelative() bool { return q.relative }

// isSingular returns true if q can select at most one node: every segment
// is a singular child segment.
func (q *PathQuery) isSingular() bool {
	for _, seg := range q.segments {
		if !seg.isSingular() {
			return false
		}
	}
	return true
}

// AsSingular returns q as a *SingularQueryExpr and true if q.isSingular();
// otherwise returns nil and false.
func (q *PathQuery) AsSingular() (*SingularQueryExpr, bool) {
	if !q.isSingular() {
		return nil, false
	}
	sels := make([]Selector, len(q.segments))
	for i, seg := range q.segments {
		sels[i] = seg.selectors[0]
	}
	return &SingularQueryExpr{relative: q.relative, selectors: sels}, true
}

// String returns the JSONPath textual representation of q, rooted at "$"
// or "@".
func (q *PathQuery) String() string {
	buf := new(strings.Builder)
	q.writeTo(buf)
	return buf.String()
}

func (q *PathQuery) writeTo(buf *strings.Builder) {
	if q.relative {
		buf.WriteByte('@')
	} else {
		buf.WriteByte('$')
	}
	for _, seg := range q.segments {
		seg.writeTo(buf)
	}
}
