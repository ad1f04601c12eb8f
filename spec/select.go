package spec

// Select returns the JSON values q selects from current and root, in
// document order. It's a value-only walk with no normalized-path
// tracking, used internally to test filter-query existence and to
// evaluate query arguments to extension functions; the public,
// path-tracking traversal lives in package
// github.com/theory/jsonpath/exec.
func (q *PathQuery) Select(current, root any) []any {
	target := current
	if !q.relative {
		target = root
	}

	nodes := []any{target}
	for _, seg := range q.segments {
		var next []any
		for _, node := range nodes {
			next = append(next, seg.selectFrom(node, root)...)
		}
		nodes = next
	}
	return nodes
}

// selectFrom returns the values seg selects from node, with root
// available for any nested filter expression's $ queries.
func (seg *Segment) selectFrom(node, root any) []any {
	if seg.descendant {
		var out []any
		walkDescendants(node, func(n any) {
			out = append(out, seg.selectChildren(n, root)...)
		})
		return out
	}
	return seg.selectChildren(node, root)
}

// selectChildren applies seg's selectors, in order, to the immediate
// children of node.
func (seg *Segment) selectChildren(node, root any) []any {
	var out []any
	for _, sel := range seg.selectors {
		out = append(out, sel.selectFrom(node, root)...)
	}
	return out
}

// walkDescendants calls visit for node and every descendant of node, in
// RFC 9535 §2.5.2 pre-order (node itself first, then each child subtree in
// order).
func walkDescendants(node any, visit func(any)) {
	visit(node)
	switch v := node.(type) {
	case []any:
		for _, child := range v {
			walkDescendants(child, visit)
		}
	case ordObject:
		v.Range(func(_ string, val any) bool {
			walkDescendants(val, visit)
			return true
		})
	}
}

// ordObject is the subset of value.Object's behavior the spec package
// needs in order to walk object members in document order without
// importing package value, which would create an import cycle (value
// has no reason to know about spec, but keeping the dependency one-way
// keeps the two packages independently testable).
type ordObject interface {
	Range(f func(name string, val any) bool)
}

// selectFrom returns the values sel selects from node.
func (n NameSelector) selectFrom(node, _ any) []any {
	if obj, ok := node.(ordObject); ok {
		if val, ok := objGet(obj, string(n)); ok {
			return []any{val}
		}
	}
	if m, ok := node.(map[string]any); ok {
		if val, ok := m[string(n)]; ok {
			return []any{val}
		}
	}
	return nil
}

// objGet fetches a member by name from an ordObject without requiring a
// Get method in the interface (Range is all that's strictly needed
// elsewhere, but a direct lookup avoids an O(n) scan for the common case).
func objGet(obj ordObject, name string) (any, bool) {
	type getter interface {
		Get(string) (any, bool)
	}
	if g, ok := obj.(getter); ok {
		return g.Get(name)
	}
	var found any
	var ok bool
	obj.Range(func(n string, v any) bool {
		if n == name {
			found, ok = v, true
			return false
		}
		return true
	})
	return found, ok
}

func (WildcardSelector) selectFrom(node, _ any) []any {
	switch v := node.(type) {
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	case ordObject:
		var out []any
		v.Range(func(_ string, val any) bool {
			out = append(out, val)
			return true
		})
		return out
	case map[string]any:
		out := make([]any, 0, len(v))
		for _, val := range v {
			out = append(out, val)
		}
		return out
	default:
		return nil
	}
}

func (i IndexSelector) selectFrom(node, _ any) []any {
	arr, ok := node.([]any)
	if !ok {
		return nil
	}
	idx := int64(i)
	if idx < 0 {
		idx += int64(len(arr))
	}
	if idx < 0 || idx >= int64(len(arr)) {
		return nil
	}
	return []any{arr[idx]}
}

func (s SliceSelector) selectFrom(node, _ any) []any {
	arr, ok := node.([]any)
	if !ok {
		return nil
	}
	lo, hi, step := s.Bounds(len(arr))
	var out []any
	if step > 0 {
		for i := lo; i < hi; i += step {
			out = append(out, arr[i])
		}
	} else if step < 0 {
		for i := lo; i > hi; i += step {
			out = append(out, arr[i])
		}
	}
	return out
}

func (f *FilterSelector) selectFrom(node, root any) []any {
	var candidates []any
	switch v := node.(type) {
	case []any:
		candidates = v
	case ordObject:
		v.Range(func(_ string, val any) bool {
			candidates = append(candidates, val)
			return true
		})
	case map[string]any:
		for _, val := range v {
			candidates = append(candidates, val)
		}
	default:
		return nil
	}

	docRoot := root
	if docRoot == nil {
		docRoot = node
	}

	var out []any
	for _, c := range candidates {
		if f.expr.testFilter(c, docRoot) {
			out = append(out, c)
		}
	}
	return out
}

var (
	_ Selector = NameSelector("")
	_ Selector = WildcardSelector{}
	_ Selector = IndexSelector(0)
	_ Selector = SliceSelector{}
	_ Selector = (*FilterSelector)(nil)
)
