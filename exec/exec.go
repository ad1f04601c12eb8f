package exec

import (
	"context"
	"errors"
	"fmt"

	"github.com/theory/jsonpath/spec"
	"github.com/theory/jsonpath/value"
)

// ErrExecution errors denote a failure encountered while evaluating a
// query against a document, distinct from a parse-time error.
var ErrExecution = errors.New("exec")

// Executor holds the state of a single query evaluation: the document
// root (for $ references nested inside filter expressions) and the
// options that configure the walk. Construct one with [New]; it's not
// safe for concurrent use by multiple goroutines evaluating different
// documents, though a single Select call is itself single-threaded.
type Executor struct {
	query *spec.PathQuery
	root  any
}

// Option configures an Executor.
type Option func(*Executor)

// New returns an Executor evaluating query.
func New(query *spec.PathQuery) *Executor {
	return &Executor{query: query}
}

// Select evaluates e's query against root and returns the resulting
// NodeList, in RFC 9535 §2.5's document-order traversal order. Checks ctx
// for cancellation before descending into each segment, returning
// whatever results have accumulated so far along with ctx.Err() if
// canceled.
func (e *Executor) Select(ctx context.Context, root any, opt ...Option) (*NodeList, error) {
	for _, o := range opt {
		o(e)
	}
	e.root = root

	nodes := []Node{{path: nil, value: root}}
	for _, seg := range e.query.Segments() {
		next, err := applySegment(ctx, seg, nodes, root)
		if err != nil {
			return &NodeList{nodes: nodes}, err
		}
		nodes = next
	}
	return &NodeList{nodes: nodes}, nil
}

// Select evaluates query against root, equivalent to
// New(query).Select(ctx, root, opt...).
func Select(ctx context.Context, query *spec.PathQuery, root any, opt ...Option) (*NodeList, error) {
	return New(query).Select(ctx, root, opt...)
}

// Exists reports whether query selects at least one node in root.
func Exists(ctx context.Context, query *spec.PathQuery, root any, opt ...Option) (bool, error) {
	nl, err := Select(ctx, query, root, opt...)
	if err != nil {
		return false, err
	}
	return nl.Len() > 0, nil
}

// First returns the first node query selects in root, and true, or a
// zero Node and false if query selects nothing.
func First(ctx context.Context, query *spec.PathQuery, root any, opt ...Option) (Node, bool, error) {
	nl, err := Select(ctx, query, root, opt...)
	if err != nil {
		return Node{}, false, err
	}
	if nl.Len() == 0 {
		return Node{}, false, nil
	}
	return nl.nodes[0], true, nil
}

// applySegment applies seg to every node in nodes, in order, threading
// ctx cancellation checks through each step: a descendant segment visits
// every node of every input node's subtree in pre-order using an
// explicit work-stack rather than recursion, so a pathologically deep
// document can't blow the Go call stack.
func applySegment(ctx context.Context, seg *spec.Segment, nodes []Node, root any) ([]Node, error) {
	var out []Node
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		var targets []Node
		if seg.IsDescendant() {
			targets = descendantsOf(n)
		} else {
			targets = []Node{n}
		}

		for _, t := range targets {
			for _, sel := range seg.Selectors() {
				out = append(out, applySelector(sel, t, root)...)
			}
		}
	}
	return out, nil
}

// descendantsOf returns n and every descendant of n, in RFC 9535 §2.5.2
// pre-order, using an explicit stack rather than recursive calls.
func descendantsOf(n Node) []Node {
	var out []Node
	stack := []Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)

		// Push in reverse so the stack, which pops last-pushed first,
		// still descends into each child (and its whole subtree) before
		// moving on to the next sibling.
		children := childrenOf(cur)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}

// childrenOf returns the immediate children of n.value, each paired with
// its extension of n.path, in document order.
func childrenOf(n Node) []Node {
	switch v := n.value.(type) {
	case []any:
		out := make([]Node, len(v))
		for i, val := range v {
			out[i] = Node{path: n.path.Push(spec.IndexElement(i)), value: val}
		}
		return out
	case *value.Object:
		out := make([]Node, 0, v.Len())
		v.Range(func(name string, val any) bool {
			out = append(out, Node{path: n.path.Push(spec.NameElement(name)), value: val})
			return true
		})
		return out
	case map[string]any:
		// Plain maps have no defined order; FromMap-style inputs accept
		// this caveat. Sorted by name for determinism rather than
		// whatever Go's map iteration happens to produce.
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sortStrings(names)
		out := make([]Node, len(names))
		for i, name := range names {
			out[i] = Node{path: n.path.Push(spec.NameElement(name)), value: v[name]}
		}
		return out
	default:
		return nil
	}
}

// applySelector applies sel to n, producing zero or more result nodes
// with paths extending n.path.
func applySelector(sel spec.Selector, n Node, root any) []Node {
	switch sel := sel.(type) {
	case spec.NameSelector:
		return applyName(sel, n)
	case spec.WildcardSelector:
		return childrenOf(n)
	case spec.IndexSelector:
		return applyIndex(sel, n)
	case spec.SliceSelector:
		return applySlice(sel, n)
	case *spec.FilterSelector:
		return applyFilter(sel, n, root)
	default:
		panic(fmt.Sprintf("exec: unknown selector type %T", sel))
	}
}

func applyName(sel spec.NameSelector, n Node) []Node {
	name := string(sel)
	switch v := n.value.(type) {
	case *value.Object:
		if val, ok := v.Get(name); ok {
			return []Node{{path: n.path.Push(spec.NameElement(name)), value: val}}
		}
	case map[string]any:
		if val, ok := v[name]; ok {
			return []Node{{path: n.path.Push(spec.NameElement(name)), value: val}}
		}
	}
	return nil
}

func applyIndex(sel spec.IndexSelector, n Node) []Node {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	idx := sel.Int()
	if idx < 0 {
		idx += int64(len(arr))
	}
	if idx < 0 || idx >= int64(len(arr)) {
		return nil
	}
	return []Node{{path: n.path.Push(spec.IndexElement(int(idx))), value: arr[idx]}}
}

func applySlice(sel spec.SliceSelector, n Node) []Node {
	arr, ok := n.value.([]any)
	if !ok {
		return nil
	}
	lo, hi, step := sel.Bounds(len(arr))
	var out []Node
	if step > 0 {
		for i := lo; i < hi; i += step {
			out = append(out, Node{path: n.path.Push(spec.IndexElement(i)), value: arr[i]})
		}
	} else if step < 0 {
		for i := lo; i > hi; i += step {
			out = append(out, Node{path: n.path.Push(spec.IndexElement(i)), value: arr[i]})
		}
	}
	return out
}

func applyFilter(sel *spec.FilterSelector, n Node, root any) []Node {
	children := childrenOf(n)
	var out []Node
	for _, c := range children {
		if sel.Test(c.value, root) {
			out = append(out, c)
		}
	}
	return out
}

// sortStrings sorts names in place. A tiny insertion sort avoids pulling
// in sort for what's expected to be a handful of member names in the
// rare case a caller hands a plain map[string]any to a descendant or
// wildcard traversal instead of a *value.Object.
func sortStrings(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
}
