// Package exec provides the public, path-tracking evaluation of an RFC
// 9535 JSONPath query against a JSON value, grounded on the Executor
// pattern of github.com/theory/sqljson/path/exec: a single entry point
// walks the query's segments against a document, checking for context
// cancellation at each step, and accumulates results rather than building
// up a return value through deeply nested recursive calls.
package exec

import "github.com/theory/jsonpath/spec"

// Node pairs a selected JSON value with the [spec.NormalizedPath] RFC 9535
// requires every result to carry: the canonical, unambiguous path from the
// document root to that value.
type Node struct {
	path  *spec.NormalizedPath
	value any
}

// Path returns n's normalized path.
func (n Node) Path() *spec.NormalizedPath { return n.path }

// Value returns n's JSON value.
func (n Node) Value() any { return n.value }

// NodeList is the ordered result of evaluating a query: the nodes a
// PathQuery selects, in RFC 9535 §2.5's document-order traversal order.
type NodeList struct {
	nodes []Node
}

// Len returns the number of nodes in nl.
func (nl *NodeList) Len() int {
	if nl == nil {
		return 0
	}
	return len(nl.nodes)
}

// Nodes returns nl's nodes in order.
func (nl *NodeList) Nodes() []Node {
	if nl == nil {
		return nil
	}
	return nl.nodes
}

// Values returns the JSON value of each node in nl, in order.
func (nl *NodeList) Values() []any {
	if nl == nil {
		return nil
	}
	vals := make([]any, len(nl.nodes))
	for i, n := range nl.nodes {
		vals[i] = n.value
	}
	return vals
}

// Paths returns the normalized path of each node in nl, in order.
func (nl *NodeList) Paths() []*spec.NormalizedPath {
	if nl == nil {
		return nil
	}
	paths := make([]*spec.NormalizedPath, len(nl.nodes))
	for i, n := range nl.nodes {
		paths[i] = n.path
	}
	return paths
}
