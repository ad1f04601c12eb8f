/*
Package jsonpath provides RFC 9535-compliant JSONPath query parsing and
execution: tokenizer, recursive-descent parser, AST, and evaluator for
the JSONPath query language standardized in RFC 9535.

# RFC 9535 Overview

A JSONPath query selects a list of nodes from a JSON value by walking a
sequence of segments, each applying one or more selectors (name,
wildcard, index, slice, or filter). Filter selectors embed their own
nested query language: comparisons, logical combinators, and calls to
the five standard extension functions (length, count, value, match,
search).

# Basic Usage

Parse a query once, then apply it to as many JSON documents as needed:

	path, err := jsonpath.Parse(`$.store.book[?@.price < 10].title`)
	if err != nil {
		// handle parse error
	}
	nodes, err := path.Select(context.Background(), doc)

# Errors

Parsing returns an error wrapping [github.com/theory/jsonpath/parser.ErrParse],
[github.com/theory/jsonpath/parser.ErrLex], or
[github.com/theory/jsonpath/spec.ErrInvalid], itself wrapped in [ErrPath].
Evaluation returns an error only when the supplied [context.Context] is
canceled mid-walk, and that error is ctx.Err() itself, not wrapped in
[ErrPath] — RFC 9535 evaluation is otherwise total: a selector or function
call that finds nothing simply contributes no nodes, rather than failing.

# Object Member Order

RFC 9535 requires that a wildcard or descendant segment visit an
object's members in the order encountered during parsing. Use
[github.com/theory/jsonpath/value.Decode] to read JSON while preserving
that order; a plain map[string]any works too but yields an undefined
member order, as Go maps do not track insertion order.
*/
package jsonpath

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/theory/jsonpath/exec"
	"github.com/theory/jsonpath/parser"
	"github.com/theory/jsonpath/registry"
	"github.com/theory/jsonpath/spec"
)

var (
	// ErrPath wraps parsing errors, including those from [parser.ErrParse]
	// and [parser.ErrLex].
	ErrPath = errors.New("jsonpath")

	// ErrScan wraps errors from [Path.Scan] and [Path.UnmarshalText].
	ErrScan = errors.New("jsonpath: scan")
)

// Path is a parsed, immutable JSONPath query, safe for concurrent use by
// multiple goroutines evaluating different documents.
type Path struct {
	query *spec.PathQuery
	reg   *registry.Registry
}

// Parse parses path using the RFC 9535 standard function registry
// (length, count, value, match, search) and returns the resulting
// *Path. Returns an [ErrPath] error wrapping [parser.ErrParse],
// [parser.ErrLex], or [spec.ErrInvalid] on failure.
func Parse(path string) (*Path, error) {
	return ParseWithRegistry(registry.New(), path)
}

// ParseWithRegistry is like [Parse], but resolves any extension function
// call in path against reg instead of the standard registry — use this
// to make custom functions registered with [registry.Registry.Register]
// available to a query.
func ParseWithRegistry(reg *registry.Registry, path string) (*Path, error) {
	q, err := parser.Parse(reg, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPath, err)
	}
	return &Path{query: q, reg: reg}, nil
}

// MustParse is like [Parse], but panics if path fails to parse.
func MustParse(path string) *Path {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return p
}

// New returns a *Path wrapping an already-parsed query, for callers that
// construct a [spec.PathQuery] directly (e.g. with [spec.Query] and its
// selector constructors) rather than via [Parse].
func New(query *spec.PathQuery) *Path {
	return &Path{query: query}
}

// Query returns path's underlying AST.
func (path *Path) Query() *spec.PathQuery { return path.query }

// String returns the normalized textual representation of path, per RFC
// 9535 §2.7 — re-parsing it is guaranteed to produce an equivalent query.
func (path *Path) String() string {
	if path.query == nil {
		return ""
	}
	return path.query.String()
}

// Select returns every node path selects from input, in RFC 9535 §2.5
// document order, each paired with its normalized path. Select checks
// ctx for cancellation while it walks input, returning a partial result
// and ctx.Err() if canceled.
func (path *Path) Select(ctx context.Context, input any, opt ...exec.Option) (*exec.NodeList, error) {
	return exec.Select(ctx, path.query, input, opt...)
}

// Exists reports whether path selects at least one node in input.
func (path *Path) Exists(ctx context.Context, input any, opt ...exec.Option) (bool, error) {
	return exec.Exists(ctx, path.query, input, opt...)
}

// First returns the value of the first node path selects in input, and
// true, or nil and false if path selects nothing.
func (path *Path) First(ctx context.Context, input any, opt ...exec.Option) (any, bool, error) {
	n, ok, err := exec.First(ctx, path.query, input, opt...)
	if err != nil || !ok {
		return nil, ok, err
	}
	return n.Value(), true, nil
}

// Scan implements [database/sql.Scanner], so a *Path field can be
// populated directly from a query stored as a database column. Accepts
// string, []byte, and nil (a NULL column leaves path unchanged).
// Functions are resolved against the RFC 9535 standard registry; use
// [ParseWithRegistry] directly if a stored query may call a custom
// function.
func (path *Path) Scan(src any) error {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		if src == "" {
			return nil
		}
		p, err := Parse(src)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrScan, err)
		}
		*path = *p
		return nil
	case []byte:
		if len(src) == 0 {
			return nil
		}
		return path.Scan(string(src))
	default:
		return fmt.Errorf("%w: unable to scan type %T into Path", ErrScan, src)
	}
}

// Value implements [database/sql/driver.Valuer], storing path as its
// normalized query text.
func (path *Path) Value() (driver.Value, error) {
	return path.String(), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (path *Path) MarshalText() ([]byte, error) {
	return []byte(path.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Returns an
// [ErrScan] error wrapping [parser.ErrParse], [parser.ErrLex], or
// [spec.ErrInvalid] on failure.
func (path *Path) UnmarshalText(data []byte) error {
	p, err := Parse(string(data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrScan, err)
	}
	*path = *p
	return nil
}
