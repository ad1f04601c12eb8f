// Package spec provides the RFC 9535 JSONPath abstract syntax tree for
// github.com/theory/jsonpath. It's largely ported from the AST design of
// github.com/theory/sqljson's path/ast package, adapted from SQL/JSON
// path's grammar to RFC 9535 JSONPath's: segments and selectors replace
// jsonpath.c-style accessor/array-index nodes, and the three JSONPath
// static types (ValueType, LogicalType, NodesType) replace SQL/JSON's
// runtime-dispatched item model.
//
// Most JSONPath users will use package github.com/theory/jsonpath instead
// of this package directly; spec is of interest mainly to those
// implementing extension functions (see
// github.com/theory/jsonpath/registry) or alternative parsers that want to
// construct a *PathQuery by hand.
package spec
