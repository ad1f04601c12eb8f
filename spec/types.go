package spec

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PathType identifies one of the three static "types" of a JSONPath
// sub-expression, per RFC 9535 §2.4.1: every filter sub-expression is
// provably a PathValue, a PathLogical, or a PathNodes expression at parse
// time, never resolved dynamically at evaluation time.
type PathType uint8

const (
	// PathValue sub-expressions produce a single JSON value, or Nothing.
	PathValue PathType = iota + 1

	// PathLogical sub-expressions produce true or false.
	PathLogical

	// PathNodes sub-expressions produce a node list.
	PathNodes
)

// String returns the name of t.
func (t PathType) String() string {
	switch t {
	case PathValue:
		return "PathValue"
	case PathLogical:
		return "PathLogical"
	case PathNodes:
		return "PathNodes"
	default:
		return "unknown PathType"
	}
}

// FuncType classifies a function-expression argument or return value for
// the purposes of the implicit-conversion check RFC 9535 §2.4.3 requires at
// parse time: a function's declared parameter types determine which
// expression forms a call site may pass as each argument.
type FuncType uint8

const (
	// FuncLiteral is a literal JSON value argument.
	FuncLiteral FuncType = iota + 1

	// FuncSingularQuery is a query argument proven to select at most one
	// node (so it converts to PathValue by unwrapping its single result,
	// or Nothing).
	FuncSingularQuery

	// FuncValue is the return type of a function whose result is a single
	// JSON value or Nothing (PathValue).
	FuncValue

	// FuncNodeList is a general filter-query argument, or the return type
	// of a function returning a node list (PathNodes).
	FuncNodeList

	// FuncLogical is a logical-expression argument, or the return type of
	// a function returning true/false (PathLogical).
	FuncLogical
)

// String returns the name of t.
func (t FuncType) String() string {
	switch t {
	case FuncLiteral:
		return "FuncLiteral"
	case FuncSingularQuery:
		return "FuncSingularQuery"
	case FuncValue:
		return "FuncValue"
	case FuncNodeList:
		return "FuncNodeList"
	case FuncLogical:
		return "FuncLogical"
	default:
		return "unknown FuncType"
	}
}

// ConvertsTo returns true if a function argument or return value of type t
// may be used where pv is required, per RFC 9535 §2.4.3's "well typedness"
// rules for function expressions.
func (t FuncType) ConvertsTo(pv PathType) bool {
	switch t {
	case FuncLiteral, FuncValue:
		return pv == PathValue
	case FuncSingularQuery:
		// A singular query always converts: as a PathValue by unwrapping
		// its at-most-one result, or as a PathNodes/PathLogical value
		// directly.
		return true
	case FuncNodeList:
		return pv != PathValue
	case FuncLogical:
		return pv == PathLogical
	default:
		return false
	}
}

// JSONPathValue is the common interface of the three runtime value kinds a
// query sub-expression can produce: *ValueType, NodesType, and LogicalType.
type JSONPathValue interface {
	stringWriter
	// PathType returns the static type of the value.
	PathType() PathType
	// FuncType returns the function-argument type of the value.
	FuncType() FuncType
}

// stringWriter is implemented by every AST node and runtime value so that
// String() can be built from a single shared strings.Builder without
// intermediate allocation at each level of the tree.
type stringWriter interface {
	writeTo(buf *strings.Builder)
}

// NodesType is a JSONPath result representing a list of JSON values
// selected by a query.
type NodesType []any

// PathType returns PathNodes.
func (NodesType) PathType() PathType { return PathNodes }

// FuncType returns FuncNodeList.
func (NodesType) FuncType() FuncType { return FuncNodeList }

func (NodesType) writeTo(buf *strings.Builder) { buf.WriteString("NodesType") }

// NodesFrom converts value, which must be a NodesType, a *ValueType, or nil,
// to a NodesType. Panics for any other argument type.
func NodesFrom(value JSONPathValue) NodesType {
	switch v := value.(type) {
	case NodesType:
		return v
	case *ValueType:
		if v == nil {
			return NodesType([]any{})
		}
		return NodesType([]any{v.any})
	case nil:
		return NodesType([]any{})
	default:
		panic(fmt.Sprintf("spec: unexpected argument of type %T", v))
	}
}

// LogicalType is a JSONPath result representing true or false.
type LogicalType uint8

const (
	// LogicalFalse represents false.
	LogicalFalse LogicalType = iota
	// LogicalTrue represents true.
	LogicalTrue
)

// Bool returns the bool equivalent of lt.
func (lt LogicalType) Bool() bool { return lt == LogicalTrue }

// PathType returns PathLogical.
func (LogicalType) PathType() PathType { return PathLogical }

// FuncType returns FuncLogical.
func (LogicalType) FuncType() FuncType { return FuncLogical }

func (lt LogicalType) writeTo(buf *strings.Builder) {
	if lt.Bool() {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// LogicalFrom converts value to a LogicalType. Accepts LogicalType,
// NodesType (true if non-empty), bool, and nil (false). Panics for any
// other argument type.
func LogicalFrom(value any) LogicalType {
	switch v := value.(type) {
	case LogicalType:
		return v
	case NodesType:
		return LogicalFrom(len(v) > 0)
	case bool:
		if v {
			return LogicalTrue
		}
		return LogicalFalse
	case nil:
		return LogicalFalse
	default:
		panic(fmt.Sprintf("spec: unexpected argument of type %T", v))
	}
}

// ValueType wraps a single JSON value (or Nothing, represented by a nil
// *ValueType) produced by a singular query or a value-returning function.
type ValueType struct {
	any
}

// Value returns a new *ValueType wrapping val.
func Value(val any) *ValueType { return &ValueType{val} }

// Value returns the wrapped value, or nil if vt is nil (representing
// Nothing).
func (vt *ValueType) Value() any {
	if vt == nil {
		return nil
	}
	return vt.any
}

// PathType returns PathValue.
func (*ValueType) PathType() PathType { return PathValue }

// FuncType returns FuncValue.
func (*ValueType) FuncType() FuncType { return FuncValue }

func (vt *ValueType) writeTo(buf *strings.Builder) { buf.WriteString("ValueType") }

// ValueFrom converts value, which must be a *ValueType or nil, to a
// *ValueType. Panics for any other argument type.
func ValueFrom(value JSONPathValue) *ValueType {
	switch v := value.(type) {
	case *ValueType:
		return v
	case nil:
		return nil
	default:
		panic(fmt.Sprintf("spec: unexpected argument of type %T", v))
	}
}

// testFilter reports whether vt's wrapped value is truthy, per RFC 9535's
// rule that a ValueType used directly as a filter test expression is true
// unless it is Nothing, or its value is the JSON null, the JSON false, or
// an int, int64, or float64 equal to 0.
func (vt *ValueType) testFilter(_, _ any) bool {
	if vt == nil {
		return false
	}
	switch v := vt.any.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return true
	default:
		return true
	}
}

// RuneCount returns the number of Unicode scalar values in s, used by the
// length() function to count string length per RFC 9535 §2.4.4.
func RuneCount(s string) int { return utf8.RuneCountInString(s) }
