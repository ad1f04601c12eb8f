package spec

import (
	"strconv"
	"strings"
)

// Selector is implemented by all of JSONPath's selector types: NameSelector,
// WildcardSelector, IndexSelector, SliceSelector, and FilterSelector. It
// mirrors the teacher's ast.Node interface shape: a String method for the
// canonical textual form, and an unexported writeTo used to build that
// string without an intermediate allocation per node.
type Selector interface {
	// String returns the JSONPath-encoded string representation of the
	// selector.
	String() string

	writeTo(buf *strings.Builder)
	selectFrom(node, root any) []any
}

// NameSelector selects a single named member of an object.
type NameSelector string

// Name returns a NameSelector selecting member name.
func Name(name string) NameSelector { return NameSelector(name) }

// String returns the single-quoted, escaped textual form of n.
func (n NameSelector) String() string {
	buf := new(strings.Builder)
	n.writeTo(buf)
	return buf.String()
}

func (n NameSelector) writeTo(buf *strings.Builder) {
	buf.WriteByte('\'')
	writeEscapedName(buf, string(n))
	buf.WriteByte('\'')
}

// WildcardSelector selects every member of an object or element of an
// array.
type WildcardSelector struct{}

// Wildcard is the single WildcardSelector value.
var Wildcard = WildcardSelector{}

// String returns "*".
func (WildcardSelector) String() string { return "*" }

func (WildcardSelector) writeTo(buf *strings.Builder) { buf.WriteByte('*') }

// IndexSelector selects a single array element by index, which may be
// negative to count from the end of the array.
type IndexSelector int64

// Index returns an IndexSelector selecting array element i.
func Index(i int64) IndexSelector { return IndexSelector(i) }

// Int returns the index as an int64.
func (i IndexSelector) Int() int64 { return int64(i) }

// String returns the decimal textual form of i.
func (i IndexSelector) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i IndexSelector) writeTo(buf *strings.Builder) {
	buf.WriteString(i.String())
}

// SliceSelector selects a range of array elements, per RFC 9535 §2.3.4. A
// nil field means "not specified"; the evaluator applies the RFC's default
// for whichever of Start/End/Step is nil.
type SliceSelector struct {
	start *int64
	end   *int64
	step  *int64
}

// Slice returns a SliceSelector from start, end, and step, each of which may
// be nil (not specified) or an int/int64 value. Panics if step is the
// integer 0, since RFC 9535 forbids a zero step and spec.md requires it be
// rejected at parse time — callers should validate before calling Slice
// rather than rely on the panic.
func Slice(start, end, step any) SliceSelector {
	s := SliceSelector{
		start: toInt64Ptr(start),
		end:   toInt64Ptr(end),
		step:  toInt64Ptr(step),
	}
	if s.step != nil && *s.step == 0 {
		panic("spec: slice step must not be 0")
	}
	return s
}

// toInt64Ptr converts v, which may be nil, an int, or an int64, to a
// *int64.
func toInt64Ptr(v any) *int64 {
	switch v := v.(type) {
	case nil:
		return nil
	case int:
		i := int64(v)
		return &i
	case int64:
		i := v
		return &i
	default:
		panic("spec: invalid slice bound type")
	}
}

// Start returns the slice's start bound and true, or 0 and false if
// unspecified.
func (s SliceSelector) Start() (int64, bool) {
	if s.start == nil {
		return 0, false
	}
	return *s.start, true
}

// End returns the slice's end bound and true, or 0 and false if
// unspecified.
func (s SliceSelector) End() (int64, bool) {
	if s.end == nil {
		return 0, false
	}
	return *s.end, true
}

// Step returns the slice's step and true, or 1 and false if unspecified
// (the RFC 9535 default step).
func (s SliceSelector) Step() (int64, bool) {
	if s.step == nil {
		return 1, false
	}
	return *s.step, true
}

// String returns the "start:end:step" textual form of s, omitting any
// component left unspecified.
func (s SliceSelector) String() string {
	buf := new(strings.Builder)
	s.writeTo(buf)
	return buf.String()
}

// Bounds computes the start/stop/step triple for iterating over an array
// of length n, per RFC 9535 §2.3.4.2.2. For a positive step, the caller
// should iterate "for i := lo; i < hi; i += step"; for a negative step,
// "for i := lo; i > hi; i += step".
func (s SliceSelector) Bounds(n int) (lo, hi, step int) {
	step = 1
	if s.step != nil {
		step = int(*s.step)
	}
	if step == 0 {
		return 0, 0, 0
	}

	normalize := func(i int) int {
		if i >= 0 {
			return i
		}
		return n + i
	}
	clamp := func(i, min, max int) int {
		if i < min {
			return min
		}
		if i > max {
			return max
		}
		return i
	}

	if step > 0 {
		start, end := 0, n
		if s.start != nil {
			start = clamp(normalize(int(*s.start)), 0, n)
		}
		if s.end != nil {
			end = clamp(normalize(int(*s.end)), 0, n)
		}
		return start, end, step
	}

	start, end := n-1, -1
	if s.start != nil {
		start = clamp(normalize(int(*s.start)), -1, n-1)
	}
	if s.end != nil {
		end = clamp(normalize(int(*s.end)), -1, n-1)
	}
	return start, end, step
}

func (s SliceSelector) writeTo(buf *strings.Builder) {
	if s.start != nil {
		buf.WriteString(strconv.FormatInt(*s.start, 10))
	}
	buf.WriteByte(':')
	if s.end != nil {
		buf.WriteString(strconv.FormatInt(*s.end, 10))
	}
	if s.step != nil {
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatInt(*s.step, 10))
	}
}

// FilterSelector selects every member or element for which its logical
// expression evaluates to true.
type FilterSelector struct {
	expr LogicalOrExpr
}

// Filter returns a FilterSelector wrapping expr.
func Filter(expr LogicalOrExpr) *FilterSelector {
	return &FilterSelector{expr: expr}
}

// Expression returns the filter's logical expression.
func (f *FilterSelector) Expression() LogicalOrExpr { return f.expr }

// Test reports whether f's expression is true for current, with root
// available to any $ query nested in the expression. Exported so that
// package exec can apply a FilterSelector while tracking the normalized
// path of each surviving candidate, which requires walking the container
// itself rather than delegating to Selector.selectFrom.
func (f *FilterSelector) Test(current, root any) bool {
	return f.expr.testFilter(current, root)
}

// String returns the "?<expr>" textual form of f.
func (f *FilterSelector) String() string {
	buf := new(strings.Builder)
	f.writeTo(buf)
	return buf.String()
}

func (f *FilterSelector) writeTo(buf *strings.Builder) {
	buf.WriteByte('?')
	f.expr.writeTo(buf)
}
