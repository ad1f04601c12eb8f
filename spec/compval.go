package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// CompVal is implemented by every expression form that may appear on
// either side of a ComparisonExpr: *LiteralArg, *SingularQueryExpr, and
// *FunctionExpr (only those with a FuncValue result type).
type CompVal interface {
	stringWriter
	asValue(current, root any) *ValueType
}

// SingularQueryExpr is a query proven to select at most one node: a chain
// of Name and Index selectors only, with no wildcard, slice, filter, or
// descendant segment. Evaluating one never needs to build a node list,
// just follow the chain of steps and stop at the first miss.
type SingularQueryExpr struct {
	selectors []Selector
	relative  bool
}

// SingularQuery returns a *SingularQueryExpr over selectors, rooted at $
// if root is true, or @ if root is false.
func SingularQuery(root bool, selectors []Selector) *SingularQueryExpr {
	return &SingularQueryExpr{relative: !root, selectors: selectors}
}

// IsRelative returns true if sq is rooted at the current node (@).
func (sq *SingularQueryExpr) IsRelative() bool { return sq.relative }

// Selectors returns sq's chain of Name/Index selectors.
func (sq *SingularQueryExpr) Selectors() []Selector { return sq.selectors }

func (sq *SingularQueryExpr) execute(current, root any) JSONPathValue {
	target := root
	if sq.relative {
		target = current
	}

	for _, sel := range sq.selectors {
		res := sel.selectFrom(target, root)
		if len(res) == 0 {
			return (*ValueType)(nil)
		}
		target = res[0]
	}
	return &ValueType{target}
}

// ResultType returns FuncSingularQuery. Defined by the FunctionExprArg
// interface.
func (sq *SingularQueryExpr) ResultType() FuncType { return FuncSingularQuery }

func (sq *SingularQueryExpr) asValue(current, root any) *ValueType {
	return ValueFrom(sq.execute(current, root))
}

func (sq *SingularQueryExpr) writeTo(buf *strings.Builder) {
	if sq.relative {
		buf.WriteByte('@')
	} else {
		buf.WriteByte('$')
	}
	for _, sel := range sq.selectors {
		buf.WriteByte('[')
		sel.writeTo(buf)
		buf.WriteByte(']')
	}
}

// String returns the textual form of sq.
func (sq *SingularQueryExpr) String() string {
	buf := new(strings.Builder)
	sq.writeTo(buf)
	return buf.String()
}

// CompOp is a comparison operator, per RFC 9535 §2.3.5.2.
type CompOp uint8

const (
	// EqualTo is "==".
	EqualTo CompOp = iota + 1
	// NotEqualTo is "!=".
	NotEqualTo
	// LessThan is "<".
	LessThan
	// GreaterThan is ">".
	GreaterThan
	// LessThanEqualTo is "<=".
	LessThanEqualTo
	// GreaterThanEqualTo is ">=".
	GreaterThanEqualTo
)

// String returns the operator's textual form.
func (op CompOp) String() string {
	switch op {
	case EqualTo:
		return "=="
	case NotEqualTo:
		return "!="
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessThanEqualTo:
		return "<="
	case GreaterThanEqualTo:
		return ">="
	default:
		return "unknown CompOp"
	}
}

// ComparisonExpr compares the values of two CompVal expressions, per RFC
// 9535 §2.3.5.2.
type ComparisonExpr struct {
	left  CompVal
	op    CompOp
	right CompVal
}

// Comparison returns a *ComparisonExpr comparing left to right with op.
func Comparison(left CompVal, op CompOp, right CompVal) *ComparisonExpr {
	return &ComparisonExpr{left: left, op: op, right: right}
}

// Left returns the left-hand operand.
func (ce *ComparisonExpr) Left() CompVal { return ce.left }

// Op returns the comparison operator.
func (ce *ComparisonExpr) Op() CompOp { return ce.op }

// Right returns the right-hand operand.
func (ce *ComparisonExpr) Right() CompVal { return ce.right }

func (ce *ComparisonExpr) testFilter(current, root any) bool {
	left := ce.left.asValue(current, root)
	right := ce.right.asValue(current, root)
	return compare(ce.op, left, right)
}

func (ce *ComparisonExpr) writeTo(buf *strings.Builder) {
	ce.left.writeTo(buf)
	buf.WriteByte(' ')
	buf.WriteString(ce.op.String())
	buf.WriteByte(' ')
	ce.right.writeTo(buf)
}

// String returns the "left op right" textual form of ce.
func (ce *ComparisonExpr) String() string {
	buf := new(strings.Builder)
	ce.writeTo(buf)
	return buf.String()
}

// compare implements the comparison semantics of RFC 9535 §2.3.5.2.2: two
// values compare equal if they have the same JSON type and equal content;
// < and > are defined only for two numbers or two strings, and are false
// for any other pairing. <= and >= are "< or ==" and "> or ==", so they
// are also true for two equal values of any other type (true <= true),
// and for Nothing against Nothing.
func compare(op CompOp, left, right *ValueType) bool {
	switch op {
	case EqualTo:
		return valuesEqual(left, right)
	case NotEqualTo:
		return !valuesEqual(left, right)
	case LessThan:
		return valuesLess(left, right)
	case GreaterThan:
		return valuesLess(right, left)
	case LessThanEqualTo:
		return valuesLess(left, right) || valuesEqual(left, right)
	case GreaterThanEqualTo:
		return valuesLess(right, left) || valuesEqual(left, right)
	default:
		return false
	}
}

func valuesEqual(left, right *ValueType) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	lv, rv := normalizeNumber(left.any), normalizeNumber(right.any)
	switch lv := lv.(type) {
	case nil:
		return rv == nil
	case bool:
		rb, ok := rv.(bool)
		return ok && lv == rb
	case string:
		rs, ok := rv.(string)
		return ok && lv == rs
	case float64:
		rf, ok := rv.(float64)
		return ok && lv == rf
	case []any:
		ra, ok := rv.([]any)
		if !ok || len(lv) != len(ra) {
			return false
		}
		for i := range lv {
			if !valuesEqual(&ValueType{lv[i]}, &ValueType{ra[i]}) {
				return false
			}
		}
		return true
	default:
		return objectsEqual(lv, rv)
	}
}

// objectsEqual reports whether lv and rv are both objects (ordObject) with
// the same member set and equal values member-for-member. Member order is
// not significant to equality.
func objectsEqual(lv, rv any) bool {
	lo, ok := lv.(ordObject)
	if !ok {
		return false
	}
	ro, ok := rv.(ordObject)
	if !ok {
		return false
	}

	lCount, rCount := 0, 0
	equal := true
	lo.Range(func(name string, lval any) bool {
		lCount++
		rval, ok := objGet(ro, name)
		if !ok || !valuesEqual(&ValueType{lval}, &ValueType{rval}) {
			equal = false
			return false
		}
		return true
	})
	ro.Range(func(string, any) bool { rCount++; return true })
	return equal && lCount == rCount
}

// valuesLess reports whether left < right, which RFC 9535 defines only
// when both are numbers or both are strings; any other pairing is false.
func valuesLess(left, right *ValueType) bool {
	if left == nil || right == nil {
		return false
	}
	lv, rv := normalizeNumber(left.any), normalizeNumber(right.any)
	switch lv := lv.(type) {
	case float64:
		rf, ok := rv.(float64)
		return ok && lv < rf
	case string:
		rs, ok := rv.(string)
		return ok && lv < rs
	default:
		return false
	}
}

// normalizeNumber widens every Go numeric kind a JSON decoder might
// produce to float64, so comparisons don't have to special-case int vs.
// int64 vs. json.Number vs. float64.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case jsonNumber:
		f, err := n.Float64()
		if err != nil {
			return v
		}
		return f
	default:
		return v
	}
}

// jsonNumber matches encoding/json.Number's method set without importing
// encoding/json, which this file otherwise has no need of.
type jsonNumber interface {
	Float64() (float64, error)
}

// writeLiteral writes the Go-syntax representation of a non-string,
// non-nil literal value to buf.
func writeLiteral(buf *strings.Builder, v any) {
	switch v := v.(type) {
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case int:
		buf.WriteString(strconv.Itoa(v))
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
	case float64:
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		fmt.Fprintf(buf, "%v", v)
	}
}
