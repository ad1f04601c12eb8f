package spec

import "strings"

// Function describes an extension function callable from a filter
// expression, per RFC 9535 §2.4. A Function is registered with a
// github.com/theory/jsonpath/registry.Registry, which the parser consults
// to validate and type-check calls at parse time; spec itself knows
// nothing about how functions are registered or looked up, only how to
// represent and evaluate a call once one has been resolved.
type Function struct {
	// Name is the function's name as it appears in a query, e.g. "length".
	Name string

	// ResultType is the static type of the function's return value.
	ResultType FuncType

	// Validate runs at parse time against the parsed argument
	// expressions and returns an error if they're incompatible with the
	// function's declared parameter types.
	Validate func(args []FunctionExprArg) error

	// Evaluate runs at query-evaluation time against the evaluated
	// argument values and returns the function's result.
	Evaluate func(args []JSONPathValue) JSONPathValue
}

// FunctionExprArg is implemented by every expression form that may appear
// as an argument to a function call: *LiteralArg, *SingularQueryExpr,
// *FilterQueryExpr, LogicalOrExpr, and *FunctionExpr.
type FunctionExprArg interface {
	stringWriter
	// execute evaluates the argument against current and root and
	// returns the resulting JSONPathValue.
	execute(current, root any) JSONPathValue
	// ResultType returns the FuncType of the evaluated value.
	ResultType() FuncType
}

// LiteralArg is a literal JSON value argument: a string, number, bool, or
// null (never an object or array, which RFC 9535 function-argument syntax
// does not admit).
type LiteralArg struct {
	literal any
}

// Literal returns a *LiteralArg wrapping lit.
func Literal(lit any) *LiteralArg { return &LiteralArg{literal: lit} }

// Value returns the wrapped literal value.
func (la *LiteralArg) Value() any { return la.literal }

func (la *LiteralArg) execute(_, _ any) JSONPathValue { return &ValueType{la.literal} }

// ResultType returns FuncLiteral.
func (la *LiteralArg) ResultType() FuncType { return FuncLiteral }

func (la *LiteralArg) writeTo(buf *strings.Builder) {
	switch v := la.literal.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteByte('\'')
		writeEscapedName(buf, v)
		buf.WriteByte('\'')
	default:
		writeLiteral(buf, v)
	}
}

// asValue returns la's wrapped value as a *ValueType. Defined by the
// CompVal interface used by ComparisonExpr.
func (la *LiteralArg) asValue(_, _ any) *ValueType { return &ValueType{la.literal} }

// FilterQueryExpr is a non-singular filter-query used as a function
// argument, evaluating to a node list.
type FilterQueryExpr struct {
	q *PathQuery
}

// FilterQuery returns a *FilterQueryExpr wrapping q.
func FilterQuery(q *PathQuery) *FilterQueryExpr { return &FilterQueryExpr{q: q} }

// Query returns the wrapped query.
func (fq *FilterQueryExpr) Query() *PathQuery { return fq.q }

func (fq *FilterQueryExpr) execute(current, root any) JSONPathValue {
	return NodesType(fq.q.Select(current, root))
}

// ResultType returns FuncSingularQuery if the wrapped query is singular,
// and FuncNodeList otherwise.
func (fq *FilterQueryExpr) ResultType() FuncType {
	if fq.q.isSingular() {
		return FuncSingularQuery
	}
	return FuncNodeList
}

func (fq *FilterQueryExpr) writeTo(buf *strings.Builder) { fq.q.writeTo(buf) }

// FunctionExpr is a call to a registered extension function.
type FunctionExpr struct {
	fn   *Function
	args []FunctionExprArg
}

// NewFunctionExpr returns a *FunctionExpr calling fn with args. Returns an
// error from fn.Validate if args are incompatible with fn.
func NewFunctionExpr(fn *Function, args []FunctionExprArg) (*FunctionExpr, error) {
	if err := fn.Validate(args); err != nil {
		return nil, err
	}
	return &FunctionExpr{fn: fn, args: args}, nil
}

// Name returns the called function's name.
func (fe *FunctionExpr) Name() string { return fe.fn.Name }

// Args returns the function call's argument expressions.
func (fe *FunctionExpr) Args() []FunctionExprArg { return fe.args }

func (fe *FunctionExpr) execute(current, root any) JSONPathValue {
	vals := make([]JSONPathValue, len(fe.args))
	for i, a := range fe.args {
		vals[i] = a.execute(current, root)
	}
	return fe.fn.Evaluate(vals)
}

// ResultType returns the called function's declared return type.
func (fe *FunctionExpr) ResultType() FuncType { return fe.fn.ResultType }

// asValue returns the result of evaluating fe as a *ValueType. Defined by
// the CompVal interface; only meaningful when fe.ResultType() is
// FuncValue, which NewFunctionExpr's caller is responsible for checking
// before a *FunctionExpr is used in a comparison.
func (fe *FunctionExpr) asValue(current, root any) *ValueType {
	return ValueFrom(fe.execute(current, root))
}

// testFilter evaluates fe and reports whether the result is truthy: a
// non-empty NodesType, a truthy *ValueType, or a true LogicalType.
// Defined by the BasicExpr interface.
func (fe *FunctionExpr) testFilter(current, root any) bool {
	switch res := fe.execute(current, root).(type) {
	case NodesType:
		return len(res) > 0
	case *ValueType:
		return res.testFilter(current, root)
	case LogicalType:
		return res.Bool()
	default:
		return false
	}
}

func (fe *FunctionExpr) writeTo(buf *strings.Builder) {
	buf.WriteString(fe.fn.Name)
	buf.WriteByte('(')
	for i, a := range fe.args {
		if i > 0 {
			buf.WriteString(", ")
		}
		a.writeTo(buf)
	}
	buf.WriteByte(')')
}

// String returns the "name(args...)" textual form of fe.
func (fe *FunctionExpr) String() string {
	buf := new(strings.Builder)
	fe.writeTo(buf)
	return buf.String()
}

// NotFuncExpr represents "!func(...)", negating a logical-result function
// call.
type NotFuncExpr struct {
	*FunctionExpr
}

// NotFunc returns a NotFuncExpr wrapping fe.
func NotFunc(fe *FunctionExpr) NotFuncExpr { return NotFuncExpr{fe} }

func (nf NotFuncExpr) testFilter(current, root any) bool {
	return !nf.FunctionExpr.testFilter(current, root)
}

func (nf NotFuncExpr) writeTo(buf *strings.Builder) {
	buf.WriteByte('!')
	nf.FunctionExpr.writeTo(buf)
}

// String returns the "!name(args...)" textual form of nf.
func (nf NotFuncExpr) String() string {
	buf := new(strings.Builder)
	nf.writeTo(buf)
	return buf.String()
}
