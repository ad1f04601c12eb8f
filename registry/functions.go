package registry

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath/spec"
)

// standardFunctions returns the five RFC 9535 §2.4 standard extension
// functions, with match and search bound to oracle.
func standardFunctions(oracle RegexOracle) []*spec.Function {
	return []*spec.Function{
		{
			Name:       "length",
			ResultType: spec.FuncValue,
			Validate:   validateUnaryArgs("length", spec.PathValue),
			Evaluate:   lengthFunc,
		},
		{
			Name:       "count",
			ResultType: spec.FuncValue,
			Validate:   validateUnaryArgs("count", spec.PathNodes),
			Evaluate:   countFunc,
		},
		{
			Name:       "value",
			ResultType: spec.FuncValue,
			Validate:   validateUnaryArgs("value", spec.PathNodes),
			Evaluate:   valueFunc,
		},
		{
			Name:       "match",
			ResultType: spec.FuncLogical,
			Validate:   validateBinaryStringArgs("match"),
			Evaluate:   matchFunc(oracle),
		},
		{
			Name:       "search",
			ResultType: spec.FuncLogical,
			Validate:   validateBinaryStringArgs("search"),
			Evaluate:   searchFunc(oracle),
		},
	}
}

// validateUnaryArgs returns a Validate function requiring exactly one
// argument convertible to pv.
func validateUnaryArgs(name string, pv spec.PathType) func([]spec.FunctionExprArg) error {
	return func(args []spec.FunctionExprArg) error {
		if len(args) != 1 {
			return fmt.Errorf("%v(): expected 1 argument but found %v", name, len(args))
		}
		if !args[0].ResultType().ConvertsTo(pv) {
			return fmt.Errorf("%v(): cannot convert argument to %v", name, pv)
		}
		return nil
	}
}

// validateBinaryStringArgs returns a Validate function requiring exactly
// two arguments, both convertible to a value.
func validateBinaryStringArgs(name string) func([]spec.FunctionExprArg) error {
	return func(args []spec.FunctionExprArg) error {
		if len(args) != 2 {
			return fmt.Errorf("%v(): expected 2 arguments but found %v", name, len(args))
		}
		for i, arg := range args {
			if !arg.ResultType().ConvertsTo(spec.PathValue) {
				return fmt.Errorf("%v(): cannot convert argument %v to %v", name, i+1, spec.PathValue)
			}
		}
		return nil
	}
}

// lengthFunc implements length(): the number of Unicode scalar values in
// a string, the number of elements in an array, or the number of members
// in an object. Returns Nothing for any other value, or for Nothing.
func lengthFunc(args []spec.JSONPathValue) spec.JSONPathValue {
	v := spec.ValueFrom(args[0])
	if v == nil {
		return (*spec.ValueType)(nil)
	}
	switch val := v.Value().(type) {
	case string:
		return spec.Value(spec.RuneCount(val))
	case []any:
		return spec.Value(len(val))
	case objectLike:
		return spec.Value(val.Len())
	default:
		return (*spec.ValueType)(nil)
	}
}

// countFunc implements count(): the number of nodes in a node list.
func countFunc(args []spec.JSONPathValue) spec.JSONPathValue {
	return spec.Value(len(spec.NodesFrom(args[0])))
}

// valueFunc implements value(): the value of a node list's sole node, or
// Nothing if the node list is empty or has more than one node.
func valueFunc(args []spec.JSONPathValue) spec.JSONPathValue {
	nodes := spec.NodesFrom(args[0])
	if len(nodes) == 1 {
		return spec.Value(nodes[0])
	}
	return (*spec.ValueType)(nil)
}

// matchFunc returns the Evaluate function implementing match(): true if
// the first argument is a string that, in its entirety, matches the
// regular expression in the second argument string.
func matchFunc(oracle RegexOracle) func([]spec.JSONPathValue) spec.JSONPathValue {
	return func(args []spec.JSONPathValue) spec.JSONPathValue {
		return spec.LogicalFrom(testRegex(oracle, args, true))
	}
}

// searchFunc returns the Evaluate function implementing search(): true if
// the first argument is a string containing a substring that matches the
// regular expression in the second argument string.
func searchFunc(oracle RegexOracle) func([]spec.JSONPathValue) spec.JSONPathValue {
	return func(args []spec.JSONPathValue) spec.JSONPathValue {
		return spec.LogicalFrom(testRegex(oracle, args, false))
	}
}

func testRegex(oracle RegexOracle, args []spec.JSONPathValue, anchored bool) bool {
	text, ok := spec.ValueFrom(args[0]).Value().(string)
	if !ok {
		return false
	}
	pattern, ok := spec.ValueFrom(args[1]).Value().(string)
	if !ok {
		return false
	}
	return oracle.Test(pattern, text, anchored)
}

// objectLike matches value.Object's Len method without importing package
// value, which has no business knowing about the function registry.
type objectLike interface {
	Len() int
}

// ErrRegexOracle is a sentinel for regex oracle failures. Nothing in this
// module returns it: [RegexOracle.Test] reports only a bool, so an oracle
// has no way to pass an error back, and match() and search() evaluate to
// false for a pattern that fails to compile rather than failing the query.
var ErrRegexOracle = errors.New("registry: regex oracle error")
