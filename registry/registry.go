// Package registry provides the RFC 9535 extension function registry for
// github.com/theory/jsonpath: the five standard functions (length, count,
// value, match, search) plus the ability to register custom functions,
// following the Register/lookup pattern of
// github.com/theory/sqljson/path/ast's const.go sentinel errors and its
// parser's function-validation style.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/theory/jsonpath/spec"
)

// ErrUnregistered errors are returned when a query names a function that
// has not been registered.
var ErrUnregistered = errors.New("jsonpath: unknown function")

// ErrInvalidArgs errors are returned when a function is called with
// arguments incompatible with its declared parameter types.
var ErrInvalidArgs = errors.New("jsonpath: invalid function arguments")

// Registry holds a set of named extension functions available to a
// parser. The zero value is not usable; create one with [New], which
// preloads the five RFC 9535 standard functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*spec.Function
}

// New returns a Registry preloaded with the RFC 9535 standard functions:
// length, count, value, match, and search. match and search use
// [GoRegexOracle] to compile and run their regular expressions; pass a
// different [RegexOracle] to [NewWithOracle] to change that.
func New() *Registry {
	return NewWithOracle(GoRegexOracle{})
}

// NewWithOracle returns a Registry like [New], but using oracle to
// evaluate the match and search functions' regular expressions.
func NewWithOracle(oracle RegexOracle) *Registry {
	reg := &Registry{funcs: make(map[string]*spec.Function, 8)}
	for _, fn := range standardFunctions(oracle) {
		reg.mustRegister(fn)
	}
	return reg
}

// Register adds fn to reg, so that queries parsed with reg may call it by
// name. Panics if fn is nil or a function is already registered under
// fn.Name; use a fresh [Registry] (see [New]) rather than mutating a
// shared one from multiple goroutines.
func (reg *Registry) Register(fn *spec.Function) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.mustRegister(fn)
}

func (reg *Registry) mustRegister(fn *spec.Function) {
	if fn == nil {
		panic("registry: Register called with a nil function")
	}
	if _, dup := reg.funcs[fn.Name]; dup {
		panic("registry: Register called twice for function " + fn.Name)
	}
	reg.funcs[fn.Name] = fn
}

// Get returns the function registered under name, or nil if none is.
func (reg *Registry) Get(name string) *spec.Function {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.funcs[name]
}

// NewFunctionExpr looks up name in reg and returns a *spec.FunctionExpr
// calling it with args. Returns ErrUnregistered if name is not
// registered, or ErrInvalidArgs wrapping the function's own validation
// error if args are incompatible with it.
func (reg *Registry) NewFunctionExpr(name string, args []spec.FunctionExprArg) (*spec.FunctionExpr, error) {
	fn := reg.Get(name)
	if fn == nil {
		return nil, fmt.Errorf("%w %q", ErrUnregistered, name)
	}
	fe, err := spec.NewFunctionExpr(fn, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w %v(): %w", ErrInvalidArgs, spec.ErrInvalid, name, err)
	}
	return fe, nil
}
