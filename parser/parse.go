// Package parser parses RFC 9535 JSONPath query strings into a
// [github.com/theory/jsonpath/spec.PathQuery], by recursive descent with
// a single token of lookahead and no backtracking. Most callers use
// [github.com/theory/jsonpath] instead, which wraps this package with a
// default function registry and a compiled-query type.
package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theory/jsonpath/registry"
	"github.com/theory/jsonpath/spec"
)

func makeError(tok token, msg string) error {
	sentinel := ErrParse
	if tok.tok == invalid {
		sentinel = ErrLex
	}
	return newSyntaxError(tok, sentinel, msg, nil)
}

// makeInvalidError builds a *SyntaxError wrapping [spec.ErrInvalid] for a
// value that is syntactically well-formed but violates an RFC 9535
// static constraint: a slice step of 0, or an index/slice bound outside
// [-(2^53)+1, (2^53)-1].
func makeInvalidError(tok token, msg string) error {
	return newSyntaxError(tok, spec.ErrInvalid, msg, nil)
}

// makeErrorWithCause builds a *SyntaxError wrapping both sentinel and
// cause, used where a lower layer (the function registry) has already
// classified its own failure and that classification should survive
// alongside the parser's own sentinel.
func makeErrorWithCause(tok token, sentinel error, msg string, cause error) error {
	return newSyntaxError(tok, sentinel, msg, cause)
}

func newSyntaxError(tok token, sentinel error, msg string, cause error) error {
	end := tok.end
	if end <= tok.pos {
		end = tok.pos + 1
	}
	return &SyntaxError{sentinel: sentinel, cause: cause, msg: msg, start: tok.pos, end: end}
}

// unexpected builds the error for an unexpected token: the lexer's own
// message for an invalid token, or "unexpected <kind>" otherwise.
func unexpected(tok token) error {
	if tok.tok == invalid {
		return makeError(tok, tok.val)
	}
	return makeError(tok, "unexpected "+tok.name())
}

type parser struct {
	lex *lexer
	reg *registry.Registry
}

// Parse parses path into a *spec.PathQuery, resolving any extension
// function call against reg. Returns an error wrapping [ErrParse] or
// [ErrLex] on failure.
func Parse(reg *registry.Registry, path string) (*spec.PathQuery, error) {
	lex := newLexer(path)
	tok := lex.scan()
	p := parser{lex: lex, reg: reg}

	switch tok.tok {
	case '$':
		q, err := p.parseQuery(true)
		if err != nil {
			return nil, err
		}
		if lex.r != eof {
			return nil, unexpected(lex.scan())
		}
		return q, nil
	case eof:
		return nil, makeError(tok, "unexpected end of input")
	default:
		return nil, unexpected(tok)
	}
}

// parseQuery parses the segments of a query. p.lex.r must already be
// positioned on the rune just after the leading '$' or '@' when this is
// called.
func (p *parser) parseQuery(root bool) (*spec.PathQuery, error) {
	lex := p.lex
	segs := []*spec.Segment{}
	for {
		switch {
		case lex.r == '[':
			lex.scan()
			selectors, err := p.parseSelectors()
			if err != nil {
				return nil, err
			}
			segs = append(segs, spec.Child(selectors...))
		case lex.r == '.':
			lex.scan()
			if lex.r == '.' {
				lex.scan()
				seg, err := p.parseDescendant()
				if err != nil {
					return nil, err
				}
				segs = append(segs, seg)
				continue
			}
			lex.skipBlankSpace()
			sel, err := parseNameOrWildcard(lex)
			if err != nil {
				return nil, err
			}
			segs = append(segs, spec.Child(sel))
		case lex.isBlankSpace(lex.r):
			switch lex.peekPastBlankSpace() {
			case '.', '[':
				lex.scanBlankSpace()
				continue
			}
			fallthrough
		default:
			return spec.Query(root, segs...), nil
		}
	}
}

// parseNameOrWildcard parses a name or '*' wildcard selector.
func parseNameOrWildcard(lex *lexer) (spec.Selector, error) {
	switch tok := lex.scan(); tok.tok {
	case identifier:
		return spec.Name(tok.val), nil
	case '*':
		return spec.Wildcard, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseDescendant parses the selector(s) of a ".." descendant segment.
func (p *parser) parseDescendant() (*spec.Segment, error) {
	p.lex.skipBlankSpace()
	switch tok := p.lex.scan(); tok.tok {
	case '[':
		selectors, err := p.parseSelectors()
		if err != nil {
			return nil, err
		}
		return spec.Descendant(selectors...), nil
	case identifier:
		return spec.Descendant(spec.Name(tok.val)), nil
	case '*':
		return spec.Descendant(spec.Wildcard), nil
	default:
		return nil, unexpected(tok)
	}
}

func makeNumErr(tok token, err error) error {
	var numErr *strconv.NumError
	if ok := asNumError(err, &numErr); ok {
		return makeError(tok, fmt.Sprintf("cannot parse %q, %v", numErr.Num, numErr.Err.Error()))
	}
	return makeError(tok, err.Error())
}

func asNumError(err error, target **strconv.NumError) bool {
	if ne, ok := err.(*strconv.NumError); ok {
		*target = ne
		return true
	}
	return false
}

// parseSelectors parses the comma-separated selector list of a bracket
// segment; p.lex.r should already be positioned just after the opening
// '['.
func (p *parser) parseSelectors() ([]spec.Selector, error) {
	lex := p.lex
	selectors := []spec.Selector{}
	for {
		switch tok := lex.scan(); tok.tok {
		case '?':
			filter, err := p.parseFilter()
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, filter)
		case '*':
			selectors = append(selectors, spec.Wildcard)
		case goString:
			selectors = append(selectors, spec.Name(tok.val))
		case integer:
			if lex.skipBlankSpace() == ':' {
				slice, err := parseSlice(lex, tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, slice)
			} else {
				idx, err := parsePathInt(tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, spec.Index(idx))
			}
		case ':':
			slice, err := parseSlice(lex, tok)
			if err != nil {
				return nil, err
			}
			selectors = append(selectors, slice)
		case blankSpace:
			continue
		default:
			return nil, unexpected(tok)
		}

		switch lex.skipBlankSpace() {
		case ',':
			lex.scan()
		case ']':
			lex.scan()
			return selectors, nil
		default:
			return nil, unexpected(lex.scan())
		}
	}
}

// parsePathInt parses the integer used as an index or slice bound,
// which RFC 9535 §2.3.4.1/§2.3.3.1 bounds to [-(2^53)+1, (2^53)-1], and
// rejects "-0" outright.
func parsePathInt(tok token) (int64, error) {
	if tok.val == "-0" {
		return 0, makeError(tok, fmt.Sprintf("invalid integer path value %q", tok.val))
	}
	idx, err := strconv.ParseInt(tok.val, 10, 64)
	if err != nil {
		return 0, makeNumErr(tok, err)
	}
	const (
		minVal = -1<<53 + 1
		maxVal = 1<<53 - 1
	)
	if idx > maxVal || idx < minVal {
		return 0, makeInvalidError(tok, fmt.Sprintf("cannot parse %q, value out of range", tok.val))
	}
	return idx, nil
}

// parseSlice parses a slice selector's start:end:step, with tok already
// scanned as its first part. A step of 0 is syntactically a perfectly
// ordinary integer, but RFC 9535 §2.3.4.1 rejects it outright, so it's
// checked here — at parse time, with the offending token's span — rather
// than left to panic inside spec.Slice.
func parseSlice(lex *lexer, tok token) (spec.SliceSelector, error) {
	var args [3]any
	var stepTok token

	i := 0
	for i < 3 {
		switch tok.tok {
		case ':':
			i++
		case integer:
			num, err := parsePathInt(tok)
			if err != nil {
				return spec.SliceSelector{}, err
			}
			args[i] = int(num)
			if i == 2 {
				stepTok = tok
			}
		default:
			return spec.SliceSelector{}, unexpected(tok)
		}

		next := lex.skipBlankSpace()
		if next == ']' || next == ',' {
			if step, ok := args[2].(int); ok && step == 0 {
				return spec.SliceSelector{}, makeInvalidError(stepTok, "slice step must not be 0")
			}
			return spec.Slice(args[0], args[1], args[2]), nil
		}
		tok = lex.scan()
	}

	return spec.SliceSelector{}, unexpected(tok)
}

// parseFilter parses a filter selector's logical-or-expr; p.lex.r
// should already be positioned just after the '?'.
func (p *parser) parseFilter() (*spec.FilterSelector, error) {
	lor, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}
	return spec.Filter(lor), nil
}

// parseLogicalOrExpr parses one or more LogicalAndExprs separated by
// "||".
func (p *parser) parseLogicalOrExpr() (spec.LogicalOrExpr, error) {
	lex := p.lex
	land, err := p.parseLogicalAndExpr()
	if err != nil {
		return nil, err
	}

	ands := []spec.LogicalAndExpr{land}
	lex.scanBlankSpace()
	for lex.r == '|' {
		lex.scan()
		next := lex.scan()
		if next.tok != '|' {
			return nil, makeError(next, fmt.Sprintf("expected '|' but found %v", next.name()))
		}
		land, err := p.parseLogicalAndExpr()
		if err != nil {
			return nil, err
		}
		ands = append(ands, land)
	}

	return spec.LogicalOrExpr(ands), nil
}

// parseLogicalAndExpr parses one or more BasicExprs separated by "&&".
func (p *parser) parseLogicalAndExpr() (spec.LogicalAndExpr, error) {
	expr, err := p.parseBasicExpr()
	if err != nil {
		return nil, err
	}

	lex := p.lex
	exprs := []spec.BasicExpr{expr}
	lex.scanBlankSpace()
	for lex.r == '&' {
		lex.scan()
		next := lex.scan()
		if next.tok != '&' {
			return nil, makeError(next, fmt.Sprintf("expected '&' but found %v", next.name()))
		}
		expr, err := p.parseBasicExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		lex.scanBlankSpace()
	}

	return spec.LogicalAndExpr(exprs), nil
}

// parseBasicExpr parses a single basic-expr: a parenthesized
// expression, a comparison, a function test, or an existence test.
func (p *parser) parseBasicExpr() (spec.BasicExpr, error) {
	lex := p.lex
	lex.skipBlankSpace()
	tok := lex.scan()

	switch tok.tok {
	case '!':
		if lex.skipBlankSpace() == '(' {
			lex.scan()
			return p.parseNotParenExpr()
		}
		next := lex.scan()
		if next.tok == identifier {
			f, err := p.parseFunction(next)
			if err != nil {
				return nil, err
			}
			return spec.NotFunc(f), nil
		}
		return p.parseNotExistsExpr(next)
	case '(':
		return p.parseParenExpr()
	case goString, integer, number, boolFalse, boolTrue, jsonNull:
		left, err := parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		return p.parseComparableExpr(left)
	case identifier:
		if lex.r == '(' {
			return p.parseFunctionFilterExpr(tok)
		}
	case '@', '$':
		q, err := p.parseFilterQuery(tok)
		if err != nil {
			return nil, err
		}
		if sing, ok := q.AsSingular(); ok {
			switch lex.skipBlankSpace() {
			case '=', '!', '<', '>':
				return p.parseComparableExpr(sing)
			}
		}
		return spec.Existence(q), nil
	}

	return nil, unexpected(tok)
}

// parseFunctionFilterExpr parses a basic-expr that starts with the
// identifier ident, naming an extension function: either the call
// itself (if it returns a logical value) or a comparison against its
// result.
func (p *parser) parseFunctionFilterExpr(ident token) (spec.BasicExpr, error) {
	f, err := p.parseFunction(ident)
	if err != nil {
		return nil, err
	}
	if f.ResultType() == spec.FuncLogical {
		return f, nil
	}

	switch p.lex.skipBlankSpace() {
	case '=', '!', '<', '>':
		return p.parseComparableExpr(f)
	}
	return nil, makeError(p.lex.scan(), "missing comparison to function result")
}

// parseNotExistsExpr parses a "!<query>" non-existence test, with tok
// already scanned as the query's leading '@' or '$'.
func (p *parser) parseNotExistsExpr(tok token) (*spec.NotExistsExpr, error) {
	q, err := p.parseFilterQuery(tok)
	if err != nil {
		return nil, err
	}
	return spec.NonExistence(q), nil
}

// parseFilterQuery parses a filter-query (rel-query or jsonpath-query),
// with tok already scanned as its leading '@' or '$'.
func (p *parser) parseFilterQuery(tok token) (*spec.PathQuery, error) {
	return p.parseQuery(tok.tok == '$')
}

// parseInnerParenExpr parses a logical-or-expr and the closing ')' that
// must follow it; p.lex.r should be positioned just after the opening
// '('.
func (p *parser) parseInnerParenExpr() (spec.LogicalOrExpr, error) {
	expr, err := p.parseLogicalOrExpr()
	if err != nil {
		return nil, err
	}

	next := p.lex.scan()
	if next.tok != ')' {
		return nil, makeError(next, fmt.Sprintf("expected ')' but found %v", next.name()))
	}
	return expr, nil
}

func (p *parser) parseParenExpr() (*spec.ParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.Paren(expr), nil
}

func (p *parser) parseNotParenExpr() (*spec.NotParenExpr, error) {
	expr, err := p.parseInnerParenExpr()
	if err != nil {
		return nil, err
	}
	return spec.NotParen(expr), nil
}

// parseFunction parses a call to the function named tok.val, looking it
// up in p.reg and validating its arguments. p.lex.r must be '(' when
// this is called.
func (p *parser) parseFunction(tok token) (*spec.FunctionExpr, error) {
	p.lex.scan() // Consume '('.

	args, err := p.parseFunctionArgs()
	if err != nil {
		return nil, err
	}

	fe, err := p.reg.NewFunctionExpr(tok.val, args)
	if err != nil {
		if errors.Is(err, registry.ErrUnregistered) {
			return nil, makeErrorWithCause(tok, ErrParse, err.Error(), err)
		}
		// Arity/type-checking failures are a validate-stage constraint
		// violation, not a grammar error: the call itself parses fine.
		return nil, makeErrorWithCause(tok, spec.ErrInvalid, err.Error(), err)
	}
	return fe, nil
}

// parseFunctionArgs parses a function call's comma-delimited argument
// list, up to and including the closing ')'. An argument may be a
// literal, a filter-query (including a singular-query), a
// logical-expr-param (which the grammar permits only when it begins
// with '!' or '(', so those are peeked for before any other token is
// consumed), or a nested function-expr.
func (p *parser) parseFunctionArgs() ([]spec.FunctionExprArg, error) {
	lex := p.lex
	res := []spec.FunctionExprArg{}

	for {
		lex.skipBlankSpace()
		switch lex.r {
		case ')':
			lex.scan()
			return res, nil
		case '!', '(':
			ors, err := p.parseLogicalOrExpr()
			if err != nil {
				return nil, err
			}
			res = append(res, ors)
		case '@', '$':
			tok := lex.scan()
			q, err := p.parseFilterQuery(tok)
			if err != nil {
				return nil, err
			}
			// A singular query becomes a *SingularQueryExpr rather than a
			// FilterQueryExpr even here: length()/value()-style evaluators
			// that declare a PathValue parameter expect to unwrap a single
			// *ValueType, not a NodesType of size 0 or 1, from the
			// argument they're handed.
			if sing, ok := q.AsSingular(); ok {
				res = append(res, sing)
			} else {
				res = append(res, spec.FilterQuery(q))
			}
		default:
			tok := lex.scan()
			switch tok.tok {
			case goString, integer, number, boolFalse, boolTrue, jsonNull:
				val, err := parseLiteral(tok)
				if err != nil {
					return nil, err
				}
				res = append(res, val)
			case identifier:
				if lex.skipBlankSpace() != '(' {
					return nil, unexpected(tok)
				}
				f, err := p.parseFunction(tok)
				if err != nil {
					return nil, err
				}
				res = append(res, f)
			default:
				return nil, unexpected(tok)
			}
		}

		switch lex.skipBlankSpace() {
		case ',':
			lex.scan()
		case ')':
			lex.scan()
			return res, nil
		default:
			return nil, unexpected(lex.scan())
		}
	}
}

// parseLiteral converts tok, one of goString, integer, number,
// boolFalse, boolTrue, or jsonNull, into a *spec.LiteralArg.
func parseLiteral(tok token) (*spec.LiteralArg, error) {
	switch tok.tok {
	case goString:
		return spec.Literal(tok.val), nil
	case integer:
		i, err := strconv.ParseInt(tok.val, 10, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(i), nil
	case number:
		f, err := strconv.ParseFloat(tok.val, 64)
		if err != nil {
			return nil, makeNumErr(tok, err)
		}
		return spec.Literal(f), nil
	case boolTrue:
		return spec.Literal(true), nil
	case boolFalse:
		return spec.Literal(false), nil
	case jsonNull:
		return spec.Literal(nil), nil
	default:
		return nil, unexpected(tok)
	}
}

// parseComparableExpr parses the "op right" half of a comparison-expr,
// given its already-parsed left operand.
func (p *parser) parseComparableExpr(left spec.CompVal) (*spec.ComparisonExpr, error) {
	lex := p.lex
	lex.skipBlankSpace()

	op, err := parseCompOp(lex)
	if err != nil {
		return nil, err
	}

	lex.skipBlankSpace()
	right, err := p.parseComparableVal(lex.scan())
	if err != nil {
		return nil, err
	}

	return spec.Comparison(left, op, right), nil
}

// parseComparableVal parses a CompVal: a literal, a singular-query, or
// a value-returning function call.
func (p *parser) parseComparableVal(tok token) (spec.CompVal, error) {
	switch tok.tok {
	case goString, integer, number, boolFalse, boolTrue, jsonNull:
		return parseLiteral(tok)
	case '@', '$':
		return parseSingularQuery(tok, p.lex)
	case identifier:
		if p.lex.r != '(' {
			return nil, unexpected(tok)
		}
		f, err := p.parseFunction(tok)
		if err != nil {
			return nil, err
		}
		if f.ResultType() == spec.FuncLogical {
			return nil, makeError(tok, "cannot compare result of logical function")
		}
		return f, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseCompOp parses a comparison operator: ==, !=, <, <=, >, or >=.
func parseCompOp(lex *lexer) (spec.CompOp, error) {
	tok := lex.scan()
	switch tok.tok {
	case '=':
		if lex.r == '=' {
			lex.scan()
			return spec.EqualTo, nil
		}
	case '!':
		if lex.r == '=' {
			lex.scan()
			return spec.NotEqualTo, nil
		}
	case '<':
		if lex.r == '=' {
			lex.scan()
			return spec.LessThanEqualTo, nil
		}
		return spec.LessThan, nil
	case '>':
		if lex.r == '=' {
			lex.scan()
			return spec.GreaterThanEqualTo, nil
		}
		return spec.GreaterThan, nil
	}
	return 0, makeError(tok, "invalid comparison operator")
}

// parseSingularQuery parses a singular-query: a chain of Name/Index
// selectors only, in either bracket or dot-shorthand form.
func parseSingularQuery(startToken token, lex *lexer) (*spec.SingularQueryExpr, error) {
	selectors := []spec.Selector{}
	for {
		switch lex.r {
		case '[':
			lex.scan()
			lex.skipBlankSpace()
			switch tok := lex.scan(); tok.tok {
			case goString:
				selectors = append(selectors, spec.Name(tok.val))
			case integer:
				idx, err := parsePathInt(tok)
				if err != nil {
					return nil, err
				}
				selectors = append(selectors, spec.Index(idx))
			default:
				return nil, unexpected(tok)
			}
			lex.skipBlankSpace()
			tok := lex.scan()
			if tok.tok != ']' {
				return nil, unexpected(tok)
			}
		case '.':
			lex.scan()
			lex.skipBlankSpace()
			tok := lex.scan()
			if tok.tok != identifier {
				return nil, unexpected(tok)
			}
			selectors = append(selectors, spec.Name(tok.val))
		default:
			return spec.SingularQuery(startToken.tok == '$', selectors), nil
		}
	}
}
