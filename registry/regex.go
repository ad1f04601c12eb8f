package registry

import (
	"regexp"
	"regexp/syntax"
)

// RegexOracle evaluates the regular-expression semantics behind the match
// and search functions, per RFC 9535 §2.4.7 and the [I-Regexp] grammar of
// RFC 9485. It's pluggable so that a Registry can be built on a different
// regex engine than Go's regexp package (for example, one that fully
// implements Unicode property escapes), following the same injection
// pattern as the teacher's WithVars/WithTZ execution [Option]s.
//
// [I-Regexp]: https://www.rfc-editor.org/rfc/rfc9485.html
type RegexOracle interface {
	// Test reports whether text matches pattern. If anchored is true,
	// the match must cover the whole of text (the match() function); if
	// false, the match may occur anywhere within text (the search()
	// function). Returns false, without error, for a pattern that fails
	// to compile, per RFC 9535's requirement that a function never
	// aborts query evaluation.
	Test(pattern, text string, anchored bool) bool
}

// GoRegexOracle is the default [RegexOracle], backed by the standard
// library's regexp package. RFC 9485 regular expressions are a subset of
// Go's (both ultimately derive from Perl-compatible syntax), with one
// notable semantic difference: I-Regexp's "." never matches a line
// terminator, while Go's RE2 "." excludes only '\n' by default. compile
// rewrites "." to "[^\n\r]" to close that gap, at the cost of compiling
// the pattern twice: once to obtain a syntax.Regexp tree to rewrite, and
// once more, on the rewritten source, to produce the final *regexp.Regexp.
type GoRegexOracle struct{}

// Test implements RegexOracle.
func (GoRegexOracle) Test(pattern, text string, anchored bool) bool {
	if anchored {
		pattern = `\A(?:` + pattern + `)\z`
	}
	re := compile(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

// compile parses pattern into a syntax.Regexp, rewrites every "." node to
// match RFC 9485 semantics, and compiles the result. Returns nil if
// pattern fails to parse.
func compile(pattern string) *regexp.Regexp {
	tree, err := syntax.Parse(pattern, syntax.Perl|syntax.DotNL)
	if err != nil {
		return nil
	}

	replaceDot(tree)
	re, err := regexp.Compile(tree.String())
	if err != nil {
		return nil
	}
	return re
}

// notLineBreak is the parsed form of "[^\n\r]", substituted for every "."
// node found by replaceDot.
var notLineBreak, _ = syntax.Parse(`[^\n\r]`, syntax.Perl)

// replaceDot recurses through re, replacing every OpAnyChar ("." in
// DOTALL mode) node with notLineBreak.
func replaceDot(re *syntax.Regexp) {
	if re.Op == syntax.OpAnyChar {
		*re = *notLineBreak
		return
	}
	for _, sub := range re.Sub {
		replaceDot(sub)
	}
}
