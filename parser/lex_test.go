package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAll(src string) []token {
	lex := newLexer(src)
	var toks []token
	for {
		tok := lex.scan()
		if tok.tok == blankSpace {
			continue
		}
		toks = append(toks, tok)
		if tok.tok == eof {
			return toks
		}
	}
}

func kinds(toks []token) []tokenKind {
	out := make([]tokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.tok
	}
	return out
}

func TestLexPunctuation(t *testing.T) {
	t.Parallel()

	toks := scanAll("$.a['b'][0]")
	assert.Equal(t, []tokenKind{'$', '.', identifier, '[', goString, ']', '[', integer, ']', eof}, kinds(toks))
}

func TestLexIdent(t *testing.T) {
	t.Parallel()

	toks := scanAll("foo_bar")
	assert.Len(t, toks, 2)
	assert.Equal(t, identifier, toks[0].tok)
	assert.Equal(t, "foo_bar", toks[0].val)
}

func TestLexKeywords(t *testing.T) {
	t.Parallel()

	toks := scanAll("true false null")
	assert.Equal(t, []tokenKind{boolTrue, boolFalse, jsonNull, eof}, kinds(toks))
}

func TestLexInteger(t *testing.T) {
	t.Parallel()

	toks := scanAll("-42")
	assert.Equal(t, integer, toks[0].tok)
	assert.Equal(t, "-42", toks[0].val)
}

func TestLexNumberFloat(t *testing.T) {
	t.Parallel()

	for _, src := range []string{"3.14", "1e10", "1.5e-3", "-0.5"} {
		toks := scanAll(src)
		assert.Equal(t, number, toks[0].tok, src)
		assert.Equal(t, src, toks[0].val, src)
	}
}

func TestLexInvalidNumber(t *testing.T) {
	t.Parallel()

	toks := scanAll("1.")
	assert.Equal(t, invalid, toks[0].tok)
}

func TestLexStringEscapes(t *testing.T) {
	t.Parallel()

	toks := scanAll(`"a\tb\nc"`)
	assert.Equal(t, goString, toks[0].tok)
	assert.Equal(t, "a\tb\nc", toks[0].val)
}

func TestLexStringSingleQuoted(t *testing.T) {
	t.Parallel()

	toks := scanAll(`'it''s'`)
	// A lone backslash-escaped single quote, not SQL-style doubling.
	toks2 := scanAll(`'it\'s'`)
	assert.Equal(t, goString, toks2[0].tok)
	assert.Equal(t, "it's", toks2[0].val)
	_ = toks
}

func TestLexUnicodeEscape(t *testing.T) {
	t.Parallel()

	toks := scanAll(`"\u00e9"`)
	assert.Equal(t, goString, toks[0].tok)
	assert.Equal(t, "é", toks[0].val)
}

func TestLexSurrogatePair(t *testing.T) {
	t.Parallel()

	toks := scanAll(`"\ud83d\ude00"`)
	assert.Equal(t, goString, toks[0].tok)
	assert.Equal(t, "😀", toks[0].val)
}

func TestLexUnterminatedString(t *testing.T) {
	t.Parallel()

	toks := scanAll(`"abc`)
	assert.Equal(t, invalid, toks[0].tok)
}

func TestLexControlCharInString(t *testing.T) {
	t.Parallel()

	toks := scanAll("\"a\tb\"")
	assert.Equal(t, invalid, toks[0].tok)
}

func TestLexOperators(t *testing.T) {
	t.Parallel()

	toks := scanAll("== != <= >= < > && || !")
	assert.Equal(t, []tokenKind{'=', '=', '!', '=', '<', '=', '>', '=', '<', '>', '&', '&', '|', '|', '!', eof}, kinds(toks))
}

func TestLexTokenSpan(t *testing.T) {
	t.Parallel()

	lex := newLexer("$.abc")
	lex.scan() // '$'
	lex.scan() // '.'
	tok := lex.scan()
	assert.Equal(t, identifier, tok.tok)
	assert.Equal(t, 2, tok.pos)
	assert.Equal(t, 5, tok.end)
}

func TestLexTokenSpanMultiByte(t *testing.T) {
	t.Parallel()

	// "é" is 2 bytes in UTF-8 but a single rune: a span tracked over
	// rune indices instead of byte offsets would put ['b'] at pos 4, not
	// 5, after "$.é".
	lex := newLexer(`$.é.b`)
	lex.scan() // '$'
	lex.scan() // '.'
	ident := lex.scan()
	assert.Equal(t, identifier, ident.tok)
	assert.Equal(t, 2, ident.pos)
	assert.Equal(t, 4, ident.end) // 'é' occupies bytes [2,4)

	lex.scan() // '.'
	b := lex.scan()
	assert.Equal(t, identifier, b.tok)
	assert.Equal(t, 5, b.pos)
	assert.Equal(t, 6, b.end)
}

func TestTokenName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "end of input", token{tok: eof}.name())
	assert.Equal(t, "string", token{tok: goString}.name())
	assert.Equal(t, "'$'", token{tok: '$'}.name())
}
