package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Token kinds that aren't a literal rune (every punctuation character —
// '$', '@', '.', '*', '[', ']', ',', ':', '?', '(', ')', '=', '!', '<',
// '>', '&', '|' — is its own token, keyed by its own rune value). These
// sentinels sit below any valid Unicode code point so they never
// collide with one.
const (
	eof tokenKind = -1 - iota
	invalid
	identifier
	goString
	integer
	number
	boolTrue
	boolFalse
	jsonNull
	blankSpace
)

type tokenKind = rune

// token is a single lexical unit: its kind, the text it carries (the
// decoded string for a goString, the digits for a number, the name for
// an identifier), and the [pos,end) byte span it occupies in the
// source, for error reporting.
type token struct {
	tok tokenKind
	val string
	pos int
	end int
}

// name returns a human-readable description of t's kind, used to build
// "unexpected X" parse errors.
func (t token) name() string {
	switch t.tok {
	case eof:
		return "end of input"
	case invalid:
		return "invalid token"
	case identifier:
		return "identifier"
	case goString:
		return "string"
	case integer, number:
		return "number"
	case boolTrue, boolFalse:
		return "boolean"
	case jsonNull:
		return "null"
	case blankSpace:
		return "blank space"
	default:
		return strconv.QuoteRune(t.tok)
	}
}

// lexer scans a JSONPath query string one token at a time. It holds a
// single rune of lookahead in r: after scan returns a token, r is
// already positioned on the rune that follows it, so the parser can
// peek ahead (lex.r == '.') without consuming a token.
//
// src is decoded to []rune up front so advancing and looking ahead are
// O(1) regardless of UTF-8 encoding width, but every token span reported
// to a caller (see scan, scanBlankSpace) is tracked in bytePos, not pos:
// spec.md's byte-offset contract for Span() must hold for multi-byte
// input (an object member name containing non-ASCII characters, say),
// where a rune index and a byte offset diverge.
type lexer struct {
	src     []rune
	pos     int // index into src
	bytePos int // byte offset into the original path string
	r       rune
}

// newLexer returns a lexer positioned at the start of path.
func newLexer(path string) *lexer {
	l := &lexer{src: []rune(path)}
	if len(l.src) == 0 {
		l.r = eof
	} else {
		l.r = l.src[0]
	}
	return l
}

func (l *lexer) advance() {
	if l.pos < len(l.src) {
		l.bytePos += utf8.RuneLen(l.src[l.pos])
	}
	l.pos++
	if l.pos >= len(l.src) {
		l.r = eof
	} else {
		l.r = l.src[l.pos]
	}
}

func (l *lexer) isBlankSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// skipBlankSpace consumes any run of blank space starting at l.r and
// returns the rune that follows it (or l.r unchanged if it wasn't
// blank).
func (l *lexer) skipBlankSpace() rune {
	for l.isBlankSpace(l.r) {
		l.advance()
	}
	return l.r
}

// scanBlankSpace consumes a run of blank space as a single blankSpace
// token, starting at l.r (which must be blank).
func (l *lexer) scanBlankSpace() token {
	pos := l.bytePos
	l.skipBlankSpace()
	return token{tok: blankSpace, pos: pos}
}

// peekPastBlankSpace returns the rune following any blank space at l.r,
// without consuming anything.
func (l *lexer) peekPastBlankSpace() rune {
	i := l.pos
	for i < len(l.src) && l.isBlankSpace(l.src[i]) {
		i++
	}
	if i >= len(l.src) {
		return eof
	}
	return l.src[i]
}

// scan consumes and returns the next token, leaving l.r on the rune
// that follows it. The returned token's end is always set to l.bytePos
// after the token-specific scan* method below has finished advancing
// past it, so a span can be reported for any token kind.
func (l *lexer) scan() token {
	pos := l.bytePos
	var t token
	switch {
	case l.r == eof:
		t = token{tok: eof, pos: pos}
	case l.isBlankSpace(l.r):
		t = l.scanBlankSpace()
	case l.r == '\'' || l.r == '"':
		t = l.scanString(pos)
	case l.r == '-' || isDigit(l.r):
		t = l.scanNumber(pos)
	case isIdentStart(l.r):
		t = l.scanIdent(pos)
	default:
		r := l.r
		l.advance()
		t = token{tok: r, pos: pos}
	}
	t.end = l.bytePos
	return t
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return r == '_' || xid.Start(r) }

func isIdentContinue(r rune) bool { return r == '_' || xid.Continue(r) }

// scanIdent scans a bare identifier — a function name or a member-name
// shorthand after '.' — classifying the JSON keywords true, false, and
// null as their own token kinds rather than as a generic identifier.
func (l *lexer) scanIdent(pos int) token {
	var b strings.Builder
	b.WriteRune(l.r)
	l.advance()
	for isIdentContinue(l.r) {
		b.WriteRune(l.r)
		l.advance()
	}

	val := b.String()
	switch val {
	case "true":
		return token{tok: boolTrue, val: val, pos: pos}
	case "false":
		return token{tok: boolFalse, val: val, pos: pos}
	case "null":
		return token{tok: jsonNull, val: val, pos: pos}
	default:
		return token{tok: identifier, val: val, pos: pos}
	}
}

// scanNumber scans an integer or number (float) literal per RFC 9535
// §2.3.5.1's "number" production: an optional leading '-', an integer
// part, and an optional fractional part and/or exponent — the presence
// of either of the latter two is what distinguishes a number from a
// plain integer.
func (l *lexer) scanNumber(pos int) token {
	var b strings.Builder
	isFloat := false

	if l.r == '-' {
		b.WriteRune(l.r)
		l.advance()
	}
	if !isDigit(l.r) {
		return token{tok: invalid, val: "invalid number literal", pos: pos}
	}
	for isDigit(l.r) {
		b.WriteRune(l.r)
		l.advance()
	}

	if l.r == '.' {
		isFloat = true
		b.WriteRune(l.r)
		l.advance()
		if !isDigit(l.r) {
			return token{tok: invalid, val: "invalid number literal", pos: pos}
		}
		for isDigit(l.r) {
			b.WriteRune(l.r)
			l.advance()
		}
	}

	if l.r == 'e' || l.r == 'E' {
		isFloat = true
		b.WriteRune(l.r)
		l.advance()
		if l.r == '+' || l.r == '-' {
			b.WriteRune(l.r)
			l.advance()
		}
		if !isDigit(l.r) {
			return token{tok: invalid, val: "invalid number literal", pos: pos}
		}
		for isDigit(l.r) {
			b.WriteRune(l.r)
			l.advance()
		}
	}

	if isFloat {
		return token{tok: number, val: b.String(), pos: pos}
	}
	return token{tok: integer, val: b.String(), pos: pos}
}

// scanString scans a single- or double-quoted string literal per RFC
// 9535 §2.3.1.1, decoding backslash escapes as it goes.
func (l *lexer) scanString(pos int) token {
	quote := l.r
	l.advance()

	var b strings.Builder
	for {
		switch {
		case l.r == eof:
			return token{tok: invalid, val: "unterminated string literal", pos: pos}
		case l.r == quote:
			l.advance()
			return token{tok: goString, val: b.String(), pos: pos}
		case l.r == '\\':
			l.advance()
			if !l.scanEscape(&b) {
				return token{tok: invalid, val: "invalid escape sequence", pos: pos}
			}
		case l.r < 0x20:
			return token{tok: invalid, val: "unescaped control character in string literal", pos: pos}
		default:
			b.WriteRune(l.r)
			l.advance()
		}
	}
}

// scanEscape decodes the escape sequence starting at l.r (the
// character just after the backslash) and appends it to b. Returns
// false for an unrecognized escape.
func (l *lexer) scanEscape(b *strings.Builder) bool {
	switch l.r {
	case '"':
		b.WriteByte('"')
	case '\'':
		b.WriteByte('\'')
	case '\\':
		b.WriteByte('\\')
	case '/':
		b.WriteByte('/')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		l.advance()
		return l.scanUnicodeEscape(b)
	default:
		return false
	}
	l.advance()
	return true
}

// scanUnicodeEscape decodes a \uXXXX escape, including a UTF-16
// surrogate pair spread across two consecutive \uXXXX escapes, starting
// at l.r (the first hex digit).
func (l *lexer) scanUnicodeEscape(b *strings.Builder) bool {
	r1, ok := l.readHex4()
	if !ok {
		return false
	}

	if !utf16.IsSurrogate(r1) {
		b.WriteRune(r1)
		return true
	}

	if l.r != '\\' {
		return false
	}
	l.advance()
	if l.r != 'u' {
		return false
	}
	l.advance()

	r2, ok := l.readHex4()
	if !ok {
		return false
	}

	dec := utf16.DecodeRune(r1, r2)
	if dec == unicode.ReplacementChar {
		return false
	}
	b.WriteRune(dec)
	return true
}

func (l *lexer) readHex4() (rune, bool) {
	var v rune
	for i := 0; i < 4; i++ {
		d := hexDigit(l.r)
		if d < 0 {
			return 0, false
		}
		v = v*16 + d
		l.advance()
	}
	return v, true
}

func hexDigit(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	case r >= 'A' && r <= 'F':
		return r - 'A' + 10
	default:
		return -1
	}
}
