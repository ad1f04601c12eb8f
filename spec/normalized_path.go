package spec

import (
	"strconv"
	"strings"
)

// PathElement is a single step of a [NormalizedPath]: either a Name or an
// Index, per RFC 9535 §2.7.
type PathElement struct {
	name    string
	index   int
	isIndex bool
}

// NameElement returns a PathElement selecting object member name.
func NameElement(name string) PathElement { return PathElement{name: name} }

// IndexElement returns a PathElement selecting array element index.
func IndexElement(index int) PathElement { return PathElement{index: index, isIndex: true} }

// IsIndex returns true if e is an array index step.
func (e PathElement) IsIndex() bool { return e.isIndex }

// Name returns the member name of e. Meaningless if e.IsIndex() is true.
func (e PathElement) Name() string { return e.name }

// Index returns the array index of e. Meaningless if e.IsIndex() is false.
func (e PathElement) Index() int { return e.index }

// writeTo writes the canonical bracketed representation of e to buf: either
// ['<escaped-name>'] or [<index>], per RFC 9535 §2.7.
func (e PathElement) writeTo(buf *strings.Builder) {
	buf.WriteByte('[')
	if e.isIndex {
		buf.WriteString(strconv.Itoa(e.index))
	} else {
		buf.WriteByte('\'')
		writeEscapedName(buf, e.name)
		buf.WriteByte('\'')
	}
	buf.WriteByte(']')
}

// writeEscapedName writes name to buf, escaped for inclusion inside single
// quotes per RFC 9535 §2.7: backslash, single quote, and the JSON control
// characters U+0000-U+001F, preferring the named escapes \b \f \n \r \t
// where RFC 9535 names them and falling back to \u00XX otherwise.
func writeEscapedName(buf *strings.Builder, name string) {
	for _, r := range name {
		switch r {
		case '\\':
			buf.WriteString(`\\`)
		case '\'':
			buf.WriteString(`\'`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u`)
				hex := strconv.FormatInt(int64(r), 16)
				for i := len(hex); i < 4; i++ {
					buf.WriteByte('0')
				}
				buf.WriteString(hex)
			} else {
				buf.WriteRune(r)
			}
		}
	}
}

// NormalizedPath is the canonical, unambiguous path to a single node in a
// JSON value, built of [PathElement] steps from the root. A nil
// *NormalizedPath represents $ itself (the root, with no steps).
//
// It's represented as a persistent linked list (shared prefix, single
// trailing step) so that extending a path during a tree walk never copies
// the steps that came before it; [NormalizedPath.Elements] flattens it into
// a slice, and [NormalizedPath.String] renders its canonical textual form,
// only when a caller actually needs either.
type NormalizedPath struct {
	parent *NormalizedPath
	elem   PathElement
}

// Push returns a new NormalizedPath extending p by elem. p may be nil
// (extending the root).
func (p *NormalizedPath) Push(elem PathElement) *NormalizedPath {
	return &NormalizedPath{parent: p, elem: elem}
}

// Elements returns the path elements of p from the root down, as a newly
// allocated slice. Returns an empty (non-nil) slice for a nil p.
func (p *NormalizedPath) Elements() []PathElement {
	n := 0
	for cur := p; cur != nil; cur = cur.parent {
		n++
	}
	elems := make([]PathElement, n)
	for cur := p; cur != nil; cur = cur.parent {
		n--
		elems[n] = cur.elem
	}
	return elems
}

// String returns the canonical textual representation of p: "$" followed by
// a bracketed step for each [PathElement], per RFC 9535 §2.7.
func (p *NormalizedPath) String() string {
	buf := new(strings.Builder)
	buf.WriteByte('$')
	for _, e := range p.Elements() {
		e.writeTo(buf)
	}
	return buf.String()
}
