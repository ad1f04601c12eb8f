// Package value provides an order-preserving representation of a JSON
// object for use with [github.com/theory/jsonpath]. RFC 9535 requires that
// an object's members be visited in the order encountered during parsing
// (see the WildCard and Descendant segment rules); a plain Go
// map[string]any cannot honor that, so Object exists to carry it.
package value

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Object is an order-preserving JSON object: a sequence of name/value
// members in the order they were inserted. Unlike map[string]any, ranging
// over an Object's members (via [Object.Names] or [Object.Range]) always
// visits them in insertion order, which RFC 9535 requires for predictable
// WildCard and Descendant segment traversal.
//
// The zero value is an empty Object ready to use.
type Object struct {
	names []string
	index map[string]int
	vals  []any
}

// NewObject returns a new, empty Object with capacity for size members.
func NewObject(size int) *Object {
	return &Object{
		names: make([]string, 0, size),
		index: make(map[string]int, size),
		vals:  make([]any, 0, size),
	}
}

// Set assigns value to name in o, preserving name's original insertion
// position if it already exists, or appending it as a new member if not.
func (o *Object) Set(name string, val any) {
	if o.index == nil {
		o.index = map[string]int{}
	}
	if i, ok := o.index[name]; ok {
		o.vals[i] = val
		return
	}
	o.index[name] = len(o.names)
	o.names = append(o.names, name)
	o.vals = append(o.vals, val)
}

// Get returns the value of member name in o and true if it exists, or nil
// and false if it does not.
func (o *Object) Get(name string) (any, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.vals[i], true
}

// Len returns the number of members in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.names)
}

// Names returns the member names of o in insertion order. The returned
// slice must not be modified.
func (o *Object) Names() []string {
	if o == nil {
		return nil
	}
	return o.names
}

// Values returns the member values of o in the same order as [Object.Names].
// The returned slice must not be modified.
func (o *Object) Values() []any {
	if o == nil {
		return nil
	}
	return o.vals
}

// Range calls f for each member of o in insertion order. Iteration stops
// early if f returns false.
func (o *Object) Range(f func(name string, val any) bool) {
	if o == nil {
		return
	}
	for i, name := range o.names {
		if !f(name, o.vals[i]) {
			return
		}
	}
}

// String returns a JSON-like string representation of o. It is intended
// for debugging, not as a canonical JSON encoding.
func (o *Object) String() string {
	buf := new(strings.Builder)
	buf.WriteByte('{')
	o.Range(func(name string, val any) bool {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(buf, "%q:%v", name, val)
		return true
	})
	buf.WriteByte('}')
	return buf.String()
}

// Decode reads a single JSON value from dec, preserving the member
// order of any objects it contains by building them as [*Object] rather
// than map[string]any. Arrays decode to []any and scalars decode using
// [encoding/json.Decoder]'s default Go types (nil, bool, json.Number or
// float64, string).
func Decode(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeValue(dec, tok)
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("value: unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject(0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("value: expected object key, got %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
	// Consume closing '}'.
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := []any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// Consume closing ']'.
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, err
	}
	return arr, nil
}

// FromMap builds an *Object from m. Since Go map iteration order is
// undefined, the resulting Object's member order is undefined too; prefer
// [Decode] when source order matters.
func FromMap(m map[string]any) *Object {
	obj := NewObject(len(m))
	for k, v := range m {
		obj.Set(k, v)
	}
	return obj
}
