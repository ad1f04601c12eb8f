package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedPathRoot(t *testing.T) {
	t.Parallel()

	var p *NormalizedPath
	assert.Equal(t, "$", p.String())
	assert.Empty(t, p.Elements())
}

func TestNormalizedPathPush(t *testing.T) {
	t.Parallel()

	p := (*NormalizedPath)(nil).Push(NameElement("store")).Push(NameElement("book")).Push(IndexElement(0))
	assert.Equal(t, "$['store']['book'][0]", p.String())

	elems := p.Elements()
	assert.Len(t, elems, 3)
	assert.False(t, elems[0].IsIndex())
	assert.Equal(t, "store", elems[0].Name())
	assert.True(t, elems[2].IsIndex())
	assert.Equal(t, 0, elems[2].Index())
}

func TestNormalizedPathSharedPrefix(t *testing.T) {
	t.Parallel()

	base := (*NormalizedPath)(nil).Push(NameElement("a"))
	left := base.Push(IndexElement(0))
	right := base.Push(IndexElement(1))

	assert.Equal(t, "$['a'][0]", left.String())
	assert.Equal(t, "$['a'][1]", right.String())
	assert.Equal(t, "$['a']", base.String())
}

func TestNormalizedPathEscaping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		want string
	}{
		{"a", "$['a']"},
		{"a'b", `$['a\'b']`},
		{`a\b`, `$['a\\b']`},
		{"a\tb", `$['a\tb']`},
		{"a\nb", `$['a\nb']`},
		{"a" + "\x01" + "b", `$['a\u0001b']`},
	}

	for _, c := range cases {
		c := c
		t.Run(c.want, func(t *testing.T) {
			t.Parallel()
			p := (*NormalizedPath)(nil).Push(NameElement(c.name))
			assert.Equal(t, c.want, p.String())
		})
	}
}
