package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/jsonpath/registry"
	"github.com/theory/jsonpath/spec"
)

func mustParse(t *testing.T, path string) string {
	t.Helper()
	q, err := Parse(registry.New(), path)
	require.NoError(t, err, path)
	return q.String()
}

func TestParseBasicSegments(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"$":                 "$",
		"$.a":               "$['a']",
		"$['a']":            "$['a']",
		"$[0]":              "$[0]",
		"$[-1]":             "$[-1]",
		"$.*":               "$[*]",
		"$[*]":              "$[*]",
		"$..a":              "$..['a']",
		"$..*":              "$..[*]",
		"$[1:4:2]":          "$[1:4:2]",
		"$[1:]":             "$[1:]",
		"$[:4]":             "$[:4]",
		"$[:]":              "$[:]",
		"$.a.b":             "$['a']['b']",
		"$.a['b'][0]":       "$['a']['b'][0]",
		"$['a','b']":        "$['a', 'b']",
		"$[0,1]":            "$[0, 1]",
		"$.store.book[*]":   "$['store']['book'][*]",
		"$  .  a":           "$['a']",
	}

	for src, want := range cases {
		src, want := src, want
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, mustParse(t, src))
		})
	}
}

func TestParseFilterExistence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$[?@['a']]", mustParse(t, "$[?@.a]"))
	assert.Equal(t, "$[?!@['a']]", mustParse(t, "$[?!@.a]"))
}

func TestParseFilterComparison(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"$[?@.a==1]":        "$[?@['a'] == 1]",
		"$[?@.a != 'x']":    "$[?@['a'] != 'x']",
		"$[?@.a<=3]":        "$[?@['a'] <= 3]",
		"$[?@.a < 3]":       "$[?@['a'] < 3]",
		"$[?@.a >= 3]":      "$[?@['a'] >= 3]",
		"$[?@.a>3]":         "$[?@['a'] > 3]",
		"$[?$.x == @.y]":    "$[?$['x'] == @['y']]",
		"$[?@.a == null]":   "$[?@['a'] == null]",
		"$[?@.a == true]":   "$[?@['a'] == true]",
	}

	for src, want := range cases {
		src, want := src, want
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, mustParse(t, src))
		})
	}
}

func TestParseLogicalCombinators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$[?@['a'] == 1 && @['b'] == 2]", mustParse(t, "$[?@.a==1 && @.b==2]"))
	assert.Equal(t, "$[?@['a'] == 1 || @['b'] == 2]", mustParse(t, "$[?@.a==1 || @.b==2]"))
	assert.Equal(t, "$[?(@['a'] == 1)]", mustParse(t, "$[?(@.a==1)]"))
	assert.Equal(t, "$[?!(@['a'] == 1)]", mustParse(t, "$[?!(@.a==1)]"))
}

func TestParseFunctions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$[?length(@['a']) == 3]", mustParse(t, "$[?length(@.a)==3]"))
	assert.Equal(t, "$[?count(@[*]) == 2]", mustParse(t, "$[?count(@.*)==2]"))
	assert.Equal(t, "$[?match(@['a'], 'x.*')]", mustParse(t, "$[?match(@.a, 'x.*')]"))
	assert.Equal(t, "$[?!match(@['a'], 'x.*')]", mustParse(t, "$[?!match(@.a, 'x.*')]"))
	assert.Equal(t, "$[?search(@['a'], 'x') && @['b']]", mustParse(t, "$[?search(@.a,'x') && @.b]"))
}

func TestParseNestedFilterQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$[?count(@..['a'][?@['b']]) > 0]", mustParse(t, "$[?count(@..a[?@.b]) > 0]"))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"":                    ErrParse,
		"a":                   ErrParse,
		"$.":                  ErrParse,
		"$[":                  ErrParse,
		"$['a'":               ErrParse,
		"$[?@.a==]":           ErrParse,
		"$[1.]":               ErrLex,
		"$[\"abc]":            ErrLex,
		"$[?nosuch(@)]":       ErrParse,
		"$[-0]":               ErrParse,
		"$[::0]":              spec.ErrInvalid,
		"$[1:4:0]":            spec.ErrInvalid,
		"$[9007199254740992]": spec.ErrInvalid,
		"$[?length(@.a,@.b)]": spec.ErrInvalid,
	}

	for src, wantErr := range cases {
		src, wantErr := src, wantErr
		t.Run(src, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(registry.New(), src)
			require.Error(t, err)
			assert.ErrorIs(t, err, wantErr)
		})
	}
}

func TestParseErrorSpan(t *testing.T) {
	t.Parallel()

	_, err := Parse(registry.New(), "$.a.")
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	start, end := synErr.Span()
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)
}

func TestParseSliceNegativeAndOmitted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$[::-1]", mustParse(t, "$[::-1]"))
	assert.Equal(t, "$[-5:]", mustParse(t, "$[-5:]"))
}
