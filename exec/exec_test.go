package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/jsonpath/spec"
	"github.com/theory/jsonpath/value"
)

func obj(pairs ...any) *value.Object {
	o := value.NewObject(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}
	return o
}

func TestSelectName(t *testing.T) {
	t.Parallel()

	root := obj("a", 1.0, "b", 2.0)
	query := spec.Query(true, spec.Child(spec.Name("a")))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0}, nl.Values())
	assert.Equal(t, []string{"$['a']"}, pathStrings(nl))
}

func TestSelectWildcardArray(t *testing.T) {
	t.Parallel()

	root := []any{10.0, 20.0, 30.0}
	query := spec.Query(true, spec.Child(spec.Wildcard))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{10.0, 20.0, 30.0}, nl.Values())
	assert.Equal(t, []string{"$[0]", "$[1]", "$[2]"}, pathStrings(nl))
}

func TestSelectIndexNegative(t *testing.T) {
	t.Parallel()

	root := []any{10.0, 20.0, 30.0}
	query := spec.Query(true, spec.Child(spec.Index(-1)))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{30.0}, nl.Values())
	assert.Equal(t, []string{"$[2]"}, pathStrings(nl))
}

func TestSelectSlice(t *testing.T) {
	t.Parallel()

	root := []any{0.0, 1.0, 2.0, 3.0, 4.0}
	query := spec.Query(true, spec.Child(spec.Slice(1, 4, 2)))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, nl.Values())
}

func TestSelectDescendant(t *testing.T) {
	t.Parallel()

	root := obj("a", obj("b", 1.0), "c", []any{2.0, obj("d", 3.0)})
	query := spec.Query(true, spec.Descendant(spec.Name("d")))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{3.0}, nl.Values())
	assert.Equal(t, []string{"$['c'][1]['d']"}, pathStrings(nl))
}

func TestSelectDescendantPreOrder(t *testing.T) {
	t.Parallel()

	// [[[99]],[88]]: pre-order must visit the 99 branch to the bottom
	// before moving on to the 88 sibling. The wildcard at the root emits
	// both of its children first; each later visited node then adds its
	// own children, so 99 comes out ahead of 88.
	root := []any{[]any{[]any{99.0}}, []any{88.0}}
	query := spec.Query(true, spec.Descendant(spec.Wildcard))

	nl, err := Select(context.Background(), query, root)
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{[]any{99.0}}, []any{88.0}, []any{99.0}, 99.0, 88.0,
	}, nl.Values())
}

func TestFirstAndExists(t *testing.T) {
	t.Parallel()

	root := []any{1.0, 2.0}
	query := spec.Query(true, spec.Child(spec.Wildcard))

	ok, err := Exists(context.Background(), query, root)
	require.NoError(t, err)
	assert.True(t, ok)

	n, found, err := First(context.Background(), query, root)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1.0, n.Value())

	empty, found, err := First(context.Background(), spec.Query(true, spec.Child(spec.Name("nope"))), root)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, Node{}, empty)
}

func TestSelectCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := []any{1.0, 2.0}
	query := spec.Query(true, spec.Child(spec.Wildcard))

	_, err := Select(ctx, query, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func pathStrings(nl *NodeList) []string {
	paths := nl.Paths()
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}
