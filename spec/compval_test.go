package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func compareLiterals(t *testing.T, op CompOp, left, right any) bool {
	t.Helper()
	ce := Comparison(Literal(left), op, Literal(right))
	return ce.testFilter(nil, nil)
}

func TestCompareEqualTo(t *testing.T) {
	t.Parallel()

	assert.True(t, compareLiterals(t, EqualTo, 1, 1))
	assert.True(t, compareLiterals(t, EqualTo, 1, 1.0))
	assert.True(t, compareLiterals(t, EqualTo, "a", "a"))
	assert.False(t, compareLiterals(t, EqualTo, "a", "b"))
	assert.False(t, compareLiterals(t, EqualTo, 1, "1"))
	assert.True(t, compareLiterals(t, EqualTo, nil, nil))
	assert.False(t, compareLiterals(t, EqualTo, nil, 0))
}

func TestCompareNothingEqualsNothing(t *testing.T) {
	t.Parallel()

	ce := Comparison(
		SingularQuery(true, []Selector{Name("missing")}),
		EqualTo,
		SingularQuery(true, []Selector{Name("alsoMissing")}),
	)
	root := map[string]any{}
	assert.True(t, ce.testFilter(root, root))
}

func TestCompareOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, compareLiterals(t, LessThan, 1, 2))
	assert.False(t, compareLiterals(t, LessThan, 2, 1))
	assert.True(t, compareLiterals(t, LessThanEqualTo, 2, 2))
	assert.True(t, compareLiterals(t, GreaterThan, 2, 1))
	assert.True(t, compareLiterals(t, GreaterThanEqualTo, 2, 2))
	assert.True(t, compareLiterals(t, LessThan, "a", "b"))
	assert.False(t, compareLiterals(t, LessThan, "b", "a"))
}

func TestCompareIncomparableTypesNeverOrdered(t *testing.T) {
	t.Parallel()

	assert.False(t, compareLiterals(t, LessThan, 1, "1"))
	assert.False(t, compareLiterals(t, GreaterThan, 1, "1"))
	assert.False(t, compareLiterals(t, LessThan, true, false))
	assert.False(t, compareLiterals(t, LessThan, []any{1}, []any{2}))
}

func TestCompareArrays(t *testing.T) {
	t.Parallel()

	assert.True(t, compareLiterals(t, EqualTo, []any{1, 2}, []any{1, 2}))
	assert.False(t, compareLiterals(t, EqualTo, []any{1, 2}, []any{2, 1}))
	assert.False(t, compareLiterals(t, EqualTo, []any{1}, []any{1, 2}))
}

func TestComparisonExprString(t *testing.T) {
	t.Parallel()

	ce := Comparison(SingularQuery(false, []Selector{Name("a")}), EqualTo, Literal(int64(1)))
	assert.Equal(t, "@['a'] == 1", ce.String())
}

func TestSingularQueryExprRelativeAndRoot(t *testing.T) {
	t.Parallel()

	root := map[string]any{"a": map[string]any{"b": 1}}

	rel := SingularQuery(false, []Selector{Name("b")})
	assert.Equal(t, "@['b']", rel.String())
	assert.True(t, rel.IsRelative())

	abs := SingularQuery(true, []Selector{Name("a"), Name("b")})
	assert.Equal(t, "$['a']['b']", abs.String())
	assert.False(t, abs.IsRelative())

	v := abs.asValue(root, root)
	assert.Equal(t, 1, v.Value())
}

func TestSingularQueryExprMissingIsNothing(t *testing.T) {
	t.Parallel()

	root := map[string]any{}
	sq := SingularQuery(true, []Selector{Name("nope")})
	v := sq.asValue(root, root)
	assert.Nil(t, v)
}
