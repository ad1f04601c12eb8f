package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theory/jsonpath/spec"
)

func TestNewHasStandardFunctions(t *testing.T) {
	t.Parallel()

	reg := New()
	for _, name := range []string{"length", "count", "value", "match", "search"} {
		assert.NotNil(t, reg.Get(name), name)
	}
	assert.Nil(t, reg.Get("nosuch"))
}

func TestRegisterCustomFunction(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(&spec.Function{
		Name:       "double",
		ResultType: spec.FuncValue,
		Validate: func(args []spec.FunctionExprArg) error {
			if len(args) != 1 {
				return assert.AnError
			}
			return nil
		},
		Evaluate: func(args []spec.JSONPathValue) spec.JSONPathValue {
			v := spec.ValueFrom(args[0])
			n, _ := v.Value().(int64)
			return spec.Value(n * 2)
		},
	})

	fn := reg.Get("double")
	require.NotNil(t, fn)
	assert.Equal(t, "double", fn.Name)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	t.Parallel()

	reg := New()
	assert.Panics(t, func() {
		reg.Register(&spec.Function{Name: "length", Evaluate: lengthFunc})
	})
}

func TestRegisterNilPanics(t *testing.T) {
	t.Parallel()

	reg := New()
	assert.Panics(t, func() { reg.Register(nil) })
}

func TestNewFunctionExprUnregistered(t *testing.T) {
	t.Parallel()

	reg := New()
	_, err := reg.NewFunctionExpr("nosuch", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnregistered)
}

func TestNewFunctionExprInvalidArgs(t *testing.T) {
	t.Parallel()

	reg := New()
	_, err := reg.NewFunctionExpr("length", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgs)
}

func TestNewFunctionExprValid(t *testing.T) {
	t.Parallel()

	reg := New()
	fe, err := reg.NewFunctionExpr("length", []spec.FunctionExprArg{spec.Literal("abc")})
	require.NoError(t, err)
	assert.Equal(t, `length('abc')`, fe.String())
}

func TestLengthFunc(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		arg  spec.JSONPathValue
		want any
	}{
		{"string", spec.Value("héllo"), 5},
		{"array", spec.Value([]any{1, 2, 3}), 3},
		{"number", spec.Value(42), nil},
		{"nothing", (*spec.ValueType)(nil), nil},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := lengthFunc([]spec.JSONPathValue{c.arg})
			assert.Equal(t, c.want, spec.ValueFrom(got).Value())
		})
	}
}

func TestCountFunc(t *testing.T) {
	t.Parallel()

	got := countFunc([]spec.JSONPathValue{spec.NodesType{1, 2, 3}})
	assert.Equal(t, 3, spec.ValueFrom(got).Value())

	got = countFunc([]spec.JSONPathValue{spec.NodesType{}})
	assert.Equal(t, 0, spec.ValueFrom(got).Value())
}

func TestValueFunc(t *testing.T) {
	t.Parallel()

	got := valueFunc([]spec.JSONPathValue{spec.NodesType{"x"}})
	assert.Equal(t, "x", spec.ValueFrom(got).Value())

	got = valueFunc([]spec.JSONPathValue{spec.NodesType{"x", "y"}})
	assert.Nil(t, spec.ValueFrom(got).Value())

	got = valueFunc([]spec.JSONPathValue{spec.NodesType{}})
	assert.Nil(t, spec.ValueFrom(got).Value())
}

func TestMatchAndSearchFuncs(t *testing.T) {
	t.Parallel()

	oracle := GoRegexOracle{}
	match := matchFunc(oracle)
	search := searchFunc(oracle)

	args := func(text, pattern string) []spec.JSONPathValue {
		return []spec.JSONPathValue{spec.Value(text), spec.Value(pattern)}
	}

	assert.True(t, match(args("abc", "a.c")).(spec.LogicalType).Bool())
	assert.False(t, match(args("xabc", "a.c")).(spec.LogicalType).Bool())
	assert.True(t, search(args("xabcx", "a.c")).(spec.LogicalType).Bool())
	assert.False(t, search(args("xyz", "a.c")).(spec.LogicalType).Bool())
}
