package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type code int

func (c code) String() string { return "c" }

func TestNormalizeMultiple(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "empty string", in: "", want: []string{}},
		{name: "scalar", in: "a", want: []string{"a"}},
		{name: "number", in: 42, want: []string{"42"}},
		{name: "stringer", in: code(1), want: []string{"c"}},
		{name: "string slice", in: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "mixed slice", in: []any{"a", 2, nil, true}, want: []string{"a", "2", "", "true"}},
		{name: "duplicates kept", in: []string{"a", "a"}, want: []string{"a", "a"}},
		{name: "empty slice", in: []string{}, want: []string{}},
		{name: "int slice", in: []int{1, 2}, want: []string{"1", "2"}},
		{name: "float array", in: [2]float64{1.5, 2}, want: []string{"1.5", "2"}},
		{name: "stringer slice", in: []code{1, 1}, want: []string{"c", "c"}},
		{name: "option slice", in: []Option{{Value: "pt", Text: "Portugal"}, {Value: "es", Text: "Spain"}}, want: []string{"pt", "es"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.in, true)
			assert.True(t, v.Multiple())
			assert.Equal(t, tt.want, v.Strings())
		})
	}
}

func TestNormalizeSingle(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "empty", in: "", want: ""},
		{name: "empty slice", in: []string{}, want: ""},
		{name: "scalar", in: "x", want: "x"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "slice takes first", in: []string{"b", "c"}, want: "b"},
		{name: "slice with empty first", in: []any{"", "c"}, want: ""},
		{name: "int slice takes first", in: []int{1, 2}, want: "1"},
		{name: "empty int slice", in: []int{}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Normalize(tt.in, false)
			assert.False(t, v.Multiple())
			assert.Equal(t, tt.want, v.String())
			assert.Equal(t, tt.want == "", v.IsEmpty())
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []any{nil, "", "a", 3, []string{"a", "a"}, []any{1, nil}, Multi("x"), Single("y")}
	for _, in := range inputs {
		for _, multiple := range []bool{false, true} {
			once := Normalize(in, multiple)
			assert.True(t, once.Equal(Normalize(once, multiple)), "input %v multiple=%v", in, multiple)
		}
	}
}

func TestValueWithWithout(t *testing.T) {
	v := Multi("a")
	v2 := v.With("b", "a")
	assert.Equal(t, []string{"a", "b"}, v2.Strings())
	assert.Equal(t, []string{"a"}, v.Strings(), "original untouched")

	assert.Equal(t, []string{"b"}, v2.Without("a").Strings())

	s := Single("a").With("b")
	assert.Equal(t, "b", s.String())
	assert.True(t, s.Without("b").IsEmpty())
	assert.Equal(t, "b", s.Without("z").String())
}

func TestValueAny(t *testing.T) {
	assert.Equal(t, "a", Single("a").Any())
	assert.Equal(t, []string{"a", "b"}, Multi("a", "b").Any())
	assert.Equal(t, "a,b", Multi("a", "b").String())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Multi().Equal(Empty(true)))
	assert.False(t, Multi().Equal(Empty(false)))
	assert.False(t, Multi("a", "b").Equal(Multi("b", "a")))
}

func TestValueAs(t *testing.T) {
	assert.Equal(t, "a", Multi("a", "b").As(false).String())
	assert.Equal(t, []string{"a"}, Single("a").As(true).Strings())
}
