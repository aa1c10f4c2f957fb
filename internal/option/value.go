package option

import (
	"fmt"
	"reflect"
	"strings"
)

// Value is a normalized selection. A single-mode value holds zero or one
// item; a multiple-mode value holds any number. The zero Value is an empty
// single selection.
//
// Values are immutable: every method that would change the selection
// returns a new Value.
type Value struct {
	items    []string
	multiple bool
}

// Empty returns an empty selection of the given multiplicity.
func Empty(multiple bool) Value {
	return Value{multiple: multiple}
}

// Single returns a single-mode selection of s.
func Single(s string) Value {
	return Normalize(s, false)
}

// Multi returns a multiple-mode selection of items, in order.
func Multi(items ...string) Value {
	return Normalize(items, true)
}

// Normalize canonicalizes v for the given multiplicity.
//
// In multiple mode nil and "" become an empty list, a scalar becomes a one-item
// list and list elements are stringified in place. Duplicates are kept;
// removing them is the caller's job.
//
// In single mode nil and "" are empty and scalars are stringified. A list
// is accepted and collapses to its first element, so a host that swaps a
// field from multiple to single keeps the first choice.
func Normalize(v any, multiple bool) Value {
	items := toItems(v)
	if multiple {
		if items == nil {
			items = []string{}
		}
		return Value{items: items, multiple: true}
	}
	if len(items) == 0 || items[0] == "" {
		return Value{}
	}
	return Value{items: items[:1:1]}
}

func toItems(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case Value:
		return x.Strings()
	case *Value:
		if x == nil {
			return nil
		}
		return x.Strings()
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case []any:
		out := make([]string, len(x))
		for i, e := range x {
			out[i] = stringify(e)
		}
		return out
	case fmt.Stringer:
		return []string{x.String()}
	}

	// Typed slices such as []int or []Option are stringified per element.
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
		out := make([]string, rv.Len())
		for i := range out {
			out[i] = stringify(rv.Index(i).Interface())
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Option:
		return x.Value
	case NormalizedOption:
		return x.Value
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Multiple reports whether v is a multiple-mode selection.
func (v Value) Multiple() bool { return v.multiple }

// IsEmpty reports whether nothing is selected.
func (v Value) IsEmpty() bool { return len(v.items) == 0 }

// Len returns the number of selected items.
func (v Value) Len() int { return len(v.items) }

// String returns the single selected value, or the items joined by ","
// for a multiple selection.
func (v Value) String() string {
	if !v.multiple {
		if len(v.items) == 0 {
			return ""
		}
		return v.items[0]
	}
	return strings.Join(v.items, ",")
}

// Strings returns a copy of the selected items.
func (v Value) Strings() []string {
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Any returns the value in the shape a host expects: a string in single
// mode, a []string in multiple mode.
func (v Value) Any() any {
	if v.multiple {
		return v.Strings()
	}
	return v.String()
}

// Contains reports whether s is selected.
func (v Value) Contains(s string) bool {
	for _, it := range v.items {
		if it == s {
			return true
		}
	}
	return false
}

// Equal reports whether both values have the same multiplicity and items
// in the same order.
func (v Value) Equal(o Value) bool {
	if v.multiple != o.multiple || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// With returns v with the items appended, skipping any already present.
// For a single selection the last item replaces the current one.
func (v Value) With(items ...string) Value {
	if !v.multiple {
		if len(items) == 0 {
			return v
		}
		return Single(items[len(items)-1])
	}
	out := v.Strings()
	for _, it := range items {
		if !containsString(out, it) {
			out = append(out, it)
		}
	}
	return Value{items: out, multiple: true}
}

// Without returns v with the items removed. A single selection becomes
// empty when it holds one of them.
func (v Value) Without(items ...string) Value {
	out := make([]string, 0, len(v.items))
	for _, it := range v.items {
		if !containsString(items, it) {
			out = append(out, it)
		}
	}
	if !v.multiple {
		return Normalize(out, false)
	}
	return Value{items: out, multiple: true}
}

// As converts v to the given multiplicity.
func (v Value) As(multiple bool) Value {
	return Normalize(v.items, multiple)
}

func containsString(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}
