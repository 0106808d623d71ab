// Package check supplies the default comparators used by the table engine
// when a filter or the global search does not bring its own. Values are
// compared the way a person scanning a table would: case and accent
// insensitive, with numbers compared numerically when both sides are numbers.
package check

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode"

	"github.com/asaidimu/go-datatable/core"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Comparator reports whether a row entry satisfies a filter value.
type Comparator func(entry, value any) bool

// Operator names a standard comparator.
type Operator string

// Supported operators.
const (
	OperatorContains   Operator = "contains"
	OperatorStartsWith Operator = "startswith"
	OperatorEndsWith   Operator = "endswith"
	OperatorEq         Operator = "eq"
	OperatorGt         Operator = "gt"
	OperatorLt         Operator = "lt"
)

var standardComparators = map[Operator]Comparator{
	OperatorContains:   Contains,
	OperatorStartsWith: StartsWith,
	OperatorEndsWith:   EndsWith,
	OperatorEq:         IsEqualTo,
	OperatorGt:         IsGreaterThan,
	OperatorLt:         IsLessThan,
}

// Lookup returns the standard comparator registered for op.
func Lookup(op Operator) (Comparator, bool) {
	c, ok := standardComparators[op]
	return c, ok
}

// Indirect dereferences pointers until it reaches a non-pointer value or nil.
func Indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.CanInterface() {
		return v
	}
	return rv.Interface()
}

// IsFalsy reports whether v counts as an absent value: nil, false, numeric
// zero, NaN, the empty string, or a nil pointer, map, slice, func or channel.
func IsFalsy(v any) bool {
	if v == nil {
		return true
	}
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return err == nil && f == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return true
		}
	}
	if rv.Kind() == reflect.Ptr {
		return IsFalsy(Indirect(v))
	}
	return false
}

// Stringify renders v as lower-case text with diacritics removed. Falsy
// values render as the empty string.
func Stringify(v any) string {
	if IsFalsy(v) {
		return ""
	}
	v = Indirect(v)

	var s string
	switch x := v.(type) {
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		s = fmt.Sprint(x)
	}
	return fold(s)
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Contains reports whether the text of entry contains the text of value.
// An empty value is contained in every entry.
func Contains(entry, value any) bool {
	return strings.Contains(Stringify(entry), Stringify(value))
}

// StartsWith reports whether the text of entry begins with the text of value.
func StartsWith(entry, value any) bool {
	return strings.HasPrefix(Stringify(entry), Stringify(value))
}

// EndsWith reports whether the text of entry ends with the text of value.
func EndsWith(entry, value any) bool {
	return strings.HasSuffix(Stringify(entry), Stringify(value))
}

// IsEqualTo compares numerically when both sides are numbers (or numeric
// strings) and textually otherwise.
func IsEqualTo(entry, value any) bool {
	if a, b, ok := numbers(entry, value); ok {
		return a == b
	}
	return Stringify(entry) == Stringify(value)
}

// IsGreaterThan reports entry > value, numerically when possible.
func IsGreaterThan(entry, value any) bool {
	if a, b, ok := numbers(entry, value); ok {
		return a > b
	}
	return Stringify(entry) > Stringify(value)
}

// IsLessThan reports entry < value, numerically when possible.
func IsLessThan(entry, value any) bool {
	if a, b, ok := numbers(entry, value); ok {
		return a < b
	}
	return Stringify(entry) < Stringify(value)
}

func numbers(entry, value any) (float64, float64, bool) {
	a, okA := core.ToFloat64(Indirect(entry))
	if !okA {
		return 0, 0, false
	}
	b, okB := core.ToFloat64(Indirect(value))
	if !okB {
		return 0, 0, false
	}
	return a, b, true
}
