package table

import (
	"fmt"
	"reflect"

	"github.com/asaidimu/go-datatable/core"
	"github.com/asaidimu/go-datatable/core/check"
	"github.com/asaidimu/go-datatable/utils"
)

// ByField returns an accessor reading key from a row's fields.
func ByField[T any](key string) func(row T) any {
	return func(row T) any {
		return utils.Fields(row)[key]
	}
}

// accessor returns FilterBy, or a lookup of Identifier in the row's fields.
func (f Filter[T]) accessor(fields func(row T) map[string]any) func(row T) any {
	if f.FilterBy != nil {
		return f.FilterBy
	}
	key := f.Identifier
	return func(row T) any {
		return fields(row)[key]
	}
}

// isUnset reports whether a filter value disables the filter.
func isUnset(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// Matches reports whether entry satisfies value.
//
// Falsy entries (nil, zero, "", false) go straight to compare, or to the
// default containment check. Object-shaped entries (maps, structs, slices)
// match when any of their members matches. Everything else is tested with
// compare when given and containment otherwise.
//
// A numeric zero is treated like a missing value here, so a compare function
// sees it before any object handling.
func Matches(entry, value any, compare check.Comparator) bool {
	entry = check.Indirect(entry)
	if check.IsFalsy(entry) {
		if compare != nil {
			return compare(entry, value)
		}
		return check.Contains(entry, value)
	}
	if children, ok := members(entry); ok {
		for _, child := range children {
			if Matches(child, value, compare) {
				return true
			}
		}
		return false
	}
	if compare == nil {
		return check.Contains(entry, value)
	}
	return compare(entry, value)
}

// members returns the values held by an object-shaped entry.
func members(entry any) ([]any, bool) {
	switch e := entry.(type) {
	case core.Fielder:
		return values(e.Fields()), true
	case string, []byte:
		return nil, false
	case fmt.Stringer:
		return nil, false
	case map[string]any:
		return values(e), true
	case []any:
		return e, true
	}

	rv := reflect.ValueOf(entry)
	switch rv.Kind() {
	case reflect.Map:
		out := make([]any, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, iter.Value().Interface())
		}
		return out, true
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	case reflect.Struct:
		return values(utils.Fields(entry)), true
	}
	return nil, false
}

func values(m map[string]any) []any {
	out := make([]any, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// searchRow reports whether any scoped field of row matches term.
func searchRow(fields map[string]any, search GlobalSearch) bool {
	if search.Scope == nil {
		for _, v := range fields {
			if Matches(v, search.Value, nil) {
				return true
			}
		}
		return false
	}
	for _, key := range search.Scope {
		if Matches(fields[key], search.Value, nil) {
			return true
		}
	}
	return false
}

func keep[T any](rows []T, pred func(row T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}
