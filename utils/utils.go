// Package utils is the reflection boundary between typed Go rows and the
// key/value view the table engine searches over.
package utils

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/asaidimu/go-datatable/core"
)

// StructToMap converts a Go struct into a map[string]any.
//
// Field names follow `json` tags: a tag name overrides the Go name, "-" skips
// the field and unexported fields are ignored. Embedded structs without a tag
// are flattened into the parent. Nested structs (and pointers to structs)
// become nested map[string]any values so that callers can walk them, except
// for types that render themselves as text (fmt.Stringer,
// encoding.TextMarshaler), which are kept as-is.
//
// The input record must be a struct or a non-nil pointer to a struct.
//
// Example:
//
//	type Address struct {
//		City string `json:"city"`
//	}
//	type Person struct {
//		Name    string  `json:"name"`
//		Address Address `json:"address"`
//	}
//	m, _ := StructToMap(Person{Name: "Ada", Address: Address{City: "London"}})
//	// m == map[string]any{"name": "Ada", "address": map[string]any{"city": "London"}}
func StructToMap[T any](record T) (map[string]any, error) {
	val := reflect.ValueOf(record)
	if !val.IsValid() {
		return nil, fmt.Errorf("input record cannot be nil")
	}

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("input record cannot be a nil pointer to a struct")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input record must be a struct or a pointer to a struct, got %s", val.Kind())
	}

	result := make(map[string]any, val.NumField())
	structFields(val, result)
	return result, nil
}

func structFields(val reflect.Value, out map[string]any) {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		fv := val.Field(i)
		if field.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Ptr {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				structFields(inner, out)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		out[name] = nestedValue(fv)
	}
}

// nestedValue turns nested structs into maps and leaves everything else alone.
func nestedValue(fv reflect.Value) any {
	if !fv.CanInterface() {
		return nil
	}
	v := fv.Interface()
	if isTextual(v) {
		return v
	}

	inner := fv
	if inner.Kind() == reflect.Ptr {
		if inner.IsNil() {
			return nil
		}
		inner = inner.Elem()
		if inner.CanInterface() && isTextual(inner.Interface()) {
			return inner.Interface()
		}
	}
	if inner.Kind() == reflect.Struct {
		nested := make(map[string]any, inner.NumField())
		structFields(inner, nested)
		return nested
	}
	return v
}

func isTextual(v any) bool {
	switch v.(type) {
	case fmt.Stringer, encoding.TextMarshaler:
		return true
	}
	return false
}

// MapToStruct converts a map[string]any into a new instance of T by way of a
// JSON round trip, so `json` tags on T decide the field mapping.
//
// T must be a struct type or a pointer to a struct type.
//
// Example:
//
//	type UserProfile struct {
//		ID   string `json:"id"`
//		Name string `json:"name"`
//	}
//	user, err := MapToStruct[UserProfile](map[string]any{"id": "user-456", "name": "Jane"})
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T

	if input == nil {
		return zero, fmt.Errorf("MapToStruct: input map cannot be nil")
	}

	typ := reflect.TypeOf(zero)
	if typ == nil {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got interface")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to marshal input map to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to unmarshal JSON to target struct: %w", err)
	}

	return result, nil
}

// Fields returns the key/value view of a row.
//
// core.Fielder implementations and map[string]any are used directly; other
// maps with string keys are copied; structs go through StructToMap. Anything
// else (scalars, nil, rows that fail conversion) has no fields and returns nil.
func Fields(row any) map[string]any {
	switch r := row.(type) {
	case nil:
		return nil
	case core.Fielder:
		return r.Fields()
	case map[string]any:
		return r
	}

	val := reflect.ValueOf(row)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}

	switch val.Kind() {
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil
		}
		out := make(map[string]any, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	case reflect.Struct:
		m, err := StructToMap(val.Interface())
		if err != nil {
			return nil
		}
		return m
	}
	return nil
}
