package check

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type age int

type score float64

type label string

type active bool

func TestIsFalsy(t *testing.T) {
	var nilPtr *string
	zero := 0
	name := "ada"

	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, true},
		{"false", false, true},
		{"true", true, false},
		{"empty string", "", true},
		{"string", "a", false},
		{"int zero", 0, true},
		{"int64 zero", int64(0), true},
		{"int", 7, false},
		{"float zero", 0.0, true},
		{"NaN", math.NaN(), true},
		{"json number zero", json.Number("0"), true},
		{"nil pointer", nilPtr, true},
		{"pointer to zero", &zero, true},
		{"pointer to string", &name, false},
		{"nil map", map[string]any(nil), true},
		{"empty map", map[string]any{}, false},
		{"named int zero", age(0), true},
		{"named int", age(3), false},
		{"named float zero", score(0), true},
		{"zero duration", time.Duration(0), true},
		{"named empty string", label(""), true},
		{"named string", label("x"), false},
		{"named false", active(false), true},
		{"named true", active(true), false},
		{"uint zero", uint8(0), true},
		{"nil slice", []any(nil), true},
		{"empty slice", []any{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsFalsy(tt.value))
		})
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify(0))
	assert.Equal(t, "hello", Stringify("HeLLo"))
	assert.Equal(t, "zoe", Stringify("Zoë"))
	assert.Equal(t, "elodie", Stringify("Élodie"))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "3.5", Stringify(3.5))
	assert.Equal(t, "raw", Stringify([]byte("RAW")))

	s := "Pointer"
	assert.Equal(t, "pointer", Stringify(&s))
}

func TestContains(t *testing.T) {
	t.Run("Case and accent insensitive", func(t *testing.T) {
		assert.True(t, Contains("Malmö", "malmo"))
		assert.True(t, Contains("hello world", "WORLD"))
		assert.False(t, Contains("hello", "bye"))
	})

	t.Run("Numbers are compared as text", func(t *testing.T) {
		assert.True(t, Contains(1234, 23))
		assert.True(t, Contains(1234, "34"))
		assert.False(t, Contains(1234, 5))
	})

	t.Run("Empty value is contained everywhere", func(t *testing.T) {
		assert.True(t, Contains("anything", ""))
		assert.True(t, Contains(nil, ""))
	})

	t.Run("Falsy entry only contains empty values", func(t *testing.T) {
		assert.False(t, Contains(nil, "a"))
		assert.False(t, Contains(0, "0"))
	})
}

func TestStartsWithEndsWith(t *testing.T) {
	assert.True(t, StartsWith("Lisbon", "lis"))
	assert.False(t, StartsWith("Lisbon", "bon"))
	assert.True(t, EndsWith("Lisbon", "BON"))
	assert.False(t, EndsWith("Lisbon", "lis"))
}

func TestNumericComparators(t *testing.T) {
	tests := []struct {
		name     string
		fn       Comparator
		entry    any
		value    any
		expected bool
	}{
		{"Equal numbers", IsEqualTo, 10, 10.0, true},
		{"Equal numeric string", IsEqualTo, int64(10), "10", true},
		{"Equal text", IsEqualTo, "Ada", "ada", true},
		{"Not equal", IsEqualTo, 10, 11, false},
		{"Greater", IsGreaterThan, 41, "30", true},
		{"Not greater", IsGreaterThan, 20, 30, false},
		{"Greater text", IsGreaterThan, "b", "a", true},
		{"Less", IsLessThan, 2.5, 3, true},
		{"Not less", IsLessThan, 3, 3, false},
		{"Named int greater", IsGreaterThan, age(10), 9, true},
		{"Named int not greater", IsGreaterThan, age(9), 10, false},
		{"Named float equal", IsEqualTo, score(2.5), "2.5", true},
		{"Duration less", IsLessThan, time.Second, int64(2 * time.Second), true},
		{"Named numeric string", IsGreaterThan, label("10"), 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fn(tt.entry, tt.value))
		})
	}
}

func TestLookup(t *testing.T) {
	for _, op := range []Operator{OperatorContains, OperatorStartsWith, OperatorEndsWith, OperatorEq, OperatorGt, OperatorLt} {
		c, ok := Lookup(op)
		assert.True(t, ok, "Expected operator %s to be registered", op)
		assert.NotNil(t, c)
	}

	_, ok := Lookup("custom_op")
	assert.False(t, ok)
}
