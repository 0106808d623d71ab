package table

import (
	"github.com/asaidimu/go-datatable/core/check"
	"go.uber.org/zap"
)

// Ellipsis marks an elided range in a page list. It never collides with a
// page number, which always starts at 1.
const Ellipsis = -1

// SelectScope decides what "all selected" is measured against.
type SelectScope string

// Supported select scopes.
const (
	SelectAll         SelectScope = "all"
	SelectCurrentPage SelectScope = "currentPage"
)

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec describes the requested ordering. The engine stores it for the
// rendering layer; it does not reorder rows itself.
type SortSpec[T any] struct {
	Identifier string
	Direction  SortDirection
	Fn         func(a, b T) int
}

// RowCount is the 1-based inclusive range of rows shown on the current page.
type RowCount struct {
	Total int `json:"total"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// GlobalSearch is a free-text term matched against every key of a row, or
// only the keys in Scope when Scope is non-nil. An empty Value disables it.
type GlobalSearch struct {
	Value string
	Scope []string
}

// Filter is a column-scoped predicate.
//
// FilterBy extracts the value to test from a row; when it is nil the filter
// reads the field named by Identifier. A nil or empty Value makes the filter
// pass every row. Compare replaces the default containment check.
type Filter[T any] struct {
	Identifier string
	FilterBy   func(row T) any
	Value      any
	Compare    check.Comparator
}

// Params configures a TableState.
type Params[T any] struct {
	// RowsPerPage is the page size. Zero or negative disables pagination.
	RowsPerPage int

	// Fields enumerates a row's searchable fields. Defaults to utils.Fields.
	Fields func(row T) map[string]any

	// Equal identifies rows when toggling selection. Defaults to
	// reflect.DeepEqual.
	Equal func(a, b T) bool

	Logger *zap.Logger
}
