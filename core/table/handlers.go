package table

import (
	"slices"

	"go.uber.org/zap"
)

// SetRows replaces the raw rows.
func (s *TableState[T]) SetRows(rows []T) {
	if rows == nil {
		rows = []T{}
	}
	s.RawRows.Set(rows)
}

// Search sets the global search term. With no scope every field of a row is
// searched.
func (s *TableState[T]) Search(value string, scope ...string) {
	var sc []string
	if len(scope) > 0 {
		sc = slices.Clone(scope)
	}
	s.GlobalSearch.Set(GlobalSearch{Value: value, Scope: sc})
}

// ClearSearch removes the global search term.
func (s *TableState[T]) ClearSearch() {
	s.GlobalSearch.Set(GlobalSearch{})
}

// Filter adds f, replacing any filter with the same identifier. A filter
// whose value is unset removes the existing one instead.
func (s *TableState[T]) Filter(f Filter[T]) {
	current := s.Filters.Get()
	next := make([]Filter[T], 0, len(current)+1)
	for _, existing := range current {
		if f.Identifier != "" && existing.Identifier == f.Identifier {
			continue
		}
		next = append(next, existing)
	}
	if !isUnset(f.Value) {
		next = append(next, f)
	}
	s.logger.Debug("Filter set",
		zap.String("table", s.id),
		zap.String("identifier", f.Identifier),
		zap.Int("filters", len(next)),
	)
	s.Filters.Set(next)
}

// RemoveFilter drops the filter registered under identifier.
func (s *TableState[T]) RemoveFilter(identifier string) {
	current := s.Filters.Get()
	next := slices.DeleteFunc(slices.Clone(current), func(f Filter[T]) bool {
		return f.Identifier == identifier
	})
	if len(next) == len(current) {
		return
	}
	s.Filters.Set(next)
}

// ClearFilters drops every filter.
func (s *TableState[T]) ClearFilters() {
	s.Filters.Set([]Filter[T]{})
}

// SetRowsPerPage changes the page size and returns to the first page. Zero
// or negative disables pagination.
func (s *TableState[T]) SetRowsPerPage(n int) {
	s.graph.Batch(func() {
		s.RowsPerPage.Set(n)
		s.PageNumber.Set(1)
	})
}

// SetSort stores the sort spec for the rendering layer.
func (s *TableState[T]) SetSort(spec SortSpec[T]) {
	s.Sorted.Set(spec)
}

// Select toggles row in the selection.
func (s *TableState[T]) Select(row T) {
	current := s.Selected.Get()
	for i, selected := range current {
		if s.equal(selected, row) {
			s.Selected.Set(slices.Delete(slices.Clone(current), i, i+1))
			return
		}
	}
	next := append(slices.Clone(current), row)
	s.Selected.Set(next)
}

// IsSelected reports whether row is part of the selection.
func (s *TableState[T]) IsSelected(row T) bool {
	for _, selected := range s.Selected.Get() {
		if s.equal(selected, row) {
			return true
		}
	}
	return false
}

// SelectAll selects every row in the current select scope: the visible page
// or every filtered row.
func (s *TableState[T]) SelectAll() {
	scoped := s.FilteredRows.Get()
	if s.SelectScope.Get() == SelectCurrentPage {
		scoped = s.Rows.Get()
	}
	s.Selected.Set(slices.Clone(scoped))
}

// ToggleAll clears the selection when everything in scope is selected and
// selects everything in scope otherwise.
func (s *TableState[T]) ToggleAll() {
	if s.IsAllSelected.Get() {
		s.ClearSelection()
		return
	}
	s.SelectAll()
}

// ClearSelection empties the selection.
func (s *TableState[T]) ClearSelection() {
	s.Selected.Set([]T{})
}

// SetSelectScope changes what SelectAll and IsAllSelected refer to.
func (s *TableState[T]) SetSelectScope(scope SelectScope) {
	s.SelectScope.Set(scope)
}

// GetSelected returns a copy of the selection.
func (s *TableState[T]) GetSelected() []T {
	return slices.Clone(s.Selected.Get())
}
