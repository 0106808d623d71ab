// Package table is the state engine behind a data table display.
//
// A TableState owns the primitive controls of a table (the raw rows, a global
// search, column filters, sort spec, page size, page number and selection)
// and derives from them the rows to render along with pagination and
// selection metadata. Derived views are kept current through a reactive
// graph, so reading them never triggers work and never observes a partially
// applied change.
//
// A TableState is single-writer: callers serialise mutations themselves.
package table

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/asaidimu/go-datatable/core/reactive"
	"github.com/asaidimu/go-datatable/utils"
	"github.com/asaidimu/go-events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TableState is the reactive context of one table.
type TableState[T any] struct {
	id     string
	graph  *reactive.Graph
	logger *zap.Logger
	fields func(row T) map[string]any
	equal  func(a, b T) bool
	pages  *PageController

	bus           *events.TypedEventBus[TableEvent]
	subscriptions map[string]*SubscriptionInfo
	subMu         sync.RWMutex

	// Primitive state.
	RawRows       *reactive.Writable[[]T]
	GlobalSearch  *reactive.Writable[GlobalSearch]
	Filters       *reactive.Writable[[]Filter[T]]
	RowsPerPage   *reactive.Writable[int]
	PageNumber    *reactive.Writable[int]
	ChangeCounter *reactive.Writable[int]
	Sorted        *reactive.Writable[SortSpec[T]]
	Selected      *reactive.Writable[[]T]
	SelectScope   *reactive.Writable[SelectScope]

	// Derived views.
	FilteredRows      *reactive.Derived[[]T]
	Rows              *reactive.Derived[[]T]
	RowCount          *reactive.Derived[RowCount]
	Pages             *reactive.Derived[[]int]
	PagesWithEllipsis *reactive.Derived[[]int]
	PageCount         *reactive.Derived[int]
	IsAllSelected     *reactive.Derived[bool]
}

// New builds a TableState over rows.
func New[T any](rows []T, params Params[T]) (*TableState[T], error) {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bus, err := newEventBus(logger)
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	s := &TableState[T]{
		id:            uuid.NewString(),
		graph:         reactive.NewGraph(logger),
		logger:        logger,
		fields:        params.Fields,
		equal:         params.Equal,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}
	if s.fields == nil {
		s.fields = func(row T) map[string]any { return utils.Fields(row) }
	}
	if s.equal == nil {
		s.equal = func(a, b T) bool { return reflect.DeepEqual(a, b) }
	}
	if rows == nil {
		rows = []T{}
	}

	g := s.graph
	g.Batch(func() {
		s.RowsPerPage = reactive.NewComparable(g, params.RowsPerPage)
		s.PageNumber = reactive.NewComparable(g, 1)
		s.ChangeCounter = reactive.NewComparable(g, 0)
		s.GlobalSearch = reactive.NewWritable(g, GlobalSearch{})
		s.Filters = reactive.NewWritable(g, []Filter[T]{})
		s.RawRows = reactive.NewWritable(g, rows)
		s.Sorted = reactive.NewWritable(g, SortSpec[T]{})
		s.Selected = reactive.NewWritable(g, []T{})
		s.SelectScope = reactive.NewComparable(g, SelectAll)

		s.FilteredRows = reactive.NewDerived(g, s.deriveFilteredRows,
			s.RawRows, s.GlobalSearch, s.Filters)
		s.Rows = reactive.NewDerived(g, s.derivePaginatedRows,
			s.FilteredRows, s.RowsPerPage, s.PageNumber)
		s.RowCount = reactive.NewDerived(g, func() RowCount {
			return countRows(len(s.FilteredRows.Get()), s.RowsPerPage.Get(), s.PageNumber.Get())
		}, s.FilteredRows, s.PageNumber, s.RowsPerPage)
		s.Pages = reactive.NewDerived(g, func() []int {
			return pageList(len(s.FilteredRows.Get()), s.RowsPerPage.Get())
		}, s.RowsPerPage, s.FilteredRows)
		s.PagesWithEllipsis = reactive.NewDerived(g, func() []int {
			return withEllipsis(s.Pages.Get(), s.PageNumber.Get())
		}, s.Pages, s.PageNumber)
		s.PageCount = reactive.NewDerived(g, func() int {
			return len(s.Pages.Get())
		}, s.Pages)
		s.IsAllSelected = reactive.NewDerived(g, func() bool {
			return allSelected(len(s.Selected.Get()), len(s.Rows.Get()), len(s.FilteredRows.Get()), s.SelectScope.Get())
		}, s.Selected, s.Rows, s.FilteredRows, s.SelectScope)
	})

	s.pages = NewPageController(s)
	s.watch()

	logger.Debug("Table state created",
		zap.String("table", s.id),
		zap.Int("rows", len(rows)),
		zap.Int("rowsPerPage", params.RowsPerPage),
	)
	return s, nil
}

// ID returns the identifier carried by this table's events.
func (s *TableState[T]) ID() string {
	return s.id
}

// Graph returns the graph the state's values live on, for callers that want
// to group several mutations into one propagation pass with Batch.
func (s *TableState[T]) Graph() *reactive.Graph {
	return s.graph
}

// Paginator returns the page navigation controller.
func (s *TableState[T]) Paginator() *PageController {
	return s.pages
}

func (s *TableState[T]) deriveFilteredRows() []T {
	rows := s.RawRows.Get()
	search := s.GlobalSearch.Get()
	filters := s.Filters.Get()

	if search.Value != "" {
		rows = keep(rows, func(row T) bool {
			return searchRow(s.fields(row), search)
		})
		s.resetView()
	}

	if len(filters) > 0 {
		for _, f := range filters {
			if isUnset(f.Value) {
				continue
			}
			filterBy := f.accessor(s.fields)
			rows = keep(rows, func(row T) bool {
				return Matches(filterBy(row), f.Value, f.Compare)
			})
		}
		s.resetView()
	}

	s.logger.Debug("Filtered rows recomputed",
		zap.String("table", s.id),
		zap.Int("raw", len(s.RawRows.Get())),
		zap.Int("filtered", len(rows)),
	)
	return rows
}

// resetView moves the page and selection back to their neutral state after
// the filtered row set has been replaced.
func (s *TableState[T]) resetView() {
	s.PageNumber.Set(1)
	s.Selected.Set([]T{})
	s.bump()
}

func (s *TableState[T]) derivePaginatedRows() []T {
	rowsPerPage := s.RowsPerPage.Get()
	if rowsPerPage <= 0 {
		return s.FilteredRows.Get()
	}
	s.bump()
	return paginate(s.FilteredRows.Get(), rowsPerPage, s.PageNumber.Get())
}

func (s *TableState[T]) bump() {
	s.ChangeCounter.Update(func(n int) int { return n + 1 })
}
