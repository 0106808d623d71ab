package table

import (
	"github.com/asaidimu/go-datatable/core/reactive"
	"go.uber.org/zap"
)

// PageController navigates between pages of a TableState. Requests outside
// the available pages, or made while pagination is disabled, are ignored.
type PageController struct {
	graph         *reactive.Graph
	logger        *zap.Logger
	table         string
	pageNumber    *reactive.Writable[int]
	rowCount      *reactive.Derived[RowCount]
	rowsPerPage   *reactive.Writable[int]
	changeCounter *reactive.Writable[int]
	pages         *reactive.Derived[[]int]
}

// NewPageController wraps the pagination values of s.
func NewPageController[T any](s *TableState[T]) *PageController {
	return &PageController{
		graph:         s.graph,
		logger:        s.logger,
		table:         s.id,
		pageNumber:    s.PageNumber,
		rowCount:      s.RowCount,
		rowsPerPage:   s.RowsPerPage,
		changeCounter: s.ChangeCounter,
		pages:         s.Pages,
	}
}

// Get returns the page list view.
func (p *PageController) Get() *reactive.Derived[[]int] {
	return p.pages
}

// Current returns the current page number.
func (p *PageController) Current() int {
	return p.pageNumber.Get()
}

// GoTo moves to page n when pagination is enabled and 1 <= n <= page count.
func (p *PageController) GoTo(n int) {
	rowsPerPage := p.rowsPerPage.Get()
	if rowsPerPage <= 0 {
		p.logger.Debug("Page change ignored, pagination disabled",
			zap.String("table", p.table),
			zap.Int("page", n),
		)
		return
	}

	total := p.rowCount.Get().Total
	if n < 1 || n > pageCountFor(total, rowsPerPage) {
		p.logger.Debug("Page change ignored, out of range",
			zap.String("table", p.table),
			zap.Int("page", n),
			zap.Int("total", total),
		)
		return
	}

	p.graph.Batch(func() {
		p.pageNumber.Set(n)
		p.changeCounter.Update(func(c int) int { return c + 1 })
	})
}

// Previous moves one page back.
func (p *PageController) Previous() {
	p.GoTo(p.pageNumber.Get() - 1)
}

// Next moves one page forward.
func (p *PageController) Next() {
	p.GoTo(p.pageNumber.Get() + 1)
}
