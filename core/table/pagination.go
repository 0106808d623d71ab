package table

// paginate returns the rows of page, or all rows when pagination is off.
func paginate[T any](rows []T, rowsPerPage, page int) []T {
	if rowsPerPage <= 0 {
		return rows
	}
	start := max((page-1)*rowsPerPage, 0)
	if start >= len(rows) {
		return []T{}
	}
	end := min(page*rowsPerPage, len(rows))
	return rows[start:end:end]
}

func countRows(total, rowsPerPage, page int) RowCount {
	if rowsPerPage <= 0 {
		return RowCount{Total: total, Start: 1, End: total}
	}
	return RowCount{
		Total: total,
		Start: page*rowsPerPage - rowsPerPage + 1,
		End:   min(page*rowsPerPage, total),
	}
}

// pageCountFor is ceil(total / rowsPerPage).
func pageCountFor(total, rowsPerPage int) int {
	return (total + rowsPerPage - 1) / rowsPerPage
}

func pageList(total, rowsPerPage int) []int {
	if rowsPerPage <= 0 {
		return []int{1}
	}
	pages := make([]int, pageCountFor(total, rowsPerPage))
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// withEllipsis compresses pages to at most seven entries around page.
// The middle window is pages[page-2 : page+1], the current page and its two
// neighbours.
func withEllipsis(pages []int, page int) []int {
	if len(pages) <= 7 {
		return pages
	}
	const first = 1
	last := len(pages)

	switch {
	case page <= 4:
		out := append(make([]int, 0, 7), pages[:5]...)
		return append(out, Ellipsis, last)
	case page < len(pages)-3:
		out := append(make([]int, 0, 7), first, Ellipsis)
		out = append(out, pages[page-2:page+1]...)
		return append(out, Ellipsis, last)
	default:
		out := append(make([]int, 0, 7), first, Ellipsis)
		return append(out, pages[len(pages)-5:]...)
	}
}

func allSelected(selected, pageRows, filteredRows int, scope SelectScope) bool {
	count := filteredRows
	if scope == SelectCurrentPage {
		count = pageRows
	}
	return count == selected && count != 0
}
