package table

import (
	"testing"

	"github.com/asaidimu/go-datatable/core"
	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	s := newState(t, makeRows(6), 3)
	rows := s.Rows.Get()

	s.Select(rows[0])
	s.Select(rows[2])
	assert.True(t, s.IsSelected(rows[0]))
	assert.False(t, s.IsSelected(rows[1]))
	assert.Equal(t, []int{1, 3}, ids(s.GetSelected()))

	s.Select(rows[0])
	assert.False(t, s.IsSelected(rows[0]))
	assert.Equal(t, []int{3}, ids(s.GetSelected()))

	s.ClearSelection()
	assert.Empty(t, s.GetSelected())
}

func TestGetSelectedReturnsCopy(t *testing.T) {
	s := newState(t, makeRows(3), 0)
	s.Select(s.Rows.Get()[0])

	selected := s.GetSelected()
	selected[0] = core.Document{"id": 99}
	assert.Equal(t, []int{1}, ids(s.GetSelected()))
}

func TestSelectAll(t *testing.T) {
	t.Run("All filtered rows", func(t *testing.T) {
		s := newState(t, makeRows(7), 3)
		s.SelectAll()
		assert.Len(t, s.Selected.Get(), 7)
		assert.True(t, s.IsAllSelected.Get())
	})

	t.Run("Current page only", func(t *testing.T) {
		s := newState(t, makeRows(7), 3)
		s.SetSelectScope(SelectCurrentPage)
		s.Paginator().GoTo(3)
		s.SelectAll()
		assert.Equal(t, []int{7}, ids(s.Selected.Get()))
		assert.True(t, s.IsAllSelected.Get())

		s.Paginator().GoTo(2)
		assert.False(t, s.IsAllSelected.Get())
	})

	t.Run("Empty table is never all selected", func(t *testing.T) {
		s := newState(t, nil, 3)
		s.SelectAll()
		assert.False(t, s.IsAllSelected.Get())
	})
}

func TestToggleAll(t *testing.T) {
	s := newState(t, makeRows(5), 2)

	s.ToggleAll()
	assert.Len(t, s.Selected.Get(), 5)

	s.ToggleAll()
	assert.Empty(t, s.Selected.Get())

	s.Select(s.Rows.Get()[0])
	s.ToggleAll()
	assert.Len(t, s.Selected.Get(), 5, "a partial selection is completed")
}

func TestIsAllSelectedAfterRowsShrink(t *testing.T) {
	rows := makeRows(5)
	s := newState(t, rows, 0)
	s.SelectAll()
	assert.True(t, s.IsAllSelected.Get())

	s.SetRows(rows[:4])
	assert.Len(t, s.Selected.Get(), 5, "selection survives a row change without search or filters")
	assert.False(t, s.IsAllSelected.Get())
}

func TestSelectScopeSwitch(t *testing.T) {
	s := newState(t, makeRows(6), 3)
	s.SetSelectScope(SelectCurrentPage)
	s.SelectAll()
	assert.True(t, s.IsAllSelected.Get())

	s.SetSelectScope(SelectAll)
	assert.False(t, s.IsAllSelected.Get())
}
