package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultColumnsAreDense(t *testing.T) {
	cols := DefaultColumns()
	assert.Len(t, cols, 3)
	for i, col := range cols {
		assert.Equal(t, i, col.Order)
		assert.NotEmpty(t, col.Title)
		assert.NotEmpty(t, col.Color)
	}
	assert.Equal(t, "To Do", cols[0].Title)
	assert.Equal(t, "In Progress", cols[1].Title)
	assert.Equal(t, "Done", cols[2].Title)
}

func TestIsProtectedColumnTitle(t *testing.T) {
	for _, title := range []string{"Backlog", "backlog", "To Do", "todo", "IN PROGRESS", "Done", " done "} {
		assert.True(t, IsProtectedColumnTitle(title), title)
	}
	for _, title := range []string{"Review", "QA", "Icebox", ""} {
		assert.False(t, IsProtectedColumnTitle(title), title)
	}
}
