package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"productivity-app/backend/kanban-service/models"
)

func historyEntry(action models.HistoryAction) *HistoryEntry {
	return &HistoryEntry{TaskHistory: models.TaskHistory{Action: action}}
}

func TestDescribeMoved(t *testing.T) {
	entry := historyEntry(models.ActionMoved)
	entry.FromColumnTitle = "To Do"
	entry.ToColumnTitle = "Review"
	entry.FromStatus = "Todo"
	entry.ToStatus = "Review"

	assert.Equal(t, []string{
		"Moved: To Do → Review",
		"Change state: Todo → Review",
	}, describeHistory(entry))
}

func TestDescribeMovedFromBacklog(t *testing.T) {
	// Backlog is stored as an absent status; the renderer names it anyway.
	entry := historyEntry(models.ActionMoved)
	entry.FromColumnTitle = "Backlog"
	entry.ToColumnTitle = "To Do"
	entry.ToStatus = "Todo"

	assert.Equal(t, []string{
		"Moved: Backlog → To Do",
		"Change state: Backlog → Todo",
	}, describeHistory(entry))
}

func TestDescribeMovedToDone(t *testing.T) {
	entry := historyEntry(models.ActionMoved)
	entry.FromColumnTitle = "In Progress"
	entry.ToColumnTitle = "Done"
	entry.FromStatus = "In Progress"
	entry.ToStatus = "Done"

	lines := describeHistory(entry)
	assert.Contains(t, lines, "Marked as Done")
	assert.Equal(t, "Moved: In Progress → Done", lines[0])
}

func TestDescribeMovedIntoInProgressShowsDueDate(t *testing.T) {
	entry := historyEntry(models.ActionMoved)
	entry.FromColumnTitle = "To Do"
	entry.ToColumnTitle = "In Progress"
	entry.FromStatus = "Todo"
	entry.ToStatus = "In Progress"
	entry.Metadata = bson.M{"dueDate": "2025-01-01T00:00:00Z"}

	assert.Contains(t, describeHistory(entry), "Set due date to Jan 1, 2025")
}

func TestDescribeMovedWithMissingColumnTitle(t *testing.T) {
	entry := historyEntry(models.ActionMoved)
	entry.ToColumnTitle = "Done"
	entry.FromStatus = "Todo"
	entry.ToStatus = "Done"

	assert.Equal(t, "Moved: Unknown → Done", describeHistory(entry)[0])
}

func TestDescribeStatusChanged(t *testing.T) {
	entry := historyEntry(models.ActionStatusChanged)
	entry.FromStatus = "Todo"
	entry.ToStatus = "In Progress"

	assert.Equal(t, []string{"Change state: Todo → In Progress"}, describeHistory(entry))
}

func TestDescribeReopened(t *testing.T) {
	entry := historyEntry(models.ActionReopened)
	entry.FromStatus = "Done"
	entry.ToStatus = "Reopened"

	assert.Equal(t, []string{"Reopened: Done → Reopened"}, describeHistory(entry))
}

func TestDescribeUpdatedFields(t *testing.T) {
	entry := historyEntry(models.ActionUpdated)
	entry.Field = "title"
	entry.NewValue = "Ship it"
	assert.Equal(t, []string{`Title updated to "Ship it"`}, describeHistory(entry))

	entry = historyEntry(models.ActionUpdated)
	entry.Field = "content"
	entry.NewValue = "has content"
	assert.Equal(t, []string{"Description updated"}, describeHistory(entry))

	entry = historyEntry(models.ActionUpdated)
	entry.Field = "labels"
	entry.NewValue = "bug, urgent"
	assert.Equal(t, []string{"Labels updated to bug, urgent"}, describeHistory(entry))

	entry = historyEntry(models.ActionUpdated)
	entry.Field = "labels"
	assert.Equal(t, []string{"Labels updated to none"}, describeHistory(entry))
}

func TestDescribeCreatedHasNoLines(t *testing.T) {
	assert.Empty(t, describeHistory(historyEntry(models.ActionCreated)))
}

func TestDescribeSubtaskAdded(t *testing.T) {
	assert.Equal(t, []string{"Subtask added"}, describeHistory(historyEntry(models.ActionSubtaskAdded)))
}

func TestDescribeDeleted(t *testing.T) {
	entry := historyEntry(models.ActionDeleted)
	entry.Metadata = bson.M{"title": "Old task", "status": "In Progress"}

	assert.Equal(t, []string{
		"Task deleted",
		`Title was "Old task"`,
		"Last status: In Progress",
	}, describeHistory(entry))
}

func TestFormatDateValue(t *testing.T) {
	assert.Equal(t, "Jan 1, 2025", formatDateValue("2025-01-01T00:00:00Z"))
	assert.Equal(t, "not-a-date", formatDateValue("not-a-date"))
	assert.Equal(t, "42", formatDateValue(42))
}
