package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/models"
)

func newTestTask(status models.Status) *models.Task {
	return &models.Task{
		ID:     primitive.NewObjectID(),
		Column: primitive.NewObjectID(),
		Board:  primitive.NewObjectID(),
		Title:  "Ship the release",
		Order:  0,
		Labels: []string{},
		Status: status,
	}
}

func newTestColumn(title string) *models.Column {
	return &models.Column{ID: primitive.NewObjectID(), Title: title}
}

func eventActions(events []historyEvent) []models.HistoryAction {
	actions := make([]models.HistoryAction, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.action)
	}
	return actions
}

func TestPlanMoveBacklogToTodo(t *testing.T) {
	task := newTestTask(models.StatusBacklog)
	dest := newTestColumn("To Do")
	now := time.Now()

	plan, err := planTransition(task, dest, UpdateTaskInput{}, now)
	require.NoError(t, err)

	assert.True(t, plan.statusChanged)
	assert.True(t, plan.newStatus.IsTodo())
	assert.Equal(t, models.StatusTodo, plan.set["status"])

	require.Equal(t, []models.HistoryAction{models.ActionMoved}, eventActions(plan.events))
	moved := plan.events[0]
	assert.Equal(t, task.Column, *moved.fromColumn)
	assert.Equal(t, dest.ID, *moved.toColumn)
	assert.Equal(t, "Backlog", moved.fromStatus)
	assert.Equal(t, "Todo", moved.toStatus)
}

func TestPlanMoveToInProgressWithoutDueDateIsRejected(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	dest := newTestColumn("In Progress")

	plan, err := planTransition(task, dest, UpdateTaskInput{}, time.Now())
	assert.Nil(t, plan)

	var gate *DueDateRequiredError
	require.True(t, errors.As(err, &gate))
}

func TestPlanMoveToInProgressWithSuppliedDueDate(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	dest := newTestColumn("In Progress")
	due := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	plan, err := planTransition(task, dest, UpdateTaskInput{DueDate: &due}, now)
	require.NoError(t, err)

	assert.Equal(t, now, plan.set["startDate"])
	assert.Equal(t, due, plan.set["dueDate"])

	require.Equal(t, []models.HistoryAction{models.ActionMoved}, eventActions(plan.events))
	moved := plan.events[0]
	assert.Equal(t, "In Progress", moved.toStatus)
	require.NotNil(t, moved.metadata)
	assert.Equal(t, due.Format(time.RFC3339), moved.metadata["dueDate"])
}

func TestPlanStartDateOnlyStampedOnce(t *testing.T) {
	started := time.Now().Add(-48 * time.Hour)
	due := time.Now().Add(24 * time.Hour)
	task := newTestTask(models.StatusTodo)
	task.StartDate = &started
	task.DueDate = &due
	dest := newTestColumn("In Progress")

	plan, err := planTransition(task, dest, UpdateTaskInput{}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, plan.set, "startDate")
}

func TestPlanMoveInProgressToDone(t *testing.T) {
	started := time.Now().Add(-48 * time.Hour)
	due := time.Now().Add(24 * time.Hour)
	task := newTestTask(models.StatusInProgress)
	task.StartDate = &started
	task.DueDate = &due
	dest := newTestColumn("Done")
	now := time.Now()

	plan, err := planTransition(task, dest, UpdateTaskInput{}, now)
	require.NoError(t, err)

	assert.Equal(t, now, plan.set["endDate"])
	assert.Equal(t, true, plan.set["isCompleted"])
	assert.NotContains(t, plan.set, "startDate")
	assert.NotContains(t, plan.set, "dueDate")

	require.Equal(t, []models.HistoryAction{models.ActionMoved}, eventActions(plan.events))
	assert.Equal(t, "In Progress", plan.events[0].fromStatus)
	assert.Equal(t, "Done", plan.events[0].toStatus)
}

func TestPlanEnteringDoneBackfillsAllDates(t *testing.T) {
	// A task dragged straight to Done never started and has no estimate;
	// both get backfilled so cycle time and lead time stay defined.
	task := newTestTask(models.StatusBacklog)
	dest := newTestColumn("Done")
	now := time.Now()

	plan, err := planTransition(task, dest, UpdateTaskInput{}, now)
	require.NoError(t, err)

	assert.Equal(t, now, plan.set["startDate"])
	assert.Equal(t, now, plan.set["endDate"])
	assert.Equal(t, now, plan.set["dueDate"])
	assert.Equal(t, true, plan.set["isCompleted"])
}

func TestPlanDoneBackToTodoBecomesReopened(t *testing.T) {
	ended := time.Now().Add(-time.Hour)
	task := newTestTask(models.StatusDone)
	task.EndDate = &ended
	task.IsCompleted = true
	dest := newTestColumn("To Do")

	plan, err := planTransition(task, dest, UpdateTaskInput{}, time.Now())
	require.NoError(t, err)

	assert.True(t, plan.newStatus.IsReopened())
	assert.Equal(t, models.StatusReopened, plan.set["status"])
	assert.Nil(t, plan.set["endDate"])
	assert.Equal(t, false, plan.set["isCompleted"])

	require.Equal(t, []models.HistoryAction{models.ActionMoved}, eventActions(plan.events))
	assert.Equal(t, "Done", plan.events[0].fromStatus)
	assert.Equal(t, "Reopened", plan.events[0].toStatus)
}

func TestPlanDoneToBacklogKeepsStartDate(t *testing.T) {
	started := time.Now().Add(-72 * time.Hour)
	ended := time.Now().Add(-time.Hour)
	task := newTestTask(models.StatusDone)
	task.StartDate = &started
	task.EndDate = &ended
	task.IsCompleted = true
	dest := newTestColumn("Backlog")

	plan, err := planTransition(task, dest, UpdateTaskInput{}, time.Now())
	require.NoError(t, err)

	assert.True(t, plan.newStatus.IsBacklog())
	assert.Nil(t, plan.set["endDate"])
	assert.Equal(t, false, plan.set["isCompleted"])
	assert.NotContains(t, plan.set, "startDate")
}

func TestPlanCombinedMoveAndRenameEmitsMovedPlusUpdated(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	dest := newTestColumn("Done")
	title := "Ship the release v2"

	plan, err := planTransition(task, dest, UpdateTaskInput{Title: &title}, time.Now())
	require.NoError(t, err)

	// A combined column+status change is one moved event, never a separate
	// status_changed entry.
	assert.Equal(t, []models.HistoryAction{models.ActionMoved, models.ActionUpdated}, eventActions(plan.events))
	updated := plan.events[1]
	assert.Equal(t, "title", updated.field)
	assert.Equal(t, "Ship the release", updated.oldValue)
	assert.Equal(t, title, updated.newValue)
}

func TestPlanContentChangeIsSummarized(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	content := "# A very long markdown body"

	plan, err := planTransition(task, nil, UpdateTaskInput{Content: &content}, time.Now())
	require.NoError(t, err)

	require.Equal(t, []models.HistoryAction{models.ActionUpdated}, eventActions(plan.events))
	assert.Equal(t, "content", plan.events[0].field)
	assert.Equal(t, "empty", plan.events[0].oldValue)
	assert.Equal(t, "has content", plan.events[0].newValue)
}

func TestPlanLabelsChangeJoinsValues(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	task.Labels = []string{"bug"}
	labels := []string{"bug", "urgent"}

	plan, err := planTransition(task, nil, UpdateTaskInput{Labels: &labels}, time.Now())
	require.NoError(t, err)

	require.Equal(t, []models.HistoryAction{models.ActionUpdated}, eventActions(plan.events))
	assert.Equal(t, "labels", plan.events[0].field)
	assert.Equal(t, "bug", plan.events[0].oldValue)
	assert.Equal(t, "bug, urgent", plan.events[0].newValue)
}

func TestPlanUnchangedFieldsEmitNoEvents(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	sameTitle := task.Title
	sameLabels := []string{}

	plan, err := planTransition(task, nil, UpdateTaskInput{Title: &sameTitle, Labels: &sameLabels}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, plan.events)
}

func TestPlanDueDateOnlyEditIsSilent(t *testing.T) {
	task := newTestTask(models.StatusTodo)
	due := time.Now().Add(24 * time.Hour)

	plan, err := planTransition(task, nil, UpdateTaskInput{DueDate: &due}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, due, plan.set["dueDate"])
	assert.Empty(t, plan.events)
	assert.False(t, plan.statusChanged)
}

func TestPlanMoveBetweenCustomColumns(t *testing.T) {
	task := newTestTask(models.CustomStatus("Review"))
	dest := newTestColumn("QA")

	plan, err := planTransition(task, dest, UpdateTaskInput{}, time.Now())
	require.NoError(t, err)

	assert.True(t, plan.statusChanged)
	assert.Equal(t, "QA", plan.newStatus.String())
	require.Equal(t, []models.HistoryAction{models.ActionMoved}, eventActions(plan.events))
	assert.Equal(t, "Review", plan.events[0].fromStatus)
	assert.Equal(t, "QA", plan.events[0].toStatus)
}

func TestPlanGateRejectionLeavesNoPlan(t *testing.T) {
	// The whole update aborts: no field updates survive a gate rejection.
	task := newTestTask(models.StatusTodo)
	dest := newTestColumn("In Progress")
	title := "Renamed while moving"

	plan, err := planTransition(task, dest, UpdateTaskInput{Title: &title}, time.Now())
	assert.Nil(t, plan)
	assert.Error(t, err)
}
