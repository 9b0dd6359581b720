package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"productivity-app/backend/kanban-service/models"
)

func TestWorkflowGateRejectsStartWithoutDueDate(t *testing.T) {
	task := &models.Task{Status: models.StatusTodo}

	err := checkWorkflowGate(task, models.StatusInProgress, nil)
	var gate *DueDateRequiredError
	assert.True(t, errors.As(err, &gate))
	assert.NotEmpty(t, gate.Message())
}

func TestWorkflowGateAcceptsExistingDueDate(t *testing.T) {
	due := time.Now()
	task := &models.Task{Status: models.StatusTodo, DueDate: &due}

	assert.NoError(t, checkWorkflowGate(task, models.StatusInProgress, nil))
}

func TestWorkflowGateAcceptsSuppliedDueDate(t *testing.T) {
	task := &models.Task{Status: models.StatusTodo}
	due := time.Now()

	assert.NoError(t, checkWorkflowGate(task, models.StatusInProgress, &due))
}

func TestWorkflowGateIgnoresOtherTransitions(t *testing.T) {
	task := &models.Task{Status: models.StatusTodo}

	for _, status := range []models.Status{models.StatusBacklog, models.StatusTodo, models.StatusDone, models.StatusReopened, models.CustomStatus("Review")} {
		assert.NoError(t, checkWorkflowGate(task, status, nil), status.String())
	}
}
