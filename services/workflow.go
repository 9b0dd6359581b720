package services

import (
	"time"

	"productivity-app/backend/kanban-service/models"
)

// checkWorkflowGate validates the preconditions for a status transition.
// The single rule today: work may not start without a deadline. Entering
// In Progress requires a due date, either already on the task or supplied
// with the same request. The rejection is advisory at the drag layer: the
// client intercepts it, collects a date, and resubmits the full move.
func checkWorkflowGate(task *models.Task, proposed models.Status, proposedDueDate *time.Time) error {
	if proposed.IsInProgress() && task.DueDate == nil && proposedDueDate == nil {
		return &DueDateRequiredError{}
	}
	return nil
}
