package services

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/models"
)

// UpdateTaskInput carries the optional fields of a task update. Nil means
// the field was not part of the request.
type UpdateTaskInput struct {
	Title       *string
	Content     *string
	ColumnID    *primitive.ObjectID
	Order       *int
	Labels      *[]string
	DueDate     *time.Time
	IsCompleted *bool
}

// historyEvent is a pending audit entry computed during an update. The
// service stamps ids and identity when it hands these to the recorder.
type historyEvent struct {
	action     models.HistoryAction
	field      string
	oldValue   string
	newValue   string
	fromColumn *primitive.ObjectID
	toColumn   *primitive.ObjectID
	fromStatus string
	toStatus   string
	metadata   bson.M
}

// transitionPlan is the outcome of the pure decision step of a task update:
// the fields to persist and the history events to emit. Ordering shifts are
// excluded; they depend on sibling state and stay in the service layer.
type transitionPlan struct {
	set           bson.M
	newStatus     models.Status
	statusChanged bool
	events        []historyEvent
}

// planTransition decides everything about a task update that does not
// require further reads: the derived status (with the Done→Todo ⇒ Reopened
// override), the workflow gate, the date stamps, the plain field updates,
// and the history event list. dest is non-nil exactly when the task is
// moving to a different column. A gate rejection aborts the whole update
// before anything is persisted.
func planTransition(task *models.Task, dest *models.Column, input UpdateTaskInput, now time.Time) (*transitionPlan, error) {
	oldStatus := task.Status
	newStatus := oldStatus
	columnChanged := dest != nil

	if columnChanged {
		newStatus = models.DeriveStatus(dest.Title)
		if oldStatus.IsDone() && newStatus.IsTodo() {
			newStatus = models.StatusReopened
		}
		if err := checkWorkflowGate(task, newStatus, input.DueDate); err != nil {
			return nil, err
		}
	}

	set := bson.M{"updatedAt": now}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Content != nil {
		set["content"] = *input.Content
	}
	if input.Labels != nil {
		set["labels"] = *input.Labels
	}
	if input.DueDate != nil {
		set["dueDate"] = *input.DueDate
	}
	if input.IsCompleted != nil {
		set["isCompleted"] = *input.IsCompleted
	}

	var events []historyEvent

	statusChanged := !newStatus.Equal(oldStatus)
	if statusChanged {
		set["status"] = newStatus

		// Leaving Done: the task is no longer complete, whatever it becomes.
		if oldStatus.IsDone() && !newStatus.IsDone() {
			set["endDate"] = nil
			set["isCompleted"] = false
		}

		// First entry into In Progress starts the clock.
		if newStatus.IsInProgress() && task.StartDate == nil {
			set["startDate"] = now
		}

		if newStatus.IsDone() {
			set["endDate"] = now
			set["isCompleted"] = true
			// Backfill so cycle time and estimation metrics stay defined.
			if task.StartDate == nil {
				set["startDate"] = now
			}
			if task.DueDate == nil && input.DueDate == nil {
				set["dueDate"] = now
			}
		}

		// Back to Backlog: keep startDate for the historical record.
		if newStatus.IsBacklog() {
			set["endDate"] = nil
			set["isCompleted"] = false
		}

		// A combined column+status change is represented once, as the moved
		// event below; a standalone status change gets its own entry.
		if !columnChanged {
			if newStatus.IsReopened() {
				events = append(events, historyEvent{
					action:     models.ActionReopened,
					fromStatus: oldStatus.String(),
					toStatus:   models.StatusReopened.String(),
				})
			} else {
				events = append(events, historyEvent{
					action:     models.ActionStatusChanged,
					fromStatus: oldStatus.String(),
					toStatus:   newStatus.String(),
				})
			}
		}
	}

	if columnChanged {
		var meta bson.M
		if newStatus.IsInProgress() {
			if input.DueDate != nil {
				meta = bson.M{"dueDate": input.DueDate.Format(time.RFC3339)}
			} else if task.DueDate != nil {
				meta = bson.M{"dueDate": task.DueDate.Format(time.RFC3339)}
			}
		}
		from := task.Column
		to := dest.ID
		events = append(events, historyEvent{
			action:     models.ActionMoved,
			fromColumn: &from,
			toColumn:   &to,
			fromStatus: oldStatus.String(),
			toStatus:   newStatus.String(),
			metadata:   meta,
		})
	}

	if input.Title != nil && *input.Title != task.Title {
		events = append(events, historyEvent{
			action:   models.ActionUpdated,
			field:    "title",
			oldValue: task.Title,
			newValue: *input.Title,
		})
	}
	if input.Content != nil && *input.Content != task.Content {
		// Bodies can be large; history only records whether content exists.
		events = append(events, historyEvent{
			action:   models.ActionUpdated,
			field:    "content",
			oldValue: contentSummary(task.Content),
			newValue: contentSummary(*input.Content),
		})
	}
	if input.Labels != nil && !stringSlicesEqual(*input.Labels, task.Labels) {
		events = append(events, historyEvent{
			action:   models.ActionUpdated,
			field:    "labels",
			oldValue: strings.Join(task.Labels, ", "),
			newValue: strings.Join(*input.Labels, ", "),
		})
	}
	// Due-date-only edits never produce a standalone history event.

	return &transitionPlan{
		set:           set,
		newStatus:     newStatus,
		statusChanged: statusChanged,
		events:        events,
	}, nil
}

func contentSummary(content string) string {
	if content == "" {
		return "empty"
	}
	return "has content"
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
