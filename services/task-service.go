package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productivity-app/backend/kanban-service/models"
)

// TaskService orchestrates task mutations: it composes status derivation,
// the workflow gate and the ordering engine, persists the task in a single
// write, and hands the resulting transition facts to the history recorder.
type TaskService struct {
	tasks   *mongo.Collection
	columns *mongo.Collection
	boards  *mongo.Collection
	history *HistoryService
}

func NewTaskService(tasks, columns, boards *mongo.Collection, history *HistoryService) *TaskService {
	return &TaskService{
		tasks:   tasks,
		columns: columns,
		boards:  boards,
		history: history,
	}
}

type CreateTaskInput struct {
	ColumnID primitive.ObjectID
	Title    string
	Content  string
	ParentID *primitive.ObjectID
	Labels   []string
	DueDate  *time.Time
}

// taskScope is the sibling scope a task orders within: tasks under the same
// parent when the task is a subtask, otherwise top-level tasks of the same
// column. Subtask ordering is independent of the column.
func taskScope(task *models.Task) bson.M {
	if task.Parent != nil {
		return bson.M{"parent": *task.Parent}
	}
	return bson.M{"column": task.Column, "parent": nil}
}

// CreateTask appends a task (or subtask) to its sibling scope with a status
// derived from the destination column, and records one creation entry.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, user models.AuthUser) (*models.Task, error) {
	if input.Title == "" {
		return nil, validationf("columnId and title required")
	}

	var column models.Column
	err := s.columns.FindOne(ctx, bson.M{"_id": input.ColumnID}).Decode(&column)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load column: %w", err)
	}

	if _, err := requireBoardAccess(ctx, s.boards, column.Board, user.ID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		var parent models.Task
		err := s.tasks.FindOne(ctx, bson.M{"_id": *input.ParentID}).Decode(&parent)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, validationf("parent task not found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load parent task: %w", err)
		}
		if parent.Board != column.Board {
			return nil, validationf("parent task belongs to another board")
		}
		// One level of nesting only.
		if parent.Parent != nil {
			return nil, validationf("subtasks cannot have their own subtasks")
		}
	}

	labels := input.Labels
	if labels == nil {
		labels = []string{}
	}

	now := time.Now()
	task := &models.Task{
		ID:        primitive.NewObjectID(),
		Column:    column.ID,
		Board:     column.Board,
		Title:     input.Title,
		Content:   input.Content,
		Parent:    input.ParentID,
		Labels:    labels,
		Status:    models.DeriveStatus(column.Title),
		DueDate:   input.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	order, err := nextOrder(ctx, s.tasks, taskScope(task))
	if err != nil {
		return nil, fmt.Errorf("failed to compute task order: %w", err)
	}
	task.Order = order

	if _, err := s.tasks.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	action := models.ActionCreated
	metadata := bson.M{
		"title":       task.Title,
		"columnTitle": column.Title,
	}
	if input.ParentID != nil {
		action = models.ActionSubtaskAdded
		metadata["parentId"] = input.ParentID.Hex()
	}
	s.history.Record(ctx, &models.TaskHistory{
		Task:      task.ID,
		Board:     task.Board,
		Action:    action,
		ToColumn:  &column.ID,
		ToStatus:  task.Status.String(),
		UserID:    user.ID,
		UserEmail: user.Email,
		Metadata:  metadata,
	})

	return task, nil
}

// UpdateTask is the task transition entry point. Validation and the workflow
// gate run before any write; once they pass, the ordering shifts and the
// task update are persisted and history recording is best-effort.
func (s *TaskService) UpdateTask(ctx context.Context, taskID primitive.ObjectID, input UpdateTaskInput, user models.AuthUser) (*models.Task, error) {
	var task models.Task
	err := s.tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	if _, err := requireBoardAccess(ctx, s.boards, task.Board, user.ID); err != nil {
		return nil, err
	}

	// Resolve the destination column when the task is actually moving.
	var dest *models.Column
	if input.ColumnID != nil && *input.ColumnID != task.Column {
		var column models.Column
		err := s.columns.FindOne(ctx, bson.M{"_id": *input.ColumnID}).Decode(&column)
		if err != nil || column.Board != task.Board {
			return nil, validationf("invalid column")
		}
		dest = &column
	}

	plan, err := planTransition(&task, dest, input, time.Now())
	if err != nil {
		return nil, err
	}

	switch {
	case dest != nil && task.Parent == nil:
		// Cross-column move: place the task in the destination scope and
		// close the gap it leaves behind.
		destScope := bson.M{"column": dest.ID, "parent": nil}
		var destOrder int
		if input.Order != nil {
			destOrder = *input.Order
			if err := openSlot(ctx, s.tasks, destScope, destOrder); err != nil {
				return nil, fmt.Errorf("failed to open destination slot: %w", err)
			}
		} else {
			destOrder, err = nextOrder(ctx, s.tasks, destScope)
			if err != nil {
				return nil, fmt.Errorf("failed to compute destination order: %w", err)
			}
		}
		if err := closeGap(ctx, s.tasks, taskScope(&task), task.Order); err != nil {
			return nil, fmt.Errorf("failed to close origin gap: %w", err)
		}
		plan.set["column"] = dest.ID
		plan.set["order"] = destOrder

	case dest != nil:
		// Subtasks order among themselves regardless of column, so a column
		// change does not touch their sibling sequence.
		plan.set["column"] = dest.ID

	case input.Order != nil && *input.Order != task.Order:
		if err := reorderWithin(ctx, s.tasks, taskScope(&task), task.Order, *input.Order); err != nil {
			return nil, fmt.Errorf("failed to reorder task: %w", err)
		}
		plan.set["order"] = *input.Order
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	err = s.tasks.FindOneAndUpdate(ctx, bson.M{"_id": taskID}, bson.M{"$set": plan.set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	for _, ev := range plan.events {
		s.recordEvent(ctx, &task, ev, user)
	}

	return &updated, nil
}

// DeleteTask removes a task and all of its subtasks depth-first, closes the
// order gap among the remaining siblings, and records a deletion entry with
// a display snapshot before the row disappears.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID, user models.AuthUser) error {
	var task models.Task
	err := s.tasks.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load task: %w", err)
	}

	if _, err := requireBoardAccess(ctx, s.boards, task.Board, user.ID); err != nil {
		return err
	}

	if err := s.deleteSubtasks(ctx, task.ID); err != nil {
		return err
	}

	if err := closeGap(ctx, s.tasks, taskScope(&task), task.Order); err != nil {
		return fmt.Errorf("failed to close order gap: %w", err)
	}

	// Snapshot display data now; the task can no longer be joined against
	// once it is gone.
	s.history.Record(ctx, &models.TaskHistory{
		Task:      task.ID,
		Board:     task.Board,
		Action:    models.ActionDeleted,
		UserID:    user.ID,
		UserEmail: user.Email,
		Metadata: bson.M{
			"title":        task.Title,
			"status":       task.Status.String(),
			"wasCompleted": task.IsCompleted,
		},
	})

	if _, err := s.tasks.DeleteOne(ctx, bson.M{"_id": task.ID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// deleteSubtasks removes every descendant of parentID, children before
// parents, so no record ever points at a deleted parent.
func (s *TaskService) deleteSubtasks(ctx context.Context, parentID primitive.ObjectID) error {
	cursor, err := s.tasks.Find(ctx, bson.M{"parent": parentID})
	if err != nil {
		return fmt.Errorf("failed to list subtasks: %w", err)
	}
	var subtasks []models.Task
	if err := cursor.All(ctx, &subtasks); err != nil {
		return fmt.Errorf("failed to decode subtasks: %w", err)
	}

	for _, subtask := range subtasks {
		if err := s.deleteSubtasks(ctx, subtask.ID); err != nil {
			return err
		}
		if _, err := s.tasks.DeleteOne(ctx, bson.M{"_id": subtask.ID}); err != nil {
			return fmt.Errorf("failed to delete subtask: %w", err)
		}
	}
	return nil
}

func (s *TaskService) recordEvent(ctx context.Context, task *models.Task, ev historyEvent, user models.AuthUser) {
	s.history.Record(ctx, &models.TaskHistory{
		Task:       task.ID,
		Board:      task.Board,
		Action:     ev.action,
		Field:      ev.field,
		OldValue:   ev.oldValue,
		NewValue:   ev.newValue,
		FromColumn: ev.fromColumn,
		ToColumn:   ev.toColumn,
		FromStatus: ev.fromStatus,
		ToStatus:   ev.toStatus,
		UserID:     user.ID,
		UserEmail:  user.Email,
		Metadata:   ev.metadata,
	})
}
