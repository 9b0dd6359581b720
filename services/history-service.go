package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productivity-app/backend/kanban-service/logging"
	"productivity-app/backend/kanban-service/models"
)

const DefaultHistoryLimit = 50

// HistoryService appends immutable audit entries and serves them back
// enriched with display data and rendered descriptions.
type HistoryService struct {
	history *mongo.Collection
	tasks   *mongo.Collection
	columns *mongo.Collection
	boards  *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

func NewHistoryService(history, tasks, columns, boards *mongo.Collection, breaker *gobreaker.CircuitBreaker) *HistoryService {
	return &HistoryService{
		history: history,
		tasks:   tasks,
		columns: columns,
		boards:  boards,
		breaker: breaker,
	}
}

// HistoryEntry is a stored entry enriched for display: resolved column and
// task titles plus the rendered description lines. Descriptions are a view
// computed at read time, never stored.
type HistoryEntry struct {
	models.TaskHistory `bson:",inline"`
	TaskTitle          string   `json:"taskTitle,omitempty"`
	FromColumnTitle    string   `json:"fromColumnTitle,omitempty"`
	ToColumnTitle      string   `json:"toColumnTitle,omitempty"`
	Description        []string `json:"description"`
}

// Record appends one history entry. The write is best-effort and runs behind
// a circuit breaker: a failure is logged and swallowed, never propagated, so
// a degraded audit trail cannot fail the task mutation that triggered it.
func (s *HistoryService) Record(ctx context.Context, entry *models.TaskHistory) {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.history.InsertOne(ctx, entry)
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: HISTORY_RECORD_FAILED, Description: Failed to record %s history for task %s: %v",
			entry.Action, entry.Task.Hex(), err)
	}
}

// ListTaskHistory returns a task's entries newest-first up to limit,
// enriched and described.
func (s *HistoryService) ListTaskHistory(ctx context.Context, taskID primitive.ObjectID, limit int64, user models.AuthUser) ([]HistoryEntry, error) {
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

	raw, err := s.fetch(ctx, bson.M{"task": taskID}, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, raw, false)
}

// ListBoardHistory returns a board's entries across all of its tasks,
// newest-first up to limit. Task titles are resolved live, falling back to
// the entry's own metadata snapshot for tasks that no longer exist.
func (s *HistoryService) ListBoardHistory(ctx context.Context, boardID primitive.ObjectID, limit int64, user models.AuthUser) ([]HistoryEntry, error) {
	if _, err := requireBoardAccess(ctx, s.boards, boardID, user.ID); err != nil {
		return nil, err
	}

	raw, err := s.fetch(ctx, bson.M{"board": boardID}, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, raw, true)
}

func (s *HistoryService) fetch(ctx context.Context, filter bson.M, limit int64) ([]models.TaskHistory, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.history.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	var entries []models.TaskHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	// Reserved actions never surface on any read path.
	filtered := entries[:0]
	for _, e := range entries {
		if !e.Action.IsReserved() {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (s *HistoryService) enrich(ctx context.Context, entries []models.TaskHistory, withTaskTitles bool) ([]HistoryEntry, error) {
	columnIDs := make(map[primitive.ObjectID]struct{})
	taskIDs := make(map[primitive.ObjectID]struct{})
	for _, e := range entries {
		if e.FromColumn != nil {
			columnIDs[*e.FromColumn] = struct{}{}
		}
		if e.ToColumn != nil {
			columnIDs[*e.ToColumn] = struct{}{}
		}
		taskIDs[e.Task] = struct{}{}
	}

	columnTitles, err := s.columnTitles(ctx, columnIDs)
	if err != nil {
		return nil, err
	}

	var taskTitles map[primitive.ObjectID]string
	if withTaskTitles {
		taskTitles, err = s.taskTitles(ctx, taskIDs)
		if err != nil {
			return nil, err
		}
	}

	result := make([]HistoryEntry, 0, len(entries))
	for _, e := range entries {
		entry := HistoryEntry{TaskHistory: e}
		if e.FromColumn != nil {
			entry.FromColumnTitle = columnTitles[*e.FromColumn]
		}
		if e.ToColumn != nil {
			entry.ToColumnTitle = columnTitles[*e.ToColumn]
		}
		if withTaskTitles {
			entry.TaskTitle = taskTitles[e.Task]
			if entry.TaskTitle == "" {
				if title, ok := e.Metadata["title"].(string); ok && title != "" {
					entry.TaskTitle = title
				} else {
					entry.TaskTitle = "Deleted Task"
				}
			}
		}
		entry.Description = describeHistory(&entry)
		result = append(result, entry)
	}
	return result, nil
}

func (s *HistoryService) columnTitles(ctx context.Context, ids map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]string, error) {
	titles := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	cursor, err := s.columns.Find(ctx, bson.M{"_id": bson.M{"$in": idList(ids)}})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve column titles: %w", err)
	}
	var columns []models.Column
	if err := cursor.All(ctx, &columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns: %w", err)
	}
	for _, c := range columns {
		titles[c.ID] = c.Title
	}
	return titles, nil
}

func (s *HistoryService) taskTitles(ctx context.Context, ids map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]string, error) {
	titles := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1})
	cursor, err := s.tasks.Find(ctx, bson.M{"_id": bson.M{"$in": idList(ids)}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve task titles: %w", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}
	return titles, nil
}

func idList(ids map[primitive.ObjectID]struct{}) []primitive.ObjectID {
	list := make([]primitive.ObjectID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	return list
}
