package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productivity-app/backend/kanban-service/models"
)

// BoardService owns board lifecycle: creation with the default workflow
// columns, the assembled board view, and owner-only update/delete with
// cascade to columns and tasks.
type BoardService struct {
	boards  *mongo.Collection
	columns *mongo.Collection
	tasks   *mongo.Collection
}

func NewBoardService(boards, columns, tasks *mongo.Collection) *BoardService {
	return &BoardService{boards: boards, columns: columns, tasks: tasks}
}

// TaskNode is a task with its subtasks nested for display.
type TaskNode struct {
	models.Task
	Subtasks []*TaskNode `json:"subtasks"`
}

type ColumnView struct {
	models.Column
	Tasks []*TaskNode `json:"tasks"`
}

type BoardView struct {
	Board   models.Board `json:"board"`
	Columns []ColumnView `json:"columns"`
}

type UpdateBoardInput struct {
	Name    *string
	Members *[]primitive.ObjectID
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// makeSlug builds a URL-safe, effectively unique slug from the board name.
func makeSlug(name string) string {
	base := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	base = strings.Trim(base, "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// ListBoards returns every board the user owns or is a member of, most
// recently updated first.
func (s *BoardService) ListBoards(ctx context.Context, userID primitive.ObjectID) ([]models.Board, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner": userID},
		bson.M{"members": userID},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := s.boards.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	boards := []models.Board{}
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, fmt.Errorf("failed to decode boards: %w", err)
	}
	return boards, nil
}

// CreateBoard creates a board owned by the caller together with its three
// default columns.
func (s *BoardService) CreateBoard(ctx context.Context, name string, user models.AuthUser) (*models.Board, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validationf("name required")
	}

	now := time.Now()
	board := &models.Board{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      makeSlug(name),
		Owner:     user.ID,
		Members:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.boards.InsertOne(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	defaults := models.DefaultColumns()
	docs := make([]interface{}, 0, len(defaults))
	for _, col := range defaults {
		col.ID = primitive.NewObjectID()
		col.Board = board.ID
		col.CreatedAt = now
		col.UpdatedAt = now
		docs = append(docs, col)
	}
	if _, err := s.columns.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to create default columns: %w", err)
	}

	return board, nil
}

// GetBoard resolves a board by slug (preferred) or hex id and assembles its
// columns with top-level tasks, subtasks nested under their parents. The
// tree is built with one grouping pass over a single task query rather than
// recursive lookups.
func (s *BoardService) GetBoard(ctx context.Context, slugOrID string, user models.AuthUser) (*BoardView, error) {
	var board models.Board
	err := s.boards.FindOne(ctx, bson.M{"slug": slugOrID}).Decode(&board)
	if errors.Is(err, mongo.ErrNoDocuments) {
		id, idErr := primitive.ObjectIDFromHex(slugOrID)
		if idErr != nil {
			return nil, ErrBoardNotFound
		}
		err = s.boards.FindOne(ctx, bson.M{"_id": id}).Decode(&board)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBoardNotFound
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	if !board.HasAccess(user.ID) {
		return nil, ErrAccessDenied
	}

	sortByOrder := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})

	cursor, err := s.columns.Find(ctx, bson.M{"board": board.ID}, sortByOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns: %w", err)
	}
	var columns []models.Column
	if err := cursor.All(ctx, &columns); err != nil {
		return nil, fmt.Errorf("failed to decode columns: %w", err)
	}

	cursor, err = s.tasks.Find(ctx, bson.M{"board": board.ID}, sortByOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	nodes := make(map[primitive.ObjectID]*TaskNode, len(tasks))
	for _, task := range tasks {
		nodes[task.ID] = &TaskNode{Task: task, Subtasks: []*TaskNode{}}
	}

	byColumn := make(map[primitive.ObjectID][]*TaskNode, len(columns))
	for _, task := range tasks {
		node := nodes[task.ID]
		if task.Parent != nil {
			if parent, ok := nodes[*task.Parent]; ok {
				parent.Subtasks = append(parent.Subtasks, node)
			}
			continue
		}
		byColumn[task.Column] = append(byColumn[task.Column], node)
	}

	view := &BoardView{Board: board, Columns: make([]ColumnView, 0, len(columns))}
	for _, col := range columns {
		colTasks := byColumn[col.ID]
		if colTasks == nil {
			colTasks = []*TaskNode{}
		}
		view.Columns = append(view.Columns, ColumnView{Column: col, Tasks: colTasks})
	}
	return view, nil
}

// UpdateBoard changes the board name or member set. Owner only.
func (s *BoardService) UpdateBoard(ctx context.Context, boardID primitive.ObjectID, input UpdateBoardInput, user models.AuthUser) (*models.Board, error) {
	board, err := requireBoardAccess(ctx, s.boards, boardID, user.ID)
	if err != nil {
		return nil, err
	}
	if board.Owner != user.ID {
		return nil, ErrNotOwner
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		set["name"] = *input.Name
	}
	if input.Members != nil {
		set["members"] = *input.Members
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Board
	err = s.boards.FindOneAndUpdate(ctx, bson.M{"_id": boardID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return &updated, nil
}

// DeleteBoard removes the board with all of its tasks and columns. Owner
// only. History entries are retained; they are a free-standing log.
func (s *BoardService) DeleteBoard(ctx context.Context, boardID primitive.ObjectID, user models.AuthUser) error {
	board, err := requireBoardAccess(ctx, s.boards, boardID, user.ID)
	if err != nil {
		return err
	}
	if board.Owner != user.ID {
		return ErrNotOwner
	}

	if _, err := s.tasks.DeleteMany(ctx, bson.M{"board": boardID}); err != nil {
		return fmt.Errorf("failed to delete board tasks: %w", err)
	}
	if _, err := s.columns.DeleteMany(ctx, bson.M{"board": boardID}); err != nil {
		return fmt.Errorf("failed to delete board columns: %w", err)
	}
	if _, err := s.boards.DeleteOne(ctx, bson.M{"_id": boardID}); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}
