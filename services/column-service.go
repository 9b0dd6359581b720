package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productivity-app/backend/kanban-service/models"
)

// ColumnService manages board columns: append-ordered creation, title/color
// edits, board-scope reordering, and cascading deletion with the default
// workflow columns protected.
type ColumnService struct {
	columns *mongo.Collection
	tasks   *mongo.Collection
	boards  *mongo.Collection
}

func NewColumnService(columns, tasks, boards *mongo.Collection) *ColumnService {
	return &ColumnService{columns: columns, tasks: tasks, boards: boards}
}

type UpdateColumnInput struct {
	Title *string
	Color *string
	Order *int
}

func (s *ColumnService) findColumn(ctx context.Context, columnID primitive.ObjectID) (*models.Column, error) {
	var column models.Column
	err := s.columns.FindOne(ctx, bson.M{"_id": columnID}).Decode(&column)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrColumnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load column: %w", err)
	}
	return &column, nil
}

// CreateColumn appends a column to the board.
func (s *ColumnService) CreateColumn(ctx context.Context, boardID primitive.ObjectID, title, color string, user models.AuthUser) (*models.Column, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationf("boardId and title required")
	}
	if _, err := requireBoardAccess(ctx, s.boards, boardID, user.ID); err != nil {
		return nil, err
	}

	order, err := nextOrder(ctx, s.columns, bson.M{"board": boardID})
	if err != nil {
		return nil, fmt.Errorf("failed to compute column order: %w", err)
	}
	if color == "" {
		color = models.DefaultColumnColor
	}

	now := time.Now()
	column := &models.Column{
		ID:        primitive.NewObjectID(),
		Board:     boardID,
		Title:     title,
		Order:     order,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.columns.InsertOne(ctx, column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}

// UpdateColumn edits title and color, and repositions the column within the
// board scope when a new order is supplied.
func (s *ColumnService) UpdateColumn(ctx context.Context, columnID primitive.ObjectID, input UpdateColumnInput, user models.AuthUser) (*models.Column, error) {
	column, err := s.findColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	if _, err := requireBoardAccess(ctx, s.boards, column.Board, user.ID); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Color != nil {
		set["color"] = *input.Color
	}
	if input.Order != nil && *input.Order != column.Order {
		scope := bson.M{"board": column.Board}
		if err := reorderWithin(ctx, s.columns, scope, column.Order, *input.Order); err != nil {
			return nil, fmt.Errorf("failed to reorder columns: %w", err)
		}
		set["order"] = *input.Order
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Column
	err = s.columns.FindOneAndUpdate(ctx, bson.M{"_id": columnID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}
	return &updated, nil
}

// DeleteColumn removes a column together with every task in it and closes
// the board-level order gap. The default workflow columns cannot be deleted.
func (s *ColumnService) DeleteColumn(ctx context.Context, columnID primitive.ObjectID, user models.AuthUser) error {
	column, err := s.findColumn(ctx, columnID)
	if err != nil {
		return err
	}
	if _, err := requireBoardAccess(ctx, s.boards, column.Board, user.ID); err != nil {
		return err
	}
	if models.IsProtectedColumnTitle(column.Title) {
		return validationf("default columns cannot be deleted")
	}

	if _, err := s.tasks.DeleteMany(ctx, bson.M{"column": columnID}); err != nil {
		return fmt.Errorf("failed to delete column tasks: %w", err)
	}
	if err := closeGap(ctx, s.columns, bson.M{"board": column.Board}, column.Order); err != nil {
		return fmt.Errorf("failed to close column order gap: %w", err)
	}
	if _, err := s.columns.DeleteOne(ctx, bson.M{"_id": columnID}); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}
	return nil
}
