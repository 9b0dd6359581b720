package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"productivity-app/backend/kanban-service/models"
)

// findBoard loads a board by id, translating a missing document into
// ErrBoardNotFound.
func findBoard(ctx context.Context, boards *mongo.Collection, boardID primitive.ObjectID) (*models.Board, error) {
	var board models.Board
	err := boards.FindOne(ctx, bson.M{"_id": boardID}).Decode(&board)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// requireBoardAccess resolves the board and checks the owner-or-member rule.
// Every column, task and history operation funnels through here before any
// write.
func requireBoardAccess(ctx context.Context, boards *mongo.Collection, boardID, userID primitive.ObjectID) (*models.Board, error) {
	board, err := findBoard(ctx, boards, boardID)
	if err != nil {
		return nil, err
	}
	if !board.HasAccess(userID) {
		return nil, ErrAccessDenied
	}
	return board, nil
}
