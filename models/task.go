package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a card on a board. Board is denormalized from the owning column so
// access checks and board-wide queries never need a join. A task with a
// non-nil Parent is a subtask: it orders among its siblings under the same
// parent and never appears in column-level listings.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Column      primitive.ObjectID  `bson:"column" json:"column"`
	Board       primitive.ObjectID  `bson:"board" json:"board"`
	Title       string              `bson:"title" json:"title"`
	Content     string              `bson:"content" json:"content"`
	Order       int                 `bson:"order" json:"order"`
	Parent      *primitive.ObjectID `bson:"parent" json:"parent"`
	Labels      []string            `bson:"labels" json:"labels"`
	Status      Status              `bson:"status" json:"status"`
	StartDate   *time.Time          `bson:"startDate,omitempty" json:"startDate,omitempty"`
	DueDate     *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	EndDate     *time.Time          `bson:"endDate,omitempty" json:"endDate,omitempty"`
	IsCompleted bool                `bson:"isCompleted" json:"isCompleted"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
