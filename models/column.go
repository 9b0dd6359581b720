package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Column struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Board     primitive.ObjectID `bson:"board" json:"board"`
	Title     string             `bson:"title" json:"title"`
	Order     int                `bson:"order" json:"order"`
	Color     string             `bson:"color" json:"color"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const DefaultColumnColor = "#e2e8f0"

// DefaultColumns are created for every new board, in this order.
func DefaultColumns() []Column {
	return []Column{
		{Title: "To Do", Order: 0, Color: "#e2e8f0"},
		{Title: "In Progress", Order: 1, Color: "#fef3c7"},
		{Title: "Done", Order: 2, Color: "#d1fae5"},
	}
}

// IsProtectedColumnTitle reports whether a column with this title belongs to
// the workflow backbone and must not be deleted.
func IsProtectedColumnTitle(title string) bool {
	switch strings.ToLower(strings.TrimSpace(title)) {
	case "backlog", "to do", "todo", "in progress", "done":
		return true
	}
	return false
}
