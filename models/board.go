package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Board struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Slug      string               `bson:"slug" json:"slug"`
	Owner     primitive.ObjectID   `bson:"owner" json:"owner"`
	Members   []primitive.ObjectID `bson:"members" json:"members"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasAccess reports whether the user may act on this board: the owner and
// every member may; board update and delete are additionally owner-only at
// the service layer.
func (b *Board) HasAccess(userID primitive.ObjectID) bool {
	if b.Owner == userID {
		return true
	}
	for _, m := range b.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// AuthUser is the authenticated caller identity extracted from the JWT.
type AuthUser struct {
	ID    primitive.ObjectID
	Email string
}
