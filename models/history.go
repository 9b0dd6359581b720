package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryAction string

const (
	ActionCreated       HistoryAction = "created"
	ActionMoved         HistoryAction = "moved"
	ActionUpdated       HistoryAction = "updated"
	ActionStatusChanged HistoryAction = "status_changed"
	ActionReopened      HistoryAction = "reopened"
	ActionSubtaskAdded  HistoryAction = "subtask_added"
	ActionDeleted       HistoryAction = "deleted"

	// Reserved actions. Never emitted under the current workflow rules and
	// excluded from every history read path.
	ActionStarted    HistoryAction = "started"
	ActionCompleted  HistoryAction = "completed"
	ActionDueDateSet HistoryAction = "due_date_set"
)

// IsReserved reports whether the action is declared but intentionally unused.
func (a HistoryAction) IsReserved() bool {
	return a == ActionStarted || a == ActionCompleted || a == ActionDueDateSet
}

// TaskHistory is an append-only audit entry. Entries are never edited or
// deleted; they outlive their subject task, which is why deletion entries
// snapshot display data into Metadata.
type TaskHistory struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Task       primitive.ObjectID  `bson:"task" json:"task"`
	Board      primitive.ObjectID  `bson:"board" json:"board"`
	Action     HistoryAction       `bson:"action" json:"action"`
	Field      string              `bson:"field,omitempty" json:"field,omitempty"`
	OldValue   string              `bson:"oldValue,omitempty" json:"oldValue,omitempty"`
	NewValue   string              `bson:"newValue,omitempty" json:"newValue,omitempty"`
	FromColumn *primitive.ObjectID `bson:"fromColumn,omitempty" json:"fromColumn,omitempty"`
	ToColumn   *primitive.ObjectID `bson:"toColumn,omitempty" json:"toColumn,omitempty"`
	FromStatus string              `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus   string              `bson:"toStatus,omitempty" json:"toStatus,omitempty"`
	UserID     primitive.ObjectID  `bson:"userId" json:"userId"`
	UserEmail  string              `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Metadata   bson.M              `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
}
