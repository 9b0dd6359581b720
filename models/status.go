package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type statusKind int

const (
	statusBacklog statusKind = iota
	statusTodo
	statusInProgress
	statusDone
	statusReopened
	statusCustom
)

// Status is the lifecycle state of a task, derived from the title of the
// column the task sits in. Backlog is the zero value and is persisted as
// null; every other variant is persisted as its display label. Columns with
// unrecognized titles produce a Custom status carrying the title verbatim.
type Status struct {
	kind   statusKind
	custom string
}

var (
	StatusBacklog    = Status{kind: statusBacklog}
	StatusTodo       = Status{kind: statusTodo}
	StatusInProgress = Status{kind: statusInProgress}
	StatusDone       = Status{kind: statusDone}
	StatusReopened   = Status{kind: statusReopened}
)

// CustomStatus wraps a free-form column title as a status.
func CustomStatus(title string) Status {
	return Status{kind: statusCustom, custom: title}
}

// DeriveStatus maps a column title to the status tasks in that column carry.
// Matching is case-insensitive on the trimmed title; unknown titles pass
// through as a custom status with the original casing preserved.
func DeriveStatus(columnTitle string) Status {
	trimmed := strings.TrimSpace(columnTitle)
	switch strings.ToLower(trimmed) {
	case "backlog":
		return StatusBacklog
	case "todo", "to do":
		return StatusTodo
	case "in progress", "inprogress", "progress":
		return StatusInProgress
	case "done", "completed":
		return StatusDone
	default:
		return CustomStatus(trimmed)
	}
}

// ParseStatus is the inverse of String for stored values.
func ParseStatus(label string) Status {
	switch label {
	case "", "Backlog":
		return StatusBacklog
	case "Todo":
		return StatusTodo
	case "In Progress":
		return StatusInProgress
	case "Done":
		return StatusDone
	case "Reopened":
		return StatusReopened
	default:
		return CustomStatus(label)
	}
}

// String returns the display label. Backlog tasks have no stored status, so
// the label "Backlog" only ever appears in history text and API responses.
func (s Status) String() string {
	switch s.kind {
	case statusBacklog:
		return "Backlog"
	case statusTodo:
		return "Todo"
	case statusInProgress:
		return "In Progress"
	case statusDone:
		return "Done"
	case statusReopened:
		return "Reopened"
	default:
		return s.custom
	}
}

func (s Status) IsBacklog() bool    { return s.kind == statusBacklog }
func (s Status) IsTodo() bool       { return s.kind == statusTodo }
func (s Status) IsInProgress() bool { return s.kind == statusInProgress }
func (s Status) IsDone() bool       { return s.kind == statusDone }
func (s Status) IsReopened() bool   { return s.kind == statusReopened }

func (s Status) Equal(other Status) bool {
	return s.kind == other.kind && s.custom == other.custom
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s.IsBacklog() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StatusBacklog
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("status must be a string or null: %w", err)
	}
	*s = ParseStatus(label)
	return nil
}

func (s Status) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s.IsBacklog() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(s.String())
}

func (s *Status) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = StatusBacklog
		return nil
	case bsontype.String:
		raw := bson.RawValue{Type: t, Value: data}
		label, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("malformed status value")
		}
		*s = ParseStatus(label)
		return nil
	default:
		return fmt.Errorf("cannot decode %s into a status", t)
	}
}
