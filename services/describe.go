package services

import (
	"fmt"
	"time"

	"productivity-app/backend/kanban-service/models"
)

// describeHistory renders an enriched entry into short human-readable lines,
// keyed on the action. This is a pure view over the stored raw fields, so
// phrasing can change without a data migration.
func describeHistory(entry *HistoryEntry) []string {
	var description []string

	switch entry.Action {
	case models.ActionMoved:
		if entry.FromColumnTitle != "" || entry.ToColumnTitle != "" {
			description = append(description, fmt.Sprintf("Moved: %s → %s",
				orUnknown(entry.FromColumnTitle), orUnknown(entry.ToColumnTitle)))
		}
		if entry.FromStatus != "" || entry.ToStatus != "" {
			description = append(description, fmt.Sprintf("Change state: %s → %s",
				orBacklog(entry.FromStatus), orBacklog(entry.ToStatus)))
		}
		if entry.FromStatus == "In Progress" && entry.ToStatus == "Done" {
			description = append(description, "Marked as Done")
		}
		if entry.ToStatus == "In Progress" {
			if due, ok := entry.Metadata["dueDate"]; ok {
				description = append(description, fmt.Sprintf("Set due date to %s", formatDateValue(due)))
			}
		}

	case models.ActionStatusChanged:
		description = append(description, fmt.Sprintf("Change state: %s → %s",
			orBacklog(entry.FromStatus), orBacklog(entry.ToStatus)))

	case models.ActionReopened:
		toStatus := entry.ToStatus
		if toStatus == "" {
			toStatus = "Reopened"
		}
		description = append(description, fmt.Sprintf("Reopened: %s → %s",
			orBacklog(entry.FromStatus), toStatus))

	case models.ActionUpdated:
		switch entry.Field {
		case "title":
			line := "Title updated"
			if entry.NewValue != "" {
				line = fmt.Sprintf("Title updated to %q", entry.NewValue)
			}
			description = append(description, line)
		case "content":
			description = append(description, "Description updated")
		case "labels":
			newValue := entry.NewValue
			if newValue == "" {
				newValue = "none"
			}
			description = append(description, fmt.Sprintf("Labels updated to %s", newValue))
		default:
			field := entry.Field
			if field == "" {
				field = "Field"
			}
			description = append(description, fmt.Sprintf("%s updated", field))
		}

	case models.ActionCreated:
		// The action label alone is enough for creation.

	case models.ActionSubtaskAdded:
		description = append(description, "Subtask added")

	case models.ActionDeleted:
		description = append(description, "Task deleted")
		if title, ok := entry.Metadata["title"].(string); ok && title != "" {
			description = append(description, fmt.Sprintf("Title was %q", title))
		}
		if status, ok := entry.Metadata["status"].(string); ok && status != "" {
			description = append(description, fmt.Sprintf("Last status: %s", status))
		}

	default:
		if entry.Field != "" && entry.NewValue != "" {
			description = append(description, fmt.Sprintf("%s: %s", entry.Field, entry.NewValue))
		}
	}

	return description
}

func orUnknown(title string) string {
	if title == "" {
		return "Unknown"
	}
	return title
}

func orBacklog(status string) string {
	if status == "" {
		return "Backlog"
	}
	return status
}

// formatDateValue renders a metadata date (stored as an RFC 3339 string) as
// a short user-facing date, falling back to the raw value.
func formatDateValue(value interface{}) string {
	if str, ok := value.(string); ok {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			return t.Format("Jan 2, 2006")
		}
		return str
	}
	if t, ok := value.(time.Time); ok {
		return t.Format("Jan 2, 2006")
	}
	return fmt.Sprintf("%v", value)
}
