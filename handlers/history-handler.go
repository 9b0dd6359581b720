package handlers

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/middleware"
	"productivity-app/backend/kanban-service/services"
)

type HistoryHandler struct {
	service *services.HistoryService
}

func NewHistoryHandler(service *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// GetHistory serves /api/kanban/task-history?taskId=... or ?boardId=...
// with an optional limit (default 50).
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	query := r.URL.Query()
	taskID := query.Get("taskId")
	boardID := query.Get("boardId")
	if taskID == "" && boardID == "" {
		respondError(w, http.StatusBadRequest, "taskId or boardId required")
		return
	}

	limit := int64(services.DefaultHistoryLimit)
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	if taskID != "" {
		id, err := primitive.ObjectIDFromHex(taskID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid task ID format")
			return
		}
		entries, err := h.service.ListTaskHistory(r.Context(), id, limit, user)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
		return
	}

	id, err := primitive.ObjectIDFromHex(boardID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid board ID format")
		return
	}
	entries, err := h.service.ListBoardHistory(r.Context(), id, limit, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
