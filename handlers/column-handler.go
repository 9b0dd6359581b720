package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/middleware"
	"productivity-app/backend/kanban-service/services"
)

type ColumnHandler struct {
	service *services.ColumnService
}

func NewColumnHandler(service *services.ColumnService) *ColumnHandler {
	return &ColumnHandler{service: service}
}

func (h *ColumnHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		BoardID string `json:"boardId"`
		Title   string `json:"title"`
		Color   string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.BoardID == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "boardId and title required")
		return
	}

	boardID, err := primitive.ObjectIDFromHex(req.BoardID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid board ID format")
		return
	}

	column, err := h.service.CreateColumn(r.Context(), boardID, req.Title, req.Color, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, column)
}

func (h *ColumnHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	columnID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid column ID format")
		return
	}

	var req struct {
		Title *string `json:"title"`
		Color *string `json:"color"`
		Order *int    `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input := services.UpdateColumnInput{Title: req.Title, Color: req.Color, Order: req.Order}
	column, err := h.service.UpdateColumn(r.Context(), columnID, input, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, column)
}

func (h *ColumnHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	columnID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid column ID format")
		return
	}

	if err := h.service.DeleteColumn(r.Context(), columnID, user); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
