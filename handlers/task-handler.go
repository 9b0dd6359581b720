package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"productivity-app/backend/kanban-service/middleware"
	"productivity-app/backend/kanban-service/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type createTaskRequest struct {
	ColumnID string   `json:"columnId"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	ParentID string   `json:"parentId"`
	Labels   []string `json:"labels"`
	DueDate  string   `json:"dueDate"`
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ColumnID == "" || req.Title == "" {
		respondError(w, http.StatusBadRequest, "columnId and title required")
		return
	}

	columnID, err := primitive.ObjectIDFromHex(req.ColumnID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid column ID format")
		return
	}

	input := services.CreateTaskInput{
		ColumnID: columnID,
		Title:    req.Title,
		Content:  req.Content,
		Labels:   req.Labels,
	}
	if req.ParentID != "" {
		parentID, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid parent ID format")
			return
		}
		input.ParentID = &parentID
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.DueDate = &due
	}

	task, err := h.service.CreateTask(r.Context(), input, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Content     *string   `json:"content"`
	ColumnID    *string   `json:"columnId"`
	Order       *int      `json:"order"`
	Labels      *[]string `json:"labels"`
	DueDate     *string   `json:"dueDate"`
	IsCompleted *bool     `json:"isCompleted"`
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Content:     req.Content,
		Order:       req.Order,
		Labels:      req.Labels,
		IsCompleted: req.IsCompleted,
	}
	if req.ColumnID != nil {
		columnID, err := primitive.ObjectIDFromHex(*req.ColumnID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid column")
			return
		}
		input.ColumnID = &columnID
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.DueDate = &due
	}

	task, err := h.service.UpdateTask(r.Context(), taskID, input, user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID, user); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
