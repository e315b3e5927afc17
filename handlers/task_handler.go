package handlers

import (
	"net/http"

	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/services"

	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.TaskCreate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.service.AddTask(r.Context(), ownerID, mux.Vars(r)["projectId"], req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	task, err := h.service.ToggleTask(r.Context(), ownerID, mux.Vars(r)["taskId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), ownerID, mux.Vars(r)["taskId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Task deleted")
}
