package handlers

import (
	"net/http"

	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/services"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ProjectCreate
	if !decodeAndValidate(w, r, &req) {
		return
	}

	project, err := h.service.CreateProject(r.Context(), ownerID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	project, err := h.service.GetProject(r.Context(), ownerID, mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), ownerID, mux.Vars(r)["projectId"]); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Project deleted")
}

// GetMeter returns the project's progress with its guilt color and message.
func (h *ProjectHandler) GetMeter(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := currentUser(w, r)
	if !ok {
		return
	}

	meter, err := h.service.Meter(r.Context(), ownerID, mux.Vars(r)["projectId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meter)
}
