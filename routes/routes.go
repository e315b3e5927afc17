package routes

import (
	"net/http"

	"guilt-meter/tracker-service/handlers"
	"guilt-meter/tracker-service/middleware"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Projects *handlers.ProjectHandler
	Tasks    *handlers.TaskHandler
}

// RegisterRoutes sets up all routes of the service. Everything under /api
// except signup and login requires a bearer token signed with secret.
func RegisterRoutes(router *mux.Router, h Handlers, secret []byte) {
	router.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.Auth.Login).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware(secret))

	api.HandleFunc("/auth/me", h.Auth.Me).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.Projects.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", h.Projects.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{projectId}", h.Projects.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}", h.Projects.DeleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{projectId}/meter", h.Projects.GetMeter).Methods(http.MethodGet)
	api.HandleFunc("/projects/{projectId}/tasks", h.Tasks.CreateTask).Methods(http.MethodPost)

	api.HandleFunc("/tasks/{taskId}/toggle", h.Tasks.ToggleTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{taskId}", h.Tasks.DeleteTask).Methods(http.MethodDelete)
}

// NewHandler builds the full HTTP handler, CORS included.
func NewHandler(h Handlers, secret []byte, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, h, secret)
	return middleware.EnableCORS(allowedOrigins)(router)
}
