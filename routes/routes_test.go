package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"guilt-meter/tracker-service/handlers"
	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/presentation"
	"guilt-meter/tracker-service/repositories"
	"guilt-meter/tracker-service/services"
)

var secret = []byte("routes-secret")

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newClient(t *testing.T) *client {
	t.Helper()
	store := repositories.NewMemoryStore()
	breaker := services.NewStoreBreaker(3, time.Minute)
	h := Handlers{
		Auth:     handlers.NewAuthHandler(services.NewAuthService(store, breaker, secret, time.Hour)),
		Projects: handlers.NewProjectHandler(services.NewProjectService(store, breaker, presentation.NewMapper(rand.New(rand.NewSource(3))))),
		Tasks:    handlers.NewTaskHandler(services.NewTaskService(store, store, breaker)),
	}
	return &client{t: t, handler: NewHandler(h, secret, []string{"http://localhost:5173"})}
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(c.t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (c *client) signup(email string) models.TokenResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email": email, "name": "Tester", "password": "password123",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[models.TokenResponse](c.t, rec)
	c.token = resp.AccessToken
	return resp
}

type projectBody struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Reward   string               `json:"reward"`
	Tasks    []models.Task        `json:"tasks"`
	Progress models.ProgressState `json:"progress"`
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthFlow(t *testing.T) {
	c := newClient(t)
	resp := c.signup("me@example.com")
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotContains(t, c.do(http.MethodGet, "/api/auth/me", nil).Body.String(), "password")

	me := decode[models.User](t, c.do(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, resp.User.ID, me.ID)

	c.token = ""
	rec := c.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "me@example.com", "name": "x", "password": "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/signup", map[string]string{"email": "bad", "name": "x", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "me@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "me@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[models.TokenResponse](t, rec).AccessToken)

	rec = c.do(http.MethodGet, "/api/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAcceptsPaddedEmail(t *testing.T) {
	c := newClient(t)
	rec := c.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"email": " Ann@Example.com ", "name": " Ann ", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[models.TokenResponse](t, rec)
	assert.Equal(t, "ann@example.com", resp.User.Email)
	assert.Equal(t, "Ann", resp.User.Name)

	rec = c.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "  ANN@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, resp.User.ID, decode[models.TokenResponse](t, rec).User.ID)
}

func TestProjectAndTaskFlow(t *testing.T) {
	c := newClient(t)
	c.signup("me@example.com")

	rec := c.do(http.MethodPost, "/api/projects", map[string]string{"name": "Garden", "reward": "lemonade", "deadline": "2030-04-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[projectBody](t, rec)
	assert.Equal(t, "lemonade", project.Reward)
	assert.NotNil(t, project.Tasks)

	rec = c.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks", map[string]interface{}{"title": "weed", "weight": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	small := decode[models.Task](t, rec)

	rec = c.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks", map[string]interface{}{"title": "plant", "weight": 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	big := decode[models.Task](t, rec)
	assert.False(t, big.Completed)

	rec = c.do(http.MethodPatch, "/api/tasks/"+big.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Task](t, rec).Completed)

	got := decode[projectBody](t, c.do(http.MethodGet, "/api/projects/"+project.ID, nil))
	assert.Len(t, got.Tasks, 2)
	assert.Equal(t, 75, got.Progress.ProgressPercentage)
	assert.Equal(t, 25, got.Progress.GuiltPercentage)

	rec = c.do(http.MethodGet, "/api/projects/"+project.ID+"/meter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meter := decode[models.Meter](t, rec)
	assert.Equal(t, presentation.PastelMint, meter.Color)
	assert.Contains(t, presentation.Messages(25), meter.Message)

	list := decode[[]projectBody](t, c.do(http.MethodGet, "/api/projects", nil))
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Progress.TotalTasks)

	rec = c.do(http.MethodDelete, "/api/tasks/"+small.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())

	rec = c.do(http.MethodDelete, "/api/projects/"+project.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Project deleted"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/projects/"+project.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPatch, "/api/tasks/"+big.ID+"/toggle", nil).Code)
}

func TestTaskWeightValidation(t *testing.T) {
	c := newClient(t)
	c.signup("me@example.com")
	project := decode[projectBody](t, c.do(http.MethodPost, "/api/projects", map[string]string{"name": "p"}))

	for _, body := range []string{`{"title":"t","weight":0}`, `{"title":"t","weight":-2}`, `{"weight":1}`, `{"title":`} {
		rec := c.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := c.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks", `{"title":"t"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1.0, decode[models.Task](t, rec).Weight)

	rec = c.do(http.MethodPost, "/api/projects", `{"name":"p","deadline":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectsAreScopedToOwner(t *testing.T) {
	c := newClient(t)
	c.signup("alice@example.com")
	project := decode[projectBody](t, c.do(http.MethodPost, "/api/projects", map[string]string{"name": "secret"}))
	task := decode[models.Task](t, c.do(http.MethodPost, "/api/projects/"+project.ID+"/tasks", map[string]string{"title": "t"}))

	c.signup("bob@example.com")
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/projects/"+project.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/projects/"+project.ID+"/meter", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/projects/"+project.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPatch, "/api/tasks/"+task.ID+"/toggle", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/api/tasks/"+task.ID, nil).Code)
	assert.Empty(t, decode[[]projectBody](t, c.do(http.MethodGet, "/api/projects", nil)))
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
