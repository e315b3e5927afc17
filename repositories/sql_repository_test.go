package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guilt-meter/tracker-service/models"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSQLStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	require.NoError(t, s.CreateUser(ctx, &models.User{ID: "u1", Email: "a@example.com", Name: "A"}))
	err := s.CreateUser(ctx, &models.User{ID: "u2", Email: "a@example.com", Name: "B"})
	assert.True(t, errors.Is(err, ErrDuplicate), "got %v", err)

	got, err := s.GetUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.GetUserByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLStoreProjectsAndTasks(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateProject(ctx, &models.Project{ID: "p1", OwnerID: "u1", Name: "one", CreatedAt: now}))
	require.NoError(t, s.CreateProject(ctx, &models.Project{ID: "p0", OwnerID: "u1", Name: "zero", CreatedAt: now.Add(time.Minute)}))
	require.NoError(t, s.CreateProject(ctx, &models.Project{ID: "p2", OwnerID: "u2", Name: "other", CreatedAt: now, Deadline: "2024-02-01"}))

	require.NoError(t, s.CreateTask(ctx, &models.Task{ID: "tb", ProjectID: "p1", Title: "b", Weight: 1, CreatedAt: now}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{ID: "ta", ProjectID: "p1", Title: "a", Weight: 3, CreatedAt: now.Add(time.Second)}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{ID: "tc", ProjectID: "p1", Title: "c", Weight: 1, CreatedAt: now.Add(-time.Minute)}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{ID: "tx", ProjectID: "p2", Title: "x", Weight: 1, CreatedAt: now}))

	p, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, []string{"tc", "tb", "ta"}, []string{p.Tasks[0].ID, p.Tasks[1].ID, p.Tasks[2].ID})

	owned, err := s.ListProjectsByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "p1", owned[0].ID)
	assert.Equal(t, "p0", owned[1].ID)
	assert.NotNil(t, owned[1].Tasks)

	withDeadline, err := s.ListProjectsWithDeadline(ctx)
	require.NoError(t, err)
	require.Len(t, withDeadline, 1)
	assert.Equal(t, "p2", withDeadline[0].ID)

	task, err := s.SetTaskCompleted(ctx, "ta", true)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	stored, err := s.GetTask(ctx, "ta")
	require.NoError(t, err)
	assert.True(t, stored.Completed)

	_, err = s.SetTaskCompleted(ctx, "missing", true)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, s.DeleteProject(ctx, "p1"))
	for _, id := range []string{"ta", "tb", "tc"} {
		_, err = s.GetTask(ctx, id)
		assert.True(t, errors.Is(err, ErrNotFound), id)
	}
	_, err = s.GetTask(ctx, "tx")
	assert.NoError(t, err)

	assert.True(t, errors.Is(s.DeleteProject(ctx, "p1"), ErrNotFound))
	assert.True(t, errors.Is(s.DeleteTask(ctx, "ta"), ErrNotFound))
}
