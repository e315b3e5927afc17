package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"guilt-meter/tracker-service/models"
)

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User
	emails   map[string]string
	projects map[string]models.Project
	tasks    map[string]models.Task
	// seq records insertion order to break createdAt ties.
	seq     map[string]int
	nextSeq int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    map[string]models.User{},
		emails:   map[string]string{},
		projects: map[string]models.Project{},
		tasks:    map[string]models.Task{},
		seq:      map[string]int{},
	}
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[user.Email]; ok {
		return ErrDuplicate
	}
	if _, ok := s.users[user.ID]; ok {
		return ErrDuplicate
	}
	s.users[user.ID] = *user
	s.emails[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	id, ok := s.emails[email]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return s.GetUserByID(ctx, id)
}

func (s *MemoryStore) CreateProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[project.ID]; ok {
		return ErrDuplicate
	}
	stored := *project
	stored.Tasks = nil
	s.projects[project.ID] = stored
	s.track(project.ID)
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %w", ErrNotFound)
	}
	return s.withTasks(project), nil
}

func (s *MemoryStore) ListProjectsByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return s.listProjects(func(p models.Project) bool { return p.OwnerID == ownerID }), nil
}

func (s *MemoryStore) ListProjectsWithDeadline(ctx context.Context) ([]*models.Project, error) {
	return s.listProjects(func(p models.Project) bool { return strings.TrimSpace(p.Deadline) != "" }), nil
}

func (s *MemoryStore) listProjects(keep func(models.Project) bool) []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projects := []*models.Project{}
	for _, p := range s.projects {
		if keep(p) {
			projects = append(projects, s.withTasks(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return s.before(projects[i].CreatedAt.UnixNano(), projects[i].ID, projects[j].CreatedAt.UnixNano(), projects[j].ID)
	})
	return projects
}

// withTasks must be called with the lock held.
func (s *MemoryStore) withTasks(project models.Project) *models.Project {
	project.Tasks = []models.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == project.ID {
			project.Tasks = append(project.Tasks, t)
		}
	}
	sort.Slice(project.Tasks, func(i, j int) bool {
		a, b := project.Tasks[i], project.Tasks[j]
		return s.before(a.CreatedAt.UnixNano(), a.ID, b.CreatedAt.UnixNano(), b.ID)
	})
	return &project
}

func (s *MemoryStore) before(aTime int64, aID string, bTime int64, bID string) bool {
	if aTime != bTime {
		return aTime < bTime
	}
	return s.seq[aID] < s.seq[bID]
}

func (s *MemoryStore) track(id string) {
	s.nextSeq++
	s.seq[id] = s.nextSeq
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	delete(s.projects, id)
	delete(s.seq, id)
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
			delete(s.seq, taskID)
		}
	}
	return nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; ok {
		return ErrDuplicate
	}
	s.tasks[task.ID] = *task
	s.track(task.ID)
	return nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	return &task, nil
}

func (s *MemoryStore) SetTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %w", ErrNotFound)
	}
	task.Completed = completed
	s.tasks[id] = task
	return &task, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %w", ErrNotFound)
	}
	delete(s.tasks, id)
	delete(s.seq, id)
	return nil
}
