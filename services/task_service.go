package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/repositories"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

type TaskService struct {
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	breaker  *gobreaker.CircuitBreaker
	now      func() time.Time
}

func NewTaskService(projects repositories.ProjectRepository, tasks repositories.TaskRepository, breaker *gobreaker.CircuitBreaker) *TaskService {
	return &TaskService{
		projects: projects,
		tasks:    tasks,
		breaker:  breaker,
		now:      time.Now,
	}
}

// AddTask appends a task to one of the owner's projects. A missing weight
// defaults to models.DefaultTaskWeight; weights must be positive.
func (s *TaskService) AddTask(ctx context.Context, ownerID, projectID string, req models.TaskCreate) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrValidation)
	}
	weight := models.DefaultTaskWeight
	if req.Weight != nil {
		if !(*req.Weight > 0) {
			return nil, fmt.Errorf("%w: weight must be greater than 0", ErrValidation)
		}
		weight = *req.Weight
	}

	if _, err := ownedProject(ctx, s.breaker, s.projects, ownerID, projectID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Weight:      weight,
		CreatedAt:   s.now().UTC(),
	}
	if err := exec(s.breaker, func() error { return s.tasks.CreateTask(ctx, task) }); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s added to project %s with weight %g", task.ID, projectID, weight)
	return task, nil
}

// ToggleTask flips the completion flag of a task the owner can see.
func (s *TaskService) ToggleTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	updated, err := call(s.breaker, func() (*models.Task, error) {
		return s.tasks.SetTaskCompleted(ctx, taskID, !task.Completed)
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: TASK_TOGGLED, Description: Task %s completed=%t", taskID, updated.Completed)
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.ownedTask(ctx, ownerID, taskID); err != nil {
		return err
	}
	if err := exec(s.breaker, func() error { return s.tasks.DeleteTask(ctx, taskID) }); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by user %s", taskID, ownerID)
	return nil
}

func (s *TaskService) ownedTask(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := call(s.breaker, func() (*models.Task, error) {
		return s.tasks.GetTask(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}
	if _, err := ownedProject(ctx, s.breaker, s.projects, ownerID, task.ProjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("task %w", repositories.ErrNotFound)
		}
		return nil, err
	}
	return task, nil
}
