package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/presentation"
	"guilt-meter/tracker-service/progress"
	"guilt-meter/tracker-service/repositories"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

type ProjectService struct {
	projects repositories.ProjectRepository
	breaker  *gobreaker.CircuitBreaker
	mapper   *presentation.Mapper
	now      func() time.Time
}

func NewProjectService(projects repositories.ProjectRepository, breaker *gobreaker.CircuitBreaker, mapper *presentation.Mapper) *ProjectService {
	return &ProjectService{
		projects: projects,
		breaker:  breaker,
		mapper:   mapper,
		now:      time.Now,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, req models.ProjectCreate) (*models.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrValidation)
	}
	deadline := strings.TrimSpace(req.Deadline)
	if deadline != "" {
		if _, err := time.Parse(models.DeadlineLayout, deadline); err != nil {
			return nil, fmt.Errorf("%w: deadline must be a YYYY-MM-DD date", ErrValidation)
		}
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Reward:      strings.TrimSpace(req.Reward),
		Deadline:    deadline,
		CreatedAt:   s.now().UTC(),
	}
	if err := exec(s.breaker, func() error { return s.projects.CreateProject(ctx, project) }); err != nil {
		return nil, err
	}
	project.Tasks = []models.Task{}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by user %s", project.ID, ownerID)
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]models.ProjectProgress, error) {
	projects, err := call(s.breaker, func() ([]*models.Project, error) {
		return s.projects.ListProjectsByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.ProjectProgress, 0, len(projects))
	for _, p := range projects {
		out = append(out, models.ProjectProgress{Project: p, Progress: progress.Calculate(p.Tasks)})
	}
	return out, nil
}

func (s *ProjectService) GetProject(ctx context.Context, ownerID, projectID string) (*models.ProjectProgress, error) {
	project, err := ownedProject(ctx, s.breaker, s.projects, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	return &models.ProjectProgress{Project: project, Progress: progress.Calculate(project.Tasks)}, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, ownerID, projectID string) error {
	if _, err := ownedProject(ctx, s.breaker, s.projects, ownerID, projectID); err != nil {
		return err
	}
	if err := exec(s.breaker, func() error { return s.projects.DeleteProject(ctx, projectID) }); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by user %s", projectID, ownerID)
	return nil
}

// Meter computes the project's progress and maps its guilt to a color and message.
func (s *ProjectService) Meter(ctx context.Context, ownerID, projectID string) (*models.Meter, error) {
	project, err := ownedProject(ctx, s.breaker, s.projects, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	state := progress.Calculate(project.Tasks)
	tier := s.mapper.Map(state.GuiltPercentage)
	return &models.Meter{
		ProjectID: project.ID,
		Progress:  state,
		Color:     tier.Color,
		Message:   tier.Message,
	}, nil
}
