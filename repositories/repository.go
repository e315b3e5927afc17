// Package repositories persists users, projects and tasks.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"guilt-meter/tracker-service/config"
	"guilt-meter/tracker-service/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProjectRepository returns projects with their tasks ordered by creation time.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]*models.Project, error)
	ListProjectsWithDeadline(ctx context.Context) ([]*models.Project, error)
	// DeleteProject removes the project and all of its tasks.
	DeleteProject(ctx context.Context, id string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	SetTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type Store interface {
	UserRepository
	ProjectRepository
	TaskRepository
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDBName)
	case config.DriverSQLite:
		return NewSQLStore(cfg.SQLitePath)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
