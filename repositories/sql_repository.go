package repositories

import (
	"context"
	"errors"
	"fmt"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLStore keeps everything in a single SQLite file through GORM.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(path string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Using SQLite database at %s", path)
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *SQLStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, recordNotFound(err, "user")
	}
	return &user, nil
}

func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, recordNotFound(err, "user")
	}
	return &user, nil
}

func (s *SQLStore) CreateProject(ctx context.Context, project *models.Project) error {
	if err := s.db.WithContext(ctx).Omit("Tasks").Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *SQLStore) withTasks(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

func (s *SQLStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := s.withTasks(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, recordNotFound(err, "project")
	}
	ensureTasks(&project)
	return &project, nil
}

func (s *SQLStore) ListProjectsByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return s.listProjects(s.withTasks(ctx).Where("owner_id = ?", ownerID))
}

func (s *SQLStore) ListProjectsWithDeadline(ctx context.Context) ([]*models.Project, error) {
	return s.listProjects(s.withTasks(ctx).Where("deadline IS NOT NULL AND deadline <> ''"))
}

func (s *SQLStore) listProjects(query *gorm.DB) ([]*models.Project, error) {
	projects := []*models.Project{}
	if err := query.Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	for _, p := range projects {
		ensureTasks(p)
	}
	return projects, nil
}

func (s *SQLStore) DeleteProject(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks of project %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete project: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("project %w", ErrNotFound)
		}
		return nil
	})
}

func (s *SQLStore) CreateTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *SQLStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, recordNotFound(err, "task")
	}
	return &task, nil
}

func (s *SQLStore) SetTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(task).Update("completed", completed).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	task.Completed = completed
	return task, nil
}

func (s *SQLStore) DeleteTask(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("task %w", ErrNotFound)
	}
	return nil
}

func ensureTasks(p *models.Project) {
	if p.Tasks == nil {
		p.Tasks = []models.Task{}
	}
}

func recordNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to retrieve %s: %w", what, err)
}
