package repositories

import (
	"context"
	"errors"
	"fmt"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	projects *mongo.Collection
	tasks    *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB database %s", dbName)

	db := client.Database(dbName)
	s := &MongoStore{
		client:   client,
		users:    db.Collection("users"),
		projects: db.Collection("projects"),
		tasks:    db.Collection("tasks"),
	}
	if err := s.createIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.projects, mongo.IndexModel{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: 1}}}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "projectId", Value: 1}, {Key: "createdAt", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: MongoDB indexes created")
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (s *MongoStore) CreateProject(ctx context.Context, project *models.Project) error {
	if _, err := s.projects.InsertOne(ctx, project); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (s *MongoStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, notFound(err, "project")
	}
	if err := s.attachTasks(ctx, []*models.Project{&project}); err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *MongoStore) ListProjectsByOwner(ctx context.Context, ownerID string) ([]*models.Project, error) {
	return s.listProjects(ctx, bson.M{"ownerId": ownerID})
}

func (s *MongoStore) ListProjectsWithDeadline(ctx context.Context) ([]*models.Project, error) {
	return s.listProjects(ctx, bson.M{"deadline": bson.M{"$exists": true, "$ne": ""}})
}

func (s *MongoStore) listProjects(ctx context.Context, filter bson.M) ([]*models.Project, error) {
	cursor, err := s.projects.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []*models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if err := s.attachTasks(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// attachTasks loads the tasks of all projects in one query.
func (s *MongoStore) attachTasks(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, 0, len(projects))
	byID := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		p.Tasks = []models.Task{}
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	cursor, err := s.tasks.Find(ctx, bson.M{"projectId": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("failed to retrieve tasks: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return fmt.Errorf("failed to decode task: %w", err)
		}
		if p, ok := byID[task.ProjectID]; ok {
			p.Tasks = append(p.Tasks, task)
		}
	}
	if err := cursor.Err(); err != nil {
		return fmt.Errorf("cursor error: %w", err)
	}
	return nil
}

// DeleteProject removes the tasks before the project so a failed call leaves
// the project in place and can be retried.
func (s *MongoStore) DeleteProject(ctx context.Context, id string) error {
	if err := s.projects.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		return notFound(err, "project")
	}
	if _, err := s.tasks.DeleteMany(ctx, bson.M{"projectId": id}); err != nil {
		return fmt.Errorf("failed to delete tasks of project %s: %w", id, err)
	}
	result, err := s.projects.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	return nil
}

func (s *MongoStore) CreateTask(ctx context.Context, task *models.Task) error {
	if _, err := s.tasks.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *MongoStore) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, notFound(err, "task")
	}
	return &task, nil
}

func (s *MongoStore) SetTaskCompleted(ctx context.Context, id string, completed bool) (*models.Task, error) {
	var task models.Task
	err := s.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"completed": completed}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		return nil, notFound(err, "task")
	}
	return &task, nil
}

func (s *MongoStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task %w", ErrNotFound)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to retrieve %s: %w", what, err)
}
