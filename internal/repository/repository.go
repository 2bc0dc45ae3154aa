package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"task_manager/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateEmail is returned by UserRepo.Create when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepo persists user accounts. Lookups return (nil, nil) when nothing matches.
type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// TaskRepo persists tasks. GetByID returns (nil, nil) when nothing matches;
// Replace and Delete report whether a task with the id existed.
type TaskRepo interface {
	Create(ctx context.Context, t *models.Task) error
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Replace(ctx context.Context, t *models.Task) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f TaskFilter) ([]models.Task, error)
}

// TaskFilter narrows TaskRepo.List. Zero fields do not filter.
type TaskFilter struct {
	AssignedTo    string
	CreatedBy     string
	DueBefore     time.Time // exclusive
	ExcludeStatus string
}

type Repository struct {
	Users UserRepo
	Tasks TaskRepo
}

// NewSQLiteRepository builds repositories over an initialized SQLite handle.
func NewSQLiteRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserSQLite(db),
		Tasks: NewTaskSQLite(db),
	}
}

// NewMongoRepository builds repositories over a MongoDB database.
func NewMongoRepository(db *mongo.Database) *Repository {
	return &Repository{
		Users: NewUserMongo(db),
		Tasks: NewTaskMongo(db),
	}
}
