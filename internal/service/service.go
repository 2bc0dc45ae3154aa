package service

import (
	"context"

	"task_manager/internal/events"
	"task_manager/internal/logger"
	"task_manager/internal/models"
	"task_manager/internal/repository"
)

// Authorization hashes passwords and issues/verifies identity tokens.
type Authorization interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) bool
	GenerateToken(userID string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Users covers registration, login and the public user directory.
type Users interface {
	Register(ctx context.Context, in RegisterInput) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, id string) (models.User, error)
}

// Tasks covers task CRUD and the per-user dashboard.
type Tasks interface {
	Create(ctx context.Context, in TaskInput) (models.TaskView, error)
	List(ctx context.Context) ([]models.TaskView, error)
	Get(ctx context.Context, id string) (models.TaskView, error)
	Update(ctx context.Context, id string, in TaskInput) (models.TaskView, error)
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context, callerID, userID string) (models.Dashboard, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Users
	Tasks
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, auth *AuthService, publisher events.Publisher, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		Authorization: auth,
		Users:         NewUserService(repos.Users, auth),
		Tasks:         NewTaskService(repos.Tasks, repos.Users, publisher, log),
	}
}
