package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_manager/internal/models"
	"task_manager/internal/repository"
)

type UserService struct {
	users repository.UserRepo
	auth  Authorization
	now   func() time.Time
}

func NewUserService(users repository.UserRepo, auth Authorization) *UserService {
	return &UserService{users: users, auth: auth, now: time.Now}
}

var _ Users = (*UserService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. The email is the identity and must be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || strings.TrimSpace(in.Password) == "" {
		return models.User{}, validationError("All fields are required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if existing != nil {
		return models.User{}, ErrUserExists
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	return u, nil
}

// Login checks credentials and returns a signed token for the user.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", models.User{}, validationError("Please provide email and password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", models.User{}, err
	}
	if u == nil || !s.auth.CheckPassword(u.PasswordHash, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(u.ID)
	if err != nil {
		return "", models.User{}, err
	}
	return token, *u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// Get returns the user with id. Malformed and unknown ids are both not found.
func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	if !models.IsValidID(id) {
		return models.User{}, ErrUserNotFound
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return *u, nil
}
