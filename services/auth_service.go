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
	"guilt-meter/tracker-service/utils"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

type AuthService struct {
	users   repositories.UserRepository
	breaker *gobreaker.CircuitBreaker
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewAuthService(users repositories.UserRepository, breaker *gobreaker.CircuitBreaker, secret []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		users:   users,
		breaker: breaker,
		secret:  secret,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Signup registers a new user and returns a bearer token for them.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.TokenResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email, name and password are required", ErrValidation)
	}

	_, err := call(s.breaker, func() (*models.User, error) {
		return s.users.GetUserByEmail(ctx, email)
	})
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	err = exec(s.breaker, func() error { return s.users.CreateUser(ctx, user) })
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered", user.ID)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := call(s.breaker, func() (*models.User, error) {
		return s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.ID)
	return s.issue(user)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return call(s.breaker, func() (*models.User, error) {
		return s.users.GetUserByID(ctx, userID)
	})
}

func (s *AuthService) issue(user *models.User) (*models.TokenResponse, error) {
	token, err := utils.GenerateToken(s.secret, user.ID, user.Email, s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   utils.TokenType,
		User:        user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
