package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guilt-meter/tracker-service/logging"
	"guilt-meter/tracker-service/models"
	"guilt-meter/tracker-service/repositories"

	"github.com/sony/gobreaker"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUnavailable        = errors.New("storage is temporarily unavailable")
)

// NewStoreBreaker trips after more than maxFailures consecutive storage
// failures. Missing records and duplicates are answers, not failures.
func NewStoreBreaker(maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "StoreCB",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repositories.ErrNotFound) ||
				errors.Is(err, repositories.ErrDuplicate) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// call runs fn through cb. An open breaker surfaces as ErrUnavailable.
func call[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	if cb == nil {
		return fn()
	}
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, ErrUnavailable
	}
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

func exec(cb *gobreaker.CircuitBreaker, fn func() error) error {
	_, err := call(cb, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// ownedProject loads a project and hides it from anyone but its owner.
func ownedProject(ctx context.Context, cb *gobreaker.CircuitBreaker, projects repositories.ProjectRepository, ownerID, projectID string) (*models.Project, error) {
	project, err := call(cb, func() (*models.Project, error) {
		return projects.GetProject(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, fmt.Errorf("project %w", repositories.ErrNotFound)
	}
	return project, nil
}
