package ports

import (
	"context"

	"github.com/soundhub/user-service/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AuthService.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     domain.Role
	BandName string
	Genre    string
	// IdempotencyKey is optional; a repeated key replays the first result.
	IdempotencyKey string
}

// RegisterResult is returned by AuthService.Register.
type RegisterResult struct {
	Account *domain.Account
	// AlreadyExisted is true when the Idempotency-Key matched an earlier registration.
	AlreadyExisted bool
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
}
