package domain

import (
	"context"

	"github.com/Apurva-Raj-FF/bt-backend/internal/domain/entity"
)

// ============ Repository interface ============

// UserRepository is the user data-access surface.
type UserRepository interface {
	// Create stores a new account.
	Create(ctx context.Context, name, email, passwordHash string) (*entity.User, error)

	// GetByEmail looks up an account for login.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByID looks up an account by id.
	GetByID(ctx context.Context, userID int64) (*entity.User, error)

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// ============ Usecase interface ============

// UserUsecase is the account business logic surface.
type UserUsecase interface {
	// Register creates a new account.
	Register(ctx context.Context, name, email, password string) (*entity.User, error)

	// Login verifies credentials and returns the account.
	Login(ctx context.Context, email, password string) (*entity.User, error)

	// GetUser returns account information.
	GetUser(ctx context.Context, userID int64) (*entity.User, error)
}
