package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlocked            = errors.New("account has been blocked by admin")
	ErrAdminProtected     = errors.New("cannot delete admin")
)

// Repository abstracts persistence concerns from the domain layer.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Update(ctx context.Context, u User) error

	SetResume(ctx context.Context, id uuid.UUID, url, originalName, text string) error
	SetPhoto(ctx context.Context, id uuid.UUID, url string) error
	SetJobAlerts(ctx context.Context, id uuid.UUID, enabled bool) error

	// Избранные вакансии: дубликаты запрещены на уровне хранилища,
	// висячие ссылки отфильтровываются при чтении.
	SaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error
	IsJobSaved(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	SavedJobs(ctx context.Context, userID uuid.UUID) ([]SavedJob, error)

	// admin
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role Role) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error
}

// TokenGenerator abstracts token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, u User) (string, error)
}
