package company

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Company описывает компанию работодателя. У одного работодателя может
// быть только одна компания.
type Company struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	LogoURL     string    `json:"logo"`
	OwnerID     uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	ErrNotFound          = errors.New("company not found")
	ErrAlreadyRegistered = errors.New("employer already has a registered company")
)

// Repository — порт для работы с компаниями.
type Repository interface {
	// Create сохраняет компанию и связывает её с владельцем (users.company_id)
	// в одной транзакции.
	Create(ctx context.Context, c Company) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (Company, error)
	Update(ctx context.Context, c Company) error
	// admin
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	ListAll(ctx context.Context, limit, offset int) ([]Company, error)
	Count(ctx context.Context) (int, error)
	// Delete каскадно удаляет вакансии компании и их отклики; ссылка
	// владельца очищается внешним ключом ON DELETE SET NULL.
	Delete(ctx context.Context, id uuid.UUID) error
}
