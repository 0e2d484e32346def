package company

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UseCase инкапсулирует операции работодателя над своей компанией.
type UseCase interface {
	Create(ctx context.Context, c Company) (Company, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) (Company, error)
	UpdateMine(ctx context.Context, ownerID uuid.UUID, patch Patch) (Company, error)
}

// Patch — частичное обновление: пустые поля не трогаются.
type Patch struct {
	Name        string
	Description string
	Website     string
	Location    string
	LogoURL     string
}

// ErrValidation простая ошибка валидации.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, c Company) (Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Company{}, ErrValidation("name is required")
	}
	// Одна компания на работодателя — проверяется до создания.
	if _, err := s.repo.GetByOwner(ctx, c.OwnerID); err == nil {
		return Company{}, ErrAlreadyRegistered
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Company{}, err
	}
	return c, nil
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) (Company, error) {
	return s.repo.GetByOwner(ctx, ownerID)
}

func (s *service) UpdateMine(ctx context.Context, ownerID uuid.UUID, patch Patch) (Company, error) {
	c, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return Company{}, err
	}
	if v := strings.TrimSpace(patch.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(patch.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(patch.Website); v != "" {
		c.Website = v
	}
	if v := strings.TrimSpace(patch.Location); v != "" {
		c.Location = v
	}
	if v := strings.TrimSpace(patch.LogoURL); v != "" {
		c.LogoURL = v
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return Company{}, err
	}
	return c, nil
}
