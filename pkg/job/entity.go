package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Job описывает вакансию. Position — ёмкость: максимум принятых
// кандидатов, после которого вакансия автоматически закрывается.
type Job struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Requirements    []string  `json:"requirements"`
	Salary          float64   `json:"salary"`
	ExperienceLevel string    `json:"experienceLevel"`
	Location        string    `json:"location"`
	JobType         string    `json:"jobType"`
	Position        int       `json:"position"`
	IsOpen          bool      `json:"isOpen"`
	CompanyID       uuid.UUID `json:"company"`
	CreatedBy       uuid.UUID `json:"created_by"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CompanySummary — краткая карточка компании для публичных списков.
type CompanySummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	LogoURL  string    `json:"logo"`
}

// Listing — вакансия вместе с карточкой компании.
type Listing struct {
	Job
	Company CompanySummary `json:"companyInfo"`
}

// StatusCount — количество откликов в одном статусе.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

var (
	ErrNotFound  = errors.New("job not found")
	ErrNoCompany = errors.New("employer must create a company before posting jobs")
)

// Repository — порт для работы с вакансиями.
type Repository interface {
	Create(ctx context.Context, j Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Listing, error)
	Update(ctx context.Context, j Job) error
	// DeleteForOwner удаляет вакансию владельца; отклики удаляются каскадно.
	DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error
	// admin
	Count(ctx context.Context) (int, error)
	ListAll(ctx context.Context, limit, offset int) ([]Listing, error)
	DeleteAny(ctx context.Context, id uuid.UUID) error
	CountApplicationsByStatus(ctx context.Context, jobID uuid.UUID) ([]StatusCount, error)
}

// CompanyDirectory — узкий порт к реестру компаний: вакансию может
// публиковать только работодатель с зарегистрированной компанией.
type CompanyDirectory interface {
	CompanyByOwner(ctx context.Context, ownerID uuid.UUID) (CompanySummary, error)
}

// Subscriber — кандидат, подписанный на уведомления о новых вакансиях.
type Subscriber struct {
	FullName string
	Email    string
}

// AlertList возвращает подписчиков рассылки о новых вакансиях.
type AlertList interface {
	AlertSubscribers(ctx context.Context) ([]Subscriber, error)
}
