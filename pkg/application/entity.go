package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status — состояние отклика. Из pending возможен единственный переход в
// одно из терминальных состояний; терминальный статус больше не меняется.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Decidable reports whether the status is a valid employer decision.
func (s Status) Decidable() bool { return s == StatusAccepted || s == StatusRejected }

// Application — отклик кандидата на вакансию. На пару (вакансия,
// кандидат) допускается не более одного отклика.
type Application struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job"`
	ApplicantID uuid.UUID `json:"applicant"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Detail — отклик вместе с данными вакансии и кандидата, нужными для
// проверки владения, письма о решении и выдачи резюме.
type Detail struct {
	Application
	JobTitle       string
	JobCreatorID   uuid.UUID
	JobPosition    int
	JobOpen        bool
	ApplicantName  string
	ApplicantEmail string
	ResumeURL      string
}

// CandidateItem — строка списка "мои отклики".
type CandidateItem struct {
	Application
	JobTitle        string `json:"jobTitle"`
	JobLocation     string `json:"jobLocation"`
	CompanyName     string `json:"companyName"`
	CompanyLocation string `json:"companyLocation"`
	CompanyLogo     string `json:"companyLogo"`
}

// EmployerItem — строка списка откликов на вакансию работодателя.
type EmployerItem struct {
	Application
	ApplicantName  string   `json:"applicantName"`
	ApplicantEmail string   `json:"applicantEmail"`
	Skills         []string `json:"skills"`
	ResumeURL      string   `json:"resume,omitempty"`
}

// Pagination повторяет форму ответа публичного API.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrJobClosed      = errors.New("this job is no longer accepting applications")
	ErrAlreadyApplied = errors.New("you have already applied for this job")
	ErrNotFound       = errors.New("application not found")
	ErrNotJobOwner    = errors.New("not authorized")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrResumeMissing  = errors.New("resume not found")
)

// AlreadyDecidedError возвращается при попытке изменить терминальный
// статус; сообщение называет текущее состояние отклика.
type AlreadyDecidedError struct {
	Status Status
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("application already %s and cannot be changed", e.Status)
}

// Repository — порт хранилища откликов.
type Repository interface {
	// Create вставляет отклик; дубликат пары (job, applicant) возвращает
	// ErrAlreadyApplied (уникальный индекс — страховка от гонки), вставка
	// в уже закрытую вакансию — ErrJobClosed.
	Create(ctx context.Context, a Application) error
	GetDetail(ctx context.Context, id uuid.UUID) (Detail, error)
	// Decide атомарно переводит pending-отклик в терминальный статус.
	// Для accepted в той же транзакции выполняется правило ёмкости:
	// если число уже принятых откликов (без текущего) достигло
	// jobs.position, вакансия закрывается до записи нового статуса.
	// Не-pending отклик возвращает AlreadyDecidedError.
	Decide(ctx context.Context, id uuid.UUID, status Status) (Application, error)
	// DeleteForApplicant удаляет отклик, если он принадлежит кандидату;
	// иначе ErrNotFound (владение — предикат запроса, не отдельная проверка).
	DeleteForApplicant(ctx context.Context, id, applicantID uuid.UUID) error
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]CandidateItem, error)
	ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]EmployerItem, error)
	CountByJob(ctx context.Context, jobID uuid.UUID) (int, error)
	Count(ctx context.Context) (int, error)
}

// JobGate — узкий порт к каталогу вакансий.
type JobGate interface {
	JobSummary(ctx context.Context, jobID uuid.UUID) (JobSummary, error)
}

// JobSummary — минимум сведений о вакансии для приёма отклика.
type JobSummary struct {
	ID        uuid.UUID
	Title     string
	CreatedBy uuid.UUID
	Position  int
	IsOpen    bool
}
