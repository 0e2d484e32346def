package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talosync/jobportal/pkg/notify"
)

// UseCase — жизненный цикл отклика: подача, решение работодателя,
// отзыв, списки и доступ к резюме.
type UseCase interface {
	Apply(ctx context.Context, jobID, candidateID uuid.UUID) (Application, error)
	UpdateStatus(ctx context.Context, id, employerID uuid.UUID, status Status) (Application, error)
	Withdraw(ctx context.Context, id, candidateID uuid.UUID) error
	ListMine(ctx context.Context, candidateID uuid.UUID) ([]CandidateItem, error)
	ListForJob(ctx context.Context, jobID, employerID uuid.UUID, page, limit int) ([]EmployerItem, Pagination, error)
	ResumeRef(ctx context.Context, id, employerID uuid.UUID) (string, error)
}

type service struct {
	repo   Repository
	jobs   JobGate
	mailer notify.Sender
	log    zerolog.Logger
}

// NewService собирает сервис откликов. mailer может быть nil — письма о
// решении тогда не отправляются.
func NewService(repo Repository, jobs JobGate, mailer notify.Sender, log zerolog.Logger) UseCase {
	return &service{repo: repo, jobs: jobs, mailer: mailer, log: log}
}

// Apply создаёт pending-отклик. Закрытая вакансия отклоняется до вставки
// записи, поэтому осиротевших откликов не остаётся.
func (s *service) Apply(ctx context.Context, jobID, candidateID uuid.UUID) (Application, error) {
	j, err := s.jobs.JobSummary(ctx, jobID)
	if err != nil {
		return Application{}, ErrJobNotFound
	}
	if !j.IsOpen {
		return Application{}, ErrJobClosed
	}

	now := time.Now().UTC()
	a := Application{
		ID:          uuid.New(),
		JobID:       jobID,
		ApplicantID: candidateID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

// UpdateStatus переводит отклик из pending в accepted/rejected.
// Проверки идут в фиксированном порядке: валидность статуса, наличие
// отклика, неизменность терминального состояния, владение вакансией.
// Сам переход (вместе с правилом ёмкости) атомарен на стороне хранилища.
func (s *service) UpdateStatus(ctx context.Context, id, employerID uuid.UUID, status Status) (Application, error) {
	if !status.Decidable() {
		return Application{}, ErrInvalidStatus
	}
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return Application{}, err
	}
	if d.Status != StatusPending {
		return Application{}, &AlreadyDecidedError{Status: d.Status}
	}
	if d.JobCreatorID != employerID {
		return Application{}, ErrNotJobOwner
	}

	updated, err := s.repo.Decide(ctx, id, status)
	if err != nil {
		return Application{}, err
	}

	// Письмо кандидату после коммита; сбой только логируется и никогда
	// не превращает состоявшийся переход в ошибку ответа.
	if s.mailer != nil {
		msg := notify.Message{
			To:      d.ApplicantEmail,
			ToName:  d.ApplicantName,
			Subject: fmt.Sprintf("Application %s", status),
			Text:    fmt.Sprintf("Your application for %s was %s.", d.JobTitle, status),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).
				Str("application", id.String()).
				Str("to", d.ApplicantEmail).
				Msg("status email failed to send, but status was updated")
		}
	}
	return updated, nil
}

func (s *service) Withdraw(ctx context.Context, id, candidateID uuid.UUID) error {
	return s.repo.DeleteForApplicant(ctx, id, candidateID)
}

func (s *service) ListMine(ctx context.Context, candidateID uuid.UUID) ([]CandidateItem, error) {
	return s.repo.ListByApplicant(ctx, candidateID)
}

// ListForJob отдаёт постраничный список откликов на вакансию работодателя.
// Несуществующая и чужая вакансии неразличимы для вызывающего: обе дают
// ErrNotJobOwner, чтобы не раскрывать факт существования.
func (s *service) ListForJob(ctx context.Context, jobID, employerID uuid.UUID, page, limit int) ([]EmployerItem, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	j, err := s.jobs.JobSummary(ctx, jobID)
	if err != nil || j.CreatedBy != employerID {
		return nil, Pagination{}, ErrNotJobOwner
	}

	offset := (page - 1) * limit
	items, err := s.repo.ListByJob(ctx, jobID, limit, offset)
	if err != nil {
		return nil, Pagination{}, err
	}
	total, err := s.repo.CountByJob(ctx, jobID)
	if err != nil {
		return nil, Pagination{}, err
	}
	pages := (total + limit - 1) / limit
	return items, Pagination{Total: total, Page: page, Pages: pages}, nil
}

// ResumeRef — шлюз авторизации к резюме кандидата: возвращает внешний
// URL для редиректа, байты файла сервисом не проксируются.
func (s *service) ResumeRef(ctx context.Context, id, employerID uuid.UUID) (string, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return "", err
	}
	if d.JobCreatorID != employerID {
		return "", ErrNotJobOwner
	}
	if d.ResumeURL == "" {
		return "", ErrResumeMissing
	}
	return d.ResumeURL, nil
}
