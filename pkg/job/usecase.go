package job

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talosync/jobportal/pkg/notify"
)

// UseCase инкапсулирует каталог вакансий.
type UseCase interface {
	Create(ctx context.Context, j Job) (Job, error)
	List(ctx context.Context, limit, offset int) ([]Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (Listing, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Listing, error)
	Update(ctx context.Context, employerID, id uuid.UUID, patch Patch) (Job, error)
	Delete(ctx context.Context, employerID, id uuid.UUID) error
	Analytics(ctx context.Context, employerID, id uuid.UUID) ([]StatusCount, error)
}

// Patch — частичное обновление вакансии владельцем. Nil-поля не трогаются.
// IsOpen входит сюда: повторное открытие вакансии — явное действие
// работодателя, автоматически isOpen обратно в true не переводится.
type Patch struct {
	Title           *string
	Description     *string
	Requirements    []string
	Salary          *float64
	ExperienceLevel *string
	Location        *string
	JobType         *string
	Position        *int
	IsOpen          *bool
}

// ErrValidation простая ошибка валидации.
type ErrValidation string

func (e ErrValidation) Error() string { return string(e) }

type service struct {
	repo      Repository
	companies CompanyDirectory
	alerts    AlertList
	mailer    notify.Sender
	frontend  string
	log       zerolog.Logger

	// tracks in-flight alert fanouts; tests wait on it
	fanout sync.WaitGroup
}

// NewService собирает каталог вакансий. mailer может быть nil — тогда
// рассылка о новых вакансиях отключена.
func NewService(repo Repository, companies CompanyDirectory, alerts AlertList, mailer notify.Sender, frontendURL string, log zerolog.Logger) UseCase {
	return &service{
		repo:      repo,
		companies: companies,
		alerts:    alerts,
		mailer:    mailer,
		frontend:  frontendURL,
		log:       log,
	}
}

func (s *service) Create(ctx context.Context, j Job) (Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	if j.Title == "" || j.Description == "" || j.Salary <= 0 ||
		strings.TrimSpace(j.ExperienceLevel) == "" || strings.TrimSpace(j.Location) == "" ||
		strings.TrimSpace(j.JobType) == "" || j.Position < 1 {
		return Job{}, ErrValidation("all required fields must be provided")
	}

	// Вакансию публикует только работодатель с компанией.
	comp, err := s.companies.CompanyByOwner(ctx, j.CreatedBy)
	if err != nil {
		return Job{}, ErrNoCompany
	}

	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	j.CompanyID = comp.ID
	j.IsOpen = true
	j.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, j); err != nil {
		return Job{}, err
	}

	// Рассылка подписчикам после коммита; сбои не влияют на ответ.
	if s.mailer != nil && s.alerts != nil {
		s.fanout.Add(1)
		go func() {
			defer s.fanout.Done()
			s.notifySubscribers(j, comp)
		}()
	}
	return j, nil
}

func (s *service) notifySubscribers(j Job, comp CompanySummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	subs, err := s.alerts.AlertSubscribers(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("job alerts: failed to list subscribers")
		return
	}
	for _, sub := range subs {
		msg := notify.Message{
			To:      sub.Email,
			ToName:  sub.FullName,
			Subject: "New Job Alert!",
			Text: fmt.Sprintf("Hello %s,\n\n%s is hiring: %s (%s, %s).\nView the full description: %s/jobs",
				sub.FullName, comp.Name, j.Title, j.Location, j.JobType, s.frontend),
		}
		if err := s.mailer.Send(ctx, msg); err != nil {
			s.log.Error().Err(err).Str("to", sub.Email).Msg("job alerts: send failed")
		}
	}
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Listing, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]Listing, error) {
	return s.repo.ListByEmployer(ctx, employerID)
}

func (s *service) Update(ctx context.Context, employerID, id uuid.UUID, patch Patch) (Job, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Job{}, err
	}
	j := listing.Job
	if j.CreatedBy != employerID {
		return Job{}, ErrNotFound
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		j.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) != "" {
		j.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Requirements != nil {
		j.Requirements = patch.Requirements
	}
	if patch.Salary != nil && *patch.Salary > 0 {
		j.Salary = *patch.Salary
	}
	if patch.ExperienceLevel != nil && strings.TrimSpace(*patch.ExperienceLevel) != "" {
		j.ExperienceLevel = strings.TrimSpace(*patch.ExperienceLevel)
	}
	if patch.Location != nil && strings.TrimSpace(*patch.Location) != "" {
		j.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.JobType != nil && strings.TrimSpace(*patch.JobType) != "" {
		j.JobType = strings.TrimSpace(*patch.JobType)
	}
	if patch.Position != nil && *patch.Position >= 1 {
		j.Position = *patch.Position
	}
	if patch.IsOpen != nil {
		j.IsOpen = *patch.IsOpen
	}
	if err := s.repo.Update(ctx, j); err != nil {
		return Job{}, err
	}
	return j, nil
}

func (s *service) Delete(ctx context.Context, employerID, id uuid.UUID) error {
	return s.repo.DeleteForOwner(ctx, employerID, id)
}

func (s *service) Analytics(ctx context.Context, employerID, id uuid.UUID) ([]StatusCount, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.CreatedBy != employerID {
		return nil, ErrNotFound
	}
	return s.repo.CountApplicationsByStatus(ctx, id)
}
