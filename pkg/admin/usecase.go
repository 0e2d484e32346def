package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/talosync/jobportal/pkg/application"
	"github.com/talosync/jobportal/pkg/company"
	"github.com/talosync/jobportal/pkg/job"
	"github.com/talosync/jobportal/pkg/user"
)

// Stats — сводные счётчики платформы для панели администратора.
type Stats struct {
	TotalUsers        int `json:"totalUsers"`
	TotalJobs         int `json:"totalJobs"`
	TotalApplications int `json:"totalApplications"`
	TotalCompanies    int `json:"totalCompanies"`
	Candidates        int `json:"candidates"`
	Employers         int `json:"employers"`
}

// UseCase — модерация пользователей, вакансий и компаний. Новых
// инвариантов не вводит, только сквозные чтения и каскадные удаления.
type UseCase interface {
	Stats(ctx context.Context) (Stats, error)
	ListUsers(ctx context.Context, page, limit int) ([]user.User, application.Pagination, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ToggleBlock(ctx context.Context, id uuid.UUID) (bool, error)
	ListJobs(ctx context.Context, limit, offset int) ([]job.Listing, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context, limit, offset int) ([]company.Company, error)
	DeleteCompany(ctx context.Context, id uuid.UUID) error
}

type service struct {
	users     user.Repository
	jobs      job.Repository
	companies company.Repository
	apps      application.Repository
}

func NewService(users user.Repository, jobs job.Repository, companies company.Repository, apps application.Repository) UseCase {
	return &service{users: users, jobs: jobs, companies: companies, apps: apps}
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.TotalUsers, err = s.users.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalJobs, err = s.jobs.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalApplications, err = s.apps.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.TotalCompanies, err = s.companies.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.Candidates, err = s.users.CountByRole(ctx, user.RoleCandidate); err != nil {
		return Stats{}, err
	}
	if st.Employers, err = s.users.CountByRole(ctx, user.RoleEmployer); err != nil {
		return Stats{}, err
	}
	return st, nil
}

func (s *service) ListUsers(ctx context.Context, page, limit int) ([]user.User, application.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	users, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, application.Pagination{}, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, application.Pagination{}, err
	}
	pages := (total + limit - 1) / limit
	return users, application.Pagination{Total: total, Page: page, Pages: pages}, nil
}

// DeleteUser удаляет любого пользователя, кроме администратора.
func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == user.RoleAdmin {
		return user.ErrAdminProtected
	}
	return s.users.Delete(ctx, id)
}

func (s *service) ToggleBlock(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	blocked := !u.IsBlocked
	if err := s.users.SetBlocked(ctx, id, blocked); err != nil {
		return false, err
	}
	return blocked, nil
}

func (s *service) ListJobs(ctx context.Context, limit, offset int) ([]job.Listing, error) {
	return s.jobs.ListAll(ctx, limit, offset)
}

// DeleteJob удаляет вакансию; её отклики удаляются каскадно.
func (s *service) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return s.jobs.DeleteAny(ctx, id)
}

func (s *service) ListCompanies(ctx context.Context, limit, offset int) ([]company.Company, error) {
	return s.companies.ListAll(ctx, limit, offset)
}

// DeleteCompany удаляет компанию, её вакансии и их отклики; ссылка
// владельца на компанию очищается.
func (s *service) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return s.companies.Delete(ctx, id)
}
