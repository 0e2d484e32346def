package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talosync/jobportal/pkg/application"
)

// ApplicationRepository implements application.Repository backed by
// PostgreSQL (pgx). Переход статуса и правило ёмкости выполняются в
// одной транзакции с блокировкой строк, поэтому два одновременных
// принятия на одну вакансию сериализуются и не могут вдвоём пройти
// проверку ёмкости.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) (*ApplicationRepository, error) {
	r := &ApplicationRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *ApplicationRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS applications (
	id UUID PRIMARY KEY,
	job_id UUID NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	applicant_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	status TEXT NOT NULL CHECK (status IN ('pending', 'accepted', 'rejected')),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	UNIQUE (job_id, applicant_id)
);
CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id);
CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id);
`)
	return err
}

// Create вставляет отклик только если вакансия всё ещё открыта: между
// проверкой в usecase и вставкой вакансию могли успеть закрыть.
func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) error {
	cmd, err := r.pool.Exec(ctx, `
INSERT INTO applications (id, job_id, applicant_id, status, created_at, updated_at)
SELECT $1, $2, $3, $4, $5, $6
WHERE EXISTS (SELECT 1 FROM jobs WHERE id = $2 AND is_open)
`, a.ID, a.JobID, a.ApplicantID, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return application.ErrAlreadyApplied
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return application.ErrJobClosed
	}
	return nil
}

func (r *ApplicationRepository) GetDetail(ctx context.Context, id uuid.UUID) (application.Detail, error) {
	row := r.pool.QueryRow(ctx, `
SELECT a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
	j.title, j.created_by, j.position, j.is_open,
	u.full_name, u.email, u.resume_url
FROM applications a
JOIN jobs j ON j.id = a.job_id
JOIN users u ON u.id = a.applicant_id
WHERE a.id = $1
`, id)
	var d application.Detail
	var created, updated time.Time
	err := row.Scan(&d.ID, &d.JobID, &d.ApplicantID, &d.Status, &created, &updated,
		&d.JobTitle, &d.JobCreatorID, &d.JobPosition, &d.JobOpen,
		&d.ApplicantName, &d.ApplicantEmail, &d.ResumeURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Detail{}, application.ErrNotFound
		}
		return application.Detail{}, err
	}
	d.CreatedAt = created.UTC()
	d.UpdatedAt = updated.UTC()
	return d, nil
}

// Decide переводит pending-отклик в терминальный статус. Для accepted
// сначала применяется правило ёмкости: число уже принятых откликов (без
// текущего) сравнивается с jobs.position, и при достижении порога
// вакансия закрывается до записи нового статуса. Строка вакансии
// блокируется FOR UPDATE, так что проверка и закрытие атомарны.
func (r *ApplicationRepository) Decide(ctx context.Context, id uuid.UUID, status application.Status) (application.Application, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return application.Application{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur application.Status
	var jobID uuid.UUID
	var position int
	err = tx.QueryRow(ctx, `
SELECT a.status, a.job_id, j.position
FROM applications a
JOIN jobs j ON j.id = a.job_id
WHERE a.id = $1
FOR UPDATE OF a, j
`, id).Scan(&cur, &jobID, &position)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	if cur != application.StatusPending {
		return application.Application{}, &application.AlreadyDecidedError{Status: cur}
	}

	if status == application.StatusAccepted {
		var accepted int
		err = tx.QueryRow(ctx, `
SELECT COUNT(*) FROM applications WHERE job_id = $1 AND status = 'accepted'
`, jobID).Scan(&accepted)
		if err != nil {
			return application.Application{}, err
		}
		if accepted >= position {
			if _, err := tx.Exec(ctx,
				`UPDATE jobs SET is_open = FALSE WHERE id = $1`, jobID); err != nil {
				return application.Application{}, err
			}
		}
	}

	var a application.Application
	var created, updated time.Time
	err = tx.QueryRow(ctx, `
UPDATE applications SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, job_id, applicant_id, status, created_at, updated_at
`, id, status).Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &created, &updated)
	if err != nil {
		return application.Application{}, err
	}
	a.CreatedAt = created.UTC()
	a.UpdatedAt = updated.UTC()
	if err := tx.Commit(ctx); err != nil {
		return application.Application{}, err
	}
	return a, nil
}

func (r *ApplicationRepository) DeleteForApplicant(ctx context.Context, id, applicantID uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM applications WHERE id = $1 AND applicant_id = $2`, id, applicantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return application.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.CandidateItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
	j.title, j.location, c.name, c.location, c.logo_url
FROM applications a
JOIN jobs j ON j.id = a.job_id
JOIN companies c ON c.id = j.company_id
WHERE a.applicant_id = $1
ORDER BY a.created_at DESC
`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []application.CandidateItem
	for rows.Next() {
		var it application.CandidateItem
		var created, updated time.Time
		if err := rows.Scan(&it.ID, &it.JobID, &it.ApplicantID, &it.Status, &created, &updated,
			&it.JobTitle, &it.JobLocation, &it.CompanyName, &it.CompanyLocation, &it.CompanyLogo); err != nil {
			return nil, err
		}
		it.CreatedAt = created.UTC()
		it.UpdatedAt = updated.UTC()
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID, limit, offset int) ([]application.EmployerItem, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
SELECT a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at,
	u.full_name, u.email, u.skills, u.resume_url
FROM applications a
JOIN users u ON u.id = a.applicant_id
WHERE a.job_id = $1
ORDER BY a.created_at DESC
LIMIT $2 OFFSET $3
`, jobID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []application.EmployerItem
	for rows.Next() {
		var it application.EmployerItem
		var created, updated time.Time
		if err := rows.Scan(&it.ID, &it.JobID, &it.ApplicantID, &it.Status, &created, &updated,
			&it.ApplicantName, &it.ApplicantEmail, &it.Skills, &it.ResumeURL); err != nil {
			return nil, err
		}
		it.CreatedAt = created.UTC()
		it.UpdatedAt = updated.UTC()
		res = append(res, it)
	}
	return res, rows.Err()
}

func (r *ApplicationRepository) CountByJob(ctx context.Context, jobID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = $1`, jobID).Scan(&n)
	return n, err
}

func (r *ApplicationRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n)
	return n, err
}
