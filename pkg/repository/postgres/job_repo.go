package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talosync/jobportal/pkg/application"
	"github.com/talosync/jobportal/pkg/job"
)

// JobRepository implements job.Repository and application.JobGate
// backed by PostgreSQL (pgx).
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) (*JobRepository, error) {
	r := &JobRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *JobRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS jobs (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	requirements TEXT[] NOT NULL DEFAULT '{}',
	salary DOUBLE PRECISION NOT NULL,
	experience_level TEXT NOT NULL,
	location TEXT NOT NULL,
	job_type TEXT NOT NULL,
	position INT NOT NULL CHECK (position >= 1),
	is_open BOOLEAN NOT NULL DEFAULT TRUE,
	company_id UUID NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
	created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_by ON jobs(created_by);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company_id);
`)
	return err
}

func (r *JobRepository) Create(ctx context.Context, j job.Job) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO jobs (id, title, description, requirements, salary, experience_level,
	location, job_type, position, is_open, company_id, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`, j.ID, j.Title, j.Description, j.Requirements, j.Salary, j.ExperienceLevel,
		j.Location, j.JobType, j.Position, j.IsOpen, j.CompanyID, j.CreatedBy, j.CreatedAt)
	return err
}

const listingColumns = `j.id, j.title, j.description, j.requirements, j.salary,
	j.experience_level, j.location, j.job_type, j.position, j.is_open,
	j.company_id, j.created_by, j.created_at,
	c.id, c.name, c.location, c.logo_url`

func scanListing(row pgx.Row) (job.Listing, error) {
	var l job.Listing
	var created time.Time
	err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Requirements, &l.Salary,
		&l.ExperienceLevel, &l.Location, &l.JobType, &l.Position, &l.IsOpen,
		&l.CompanyID, &l.CreatedBy, &created,
		&l.Company.ID, &l.Company.Name, &l.Company.Location, &l.Company.LogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Listing{}, job.ErrNotFound
		}
		return job.Listing{}, err
	}
	l.CreatedAt = created.UTC()
	return l, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	row := r.pool.QueryRow(ctx, `
SELECT `+listingColumns+`
FROM jobs j JOIN companies c ON c.id = j.company_id
WHERE j.id = $1
`, id)
	return scanListing(row)
}

func (r *JobRepository) listQuery(ctx context.Context, where, tail string, args ...any) ([]job.Listing, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+listingColumns+`
FROM jobs j JOIN companies c ON c.id = j.company_id
`+where+`
ORDER BY j.created_at DESC
`+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []job.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *JobRepository) List(ctx context.Context, limit, offset int) ([]job.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.listQuery(ctx, ``, `LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *JobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Listing, error) {
	return r.listQuery(ctx, `WHERE j.created_by = $1`, ``, employerID)
}

func (r *JobRepository) ListAll(ctx context.Context, limit, offset int) ([]job.Listing, error) {
	return r.List(ctx, limit, offset)
}

func (r *JobRepository) Update(ctx context.Context, j job.Job) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE jobs SET title = $2, description = $3, requirements = $4, salary = $5,
	experience_level = $6, location = $7, job_type = $8, position = $9, is_open = $10
WHERE id = $1
`, j.ID, j.Title, j.Description, j.Requirements, j.Salary,
		j.ExperienceLevel, j.Location, j.JobType, j.Position, j.IsOpen)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *JobRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND created_by = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *JobRepository) DeleteAny(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&n)
	return n, err
}

func (r *JobRepository) CountApplicationsByStatus(ctx context.Context, jobID uuid.UUID) ([]job.StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
SELECT status, COUNT(*) FROM applications WHERE job_id = $1 GROUP BY status
`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []job.StatusCount
	for rows.Next() {
		var sc job.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		res = append(res, sc)
	}
	return res, rows.Err()
}

// JobSummary реализует application.JobGate.
func (r *JobRepository) JobSummary(ctx context.Context, jobID uuid.UUID) (application.JobSummary, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, title, created_by, position, is_open FROM jobs WHERE id = $1`, jobID)
	var s application.JobSummary
	if err := row.Scan(&s.ID, &s.Title, &s.CreatedBy, &s.Position, &s.IsOpen); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.JobSummary{}, job.ErrNotFound
		}
		return application.JobSummary{}, err
	}
	return s, nil
}

// CompanyByOwner реализует job.CompanyDirectory.
func (r *JobRepository) CompanyByOwner(ctx context.Context, ownerID uuid.UUID) (job.CompanySummary, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, location, logo_url FROM companies WHERE owner_id = $1`, ownerID)
	var c job.CompanySummary
	if err := row.Scan(&c.ID, &c.Name, &c.Location, &c.LogoURL); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.CompanySummary{}, job.ErrNoCompany
		}
		return job.CompanySummary{}, err
	}
	return c, nil
}
