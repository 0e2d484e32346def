package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talosync/jobportal/pkg/company"
)

// CompanyRepository implements company.Repository backed by PostgreSQL (pgx).
type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) (*CompanyRepository, error) {
	r := &CompanyRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *CompanyRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS companies (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	logo_url TEXT NOT NULL DEFAULT '',
	owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_companies_owner ON companies(owner_id);
-- Ссылка пользователя на его компанию; очищается при удалении компании.
ALTER TABLE users ADD COLUMN IF NOT EXISTS
	company_id UUID REFERENCES companies(id) ON DELETE SET NULL;
`)
	return err
}

// Create записывает компанию и проставляет ссылку владельцу в одной
// транзакции, чтобы связь не могла потеряться между двумя записями.
func (r *CompanyRepository) Create(ctx context.Context, c company.Company) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
INSERT INTO companies (id, name, description, website, location, logo_url, owner_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`, c.ID, c.Name, c.Description, c.Website, c.Location, c.LogoURL, c.OwnerID, c.CreatedAt)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `UPDATE users SET company_id = $1 WHERE id = $2`, c.ID, c.OwnerID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const companyColumns = `id, name, description, website, location, logo_url, owner_id, created_at`

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	var created time.Time
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Website, &c.Location,
		&c.LogoURL, &c.OwnerID, &created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	c.CreatedAt = created.UTC()
	return c, nil
}

func (r *CompanyRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (company.Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE owner_id = $1`, ownerID)
	return scanCompany(row)
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) Update(ctx context.Context, c company.Company) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE companies SET name = $2, description = $3, website = $4, location = $5, logo_url = $6
WHERE id = $1
`, c.ID, c.Name, c.Description, c.Website, c.Location, c.LogoURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return company.ErrNotFound
	}
	return nil
}

func (r *CompanyRepository) ListAll(ctx context.Context, limit, offset int) ([]company.Company, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n)
	return n, err
}

// Delete снимает компанию вместе с её вакансиями и их откликами:
// каскады идут по внешним ключам jobs.company_id и applications.job_id,
// ссылка владельца обнуляется через ON DELETE SET NULL.
func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return company.ErrNotFound
	}
	return nil
}
