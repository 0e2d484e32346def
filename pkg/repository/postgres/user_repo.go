package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talosync/jobportal/pkg/job"
	"github.com/talosync/jobportal/pkg/user"
)

// UserRepository implements user.Repository backed by PostgreSQL (pgx).
// Профиль кандидата хранится в колонках той же строки: отдельная таблица
// не нужна, профиль всегда читается вместе с пользователем.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone_number TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('candidate', 'employer', 'admin')),
	is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
	bio TEXT NOT NULL DEFAULT '',
	skills TEXT[] NOT NULL DEFAULT '{}',
	resume_url TEXT NOT NULL DEFAULT '',
	resume_original_name TEXT NOT NULL DEFAULT '',
	resume_text TEXT NOT NULL DEFAULT '',
	profile_photo_url TEXT NOT NULL DEFAULT '',
	job_alerts BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);
-- Избранное: дубликаты исключает первичный ключ. Ссылка на вакансию
-- без внешнего ключа — висячие записи отфильтровывает JOIN при чтении.
CREATE TABLE IF NOT EXISTS user_saved_jobs (
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	job_id UUID NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, job_id)
);
`)
	return err
}

const userColumns = `id, full_name, email, phone_number, password_hash, role, is_blocked,
	company_id, bio, skills, resume_url, resume_original_name, resume_text,
	profile_photo_url, job_alerts, created_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var createdAt time.Time
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.PasswordHash,
		&u.Role, &u.IsBlocked, &u.CompanyID, &u.Profile.Bio, &u.Profile.Skills,
		&u.Profile.ResumeURL, &u.Profile.ResumeOriginalName, &u.Profile.ResumeText,
		&u.Profile.ProfilePhotoURL, &u.Profile.JobAlerts, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.CreatedAt = createdAt.UTC()
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, full_name, email, phone_number, password_hash, role, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, u.ID, u.FullName, strings.ToLower(u.Email), u.PhoneNumber, u.PasswordHash, u.Role, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE users SET full_name = $2, phone_number = $3, bio = $4, skills = $5
WHERE id = $1
`, u.ID, u.FullName, u.PhoneNumber, u.Profile.Bio, u.Profile.Skills)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResume(ctx context.Context, id uuid.UUID, url, originalName, text string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE users SET resume_url = $2, resume_original_name = $3, resume_text = $4
WHERE id = $1
`, id, url, originalName, text)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetPhoto(ctx context.Context, id uuid.UUID, url string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET profile_photo_url = $2 WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetJobAlerts(ctx context.Context, id uuid.UUID, enabled bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET job_alerts = $2 WHERE id = $1`, id, enabled)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO user_saved_jobs (user_id, job_id) VALUES ($1, $2)
ON CONFLICT (user_id, job_id) DO NOTHING
`, userID, jobID)
	return err
}

func (r *UserRepository) UnsaveJob(ctx context.Context, userID, jobID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID)
	return err
}

func (r *UserRepository) IsJobSaved(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var one int
	err := r.pool.QueryRow(ctx,
		`SELECT 1 FROM user_saved_jobs WHERE user_id = $1 AND job_id = $2`, userID, jobID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SavedJobs возвращает избранные вакансии кандидата. INNER JOIN молча
// пропускает ссылки на уже удалённые вакансии.
func (r *UserRepository) SavedJobs(ctx context.Context, userID uuid.UUID) ([]user.SavedJob, error) {
	rows, err := r.pool.Query(ctx, `
SELECT j.id, j.title, j.location, j.job_type, j.salary, j.is_open, c.name, c.logo_url
FROM user_saved_jobs s
JOIN jobs j ON j.id = s.job_id
JOIN companies c ON c.id = j.company_id
WHERE s.user_id = $1
ORDER BY s.saved_at DESC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []user.SavedJob
	for rows.Next() {
		var sj user.SavedJob
		if err := rows.Scan(&sj.ID, &sj.Title, &sj.Location, &sj.JobType, &sj.Salary,
			&sj.IsOpen, &sj.CompanyName, &sj.CompanyLogo); err != nil {
			return nil, err
		}
		res = append(res, sj)
	}
	return res, rows.Err()
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]user.User, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UserRepository) CountByRole(ctx context.Context, role user.Role) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, err
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, id uuid.UUID, blocked bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET is_blocked = $2 WHERE id = $1`, id, blocked)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// AlertSubscribers реализует job.AlertList: кандидаты с включённой
// подпиской на новые вакансии.
func (r *UserRepository) AlertSubscribers(ctx context.Context) ([]job.Subscriber, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT full_name, email FROM users WHERE role = 'candidate' AND job_alerts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []job.Subscriber
	for rows.Next() {
		var s job.Subscriber
		if err := rows.Scan(&s.FullName, &s.Email); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}
