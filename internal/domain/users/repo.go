package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/factory-bot/internal/domain/department"
)

// ErrAlreadyRegistered Конфликт уникальности по telegram_id.
var ErrAlreadyRegistered = errors.New("users: telegram id already registered")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE telegram_id = $1
	`, tgID)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.Department, &u.Approved, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE id = $1
	`, id)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.Department, &u.Approved, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, tgID int64, fullName string, role Role, dep department.Department, approved bool) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (telegram_id, full_name, role, department, approved)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, telegram_id, full_name, role, department, approved, created_at
	`, tgID, fullName, string(role), string(dep), approved)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.Department, &u.Approved, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Approve(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET approved = TRUE WHERE id = $1`, id)
	return err
}

func (r *Repo) SetRole(ctx context.Context, id int64, role Role) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, string(role))
	return err
}

func (r *Repo) ListUnapproved(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE approved = FALSE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListApprovedByDepartment Подтверждённые сотрудники цеха — получатели уведомлений о приёмке.
func (r *Repo) ListApprovedByDepartment(ctx context.Context, dep department.Department) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE department = $1 AND approved = TRUE
		ORDER BY id
	`, string(dep))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListStaff Подтверждённые работники и руководители (без админов) — для смены роли.
func (r *Repo) ListStaff(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE role <> 'admin' AND approved = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *Repo) ListApprovedAdmins(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, telegram_id, full_name, role, department, approved, created_at
		FROM users WHERE role = 'admin' AND approved = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func scanUsers(rows pgx.Rows) ([]User, error) {
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.FullName, &u.Role, &u.Department, &u.Approved, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
