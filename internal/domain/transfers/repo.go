package transfers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/factory-bot/internal/domain/department"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create Статус задаётся при создании и дальше меняется только через Resolve.
// Для auto_done момент завершения совпадает с моментом создания.
func (r *Repo) Create(ctx context.Context, fromUserID int64, from, to department.Department, dishID int64, qty float64, labelDate string) (*Transaction, error) {
	status := InitialStatus(from, to)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (from_user_id, from_department, to_department, dish_id, quantity, label_date, status, accepted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, CASE WHEN $7 = 'auto_done' THEN now() ELSE NULL END)
		RETURNING id, from_user_id, from_department, to_department, dish_id, quantity, label_date, created_at, accepted_at, status
	`, fromUserID, string(from), string(to), dishID, qty, labelDate, string(status))

	var t Transaction
	if err := scanTx(row, &t); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	return &t, nil
}

// Resolve Условное обновление: сработает только если транзакция существует,
// адресована цеху dep и всё ещё pending. Иначе вернёт false без изменений.
// reject намеренно не проставляет accepted_at — так вела себя исходная схема.
func (r *Repo) Resolve(ctx context.Context, id int64, dep department.Department, action Action) (bool, error) {
	var tag string
	switch action {
	case ActionAccept:
		tag = `UPDATE transactions SET status = 'accepted', accepted_at = now()
			WHERE id = $1 AND to_department = $2 AND status = 'pending'`
	case ActionReject:
		tag = `UPDATE transactions SET status = 'rejected'
			WHERE id = $1 AND to_department = $2 AND status = 'pending'`
	default:
		return false, fmt.Errorf("resolve: unknown action %q", action)
	}
	ct, err := r.pool.Exec(ctx, tag, id, string(dep))
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT t.id, t.from_user_id, t.from_department, t.to_department, t.dish_id,
		       t.quantity, t.label_date, t.created_at, t.accepted_at, t.status, d.name
		FROM transactions t JOIN dishes d ON d.id = t.dish_id
		WHERE t.id = $1
	`, id)
	var t Transaction
	if err := row.Scan(&t.ID, &t.FromUserID, &t.FromDepartment, &t.ToDepartment, &t.DishID,
		&t.Quantity, &t.LabelDate, &t.CreatedAt, &t.AcceptedAt, &t.Status, &t.DishName); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) ListPendingForDepartment(ctx context.Context, dep department.Department) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.from_user_id, t.from_department, t.to_department, t.dish_id,
		       t.quantity, t.label_date, t.created_at, t.accepted_at, t.status, d.name
		FROM transactions t JOIN dishes d ON d.id = t.dish_id
		WHERE t.to_department = $1 AND t.status = 'pending'
		ORDER BY t.id
	`, string(dep))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByDate Транзакции за календарные сутки day; нулевой day — вся история.
func (r *Repo) ListByDate(ctx context.Context, day time.Time) ([]Transaction, error) {
	q := `
		SELECT t.id, t.from_user_id, t.from_department, t.to_department, t.dish_id,
		       t.quantity, t.label_date, t.created_at, t.accepted_at, t.status, d.name
		FROM transactions t JOIN dishes d ON d.id = t.dish_id`
	var (
		rows pgx.Rows
		err  error
	)
	if day.IsZero() {
		rows, err = r.pool.Query(ctx, q+` ORDER BY t.id DESC`)
	} else {
		rows, err = r.pool.Query(ctx, q+` WHERE t.created_at::date = $1::date ORDER BY t.id DESC`, day)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// DeleteOlderThan Ретеншн: удаляет транзакции старше days суток. Возвращает число удалённых строк.
func (r *Repo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE created_at < now() - make_interval(days => $1)`, days)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanTx(row pgx.Row, t *Transaction) error {
	return row.Scan(&t.ID, &t.FromUserID, &t.FromDepartment, &t.ToDepartment, &t.DishID,
		&t.Quantity, &t.LabelDate, &t.CreatedAt, &t.AcceptedAt, &t.Status)
}

func collect(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.FromUserID, &t.FromDepartment, &t.ToDepartment, &t.DishID,
			&t.Quantity, &t.LabelDate, &t.CreatedAt, &t.AcceptedAt, &t.Status, &t.DishName); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
