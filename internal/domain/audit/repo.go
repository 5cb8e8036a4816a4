package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo Журнал действий: кто, что, когда. Пишется на создание и разрешение транзакций.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Log(ctx context.Context, userID int64, action string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO logs (user_id, action) VALUES ($1,$2)`, userID, action)
	return err
}

func (r *Repo) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM logs WHERE created_at < now() - make_interval(days => $1)`, days)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
