package dishes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, name, category string) (*Dish, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO dishes (name, category) VALUES ($1,$2)
		RETURNING id, name, category, created_at
	`, name, category)
	var d Dish
	if err := row.Scan(&d.ID, &d.Name, &d.Category, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*Dish, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, category, created_at FROM dishes WHERE id = $1
	`, id)
	var d Dish
	if err := row.Scan(&d.ID, &d.Name, &d.Category, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *Repo) List(ctx context.Context) ([]Dish, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, category, created_at FROM dishes ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Dish
	for rows.Next() {
		var d Dish
		if err := rows.Scan(&d.ID, &d.Name, &d.Category, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
