package clients

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context) ([]Client, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Client, error) {
	const query = `
		SELECT id, customer_name, address, city, postal_code, created_at
		FROM clients
		WHERE id = $1
	`
	var c Client
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CustomerName, &c.Address, &c.City, &c.PostalCode, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	const query = `
		SELECT id, customer_name, address, city, postal_code, created_at
		FROM clients
		ORDER BY customer_name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.CustomerName, &c.Address, &c.City, &c.PostalCode, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
