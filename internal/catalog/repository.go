package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Item, error)
	List(ctx context.Context) ([]Item, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Item, error) {
	const query = `
		SELECT id, item_code, description, price, created_at
		FROM items
		WHERE id = $1
	`
	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *repository) List(ctx context.Context) ([]Item, error) {
	const query = `
		SELECT id, item_code, description, price, created_at
		FROM items
		ORDER BY item_code
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func scanItem(row pgx.Row) (*Item, error) {
	var (
		item      Item
		price     pgtype.Numeric
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&item.ID, &item.ItemCode, &item.Description, &price, &createdAt); err != nil {
		return nil, err
	}
	if price.Valid {
		f, err := price.Float64Value()
		if err != nil {
			return nil, fmt.Errorf("catalog: price value: %w", err)
		}
		item.Price = f.Float64
	}
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}
	return &item, nil
}
