package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/platform/db"
)

var ErrNotFound = errors.New("record not found")

// Repository persists sales order aggregates. Create/update/delete flows run
// inside WithTx so the header and its lines commit or roll back together.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*SalesOrder, error)
	List(ctx context.Context) ([]SalesOrder, error)
	Create(ctx context.Context, order SalesOrder) (int64, error)
	UpdateHeader(ctx context.Context, id int64, order SalesOrder) error
	InsertLine(ctx context.Context, line SalesOrderLine) (int64, error)
	DeleteLines(ctx context.Context, orderID int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	HighestOrderID(ctx context.Context) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const orderColumns = `
	id, order_number, client_id, order_date, delivery_address, city, postal_code,
	total_excl_amount, total_tax_amount, total_incl_amount, created_at, modified_at
`

func (r *repository) Get(ctx context.Context, id int64) (*SalesOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM sales_orders WHERE id = $1", orderColumns)
	o, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lines, err := r.linesFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[id]
	return o, nil
}

func (r *repository) List(ctx context.Context) ([]SalesOrder, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sales_orders
		ORDER BY order_date DESC, id DESC
	`, orderColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []SalesOrder
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Lines = lines[result[i].ID]
	}
	return result, nil
}

func (r *repository) Create(ctx context.Context, o SalesOrder) (int64, error) {
	const query = `
		INSERT INTO sales_orders (
			order_number, client_id, order_date, delivery_address, city, postal_code,
			total_excl_amount, total_tax_amount, total_incl_amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		o.OrderNumber, o.ClientID, dateOf(o.OrderDate), o.DeliveryAddress, o.City, o.PostalCode,
		numericOf(o.TotalExclAmount), numericOf(o.TotalTaxAmount), numericOf(o.TotalInclAmount),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateHeader overwrites the mutable header fields and stamps modified_at.
// Order number and created_at are deliberately left untouched.
func (r *repository) UpdateHeader(ctx context.Context, id int64, o SalesOrder) error {
	const query = `
		UPDATE sales_orders
		SET client_id = $1, order_date = $2, delivery_address = $3, city = $4,
		    postal_code = $5, total_excl_amount = $6, total_tax_amount = $7,
		    total_incl_amount = $8, modified_at = NOW()
		WHERE id = $9
	`
	tag, err := r.db.Exec(ctx, query,
		o.ClientID, dateOf(o.OrderDate), o.DeliveryAddress, o.City, o.PostalCode,
		numericOf(o.TotalExclAmount), numericOf(o.TotalTaxAmount), numericOf(o.TotalInclAmount),
		id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, line SalesOrderLine) (int64, error) {
	const query = `
		INSERT INTO sales_order_lines (
			sales_order_id, item_id, note, quantity, price, tax_rate,
			excl_amount, tax_amount, incl_amount
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query,
		line.SalesOrderID, line.ItemID, line.Note, line.Quantity,
		numericOf(line.Price), numericOf(line.TaxRate),
		numericOf(line.ExclAmount), numericOf(line.TaxAmount), numericOf(line.InclAmount),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteLines(ctx context.Context, orderID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM sales_order_lines WHERE sales_order_id = $1", orderID)
	return err
}

// Delete removes the order header; lines go with it via ON DELETE CASCADE.
// Returns false when no order with that id existed.
func (r *repository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM sales_orders WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// HighestOrderID returns the highest assigned order id, 0 when no orders exist.
func (r *repository) HighestOrderID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, "SELECT COALESCE(MAX(id), 0) FROM sales_orders").Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) linesFor(ctx context.Context, orderIDs []int64) (map[int64][]SalesOrderLine, error) {
	const query = `
		SELECT id, sales_order_id, item_id, note, quantity, price, tax_rate,
		       excl_amount, tax_amount, incl_amount
		FROM sales_order_lines
		WHERE sales_order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make(map[int64][]SalesOrderLine)
	for rows.Next() {
		var (
			l                                        SalesOrderLine
			price, taxRate, exclAmt, taxAmt, inclAmt pgtype.Numeric
		)
		err := rows.Scan(
			&l.ID, &l.SalesOrderID, &l.ItemID, &l.Note, &l.Quantity,
			&price, &taxRate, &exclAmt, &taxAmt, &inclAmt,
		)
		if err != nil {
			return nil, err
		}
		l.Price = floatOf(price)
		l.TaxRate = floatOf(taxRate)
		l.ExclAmount = floatOf(exclAmt)
		l.TaxAmount = floatOf(taxAmt)
		l.InclAmount = floatOf(inclAmt)
		lines[l.SalesOrderID] = append(lines[l.SalesOrderID], l)
	}
	return lines, rows.Err()
}

func scanOrder(row pgx.Row) (*SalesOrder, error) {
	var (
		o                          SalesOrder
		orderDate                  pgtype.Date
		totalExcl, totalTax, total pgtype.Numeric
		createdAt, modifiedAt      pgtype.Timestamptz
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.ClientID, &orderDate, &o.DeliveryAddress, &o.City, &o.PostalCode,
		&totalExcl, &totalTax, &total, &createdAt, &modifiedAt,
	)
	if err != nil {
		return nil, err
	}
	if orderDate.Valid {
		o.OrderDate = orderDate.Time
	}
	o.TotalExclAmount = floatOf(totalExcl)
	o.TotalTaxAmount = floatOf(totalTax)
	o.TotalInclAmount = floatOf(total)
	if createdAt.Valid {
		o.CreatedAt = createdAt.Time
	}
	if modifiedAt.Valid {
		val := modifiedAt.Time
		o.ModifiedAt = &val
	}
	return &o, nil
}

func numericOf(v float64) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(fmt.Sprintf("%f", v))
	return n
}

func floatOf(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}

func dateOf(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}
