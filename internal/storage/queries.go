package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Sale mirrors a row of the sales table.
type Sale struct {
	ID               int64
	Date             string
	ItemName         string
	Category         string
	Quantity         int64
	UnitPriceCents   int64
	TotalAmountCents int64
	PaymentMethod    string
	CustomerName     sql.NullString
	Notes            sql.NullString
	CreatedAt        string
}

type Category struct {
	ID   int64
	Name string
}

const saleColumns = `id, date, item_name, category, quantity, unit_price_cents, total_amount_cents,
       payment_method, customer_name, notes, created_at`

const saleOrder = `ORDER BY date DESC, created_at DESC, id DESC`

const createSale = `-- name: CreateSale :execlastid
INSERT INTO sales (
    date, item_name, category, quantity, unit_price_cents, total_amount_cents,
    payment_method, customer_name, notes, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type CreateSaleParams struct {
	Date             string
	ItemName         string
	Category         string
	Quantity         int64
	UnitPriceCents   int64
	TotalAmountCents int64
	PaymentMethod    string
	CustomerName     sql.NullString
	Notes            sql.NullString
	CreatedAt        string
}

func (q *Queries) CreateSale(ctx context.Context, arg CreateSaleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createSale,
		arg.Date,
		arg.ItemName,
		arg.Category,
		arg.Quantity,
		arg.UnitPriceCents,
		arg.TotalAmountCents,
		arg.PaymentMethod,
		arg.CustomerName,
		arg.Notes,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getSale = `-- name: GetSale :one
SELECT ` + saleColumns + ` FROM sales WHERE id = ?`

func (q *Queries) GetSale(ctx context.Context, id int64) (Sale, error) {
	row := q.db.QueryRowContext(ctx, getSale, id)
	var i Sale
	err := scanSale(row, &i)
	return i, err
}

const listSales = `-- name: ListSales :many
SELECT ` + saleColumns + ` FROM sales ` + saleOrder

func (q *Queries) ListSales(ctx context.Context) ([]Sale, error) {
	return q.querySales(ctx, listSales)
}

const listSalesByDateRange = `-- name: ListSalesByDateRange :many
SELECT ` + saleColumns + ` FROM sales
WHERE date BETWEEN ? AND ? ` + saleOrder

type ListSalesByDateRangeParams struct {
	Start string
	End   string
}

func (q *Queries) ListSalesByDateRange(ctx context.Context, arg ListSalesByDateRangeParams) ([]Sale, error) {
	return q.querySales(ctx, listSalesByDateRange, arg.Start, arg.End)
}

const updateSale = `-- name: UpdateSale :execrows
UPDATE sales
SET date = ?, item_name = ?, category = ?, quantity = ?, unit_price_cents = ?,
    total_amount_cents = ?, payment_method = ?, customer_name = ?, notes = ?
WHERE id = ?`

type UpdateSaleParams struct {
	Date             string
	ItemName         string
	Category         string
	Quantity         int64
	UnitPriceCents   int64
	TotalAmountCents int64
	PaymentMethod    string
	CustomerName     sql.NullString
	Notes            sql.NullString
	ID               int64
}

func (q *Queries) UpdateSale(ctx context.Context, arg UpdateSaleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSale,
		arg.Date,
		arg.ItemName,
		arg.Category,
		arg.Quantity,
		arg.UnitPriceCents,
		arg.TotalAmountCents,
		arg.PaymentMethod,
		arg.CustomerName,
		arg.Notes,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSale = `-- name: DeleteSale :execrows
DELETE FROM sales WHERE id = ?`

func (q *Queries) DeleteSale(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSale, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listCategories = `-- name: ListCategories :many
SELECT id, name FROM categories ORDER BY name`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createCategory = `-- name: CreateCategory :execlastid
INSERT INTO categories (name) VALUES (?)`

func (q *Queries) CreateCategory(ctx context.Context, name string) (int64, error) {
	result, err := q.db.ExecContext(ctx, createCategory, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row rowScanner, i *Sale) error {
	return row.Scan(
		&i.ID,
		&i.Date,
		&i.ItemName,
		&i.Category,
		&i.Quantity,
		&i.UnitPriceCents,
		&i.TotalAmountCents,
		&i.PaymentMethod,
		&i.CustomerName,
		&i.Notes,
		&i.CreatedAt,
	)
}

func (q *Queries) querySales(ctx context.Context, query string, args ...interface{}) ([]Sale, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Sale
	for rows.Next() {
		var i Sale
		if err := scanSale(rows, &i); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
