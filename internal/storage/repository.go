package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"saletrack/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// createdAtLayout is fixed-width so that text ordering matches time ordering.
const createdAtLayout = "2006-01-02 15:04:05.000000000"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateSale(ctx context.Context, s core.Sale) (int64, error) {
	id, err := r.queries.CreateSale(ctx, CreateSaleParams{
		Date:             s.Date.String(),
		ItemName:         s.ItemName,
		Category:         s.Category,
		Quantity:         s.Quantity,
		UnitPriceCents:   s.UnitPrice.Cents,
		TotalAmountCents: s.TotalAmount.Cents,
		PaymentMethod:    s.PaymentMethod,
		CustomerName:     nullString(s.CustomerName),
		Notes:            nullString(s.Notes),
		CreatedAt:        r.now().UTC().Format(createdAtLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("create sale: %w", err)
	}

	slog.InfoContext(ctx, "Sale saved to SQLite",
		"id", id,
		"item_name", s.ItemName,
		"total_cents", s.TotalAmount.Cents,
		"date", s.Date.String())

	return id, nil
}

func (r *SQLiteRepository) GetSale(ctx context.Context, id int64) (core.Sale, error) {
	row, err := r.queries.GetSale(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Sale{}, fmt.Errorf("get sale %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Sale{}, fmt.Errorf("get sale %d: %w", id, err)
	}
	return toCoreSale(row)
}

func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.Sale, error) {
	rows, err := r.queries.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return toCoreSales(rows)
}

// ListSalesByDateRange returns the sales dated within [start, end], newest first.
func (r *SQLiteRepository) ListSalesByDateRange(ctx context.Context, start, end core.Date) ([]core.Sale, error) {
	rows, err := r.queries.ListSalesByDateRange(ctx, ListSalesByDateRangeParams{
		Start: start.String(),
		End:   end.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list sales by date range: %w", err)
	}
	return toCoreSales(rows)
}

// UpdateSale overwrites every mutable field of the sale and returns the number of rows changed.
func (r *SQLiteRepository) UpdateSale(ctx context.Context, id int64, s core.Sale) (int64, error) {
	changed, err := r.queries.UpdateSale(ctx, UpdateSaleParams{
		Date:             s.Date.String(),
		ItemName:         s.ItemName,
		Category:         s.Category,
		Quantity:         s.Quantity,
		UnitPriceCents:   s.UnitPrice.Cents,
		TotalAmountCents: s.TotalAmount.Cents,
		PaymentMethod:    s.PaymentMethod,
		CustomerName:     nullString(s.CustomerName),
		Notes:            nullString(s.Notes),
		ID:               id,
	})
	if err != nil {
		return 0, fmt.Errorf("update sale %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Sale updated", "id", id, "changed", changed)
	return changed, nil
}

func (r *SQLiteRepository) DeleteSale(ctx context.Context, id int64) (int64, error) {
	changed, err := r.queries.DeleteSale(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete sale %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Sale deleted", "id", id, "changed", changed)
	return changed, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories := make([]core.Category, len(rows))
	for i, c := range rows {
		categories[i] = core.Category{ID: c.ID, Name: c.Name}
	}
	return categories, nil
}

// AddCategory inserts a category. A name that already exists yields core.ErrDuplicate.
func (r *SQLiteRepository) AddCategory(ctx context.Context, name string) (core.Category, error) {
	id, err := r.queries.CreateCategory(ctx, name)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Category{}, fmt.Errorf("add category %q: %w", name, core.ErrDuplicate)
		}
		return core.Category{}, fmt.Errorf("add category %q: %w", name, err)
	}

	slog.InfoContext(ctx, "Category added", "id", id, "name", name)
	return core.Category{ID: id, Name: name}, nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toCoreSales(rows []Sale) ([]core.Sale, error) {
	sales := make([]core.Sale, 0, len(rows))
	for _, row := range rows {
		s, err := toCoreSale(row)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, nil
}

func toCoreSale(row Sale) (core.Sale, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Sale{}, fmt.Errorf("sale %d: parse date %q: %w", row.ID, row.Date, err)
	}
	createdAt, err := time.Parse(createdAtLayout, row.CreatedAt)
	if err != nil {
		return core.Sale{}, fmt.Errorf("sale %d: parse created_at %q: %w", row.ID, row.CreatedAt, err)
	}
	return core.Sale{
		ID:            row.ID,
		Date:          date,
		ItemName:      row.ItemName,
		Category:      row.Category,
		Quantity:      row.Quantity,
		UnitPrice:     core.Money{Cents: row.UnitPriceCents},
		TotalAmount:   core.Money{Cents: row.TotalAmountCents},
		PaymentMethod: row.PaymentMethod,
		CustomerName:  row.CustomerName.String,
		Notes:         row.Notes.String,
		CreatedAt:     createdAt,
	}, nil
}
