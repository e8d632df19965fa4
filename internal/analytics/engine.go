package analytics

import (
	"context"
	"fmt"
	"sort"

	"saletrack/internal/core"

	"golang.org/x/sync/errgroup"
)

// SaleLister is the read side of the Record Store the engine needs.
type SaleLister interface {
	ListSales(ctx context.Context) ([]core.Sale, error)
}

// Engine computes statistics over the current contents of a store.
// The current date is always passed in by the caller.
type Engine struct {
	store SaleLister
}

func NewEngine(store SaleLister) *Engine {
	return &Engine{store: store}
}

// Dashboard gathers every headline statistic in one value.
type Dashboard struct {
	Today           core.Money             `json:"today"`
	Week            core.Money             `json:"week"`
	Month           core.Money             `json:"month"`
	TopItems        []core.TopItem         `json:"top_items"`
	ByCategory      []core.CategorySummary `json:"by_category"`
	ByPaymentMethod []core.PaymentSummary  `json:"by_payment_method"`
	Recent          []core.Sale            `json:"recent"`
}

func (e *Engine) all(ctx context.Context) ([]core.Sale, error) {
	sales, err := e.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return sales, nil
}

func (e *Engine) TodayTotal(ctx context.Context, today core.Date) (core.Money, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return SumInRange(sales, today, today), nil
}

// WeekTotal sums sales dated from today-WeekWindowDays through today.
func (e *Engine) WeekTotal(ctx context.Context, today core.Date) (core.Money, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return SumInRange(sales, today.AddDays(-WeekWindowDays), today), nil
}

// MonthTotal sums sales dated on or after the first day of today's month.
func (e *Engine) MonthTotal(ctx context.Context, today core.Date) (core.Money, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return SumSince(sales, today.FirstOfMonth()), nil
}

// TopSellingItems ranks items by quantity. Ties keep insertion order.
func (e *Engine) TopSellingItems(ctx context.Context, limit int) ([]core.TopItem, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return nil, err
	}
	return TopSellingItems(insertionOrder(sales), limit), nil
}

func (e *Engine) ByCategory(ctx context.Context) ([]core.CategorySummary, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return nil, err
	}
	return ByCategory(insertionOrder(sales)), nil
}

func (e *Engine) ByPaymentMethod(ctx context.Context) ([]core.PaymentSummary, error) {
	sales, err := e.all(ctx)
	if err != nil {
		return nil, err
	}
	return ByPaymentMethod(sales), nil
}

// Dashboard computes all statistics concurrently. recent bounds the number
// of latest sales included.
func (e *Engine) Dashboard(ctx context.Context, today core.Date, limit, recent int) (Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Today, err = e.TodayTotal(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.Week, err = e.WeekTotal(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.Month, err = e.MonthTotal(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		d.TopItems, err = e.TopSellingItems(ctx, limit)
		return err
	})
	g.Go(func() (err error) {
		d.ByCategory, err = e.ByCategory(ctx)
		return err
	})
	g.Go(func() (err error) {
		d.ByPaymentMethod, err = e.ByPaymentMethod(ctx)
		return err
	})
	g.Go(func() error {
		sales, err := e.all(ctx)
		if err != nil {
			return err
		}
		if recent >= 0 && len(sales) > recent {
			sales = sales[:recent]
		}
		d.Recent = sales
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	return d, nil
}

// insertionOrder returns sales sorted by id, which is creation order.
func insertionOrder(sales []core.Sale) []core.Sale {
	out := append([]core.Sale(nil), sales...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
