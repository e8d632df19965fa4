package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"saletrack/internal/amqp"
	"saletrack/internal/analytics"
	"saletrack/internal/core"
)

// DashboardRecent is how many of the latest sales the dashboard includes.
const DashboardRecent = 10

// Store is the Record Store: the only component that mutates sales and categories.
type Store interface {
	CreateSale(ctx context.Context, s core.Sale) (int64, error)
	GetSale(ctx context.Context, id int64) (core.Sale, error)
	ListSales(ctx context.Context) ([]core.Sale, error)
	ListSalesByDateRange(ctx context.Context, start, end core.Date) ([]core.Sale, error)
	UpdateSale(ctx context.Context, id int64, s core.Sale) (int64, error)
	DeleteSale(ctx context.Context, id int64) (int64, error)
	ListCategories(ctx context.Context) ([]core.Category, error)
	AddCategory(ctx context.Context, name string) (core.Category, error)
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher delivers change notifications. It is optional.
type EventPublisher interface {
	PublishEvent(ctx context.Context, msg *amqp.SaleEventMessage) error
	Close() error
}

// SaleService validates boundary input, derives totals and publishes change events.
type SaleService struct {
	store     Store
	engine    *analytics.Engine
	publisher EventPublisher
}

// NewSaleService wires a service. publisher may be nil.
func NewSaleService(store Store, publisher EventPublisher) *SaleService {
	return &SaleService{
		store:     store,
		engine:    analytics.NewEngine(store),
		publisher: publisher,
	}
}

// AddSale validates the input, computes its total and stores it.
func (s *SaleService) AddSale(ctx context.Context, in core.SaleInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.CreateSale(ctx, in.Sale())
	if err != nil {
		return 0, fmt.Errorf("save sale: %w", err)
	}
	s.publish(ctx, amqp.SaleCreated, id)
	return id, nil
}

// ListSales returns all sales, newest first, narrowed by f.
func (s *SaleService) ListSales(ctx context.Context, f core.SaleFilter) ([]core.Sale, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return f.Apply(sales), nil
}

func (s *SaleService) GetSale(ctx context.Context, id int64) (core.Sale, error) {
	return s.store.GetSale(ctx, id)
}

// UpdateSale overwrites a sale and returns the number of rows changed (0 or 1).
func (s *SaleService) UpdateSale(ctx context.Context, id int64, in core.SaleInput) (int64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	changed, err := s.store.UpdateSale(ctx, id, in.Sale())
	if err != nil {
		return 0, fmt.Errorf("update sale: %w", err)
	}
	if changed > 0 {
		s.publish(ctx, amqp.SaleUpdated, id)
	}
	return changed, nil
}

// DeleteSale removes a sale and returns the number of rows changed (0 or 1).
func (s *SaleService) DeleteSale(ctx context.Context, id int64) (int64, error) {
	changed, err := s.store.DeleteSale(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete sale: %w", err)
	}
	if changed > 0 {
		s.publish(ctx, amqp.SaleDeleted, id)
	}
	return changed, nil
}

// SalesByDateRange returns sales dated within [start, end]. Both bounds are required.
func (s *SaleService) SalesByDateRange(ctx context.Context, start, end core.Date) ([]core.Sale, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("start and end dates are required: %w", core.ErrInvalidRange)
	}
	return s.store.ListSalesByDateRange(ctx, start, end)
}

func (s *SaleService) TodayTotal(ctx context.Context, today core.Date) (core.Money, error) {
	return s.engine.TodayTotal(ctx, today)
}

func (s *SaleService) WeekTotal(ctx context.Context, today core.Date) (core.Money, error) {
	return s.engine.WeekTotal(ctx, today)
}

func (s *SaleService) MonthTotal(ctx context.Context, today core.Date) (core.Money, error) {
	return s.engine.MonthTotal(ctx, today)
}

func (s *SaleService) TopSellingItems(ctx context.Context, limit int) ([]core.TopItem, error) {
	return s.engine.TopSellingItems(ctx, limit)
}

func (s *SaleService) SalesByCategory(ctx context.Context) ([]core.CategorySummary, error) {
	return s.engine.ByCategory(ctx)
}

func (s *SaleService) SalesByPaymentMethod(ctx context.Context) ([]core.PaymentSummary, error) {
	return s.engine.ByPaymentMethod(ctx)
}

func (s *SaleService) Dashboard(ctx context.Context, today core.Date) (analytics.Dashboard, error) {
	return s.engine.Dashboard(ctx, today, analytics.DefaultTopLimit, DashboardRecent)
}

func (s *SaleService) ListCategories(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

// AddCategory trims and stores a new category name. Existing names yield core.ErrDuplicate.
func (s *SaleService) AddCategory(ctx context.Context, name string) (core.Category, error) {
	name, err := core.ValidateCategoryName(name)
	if err != nil {
		return core.Category{}, err
	}
	c, err := s.store.AddCategory(ctx, name)
	if err != nil {
		return core.Category{}, err
	}
	s.publish(ctx, amqp.CategoryAdded, c.ID)
	return c, nil
}

// Ping checks the store.
func (s *SaleService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish never fails the caller: the record is already stored.
func (s *SaleService) publish(ctx context.Context, t amqp.EventType, id int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, amqp.NewSaleEventMessage(t, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sale event",
			"type", t, "id", id, "error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *SaleService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close sale service: %w", errors.Join(errs...))
	}

	return nil
}
