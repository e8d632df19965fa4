package analytics

import (
	"context"
	"errors"
	"testing"

	"saletrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	sales []core.Sale
	err   error
}

func (f *fakeLister) ListSales(context.Context) ([]core.Sale, error) {
	return f.sales, f.err
}

func mk(id int64, date core.Date, item, cat string, qty, priceCents int64, pay string) core.Sale {
	return core.Sale{
		ID: id, Date: date, ItemName: item, Category: cat, Quantity: qty,
		UnitPrice:     core.Money{Cents: priceCents},
		TotalAmount:   core.Money{Cents: qty * priceCents},
		PaymentMethod: pay,
	}
}

func TestSumInRangeSingleDay(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	sales := []core.Sale{
		mk(1, d, "A", "Shirts", 1, 100, "Cash"),
		mk(2, d, "B", "Shirts", 1, 50, "Cash"),
		mk(3, d.AddDays(1), "C", "Shirts", 1, 999, "Cash"),
	}
	assert.Equal(t, int64(150), SumInRange(sales, d, d).Cents)
	assert.Zero(t, SumInRange(nil, d, d).Cents)
}

func TestTopSellingItemsGroupsAndRanks(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	sales := []core.Sale{
		mk(1, d, "Shirt", "Shirts", 3, 1000, "Cash"),
		mk(2, d, "Shirt", "Shirts", 2, 1000, "Card"),
		mk(3, d, "Pants", "Pants", 10, 500, "Cash"),
	}
	top := TopSellingItems(sales, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Pants", top[0].ItemName)
	assert.Equal(t, int64(10), top[0].TotalQuantity)
	assert.Equal(t, "Shirt", top[1].ItemName)
	assert.Equal(t, int64(5), top[1].TotalQuantity)
	assert.Equal(t, int64(5000), top[1].TotalRevenue.Cents)
}

func TestTopSellingItemsEdges(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	sales := []core.Sale{
		mk(1, d, "Hat", "Accessories", 2, 100, "Cash"),
		mk(2, d, "Hat", "Shirts", 2, 100, "Cash"), // same name, other category
		mk(3, d, "Belt", "Accessories", 2, 100, "Cash"),
	}
	assert.Empty(t, TopSellingItems(sales, 0))
	assert.Empty(t, TopSellingItems(sales, -1))
	assert.Empty(t, TopSellingItems(nil, 5))

	top := TopSellingItems(sales, 10)
	require.Len(t, top, 3)
	// Equal quantities keep first-occurrence order.
	assert.Equal(t, []string{"Accessories", "Shirts", "Accessories"},
		[]string{top[0].Category, top[1].Category, top[2].Category})
	assert.Equal(t, "Belt", top[2].ItemName)
}

func TestByCategory(t *testing.T) {
	assert.Empty(t, ByCategory(nil))

	d := core.NewDate(2025, 5, 20)
	got := ByCategory([]core.Sale{
		mk(1, d, "a", "Shirts", 1, 100, "Cash"),
		mk(2, d, "b", "Shoes", 1, 900, "Cash"),
		mk(3, d, "c", "Shirts", 2, 100, "Cash"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, core.CategorySummary{Category: "Shoes", Count: 1, Total: core.Money{Cents: 900}}, got[0])
	assert.Equal(t, core.CategorySummary{Category: "Shirts", Count: 2, Total: core.Money{Cents: 300}}, got[1])
}

func TestByPaymentMethod(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	got := ByPaymentMethod([]core.Sale{
		mk(1, d, "a", "Shirts", 1, 100, "Online"),
		mk(2, d, "b", "Shoes", 1, 900, "Card"),
		mk(3, d, "c", "Shirts", 2, 100, "Online"),
	})
	require.Len(t, got, 2)
	assert.Equal(t, "Card", got[0].PaymentMethod)
	assert.Equal(t, "Online", got[1].PaymentMethod)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, int64(300), got[1].Total.Cents)
}

func TestFirstOccurrenceTotals(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	sales := []core.Sale{
		mk(1, d, "a", "Shoes", 1, 100, "Online"),
		mk(2, d, "b", "Shirts", 1, 900, "Cash"),
		mk(3, d, "c", "Shoes", 1, 50, "Online"),
	}
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Shoes", Amount: core.Money{Cents: 150}},
		{Name: "Shirts", Amount: core.Money{Cents: 900}},
	}, CategoryTotals(sales))
	assert.Equal(t, []core.CategoryAmount{
		{Name: "Online", Amount: core.Money{Cents: 150}},
		{Name: "Cash", Amount: core.Money{Cents: 900}},
	}, PaymentTotals(sales))
}

func TestSummarize(t *testing.T) {
	d := core.NewDate(2025, 5, 20)
	s := Summarize([]core.Sale{
		mk(1, d, "a", "x", 1, 1000, "Cash"),
		mk(2, d, "b", "x", 1, 500, "Cash"),
		mk(3, d, "c", "x", 1, 500, "Cash"),
	})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, int64(2000), s.Total.Cents)
	assert.Equal(t, int64(667), s.Average.Cents)

	empty := Summarize(nil)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average.Cents)
}

func TestEngineWindows(t *testing.T) {
	ctx := context.Background()
	today := core.NewDate(2025, 3, 10)
	store := &fakeLister{sales: []core.Sale{
		mk(1, today, "a", "x", 1, 100, "Cash"),
		mk(2, today.AddDays(-7), "b", "x", 1, 20, "Cash"),  // week boundary, included
		mk(3, today.AddDays(-8), "c", "x", 1, 3, "Cash"),   // outside the week, same month
		mk(4, core.NewDate(2025, 2, 28), "d", "x", 1, 4000, "Cash"),
		mk(5, today.AddDays(5), "e", "x", 1, 7, "Cash"), // future dated, in month
	}}
	e := NewEngine(store)

	got, err := e.TodayTotal(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Cents)

	got, err = e.WeekTotal(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(120), got.Cents)

	got, err = e.MonthTotal(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(130), got.Cents)
}

func TestEngineEmptyStore(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(&fakeLister{})

	month, err := e.MonthTotal(ctx, core.NewDate(2025, 1, 1))
	require.NoError(t, err)
	assert.Zero(t, month.Cents)

	cats, err := e.ByCategory(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestEngineTopSellingTiesUseInsertionOrder(t *testing.T) {
	d := core.NewDate(2025, 1, 1)
	// Listed newest first, as the store returns them.
	store := &fakeLister{sales: []core.Sale{
		mk(2, d.AddDays(1), "Later", "x", 4, 100, "Cash"),
		mk(1, d, "Earlier", "x", 4, 100, "Cash"),
	}}
	top, err := NewEngine(store).TopSellingItems(context.Background(), DefaultTopLimit)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Earlier", top[0].ItemName)
}

func TestDashboard(t *testing.T) {
	today := core.NewDate(2025, 3, 10)
	store := &fakeLister{sales: []core.Sale{
		mk(3, today, "a", "Shirts", 2, 100, "Cash"),
		mk(2, today.AddDays(-1), "b", "Shoes", 1, 500, "Card"),
		mk(1, today.AddDays(-20), "c", "Shirts", 1, 50, "Cash"),
	}}
	d, err := NewEngine(store).Dashboard(context.Background(), today, DefaultTopLimit, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(200), d.Today.Cents)
	assert.Equal(t, int64(700), d.Week.Cents)
	assert.Equal(t, int64(700), d.Month.Cents)
	assert.Len(t, d.TopItems, 3)
	assert.Len(t, d.ByCategory, 2)
	assert.Len(t, d.ByPaymentMethod, 2)
	require.Len(t, d.Recent, 2)
	assert.Equal(t, int64(3), d.Recent[0].ID)
}

func TestDashboardPropagatesStoreError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := NewEngine(&fakeLister{err: boom}).Dashboard(context.Background(), core.NewDate(2025, 1, 1), 5, 5)
	assert.ErrorIs(t, err, boom)
}
