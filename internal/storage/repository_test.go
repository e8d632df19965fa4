package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"saletrack/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "sales.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

// stepClock returns increasing timestamps one second apart.
func stepClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func sale(date core.Date, item string, qty, priceCents int64) core.Sale {
	return core.SaleInput{
		Date:          date,
		ItemName:      item,
		Category:      "Shirts",
		Quantity:      qty,
		UnitPrice:     core.Money{Cents: priceCents},
		PaymentMethod: "Cash",
	}.Sale()
}

func TestCreateSaleRejectsNegativeTotal(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	s := sale(core.NewDate(2025, 3, 1), "Tee", 1, 100)
	s.TotalAmount = core.Money{Cents: -1}
	_, err := repo.CreateSale(ctx, s)
	require.Error(t, err)

	all, err := repo.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSeedCategories(t *testing.T) {
	repo, _ := newTestRepo(t)

	cats, err := repo.ListCategories(context.Background())
	require.NoError(t, err)

	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Accessories", "Dresses", "Jackets", "Pants", "Shirts", "Shoes"}, names)
}

func TestSeedRunsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sales.db")

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	_, err = repo.AddCategory(ctx, "Hats")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = NewSQLiteRepository(path)
	require.NoError(t, err)
	defer repo.Close()

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(core.SeedCategories)+1)
}

func TestAddCategoryDuplicate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	added, err := repo.AddCategory(ctx, "Hats")
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, "Hats", added.Name)

	_, err = repo.AddCategory(ctx, "Shirts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDuplicate), "got %v", err)

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, len(core.SeedCategories)+1)
}

func TestCreateAndGetSale(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return created }

	in := sale(core.NewDate(2025, 3, 1), "Linen Shirt", 2, 1250)
	in.CustomerName = "Kamal"
	id, err := repo.CreateSale(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := repo.GetSale(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "2025-03-01", got.Date.String())
	assert.Equal(t, "Linen Shirt", got.ItemName)
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, int64(1250), got.UnitPrice.Cents)
	assert.Equal(t, int64(2500), got.TotalAmount.Cents)
	assert.Equal(t, "Kamal", got.CustomerName)
	assert.Empty(t, got.Notes)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestGetSaleNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.GetSale(context.Background(), 999)
	assert.True(t, errors.Is(err, core.ErrNotFound), "got %v", err)
}

func TestListSalesOrdering(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	repo.now = stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	older, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 1, 10), "A", 1, 100))
	require.NoError(t, err)
	sameDayFirst, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 1, 12), "B", 1, 100))
	require.NoError(t, err)
	sameDaySecond, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 1, 12), "C", 1, 100))
	require.NoError(t, err)

	sales, err := repo.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 3)
	assert.Equal(t, []int64{sameDaySecond, sameDayFirst, older},
		[]int64{sales[0].ID, sales[1].ID, sales[2].ID})
}

func TestListSalesByDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	for _, d := range []int{1, 5, 10, 15} {
		_, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 2, d), "Item", 1, 100))
		require.NoError(t, err)
	}

	sales, err := repo.ListSalesByDateRange(ctx, core.NewDate(2025, 2, 5), core.NewDate(2025, 2, 10))
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "2025-02-10", sales[0].Date.String())
	assert.Equal(t, "2025-02-05", sales[1].Date.String())

	none, err := repo.ListSalesByDateRange(ctx, core.NewDate(2025, 3, 1), core.NewDate(2025, 3, 31))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateSaleKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	repo.now = stepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	id, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 1, 2), "Scarf", 1, 500))
	require.NoError(t, err)
	before, err := repo.GetSale(ctx, id)
	require.NoError(t, err)

	upd := sale(core.NewDate(2025, 1, 3), "Silk Scarf", 3, 700)
	upd.Notes = "gift wrap"
	changed, err := repo.UpdateSale(ctx, id, upd)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	after, err := repo.GetSale(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Silk Scarf", after.ItemName)
	assert.Equal(t, int64(2100), after.TotalAmount.Cents)
	assert.Equal(t, "gift wrap", after.Notes)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	changed, err = repo.UpdateSale(ctx, id+100, upd)
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestDeleteSale(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	id, err := repo.CreateSale(ctx, sale(core.NewDate(2025, 1, 2), "Belt", 1, 900))
	require.NoError(t, err)

	changed, err := repo.DeleteSale(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	changed, err = repo.DeleteSale(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, changed)

	_, err = repo.GetSale(ctx, id)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestStoreRejectsNonPositiveQuantity(t *testing.T) {
	repo, _ := newTestRepo(t)
	bad := sale(core.NewDate(2025, 1, 2), "Belt", 1, 900)
	bad.Quantity = 0
	_, err := repo.CreateSale(context.Background(), bad)
	assert.Error(t, err)
}
