// Package memory is an in-process Record Store used for tests and the
// memory data backend. Nothing is persisted.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"saletrack/internal/core"
)

type Store struct {
	mu      sync.Mutex
	sales   []core.Sale
	cats    []core.Category
	nextID  int64
	nextCat int64
	now     func() time.Time
}

// New returns a store seeded with cats, or the default categories when cats is empty.
func New(cats []string) *Store {
	if len(cats) == 0 {
		cats = core.SeedCategories
	}
	s := &Store{now: time.Now}
	for _, name := range dedupe(cats) {
		s.nextCat++
		s.cats = append(s.cats, core.Category{ID: s.nextCat, Name: name})
	}
	return s
}

// NewFromFiles seeds categories from base/seed_categories.txt when present.
func NewFromFiles(base string) *Store {
	return New(readLines(filepath.Join(base, "seed_categories.txt")))
}

// SetClock replaces the clock used for created_at.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Close() error { return nil }

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) CreateSale(_ context.Context, sale core.Sale) (int64, error) {
	if sale.Quantity <= 0 || sale.UnitPrice.Cents < 0 {
		return 0, fmt.Errorf("create sale: constraint failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	sale.ID = s.nextID
	sale.CreatedAt = s.now().UTC()
	s.sales = append(s.sales, sale)
	return sale.ID, nil
}

func (s *Store) GetSale(_ context.Context, id int64) (core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.sales[i], nil
	}
	return core.Sale{}, fmt.Errorf("get sale %d: %w", id, core.ErrNotFound)
}

func (s *Store) ListSales(_ context.Context) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCopy(s.sales), nil
}

func (s *Store) ListSalesByDateRange(_ context.Context, start, end core.Date) ([]core.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Sale
	for _, sale := range s.sales {
		if sale.Date.Within(start, end) {
			out = append(out, sale)
		}
	}
	return sortedCopy(out), nil
}

func (s *Store) UpdateSale(_ context.Context, id int64, sale core.Sale) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	sale.ID = id
	sale.CreatedAt = s.sales[i].CreatedAt
	s.sales[i] = sale
	return 1, nil
}

func (s *Store) DeleteSale(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	s.sales = append(s.sales[:i], s.sales[i+1:]...)
	return 1, nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Category(nil), s.cats...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AddCategory(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cats {
		if c.Name == name {
			return core.Category{}, fmt.Errorf("add category %q: %w", name, core.ErrDuplicate)
		}
	}
	s.nextCat++
	c := core.Category{ID: s.nextCat, Name: name}
	s.cats = append(s.cats, c)
	return c, nil
}

func (s *Store) indexOf(id int64) int {
	for i, sale := range s.sales {
		if sale.ID == id {
			return i
		}
	}
	return -1
}

// sortedCopy orders by date, then creation time, then id, all descending.
func sortedCopy(in []core.Sale) []core.Sale {
	out := append([]core.Sale(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c > 0
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
