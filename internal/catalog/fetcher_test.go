package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls      atomic.Int32
	products   []domain.Product
	categories []domain.Category
	err        error
	gate       chan struct{}
}

func (f *fakeSource) ListProducts(context.Context, string) ([]domain.Product, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) ListCategories(context.Context, string) ([]domain.Category, error) {
	return f.categories, nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		products: []domain.Product{
			{ID: 1, Name: "Kopi Susu", Code: "KS01", Stock: 3, SellPrice: 15000, CategoryID: 1},
			{ID: 2, Name: "Teh Manis", Code: "TM01", Stock: 0, SellPrice: 5000, CategoryID: 1},
			{ID: 3, Name: "Roti Bakar", Code: "RB01", Stock: 8, SellPrice: 12000, CategoryID: 2},
		},
		categories: []domain.Category{{ID: 1, Name: "Minuman"}, {ID: 2, Name: "Makanan"}},
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	src := sampleSource()
	s := NewSnapshot(src.products, src.categories, time.Now())

	p, ok := s.ByCode("RB01")
	require.True(t, ok)
	assert.Equal(t, int64(3), p.ID)

	_, ok = s.Product(99)
	assert.False(t, ok)

	found := s.Search("ko")
	require.Len(t, found, 1)
	assert.Equal(t, "Kopi Susu", found[0].Name)

	// stok habis tidak ditawarkan di layar transaksi
	assert.Empty(t, s.Search("teh"))
	assert.Len(t, s.FilterByName("teh"), 1)

	assert.Equal(t, "Minuman", s.CategoryName(1))
	assert.Equal(t, UnknownCategory, s.CategoryName(42))
	assert.Len(t, s.ProductsInCategory(1), 2)
	assert.Equal(t, int64(2), s.NameIndex()["Teh Manis"])
}

func TestFetcher_CollapsesConcurrentRefresh(t *testing.T) {
	src := sampleSource()
	src.gate = make(chan struct{})
	f := NewFetcher(src, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Load(context.Background(), "tok")
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
}

func TestFetcher_UsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	src := sampleSource()
	f := NewFetcher(src, NewRedisCache(client, time.Minute), nil)
	ctx := context.Background()

	first, err := f.Load(ctx, "tok")
	require.NoError(t, err)
	second, err := f.Load(ctx, "tok")
	require.NoError(t, err)

	assert.Equal(t, int32(1), src.calls.Load())
	assert.Equal(t, first.Products(), second.Products())
	p, ok := second.ByCode("KS01")
	require.True(t, ok)
	assert.Equal(t, int64(15000), p.SellPrice)

	f.Invalidate(ctx, "tok")
	_, err = f.Load(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestFetcher_PropagatesError(t *testing.T) {
	src := sampleSource()
	src.err = errors.New("boom")
	f := NewFetcher(src, nil, nil)

	_, err := f.Load(context.Background(), "tok")

	assert.ErrorIs(t, err, src.err)
}
