package cart

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCatalog map[int64]domain.Product

func (m mapCatalog) Product(id int64) (domain.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func (m mapCatalog) ByCode(code string) (domain.Product, bool) {
	for _, p := range m {
		if p.Code == code {
			return p, true
		}
	}
	return domain.Product{}, false
}

func product(id int64, stock int, price int64) domain.Product {
	return domain.Product{ID: id, Code: fmt.Sprintf("BRG%03d", id), Name: "barang", Stock: stock, SellPrice: price}
}

func newCart(ps ...domain.Product) *Cart {
	m := mapCatalog{}
	for _, p := range ps {
		m[p.ID] = p
	}
	return New(m)
}

func TestAdd_MergesIntoOneLine(t *testing.T) {
	a := product(1, 5, 1000)
	c := newCart(a)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Add(a))
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Qty)
	assert.Equal(t, int64(3000), c.Total())
}

func TestAdd_RejectsAboveStock(t *testing.T) {
	b := product(2, 2, 500)
	c := newCart(b)
	require.NoError(t, c.Add(b))
	require.NoError(t, c.Add(b))

	err := c.Add(b)

	assert.ErrorIs(t, err, ErrExceedsStock)
	l, ok := c.Line(b.ID)
	require.True(t, ok)
	assert.Equal(t, 2, l.Qty)
	assert.Equal(t, int64(1000), c.Total())
}

func TestAdd_OutOfStock(t *testing.T) {
	p := product(3, 0, 700)
	c := newCart(p)

	err := c.Add(p)

	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.True(t, c.Empty())
}

func TestAddByCode(t *testing.T) {
	p := product(4, 3, 250)
	c := newCart(p)

	require.NoError(t, c.AddByCode(p.Code))
	assert.ErrorIs(t, c.AddByCode("tidak-ada"), ErrProductNotFound)
	assert.Equal(t, 1, c.Len())
}

func TestDecrement_RemovesAtZero(t *testing.T) {
	p := product(5, 10, 100)
	c := newCart(p)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Add(p))
	}

	c.Decrement(p.ID)
	c.Decrement(p.ID)
	l, ok := c.Line(p.ID)
	require.True(t, ok)
	assert.Equal(t, 1, l.Qty)

	c.Decrement(p.ID)
	_, ok = c.Line(p.ID)
	assert.False(t, ok)
	assert.True(t, c.Empty())
}

func TestIncrement_ClampsAtCeiling(t *testing.T) {
	p := product(6, 2, 100)
	c := newCart(p)
	require.NoError(t, c.Add(p))

	c.Increment(p.ID)
	c.Increment(p.ID)
	c.Increment(99)

	l, _ := c.Line(p.ID)
	assert.Equal(t, 2, l.Qty)
	assert.Equal(t, 1, c.Len())
}

func TestSetQuantity_ClampsToStock(t *testing.T) {
	d := product(7, 10, 100)
	c := newCart(d)
	require.NoError(t, c.Add(d))

	c.SetQuantity(d.ID, "15")

	l, _ := c.Line(d.ID)
	assert.Equal(t, 10, l.Qty)
	assert.Equal(t, int64(1000), c.Total())
}

func TestSetQuantity_HugeInputClampsToStock(t *testing.T) {
	p := product(10, 10, 100)
	c := newCart(p)
	require.NoError(t, c.Add(p))

	c.SetQuantity(p.ID, "9999999999999999999")
	l, ok := c.Line(p.ID)
	require.True(t, ok)
	assert.Equal(t, 10, l.Qty)

	c.SetQuantity(p.ID, "99999999999999999999999999")
	l, ok = c.Line(p.ID)
	require.True(t, ok)
	assert.Equal(t, 10, l.Qty)
}

func TestZeroValueCart(t *testing.T) {
	p := product(11, 5, 100)
	var c Cart
	require.NoError(t, c.Add(p))

	assert.NotPanics(t, func() { c.SetQuantity(p.ID, "3") })
	l, _ := c.Line(p.ID)
	assert.Equal(t, 3, l.Qty)
}

func TestSetQuantity_EmptyRemovesLine(t *testing.T) {
	e := product(8, 4, 100)
	c := newCart(e)
	require.NoError(t, c.Add(e))

	c.EditQuantity(e.ID, "")
	assert.Equal(t, "", c.QuantityText(e.ID))
	// belum commit: baris masih ada dengan jumlah lama
	assert.Equal(t, int64(100), c.Total())

	c.CommitQuantity(e.ID)
	assert.True(t, c.Empty())
}

func TestEditQuantity_IgnoresNonDigits(t *testing.T) {
	p := product(9, 9, 100)
	c := newCart(p)
	require.NoError(t, c.Add(p))

	c.EditQuantity(p.ID, "4")
	c.EditQuantity(p.ID, "4a")
	assert.Equal(t, "4", c.QuantityText(p.ID))

	c.CommitQuantity(p.ID)
	l, _ := c.Line(p.ID)
	assert.Equal(t, 4, l.Qty)
	assert.Equal(t, "4", c.QuantityText(p.ID))
}

func TestEmptyCartTotal(t *testing.T) {
	assert.Equal(t, int64(0), New(nil).Total())
}

func TestCeiling_FallsBackToCapturedStock(t *testing.T) {
	p := product(10, 3, 100)
	c := New(mapCatalog{})
	require.NoError(t, c.Add(p))

	c.SetQuantity(p.ID, "50")

	l, _ := c.Line(p.ID)
	assert.Equal(t, 3, l.Qty)
}

func TestRandomOperations_KeepInvariants(t *testing.T) {
	ps := []domain.Product{
		product(1, 0, 1000),
		product(2, 1, 500),
		product(3, 4, 250),
		product(4, 7, 125),
	}
	c := newCart(ps...)
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 2000; step++ {
		p := ps[rng.Intn(len(ps))]
		switch rng.Intn(5) {
		case 0:
			_ = c.Add(p)
		case 1:
			c.Increment(p.ID)
		case 2:
			c.Decrement(p.ID)
		case 3:
			c.SetQuantity(p.ID, []string{"", "0", "1", "3", "20", "x"}[rng.Intn(6)])
		case 4:
			c.EditQuantity(p.ID, "2")
		}

		seen := map[int64]bool{}
		var want int64
		for _, l := range c.Lines() {
			assert.False(t, seen[l.ProductID], "duplicate line %d", l.ProductID)
			seen[l.ProductID] = true
			assert.Greater(t, l.Qty, 0)
			for _, q := range ps {
				if q.ID == l.ProductID {
					assert.LessOrEqual(t, l.Qty, q.Stock)
				}
			}
			want += int64(l.Qty) * l.UnitPrice
		}
		require.Equal(t, want, c.Total())
	}
}
