// Package cart is the checkout cart: an ordered set of product lines whose
// quantities stay within each product's stock ceiling.
//
// A Cart is not safe for concurrent use; callers serialize access.
package cart

import (
	"errors"
	"math"
	"strconv"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/money"
)

var (
	ErrOutOfStock      = errors.New("stok habis")
	ErrExceedsStock    = errors.New("jumlah pembelian melebihi stok")
	ErrProductNotFound = errors.New("barang tidak ditemukan")
	ErrLineNotFound    = errors.New("barang tidak ada di keranjang")
)

// Catalog is the read-only product lookup every mutation is checked against.
type Catalog interface {
	Product(id int64) (domain.Product, bool)
	ByCode(code string) (domain.Product, bool)
}

type Line struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url,omitempty"`
	UnitPrice int64  `json:"unit_price"` // diambil saat add, tidak disinkron ulang
	Qty       int    `json:"qty"`
	stock     int
}

func (l Line) Subtotal() int64 { return l.UnitPrice * int64(l.Qty) }

type Cart struct {
	catalog Catalog
	lines   []Line
	drafts  map[int64]int // input jumlah yang belum di-commit, dibuat saat perlu
}

func New(c Catalog) *Cart {
	return &Cart{catalog: c, drafts: map[int64]int{}}
}

// UseCatalog swaps the lookup used for later stock checks.
func (c *Cart) UseCatalog(cat Catalog) { c.catalog = cat }

// Add puts one unit of p into the cart, merging into an existing line.
func (c *Cart) Add(p domain.Product) error {
	i := c.index(p.ID)
	if i < 0 {
		if p.Stock < 1 {
			return ErrOutOfStock
		}
		c.lines = append(c.lines, Line{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			UnitPrice: p.SellPrice,
			Qty:       1,
			stock:     p.Stock,
		})
		return nil
	}
	if c.lines[i].Qty+1 > p.Stock {
		return ErrExceedsStock
	}
	c.lines[i].Qty++
	c.lines[i].stock = p.Stock
	delete(c.drafts, p.ID)
	return nil
}

// AddByCode resolves a scanned barcode through the catalog and adds it.
func (c *Cart) AddByCode(code string) error {
	if c.catalog == nil {
		return ErrProductNotFound
	}
	p, ok := c.catalog.ByCode(code)
	if !ok {
		return ErrProductNotFound
	}
	return c.Add(p)
}

// Increment adds one unit, stopping silently at the stock ceiling.
func (c *Cart) Increment(id int64) {
	i := c.index(id)
	if i < 0 {
		return
	}
	if ceiling := c.ceiling(i); c.lines[i].Qty+1 <= ceiling {
		c.lines[i].Qty++
	}
	delete(c.drafts, id)
}

// Decrement removes one unit; the line goes away when it reaches zero.
func (c *Cart) Decrement(id int64) {
	i := c.index(id)
	if i < 0 {
		return
	}
	delete(c.drafts, id)
	if c.lines[i].Qty-1 <= 0 {
		c.remove(i)
		return
	}
	c.lines[i].Qty--
}

// EditQuantity records in-progress text for a line's quantity field.
// Input with anything but digits is ignored; "" stands for 0.
func (c *Cart) EditQuantity(id int64, raw string) {
	if c.index(id) < 0 || !money.IsDigits(raw) {
		return
	}
	q := money.Digits(raw)
	if q > math.MaxInt {
		q = math.MaxInt
	}
	if c.drafts == nil {
		c.drafts = map[int64]int{}
	}
	c.drafts[id] = int(q)
}

// CommitQuantity applies the pending edit: below 1 drops the line, above
// the stock ceiling clamps to it.
func (c *Cart) CommitQuantity(id int64) {
	i := c.index(id)
	if i < 0 {
		return
	}
	q, ok := c.drafts[id]
	if !ok {
		return
	}
	delete(c.drafts, id)
	switch ceiling := c.ceiling(i); {
	case q < 1:
		c.remove(i)
	case q > ceiling:
		c.lines[i].Qty = ceiling
	default:
		c.lines[i].Qty = q
	}
}

// SetQuantity is EditQuantity followed by CommitQuantity.
func (c *Cart) SetQuantity(id int64, raw string) {
	c.EditQuantity(id, raw)
	c.CommitQuantity(id)
}

// QuantityText is what the quantity field shows: the pending edit if any
// ("" for zero), else the committed quantity.
func (c *Cart) QuantityText(id int64) string {
	if q, ok := c.drafts[id]; ok {
		if q == 0 {
			return ""
		}
		return strconv.Itoa(q)
	}
	if i := c.index(id); i >= 0 {
		return strconv.Itoa(c.lines[i].Qty)
	}
	return ""
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Line(id int64) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int    { return len(c.lines) }
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) index(id int64) int {
	for i := range c.lines {
		if c.lines[i].ProductID == id {
			return i
		}
	}
	return -1
}

// ceiling prefers the catalog's stock; the figure captured at add time
// covers products the catalog no longer lists.
func (c *Cart) ceiling(i int) int {
	if c.catalog != nil {
		if p, ok := c.catalog.Product(c.lines[i].ProductID); ok {
			return p.Stock
		}
	}
	return c.lines[i].stock
}

func (c *Cart) remove(i int) {
	delete(c.drafts, c.lines[i].ProductID)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
