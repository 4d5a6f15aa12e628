package backend

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/money"
)

// Backend records come with field names from more than one convention
// (name/nama, code_product/code/kode, ...). They are only read here.

// flexID accepts 12 or "12".
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = flexID(n)
	return nil
}

type rawCategory struct {
	ID   flexID `json:"id"`
	Name string `json:"name"`
	Nama string `json:"nama"`
}

type rawProduct struct {
	ID           flexID       `json:"id"`
	Name         string       `json:"name"`
	Nama         string       `json:"nama"`
	CodeProduct  string       `json:"code_product"`
	Code         string       `json:"code"`
	Kode         string       `json:"kode"`
	Stock        *int         `json:"stock"`
	Stok         *int         `json:"stok"`
	SellingPrice money.Amount `json:"selling_price"`
	PriceSell    money.Amount `json:"price_sell"`
	HargaJual    money.Amount `json:"hargaJual"`
	BasePrice    money.Amount `json:"base_price"`
	PriceBuy     money.Amount `json:"price_buy"`
	HargaDasar   money.Amount `json:"hargaDasar"`
	ImageURL     string       `json:"image_url"`
	Gambar       string       `json:"gambar"`
	CategoryID   flexID       `json:"category_id"`
	Category     *rawCategory `json:"category"`
}

type rawUser struct {
	ID       flexID `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Token    string `json:"token"`
}

type rawDetail struct {
	Product struct {
		Name string `json:"name"`
	} `json:"product"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	Quantity    int    `json:"quantity"`
}

type rawTransaction struct {
	TrxCode       string       `json:"trx_code"`
	WaktuOrder    string       `json:"waktu_order"`
	WaktuBayar    string       `json:"waktu_bayar"`
	Amount        money.Amount `json:"amount"`
	PaymentMethod string       `json:"payment_method"`
	Details       []rawDetail  `json:"details"`
}

func toCategory(r rawCategory) domain.Category {
	return domain.Category{ID: int64(r.ID), Name: firstNonEmpty(r.Name, r.Nama)}
}

func (c *Client) toProduct(r rawProduct) domain.Product {
	p := domain.Product{
		ID:         int64(r.ID),
		Name:       firstNonEmpty(r.Name, r.Nama),
		Code:       firstNonEmpty(r.CodeProduct, r.Code, r.Kode),
		SellPrice:  firstNonZero(r.SellingPrice, r.PriceSell, r.HargaJual),
		CostPrice:  firstNonZero(r.BasePrice, r.PriceBuy, r.HargaDasar),
		CategoryID: int64(r.CategoryID),
		ImageURL:   c.resolveImage(firstNonEmpty(r.ImageURL, r.Gambar)),
	}
	switch {
	case r.Stock != nil:
		p.Stock = *r.Stock
	case r.Stok != nil:
		p.Stock = *r.Stok
	}
	if p.Stock < 0 {
		p.Stock = 0
	}
	if p.CategoryID == 0 && r.Category != nil {
		p.CategoryID = int64(r.Category.ID)
	}
	return p
}

func toUser(r rawUser) domain.User {
	return domain.User{
		ID:       int64(r.ID),
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Role:     domain.RoleFor(r.Username),
	}
}

func toTransaction(r rawTransaction) domain.Transaction {
	t := domain.Transaction{
		Code:          r.TrxCode,
		OrderedAt:     parseTime(r.WaktuOrder),
		PaidAt:        parseTime(r.WaktuBayar),
		Amount:        int64(r.Amount),
		PaymentMethod: r.PaymentMethod,
		Details:       make([]domain.TransactionDetail, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		qty := d.Qty
		if qty == 0 {
			qty = d.Quantity
		}
		t.Details = append(t.Details, domain.TransactionDetail{
			ProductName: firstNonEmpty(d.Product.Name, d.ProductName),
			Qty:         qty,
		})
	}
	return t
}

// resolveImage turns a relative upload path into an absolute URL.
func (c *Client) resolveImage(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime reads backend timestamps; zone-less values are taken as UTC.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func firstNonZero(vals ...money.Amount) int64 {
	for _, v := range vals {
		if v != 0 {
			return int64(v)
		}
	}
	return 0
}
