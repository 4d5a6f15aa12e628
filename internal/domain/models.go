package domain

import "time"

// Harga selalu dalam rupiah utuh (tanpa sen).

type Product struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Code       string `json:"code"`
	SellPrice  int64  `json:"selling_price"`
	CostPrice  int64  `json:"base_price"`
	Stock      int    `json:"stock"`
	CategoryID int64  `json:"category_id"`
	ImageURL   string `json:"image_url,omitempty"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Role string

const (
	RoleOwner Role = "Owner"
	RoleStaff Role = "Staff"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
}

// RoleFor: akun pemilik dikenali dari username, sisanya staff.
func RoleFor(username string) Role {
	switch username {
	case "admin", "johndoe":
		return RoleOwner
	default:
		return RoleStaff
	}
}

type TransactionDetail struct {
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
}

type Transaction struct {
	Code          string              `json:"trx_code"`
	OrderedAt     time.Time           `json:"waktu_order"`
	PaidAt        time.Time           `json:"waktu_bayar"`
	Amount        int64               `json:"amount"`
	PaymentMethod string              `json:"payment_method"`
	Details       []TransactionDetail `json:"details"`
}

type ReceiptLine struct {
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type Receipt struct {
	Code      string        `json:"code"`
	OrderedAt time.Time     `json:"ordered_at"`
	PaidAt    time.Time     `json:"paid_at"`
	Outlet    string        `json:"outlet"`
	Lines     []ReceiptLine `json:"lines"`
	Total     int64         `json:"total"`
	Method    string        `json:"method"`
	Change    int64         `json:"change"`
}
