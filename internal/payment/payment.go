// Package payment turns a finished cart into a backend transaction.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/cart"
	"github.com/ariefcatur/go-kasir/internal/catalog"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/money"
	"go.uber.org/zap"
)

type Method string

const (
	MethodCash Method = "Cash"
	MethodQRIS Method = "QRIS"
)

const (
	DefaultOutlet = "Outlet 1"
	qrisNotes     = "Pembayaran via QRIS (manual)"
)

var (
	ErrEmptyCart        = errors.New("pilih barang terlebih dahulu")
	ErrInsufficientCash = errors.New("uang yang diberikan kurang")
	ErrUnknownProduct   = errors.New("produk tidak ditemukan dalam database")
	ErrUnknownMethod    = errors.New("metode pembayaran tidak dikenal")
)

func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash":
		return MethodCash, nil
	case "qris":
		return MethodQRIS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

type Backend interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateTransaction(ctx context.Context, token string, req backend.TransactionRequest) (domain.Transaction, error)
}

// Publisher announces completed sales.
type Publisher interface {
	TransactionCompleted(ctx context.Context, r domain.Receipt, cashier domain.User) error
}

type Request struct {
	Lines  []cart.Line
	Method Method
	Cash   string // input keypad, digit saja
}

type Result struct {
	Receipt domain.Receipt `json:"receipt"`
	Change  int64          `json:"change"`
}

type Submitter struct {
	backend Backend
	pub     Publisher
	log     *zap.Logger
	outlet  string
	now     func() time.Time
}

func NewSubmitter(b Backend, pub Publisher, log *zap.Logger) *Submitter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Submitter{backend: b, pub: pub, log: log, outlet: DefaultOutlet, now: time.Now}
}

func Total(lines []cart.Line) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Submit validates the payment, posts the transaction and returns the receipt.
func (s *Submitter) Submit(ctx context.Context, token string, cashier domain.User, req Request) (Result, error) {
	if len(req.Lines) == 0 {
		return Result{}, ErrEmptyCart
	}
	total := Total(req.Lines)
	cash := money.Digits(req.Cash)
	isQRIS := req.Method == MethodQRIS
	if !isQRIS && cash < total {
		return Result{}, fmt.Errorf("%w: %s < %s", ErrInsufficientCash, money.Format(cash), money.Format(total))
	}

	// id produk diambil ulang dari backend, dicocokkan lewat nama
	products, err := s.backend.ListProducts(ctx, token)
	if err != nil {
		return Result{}, fmt.Errorf("gagal mengambil data barang: %w", err)
	}
	ids := catalog.NewSnapshot(products, nil, s.now()).NameIndex()

	payload := backend.TransactionRequest{
		Products:      make([]backend.TransactionItem, 0, len(req.Lines)),
		Balance:       cash,
		PaymentMethod: "cash",
	}
	for _, l := range req.Lines {
		id, ok := ids[l.Name]
		if !ok {
			return Result{}, fmt.Errorf("%w: %q", ErrUnknownProduct, l.Name)
		}
		payload.Products = append(payload.Products, backend.TransactionItem{ProductID: id, Quantity: l.Qty})
	}
	if isQRIS {
		payload.Balance = total
		payload.PaymentMethod = "qris"
		payload.Notes = qrisNotes
	}

	trx, err := s.backend.CreateTransaction(ctx, token, payload)
	if err != nil {
		return Result{}, err
	}

	change := int64(0)
	if !isQRIS {
		change = cash - total
	}
	now := s.now()
	r := domain.Receipt{
		Code:      trx.Code,
		OrderedAt: trx.OrderedAt,
		PaidAt:    trx.PaidAt,
		Outlet:    s.outlet,
		Lines:     make([]domain.ReceiptLine, 0, len(req.Lines)),
		Total:     total,
		Method:    string(req.Method),
		Change:    change,
	}
	if r.Code == "" {
		r.Code = fmt.Sprintf("TRX%d", now.UnixMilli())
	}
	if r.OrderedAt.IsZero() {
		r.OrderedAt = now
	}
	if r.PaidAt.IsZero() {
		r.PaidAt = now
	}
	for _, l := range req.Lines {
		r.Lines = append(r.Lines, domain.ReceiptLine{Name: l.Name, Qty: l.Qty, UnitPrice: l.UnitPrice})
	}

	s.log.Info("transaction created",
		zap.String("trx_code", r.Code),
		zap.String("method", r.Method),
		zap.Int64("total", total),
		zap.Int64("change", change),
	)
	if s.pub != nil {
		if err := s.pub.TransactionCompleted(ctx, r, cashier); err != nil {
			// transaksi sudah tercatat di backend, cukup dicatat
			s.log.Warn("publish transaction", zap.String("trx_code", r.Code), zap.Error(err))
		}
	}
	return Result{Receipt: r, Change: change}, nil
}
