package httpx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-kasir/internal/cart"
	"github.com/ariefcatur/go-kasir/internal/catalog"
	"github.com/ariefcatur/go-kasir/internal/money"
	"github.com/ariefcatur/go-kasir/internal/payment"
	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type lineView struct {
	cart.Line
	QtyText  string `json:"qty_text"`
	Subtotal int64  `json:"subtotal"`
}

type cartView struct {
	Lines     []lineView `json:"lines"`
	Total     int64      `json:"total"`
	TotalText string     `json:"total_text"`
}

func viewOf(c *cart.Cart) cartView {
	lines := c.Lines()
	v := cartView{Lines: make([]lineView, 0, len(lines)), Total: c.Total()}
	for _, l := range lines {
		v.Lines = append(v.Lines, lineView{Line: l, QtyText: c.QuantityText(l.ProductID), Subtotal: l.Subtotal()})
	}
	v.TotalText = money.Format(v.Total)
	return v
}

// withCart loads the catalog snapshot, runs fn on the session's cart and
// replies with the resulting cart.
func (h *Handler) withCart(w http.ResponseWriter, r *http.Request, fn func(snap *catalog.Snapshot, c *cart.Cart) error) {
	s := currentSession(r)
	snap, err := h.Catalog.Load(r.Context(), s.Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var view cartView
	err = h.Carts.With(s.ID, snap, func(c *cart.Cart) error {
		if err := fn(snap, c); err != nil {
			return err
		}
		view = viewOf(c)
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) checkoutCatalog(w http.ResponseWriter, r *http.Request) {
	token := currentSession(r).Token
	var (
		snap *catalog.Snapshot
		err  error
	)
	if r.URL.Query().Get("refresh") != "" {
		snap, err = h.Catalog.Refresh(r.Context(), token)
	} else {
		snap, err = h.Catalog.Load(r.Context(), token)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(snap, snap.Search(r.URL.Query().Get("q"))))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(*catalog.Snapshot, *cart.Cart) error { return nil })
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.Carts.Reset(currentSession(r).ID)
	writeJSON(w, http.StatusOK, viewOf(cart.New(nil)))
}

type addItemReq struct {
	ProductID int64  `json:"product_id"`
	Code      string `json:"code"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.withCart(w, r, func(snap *catalog.Snapshot, c *cart.Cart) error {
		p, ok := snap.Product(req.ProductID)
		if !ok {
			return cart.ErrProductNotFound
		}
		return c.Add(p)
	})
}

func (h *Handler) scanItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		h.writeError(w, r, badRequest("kode barang wajib diisi"))
		return
	}
	h.withCart(w, r, func(_ *catalog.Snapshot, c *cart.Cart) error {
		return c.AddByCode(code)
	})
}

// lineOp applies op to an existing line; unknown lines are a 404.
func (h *Handler) lineOp(w http.ResponseWriter, r *http.Request, op func(c *cart.Cart, id int64)) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.withCart(w, r, func(_ *catalog.Snapshot, c *cart.Cart) error {
		if _, ok := c.Line(id); !ok {
			return cart.ErrLineNotFound
		}
		op(c, id)
		return nil
	})
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, (*cart.Cart).Increment)
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	h.lineOp(w, r, (*cart.Cart).Decrement)
}

type quantityReq struct {
	Value  string `json:"value"`
	Commit bool   `json:"commit"`
}

// quantityItem mirrors the quantity field: edits are kept as drafts until
// commit (blur or Enter).
func (h *Handler) quantityItem(w http.ResponseWriter, r *http.Request) {
	var req quantityReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.lineOp(w, r, func(c *cart.Cart, id int64) {
		if req.Commit {
			c.SetQuantity(id, req.Value)
			return
		}
		c.EditQuantity(id, req.Value)
	})
}

type payReq struct {
	Method string   `json:"method"`
	Cash   string   `json:"cash"`
	Keys   []string `json:"keys"` // urutan tombol keypad, alternatif dari cash
}

func (h *Handler) pay(w http.ResponseWriter, r *http.Request) {
	var req payReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	method, err := payment.ParseMethod(req.Method)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cash := req.Cash
	if len(req.Keys) > 0 {
		var kp payment.Keypad
		for _, k := range req.Keys {
			kp.Press(k)
		}
		cash = kp.Input()
	}

	s := currentSession(r)
	ctx := r.Context()
	lock := fmt.Sprintf(redisx.KeyPaymentLock, s.ID)
	ok, err := redisx.Claim(ctx, h.Redis, lock, redisx.TTLPaymentLock)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		h.writeError(w, r, errPaymentInProgress)
		return
	}
	// tetap dilepas walau client sudah putus
	defer func() { _ = h.Redis.Del(context.WithoutCancel(ctx), lock).Err() }()

	lines, _ := h.Carts.Peek(s.ID)
	res, err := h.Payments.Submit(payment.WithTraceID(ctx, middleware.GetReqID(ctx)), s.Token, s.User, payment.Request{
		Lines:  lines,
		Method: method,
		Cash:   cash,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Carts.Reset(s.ID)
	// stok berubah setelah transaksi
	h.Catalog.Invalidate(ctx, s.Token)
	h.log().Info("payment done", zap.String("session_id", s.ID), zap.String("trx_code", res.Receipt.Code))
	writeJSON(w, http.StatusOK, res)
}
