package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/catalog"
	"github.com/ariefcatur/go-kasir/internal/checkout"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/payment"
	"github.com/ariefcatur/go-kasir/internal/receipts"
	"github.com/ariefcatur/go-kasir/internal/report"
	"github.com/ariefcatur/go-kasir/internal/session"
	"github.com/ariefcatur/go-kasir/internal/stockio"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	SessionHeader = "X-Session-Id"
	SessionCookie = "kasir_session"
)

// Backend is the part of the REST client the handlers call directly.
type Backend interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, in backend.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, token string, id int64, in backend.ProductInput) (domain.Product, error)
	DeleteProduct(ctx context.Context, token string, id int64) error
	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, token, name string) (domain.Category, error)
	RenameCategory(ctx context.Context, token string, id int64, name string) error
	DeleteCategory(ctx context.Context, token string, id int64) error
	ListTransactions(ctx context.Context, token string) ([]domain.Transaction, error)
}

type ReceiptLister interface {
	ListRecent(ctx context.Context, limit int) ([]receipts.Stored, error)
}

type Handler struct {
	Sessions *session.Manager
	Backend  Backend
	Catalog  *catalog.Fetcher
	Carts    *checkout.Registry
	Payments *payment.Submitter
	Reports  *report.Aggregator
	Exporter stockio.Exporter
	Importer *stockio.Importer
	Receipts ReceiptLister // nil kalau Postgres tidak dikonfigurasi
	Redis    *redis.Client
	Log      *zap.Logger
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.requireSession)

		r.Post("/logout", h.logout)
		r.Get("/profile", h.getProfile)
		r.Patch("/profile", h.updateProfile)

		r.Get("/products", h.listProducts)
		r.Post("/products", h.createProduct)
		r.Get("/products/export", h.exportProducts)
		r.Post("/products/import", h.importProducts)
		r.Patch("/products/{id}", h.updateProduct)
		r.Delete("/products/{id}", h.deleteProduct)

		r.Get("/categories", h.listCategories)
		r.Post("/categories", h.createCategory)
		r.Put("/categories/{id}", h.renameCategory)
		r.Delete("/categories/{id}", h.deleteCategory)
		r.Get("/categories/{id}/products", h.categoryProducts)

		r.Get("/checkout/catalog", h.checkoutCatalog)
		r.Get("/checkout/cart", h.getCart)
		r.Delete("/checkout/cart", h.clearCart)
		r.Post("/checkout/cart/items", h.addItem)
		r.Post("/checkout/cart/scan", h.scanItem)
		r.Post("/checkout/cart/items/{id}/increment", h.incrementItem)
		r.Post("/checkout/cart/items/{id}/decrement", h.decrementItem)
		r.Put("/checkout/cart/items/{id}/quantity", h.quantityItem)
		r.Post("/checkout/pay", h.pay)

		r.Get("/reports", h.getReport)
		r.Get("/reports/export", h.exportReport)
		r.Get("/receipts", h.listReceipts)
	})
}

// requireSession resolves the session from the header or cookie and puts
// it on the request context.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
		}
		s, err := h.Sessions.Get(r.Context(), id)
		if err != nil {
			// sesi kedaluwarsa: keranjangnya ikut dibuang
			if id != "" && errors.Is(err, session.ErrNotFound) && h.Carts != nil {
				h.Carts.Reset(id)
			}
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), s)))
	})
}

func currentSession(r *http.Request) *session.Session {
	s, _ := session.FromContext(r.Context())
	return s
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("id tidak valid")
	}
	return id, nil
}

func zapRequest(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

func (h *Handler) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
