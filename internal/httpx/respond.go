package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/cart"
	"github.com/ariefcatur/go-kasir/internal/payment"
	"github.com/ariefcatur/go-kasir/internal/session"
	"github.com/ariefcatur/go-kasir/internal/stockio"
)

var errPaymentInProgress = errors.New("pembayaran sedang diproses")

// requestError is a client mistake caught before any backend call.
type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid json")
	}
	return nil
}

func statusOf(err error) int {
	var reqErr *requestError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, session.ErrInvalidLogin),
		errors.Is(err, payment.ErrEmptyCart),
		errors.Is(err, payment.ErrInsufficientCash),
		errors.Is(err, payment.ErrUnknownMethod),
		errors.Is(err, stockio.ErrBadFormat):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, backend.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, stockio.ErrNothingToExport):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrExceedsStock),
		errors.Is(err, payment.ErrUnknownProduct),
		errors.Is(err, errPaymentInProgress):
		return http.StatusConflict
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status and {"error": msg}.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusOf(err)
	msg := err.Error()
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if code >= 500 {
		h.log().Error("request failed", zapRequest(r, err)...)
	}
	writeJSON(w, code, map[string]string{"error": msg})
}
