package backend

import (
	"context"
	"net/http"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

type TransactionItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type TransactionRequest struct {
	Products      []TransactionItem `json:"products"`
	Balance       int64             `json:"balance"`
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes"`
}

func (c *Client) ListTransactions(ctx context.Context, token string) ([]domain.Transaction, error) {
	var raw []rawTransaction
	if err := c.getJSON(ctx, token, "/transactions", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		out = append(out, toTransaction(r))
	}
	return out, nil
}

// CreateTransaction posts a sale. Fields the backend leaves out of the
// reply stay zero.
func (c *Client) CreateTransaction(ctx context.Context, token string, req TransactionRequest) (domain.Transaction, error) {
	var raw rawTransaction
	if err := c.sendJSON(ctx, http.MethodPost, token, "/transactions", req, &raw); err != nil {
		return domain.Transaction{}, err
	}
	return toTransaction(raw), nil
}
