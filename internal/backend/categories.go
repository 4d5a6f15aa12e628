package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

type categoryReq struct {
	Name string `json:"name"`
}

func (c *Client) ListCategories(ctx context.Context, token string) ([]domain.Category, error) {
	var raw []rawCategory
	if err := c.getJSON(ctx, token, "/categories", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0, len(raw))
	for _, r := range raw {
		out = append(out, toCategory(r))
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, token, name string) (domain.Category, error) {
	var raw rawCategory
	if err := c.sendJSON(ctx, http.MethodPost, token, "/categories", categoryReq{Name: name}, &raw); err != nil {
		return domain.Category{}, err
	}
	return toCategory(raw), nil
}

func (c *Client) RenameCategory(ctx context.Context, token string, id int64, name string) error {
	return c.sendJSON(ctx, http.MethodPut, token, fmt.Sprintf("/categories/%d", id), categoryReq{Name: name}, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, token string, id int64) error {
	return c.call(ctx, http.MethodDelete, token, fmt.Sprintf("/categories/%d", id), nil, "", nil)
}
