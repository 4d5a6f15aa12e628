package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

// ProductInput is the multipart form the backend expects for create/update.
type ProductInput struct {
	Name       string
	Code       string
	SellPrice  int64
	CostPrice  int64
	Stock      int
	CategoryID int64
	Image      []byte
	ImageName  string
}

func (c *Client) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	var raw []rawProduct
	if err := c.getJSON(ctx, token, "/products", &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		out = append(out, c.toProduct(r))
	}
	return out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (domain.Product, error) {
	// backend menolak create tanpa file gambar
	if len(in.Image) == 0 && in.ImageName == "" {
		in.ImageName = "stub.jpg"
	}
	return c.sendProduct(ctx, http.MethodPost, token, "/products", in)
}

// UpdateProduct sends the image part only when a new image is given.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, in ProductInput) (domain.Product, error) {
	return c.sendProduct(ctx, http.MethodPatch, token, fmt.Sprintf("/products/%d", id), in)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	return c.call(ctx, http.MethodDelete, token, fmt.Sprintf("/products/%d", id), nil, "", nil)
}

func (c *Client) sendProduct(ctx context.Context, method, token, path string, in ProductInput) (domain.Product, error) {
	body, contentType, err := in.form()
	if err != nil {
		return domain.Product{}, err
	}
	var raw rawProduct
	if err := c.call(ctx, method, token, path, body, contentType, &raw); err != nil {
		return domain.Product{}, err
	}
	return c.toProduct(raw), nil
}

func (in ProductInput) form() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", in.Name},
		{"code", in.Code},
		{"price_sell", strconv.FormatInt(in.SellPrice, 10)},
		{"price_buy", strconv.FormatInt(in.CostPrice, 10)},
		{"stock", strconv.Itoa(in.Stock)},
	}
	if in.CategoryID > 0 {
		fields = append(fields, [2]string{"category_id", strconv.FormatInt(in.CategoryID, 10)})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if in.ImageName != "" || len(in.Image) > 0 {
		name := in.ImageName
		if name == "" {
			name = "image.jpg"
		}
		fw, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(in.Image); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
