package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login opens a backend session and returns the user with its bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	var raw rawUser
	if err := c.sendJSON(ctx, http.MethodPost, "", "/sessions", loginReq{Username: username, Password: password}, &raw); err != nil {
		return domain.User{}, "", err
	}
	if raw.Token == "" {
		return domain.User{}, "", &APIError{Status: http.StatusBadGateway, Message: "token tidak ditemukan"}
	}
	return toUser(raw), raw.Token, nil
}

type UserUpdate struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (domain.User, error) {
	var raw rawUser
	if err := c.getJSON(ctx, token, fmt.Sprintf("/users/%d", id), &raw); err != nil {
		return domain.User{}, err
	}
	return toUser(raw), nil
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, in UserUpdate) (domain.User, error) {
	var raw rawUser
	if err := c.sendJSON(ctx, http.MethodPatch, token, fmt.Sprintf("/users/%d", id), in, &raw); err != nil {
		return domain.User{}, err
	}
	return toUser(raw), nil
}
