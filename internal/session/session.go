// Package session replaces the browser's stored token/user pair with an
// explicit session object that handlers receive through the request context.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

var (
	ErrNotFound     = errors.New("sesi tidak ditemukan, silakan login ulang")
	ErrInvalidLogin = errors.New("username dan password wajib diisi")
)

type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      domain.User `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type ctxKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
