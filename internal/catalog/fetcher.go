// Package catalog loads the product and category lists for a session and
// serves them as read-only snapshots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Source interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	ListCategories(ctx context.Context, token string) ([]domain.Category, error)
}

type Cache interface {
	Get(ctx context.Context, token string) (*Snapshot, error)
	Set(ctx context.Context, token string, s *Snapshot) error
	Delete(ctx context.Context, token string) error
}

var ErrCacheMiss = errors.New("catalog cache miss")

type Fetcher struct {
	src   Source
	cache Cache
	log   *zap.Logger
	now   func() time.Time
	sfg   singleflight.Group // satu fetch per token walau request numpuk
}

func NewFetcher(src Source, cache Cache, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{src: src, cache: cache, log: log, now: time.Now}
}

// Load returns the cached snapshot for token, fetching on a miss.
func (f *Fetcher) Load(ctx context.Context, token string) (*Snapshot, error) {
	if f.cache != nil {
		s, err := f.cache.Get(ctx, token)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			f.log.Warn("catalog cache get", zap.Error(err))
		}
	}
	return f.Refresh(ctx, token)
}

// Refresh always goes to the backend and replaces the cached snapshot.
func (f *Fetcher) Refresh(ctx context.Context, token string) (*Snapshot, error) {
	v, err, _ := f.sfg.Do(token, func() (any, error) {
		products, err := f.src.ListProducts(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		categories, err := f.src.ListCategories(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		s := NewSnapshot(products, categories, f.now())
		if f.cache != nil {
			if err := f.cache.Set(ctx, token, s); err != nil {
				f.log.Warn("catalog cache set", zap.Error(err))
			}
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the cached snapshot after a product or category change.
func (f *Fetcher) Invalidate(ctx context.Context, token string) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Delete(ctx, token); err != nil {
		f.log.Warn("catalog cache invalidate", zap.Error(err))
	}
}
