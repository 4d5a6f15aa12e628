package catalog

import (
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

const UnknownCategory = "Tidak Diketahui"

// Snapshot is an immutable view of the catalog as fetched at one moment.
type Snapshot struct {
	products   []domain.Product
	categories []domain.Category
	fetchedAt  time.Time
	byID       map[int64]int
	byCode     map[string]int
	catName    map[int64]string
}

func NewSnapshot(products []domain.Product, categories []domain.Category, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		products:   append([]domain.Product(nil), products...),
		categories: append([]domain.Category(nil), categories...),
		fetchedAt:  fetchedAt,
		byID:       make(map[int64]int, len(products)),
		byCode:     make(map[string]int, len(products)),
		catName:    make(map[int64]string, len(categories)),
	}
	for i, p := range s.products {
		s.byID[p.ID] = i
		if p.Code != "" {
			if _, dup := s.byCode[p.Code]; !dup {
				s.byCode[p.Code] = i
			}
		}
	}
	for _, c := range s.categories {
		s.catName[c.ID] = c.Name
	}
	return s
}

func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

func (s *Snapshot) Products() []domain.Product {
	return append([]domain.Product(nil), s.products...)
}

func (s *Snapshot) Categories() []domain.Category {
	return append([]domain.Category(nil), s.categories...)
}

func (s *Snapshot) Product(id int64) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

func (s *Snapshot) ByCode(code string) (domain.Product, bool) {
	i, ok := s.byCode[strings.TrimSpace(code)]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Search lists sellable products (stock > 0) whose name or code contains
// keyword, case-insensitively.
func (s *Snapshot) Search(keyword string) []domain.Product {
	k := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Stock <= 0 {
			continue
		}
		if k == "" || strings.Contains(strings.ToLower(p.Name), k) || strings.Contains(strings.ToLower(p.Code), k) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByName is the management-screen search; it keeps empty stock.
func (s *Snapshot) FilterByName(keyword string) []domain.Product {
	k := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if strings.Contains(strings.ToLower(p.Name), k) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Snapshot) CategoryName(id int64) string {
	if n, ok := s.catName[id]; ok {
		return n
	}
	return UnknownCategory
}

func (s *Snapshot) ProductsInCategory(id int64) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out
}

// NameIndex maps product name to id. The first product wins on duplicates.
func (s *Snapshot) NameIndex() map[string]int64 {
	out := make(map[string]int64, len(s.products))
	for _, p := range s.products {
		if _, ok := out[p.Name]; !ok {
			out[p.Name] = p.ID
		}
	}
	return out
}

type snapshotJSON struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
	FetchedAt  time.Time         `json:"fetched_at"`
}
