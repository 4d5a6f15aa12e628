// Package report filters, totals and paginates the transaction list.
package report

import (
	"fmt"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
)

const (
	PerPage     = 8
	WindowPages = 5

	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type Mode string

const (
	ModeDate  Mode = "date"
	ModeMonth Mode = "month"
)

type Filter struct {
	ShowAll bool   `json:"show_all"`
	Mode    Mode   `json:"mode"`
	Date    string `json:"date"`  // YYYY-MM-DD, kosong = hari ini
	Month   string `json:"month"` // YYYY-MM
}

type Summary struct {
	TotalSales int64 `json:"total_sales"`
	Count      int   `json:"count"`
}

type Page struct {
	Items      []domain.Transaction `json:"items"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
	Window     []int                `json:"window"`
}

type Report struct {
	Filter  Filter  `json:"filter"`
	Summary Summary `json:"summary"`
	Page
}

// Aggregator evaluates dates and months in a single location.
type Aggregator struct {
	loc *time.Location
	now func() time.Time
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc, now: time.Now}
}

func (a *Aggregator) Location() *time.Location { return a.loc }

func (a *Aggregator) Today() string { return a.now().In(a.loc).Format(dateLayout) }

// Normalize fills defaults and validates the date/month strings.
func (a *Aggregator) Normalize(f Filter) (Filter, error) {
	if f.Mode == "" {
		f.Mode = ModeDate
	}
	switch f.Mode {
	case ModeDate, ModeMonth:
	default:
		return f, fmt.Errorf("mode filter tidak dikenal: %q", f.Mode)
	}
	if f.Date == "" {
		f.Date = a.Today()
	}
	if _, err := time.ParseInLocation(dateLayout, f.Date, a.loc); err != nil {
		return f, fmt.Errorf("tanggal tidak valid: %q", f.Date)
	}
	if f.Month != "" {
		if _, err := time.ParseInLocation(monthLayout, f.Month, a.loc); err != nil {
			return f, fmt.Errorf("bulan tidak valid: %q", f.Month)
		}
	}
	return f, nil
}

// Apply returns the transactions matching f, preserving order. Month mode
// without a month falls back to the date filter.
func (a *Aggregator) Apply(txs []domain.Transaction, f Filter) []domain.Transaction {
	if f.ShowAll {
		return append([]domain.Transaction(nil), txs...)
	}
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		local := t.OrderedAt.In(a.loc)
		if f.Mode == ModeMonth && f.Month != "" {
			if local.Format(monthLayout) == f.Month {
				out = append(out, t)
			}
			continue
		}
		if local.Format(dateLayout) == f.Date {
			out = append(out, t)
		}
	}
	return out
}

func Summarize(txs []domain.Transaction) Summary {
	s := Summary{Count: len(txs)}
	for _, t := range txs {
		s.TotalSales += t.Amount
	}
	return s
}

// Build runs the whole pipeline for one page of the report screen.
func (a *Aggregator) Build(txs []domain.Transaction, f Filter, page int) (Report, error) {
	f, err := a.Normalize(f)
	if err != nil {
		return Report{}, err
	}
	filtered := a.Apply(txs, f)
	return Report{
		Filter:  f,
		Summary: Summarize(filtered),
		Page:    Paginate(filtered, page, PerPage),
	}, nil
}

// Paginate clamps page into [1, total pages]. An empty list has zero pages
// and reports page 1.
func Paginate(txs []domain.Transaction, page, perPage int) Page {
	if perPage < 1 {
		perPage = PerPage
	}
	total := (len(txs) + perPage - 1) / perPage
	page = clamp(page, 1, max(total, 1))
	start := min((page-1)*perPage, len(txs))
	end := min(start+perPage, len(txs))
	return Page{
		Items:      append([]domain.Transaction{}, txs[start:end]...),
		Page:       page,
		TotalPages: total,
		Window:     PageWindow(page, total, WindowPages),
	}
}

// PageWindow lists at most size page numbers centred on current.
func PageWindow(current, total, size int) []int {
	if total < 1 || size < 1 {
		return []int{}
	}
	start := max(1, min(current-size/2, total-size+1))
	end := min(start+size-1, total)
	out := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		out = append(out, p)
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
