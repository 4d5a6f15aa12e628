package report

import (
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func trx(code string, at time.Time, amount int64) domain.Transaction {
	return domain.Transaction{Code: code, OrderedAt: at, Amount: amount}
}

func TestApply_DateUsesConfiguredZone(t *testing.T) {
	a := NewAggregator(jakarta(t))
	// 2025-03-01 20:00 UTC sudah tanggal 2 di Jakarta
	txs := []domain.Transaction{
		trx("A", time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC), 1000),
		trx("B", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), 2000),
	}
	got := a.Apply(txs, Filter{Mode: ModeDate, Date: "2025-03-02"})
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Code)
}

func TestApply_MonthFallsBackToDate(t *testing.T) {
	a := NewAggregator(time.UTC)
	txs := []domain.Transaction{
		trx("A", time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC), 1000),
		trx("B", time.Date(2025, 2, 11, 9, 0, 0, 0, time.UTC), 2000),
		trx("C", time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), 4000),
	}

	got := a.Apply(txs, Filter{Mode: ModeMonth, Month: "2025-02", Date: "2025-03-11"})
	assert.Len(t, got, 2)

	got = a.Apply(txs, Filter{Mode: ModeMonth, Date: "2025-03-11"})
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Code)

	got = a.Apply(txs, Filter{ShowAll: true, Mode: ModeDate, Date: "1999-01-01"})
	assert.Len(t, got, 3)
}

func TestBuild_SummaryAndDefaults(t *testing.T) {
	a := NewAggregator(time.UTC)
	a.now = func() time.Time { return time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC) }
	txs := []domain.Transaction{
		trx("A", time.Date(2025, 5, 5, 1, 0, 0, 0, time.UTC), 1500),
		trx("B", time.Date(2025, 5, 5, 2, 0, 0, 0, time.UTC), 2500),
		trx("C", time.Date(2025, 5, 4, 2, 0, 0, 0, time.UTC), 9999),
	}
	r, err := a.Build(txs, Filter{}, 1)
	require.NoError(t, err)
	assert.Equal(t, ModeDate, r.Filter.Mode)
	assert.Equal(t, "2025-05-05", r.Filter.Date)
	assert.Equal(t, Summary{TotalSales: 4000, Count: 2}, r.Summary)
	assert.Equal(t, 1, r.TotalPages)
}

func TestNormalize_Rejects(t *testing.T) {
	a := NewAggregator(time.UTC)
	_, err := a.Normalize(Filter{Mode: "week"})
	assert.Error(t, err)
	_, err = a.Normalize(Filter{Date: "05/05/2025"})
	assert.Error(t, err)
	_, err = a.Normalize(Filter{Mode: ModeMonth, Month: "2025-13"})
	assert.Error(t, err)
}

func TestPaginate(t *testing.T) {
	var txs []domain.Transaction
	for i := 0; i < 20; i++ {
		txs = append(txs, trx("T", time.Time{}, int64(i)))
	}

	p := Paginate(txs, 1, PerPage)
	assert.Len(t, p.Items, 8)
	assert.Equal(t, 3, p.TotalPages)

	p = Paginate(txs, 3, PerPage)
	assert.Len(t, p.Items, 4)
	assert.Equal(t, int64(16), p.Items[0].Amount)

	p = Paginate(txs, 99, PerPage)
	assert.Equal(t, 3, p.Page)
	p = Paginate(txs, -1, PerPage)
	assert.Equal(t, 1, p.Page)

	p = Paginate(nil, 4, PerPage)
	assert.Equal(t, 1, p.Page)
	assert.Zero(t, p.TotalPages)
	assert.Empty(t, p.Items)
	assert.Empty(t, p.Window)
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 10, 5))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, PageWindow(6, 10, 5))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, PageWindow(10, 10, 5))
	assert.Empty(t, PageWindow(1, 0, 5))
}

func TestMonthOptions(t *testing.T) {
	opts := MonthOptions(2025)
	require.Len(t, opts, 12)
	assert.Equal(t, MonthOption{Value: "2025-01", Label: "Januari 2025"}, opts[0])
	assert.Equal(t, "2025-12", opts[11].Value)
}
