package stockio

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func readRows(t *testing.T, b []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestReadStockSheet(t *testing.T) {
	buf := workbook(t,
		[]any{"name", "code", "category_id", "stock", "selling_price", "base_price"},
		[]any{"Kopi", "KP01", 3, 10, 5000, 3500},
		[]any{},
		[]any{"Teh", "TH01", "", 4, "3.000", 2000},
	)
	rows, err := ReadStockSheet(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, StockRow{Name: "Kopi", Code: "KP01", CategoryID: 3, Stock: 10, SellPrice: 5000, CostPrice: 3500}, rows[0])
	assert.Equal(t, int64(defaultCategoryID), rows[1].CategoryID)
	assert.Equal(t, int64(3000), rows[1].SellPrice)
}

func TestReadStockSheet_BadFormat(t *testing.T) {
	missingColumn := workbook(t,
		[]any{"name", "code", "stock", "selling_price"},
		[]any{"Kopi", "KP01", 10, 5000},
	)
	_, err := ReadStockSheet(missingColumn)
	assert.ErrorIs(t, err, ErrBadFormat)

	emptyCell := workbook(t,
		[]any{"name", "code", "stock", "selling_price", "base_price"},
		[]any{"Kopi", "", 10, 5000, 3000},
	)
	_, err = ReadStockSheet(emptyCell)
	assert.ErrorIs(t, err, ErrBadFormat)

	_, err = ReadStockSheet(bytes.NewBufferString("bukan excel"))
	assert.Error(t, err)
}

func TestReadStockSheet_RejectsNegative(t *testing.T) {
	header := []any{"name", "code", "stock", "selling_price", "base_price"}
	for name, row := range map[string][]any{
		"stock":         {"Kopi", "KP01", -5, 5000, 3000},
		"selling_price": {"Kopi", "KP01", 5, "-5000", 3000},
		"base_price":    {"Kopi", "KP01", 5, 5000, -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadStockSheet(workbook(t, header, row))
			assert.ErrorIs(t, err, ErrBadFormat)
		})
	}

	rows, err := ReadStockSheet(workbook(t, header, []any{"Gratis", "GR01", 0, 0, 0}))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Stock)
}

type fakeStore struct {
	existing []domain.Product
	failCode string
	created  []backend.ProductInput
}

func (f *fakeStore) ListProducts(ctx context.Context, token string) ([]domain.Product, error) {
	return f.existing, nil
}

func (f *fakeStore) CreateProduct(ctx context.Context, token string, in backend.ProductInput) (domain.Product, error) {
	if in.Code == f.failCode {
		return domain.Product{}, errors.New("500")
	}
	f.created = append(f.created, in)
	return domain.Product{Name: in.Name, Code: in.Code}, nil
}

type fakeImportPub struct {
	got []events.ProductsImportedPayload
}

func (f *fakeImportPub) ProductsImported(ctx context.Context, p events.ProductsImportedPayload) error {
	f.got = append(f.got, p)
	return nil
}

func TestImport_SkipsExistingAndCountsFailures(t *testing.T) {
	store := &fakeStore{
		existing: []domain.Product{{Name: "Kopi", Code: "KP01"}},
		failCode: "GL01",
	}
	pub := &fakeImportPub{}
	buf := workbook(t,
		[]any{"name", "code", "stock", "selling_price", "base_price"},
		[]any{"Kopi", "KP01", 10, 5000, 3500},
		[]any{"Teh", "TH01", 4, 3000, 2000},
		[]any{"Gula", "GL01", 4, 3000, 2000},
		[]any{"Teh", "TH01", 4, 3000, 2000},
	)

	res, err := NewImporter(store, pub, nil).Import(context.Background(), "tok", buf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"TH01"}, res.Codes)

	require.Len(t, store.created, 1)
	assert.Equal(t, int64(defaultCategoryID), store.created[0].CategoryID)
	require.Len(t, pub.got, 1)
	assert.Equal(t, []string{"TH01"}, pub.got[0].Inserted)
}

func TestImport_BadFormatCreatesNothing(t *testing.T) {
	store := &fakeStore{}
	buf := workbook(t,
		[]any{"name", "code", "stock", "selling_price", "base_price"},
		[]any{"Teh", "TH01", 4, 3000, 2000},
		[]any{"", "XX", 1, 1, 1},
	)
	_, err := NewImporter(store, nil, nil).Import(context.Background(), "tok", buf)
	assert.ErrorIs(t, err, ErrBadFormat)
	assert.Empty(t, store.created)
}

func TestExportStock_Excel(t *testing.T) {
	var buf bytes.Buffer
	err := Exporter{}.ExportStock(&buf, FormatExcel, []domain.Product{
		{Name: "Kopi", Code: "KP01", CategoryID: 2, Stock: 7, SellPrice: 5000, CostPrice: 3500},
	})
	require.NoError(t, err)

	rows := readRows(t, buf.Bytes(), SheetStock)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"name", "code", "category_id", "stock", "selling_price", "base_price"}, rows[0])
	assert.Equal(t, []string{"Kopi", "KP01", "2", "7", "5000", "3500"}, rows[1])
}

func TestExportStock_RoundTripsThroughImport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Exporter{}.ExportStock(&buf, FormatExcel, []domain.Product{
		{Name: "Kopi", Code: "KP01", CategoryID: 2, Stock: 7, SellPrice: 5000, CostPrice: 3500},
	}))
	rows, err := ReadStockSheet(&buf)
	require.NoError(t, err)
	assert.Equal(t, []StockRow{{Name: "Kopi", Code: "KP01", CategoryID: 2, Stock: 7, SellPrice: 5000, CostPrice: 3500}}, rows)
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Exporter{}.ExportStock(&buf, FormatPDF, nil), ErrNothingToExport)
	assert.ErrorIs(t, Exporter{}.ExportTransactions(&buf, FormatExcel, nil), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestExportTransactions(t *testing.T) {
	at := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	txs := []domain.Transaction{{
		Code: "TRX1", OrderedAt: at, PaidAt: at, Amount: 12000, PaymentMethod: "cash",
		Details: []domain.TransactionDetail{{ProductName: "Kopi", Qty: 2}, {ProductName: "Teh", Qty: 1}},
	}}

	var xl bytes.Buffer
	require.NoError(t, Exporter{Loc: loc}.ExportTransactions(&xl, FormatExcel, txs))
	rows := readRows(t, xl.Bytes(), SheetTransactions)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"TRX1", "2025-03-02 03:00:00", "2025-03-02 03:00:00", "12000", "cash", "Kopi x2, Teh x1"}, rows[1])

	var pdf bytes.Buffer
	require.NoError(t, Exporter{Loc: loc}.ExportTransactions(&pdf, FormatPDF, txs))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")))
}

func TestTransactionsPDF_PageBreak(t *testing.T) {
	many := func(n int) []domain.Transaction {
		out := make([]domain.Transaction, n)
		for i := range out {
			out[i] = domain.Transaction{Code: "T", Amount: int64(i), PaymentMethod: "cash"}
		}
		return out
	}
	assert.Equal(t, 1, Exporter{}.transactionsPDF(many(32)).PageCount())
	assert.Equal(t, 1, Exporter{}.transactionsPDF(many(33)).PageCount())
	assert.Equal(t, 2, Exporter{}.transactionsPDF(many(34)).PageCount())
	assert.Equal(t, 2, stockPDF(make([]domain.Product, 30)).PageCount())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "laporan-transaksi.pdf", f.Filename("laporan-transaksi"))

	f, err = ParseFormat("Excel")
	require.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}
