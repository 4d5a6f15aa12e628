package stockio

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

const (
	SheetStock        = "StokBarang"
	SheetTransactions = "Transaksi"

	timeLayout = "2006-01-02 15:04:05"
	pageBottom = 280.0
)

var stockHeader = []any{"name", "code", "category_id", "stock", "selling_price", "base_price"}

var trxHeader = []any{"trx_code", "waktu_order", "waktu_bayar", "amount", "payment_method", "details"}

// Exporter renders times in Loc.
type Exporter struct {
	Loc *time.Location
}

func (e Exporter) loc() *time.Location {
	if e.Loc == nil {
		return time.UTC
	}
	return e.Loc
}

func (e Exporter) ExportStock(w io.Writer, f Format, products []domain.Product) error {
	if len(products) == 0 {
		return ErrNothingToExport
	}
	if f == FormatPDF {
		return stockPDF(products).Output(w)
	}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.Name, p.Code, p.CategoryID, p.Stock, p.SellPrice, p.CostPrice})
	}
	return writeSheet(w, SheetStock, stockHeader, rows)
}

func (e Exporter) ExportTransactions(w io.Writer, f Format, txs []domain.Transaction) error {
	if len(txs) == 0 {
		return ErrNothingToExport
	}
	if f == FormatPDF {
		return e.transactionsPDF(txs).Output(w)
	}
	rows := make([][]any, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, []any{
			t.Code,
			e.stamp(t.OrderedAt),
			e.stamp(t.PaidAt),
			t.Amount,
			t.PaymentMethod,
			details(t.Details),
		})
	}
	return writeSheet(w, SheetTransactions, trxHeader, rows)
}

func (e Exporter) stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.loc()).Format(timeLayout)
}

func details(ds []domain.TransactionDetail) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		parts = append(parts, fmt.Sprintf("%s x%d", d.ProductName, d.Qty))
	}
	return strings.Join(parts, ", ")
}

func writeSheet(w io.Writer, sheet string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return err
		}
	}
	_, err := f.WriteTo(w)
	return err
}

func newPDF() (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func stockPDF(products []domain.Product) *fpdf.Fpdf {
	pdf, tr := newPDF()
	y := 10.0
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(10, y, "Laporan Stok Barang")
	y += 10
	for i, p := range products {
		if y > pageBottom {
			pdf.AddPage()
			y = 10
		}
		pdf.Text(10, y, tr(fmt.Sprintf("%d. %s | Kode: %s | Stok: %d", i+1, p.Name, p.Code, p.Stock)))
		y += 10
	}
	return pdf
}

func (e Exporter) transactionsPDF(txs []domain.Transaction) *fpdf.Fpdf {
	pdf, tr := newPDF()
	y := 10.0
	pdf.SetFont("Helvetica", "", 14)
	pdf.Text(10, y, "Laporan Transaksi")
	y += 10
	pdf.SetFont("Helvetica", "", 10)
	for i, t := range txs {
		pdf.Text(10, y, tr(fmt.Sprintf("%d. %s | Metode: %s | Total: %d", i+1, e.stamp(t.OrderedAt), t.PaymentMethod, t.Amount)))
		y += 8
		// halaman baru hanya kalau masih ada baris
		if y > pageBottom && i < len(txs)-1 {
			pdf.AddPage()
			y = 10
		}
	}
	return pdf
}
