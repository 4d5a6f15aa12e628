package httpx

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/ariefcatur/go-kasir/internal/money"
	"github.com/ariefcatur/go-kasir/internal/report"
	"github.com/ariefcatur/go-kasir/internal/stockio"
)

const defaultReceiptLimit = 20

type reportResp struct {
	report.Report
	TotalSalesText string               `json:"total_sales_text"`
	Months         []report.MonthOption `json:"months"`
}

func filterFrom(r *http.Request) report.Filter {
	q := r.URL.Query()
	showAll, _ := strconv.ParseBool(q.Get("show_all"))
	return report.Filter{
		ShowAll: showAll,
		Mode:    report.Mode(q.Get("mode")),
		Date:    q.Get("date"),
		Month:   q.Get("month"),
	}
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Backend.ListTransactions(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	rep, err := h.Reports.Build(txs, filterFrom(r), page)
	if err != nil {
		h.writeError(w, r, badRequest("%s", err.Error()))
		return
	}
	year, _ := strconv.Atoi(rep.Filter.Date[:4])
	writeJSON(w, http.StatusOK, reportResp{
		Report:         rep,
		TotalSalesText: money.Format(rep.Summary.TotalSales),
		Months:         report.MonthOptions(year),
	})
}

// exportReport writes every transaction matching the filter, not just the
// current page.
func (h *Handler) exportReport(w http.ResponseWriter, r *http.Request) {
	f, err := stockio.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, badRequest("%s", err.Error()))
		return
	}
	filter, err := h.Reports.Normalize(filterFrom(r))
	if err != nil {
		h.writeError(w, r, badRequest("%s", err.Error()))
		return
	}
	txs, err := h.Backend.ListTransactions(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Exporter.ExportTransactions(&buf, f, h.Reports.Apply(txs, filter)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFile(w, f, "laporan-transaksi", buf.Bytes())
}

func (h *Handler) listReceipts(w http.ResponseWriter, r *http.Request) {
	if h.Receipts == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "riwayat struk tidak tersedia"})
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = defaultReceiptLimit
	}
	out, err := h.Receipts.ListRecent(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
