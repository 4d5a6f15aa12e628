package stockio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/events"
	"github.com/ariefcatur/go-kasir/internal/money"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const defaultCategoryID = 1

var ErrBadFormat = errors.New("Format salah! Kolom harus ada: name, code, stock, selling_price, base_price.")

var requiredColumns = []string{"name", "code", "stock", "selling_price", "base_price"}

// StockRow is one data row of an import sheet.
type StockRow struct {
	Name       string
	Code       string
	CategoryID int64
	Stock      int
	SellPrice  int64
	CostPrice  int64
}

func (r StockRow) key() string { return r.Name + "-" + r.Code }

// ReadStockSheet parses the first sheet of an xlsx workbook. The header row
// names the columns; every data row must fill the required ones.
func ReadStockSheet(r io.Reader) ([]StockRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("file bukan xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrBadFormat
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrBadFormat
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := col[c]; !ok {
			return nil, ErrBadFormat
		}
	}

	out := make([]StockRow, 0, len(rows)-1)
	for n, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[i])
		}
		for _, c := range requiredColumns {
			if get(c) == "" {
				return nil, fmt.Errorf("%w (baris %d)", ErrBadFormat, n+2)
			}
		}
		row := StockRow{Name: get("name"), Code: get("code"), CategoryID: defaultCategoryID}
		if row.Stock, err = strconv.Atoi(get("stock")); err != nil || row.Stock < 0 {
			return nil, fmt.Errorf("%w (baris %d: stock)", ErrBadFormat, n+2)
		}
		if row.SellPrice, err = money.Parse(get("selling_price")); err != nil || row.SellPrice < 0 {
			return nil, fmt.Errorf("%w (baris %d: selling_price)", ErrBadFormat, n+2)
		}
		if row.CostPrice, err = money.Parse(get("base_price")); err != nil || row.CostPrice < 0 {
			return nil, fmt.Errorf("%w (baris %d: base_price)", ErrBadFormat, n+2)
		}
		if v := get("category_id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				row.CategoryID = id
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

type ProductStore interface {
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	CreateProduct(ctx context.Context, token string, in backend.ProductInput) (domain.Product, error)
}

// ImportPublisher announces finished imports.
type ImportPublisher interface {
	ProductsImported(ctx context.Context, p events.ProductsImportedPayload) error
}

type ImportResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Codes    []string `json:"codes"`
}

type Importer struct {
	store ProductStore
	pub   ImportPublisher
	log   *zap.Logger
}

func NewImporter(store ProductStore, pub ImportPublisher, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, pub: pub, log: log}
}

// Import creates every row whose name-code pair is not in the catalog yet.
// A failed row is logged and counted; it does not stop the rest.
func (im *Importer) Import(ctx context.Context, token string, r io.Reader) (ImportResult, error) {
	rows, err := ReadStockSheet(r)
	if err != nil {
		return ImportResult{}, err
	}
	existing, err := im.store.ListProducts(ctx, token)
	if err != nil {
		return ImportResult{}, fmt.Errorf("gagal mengambil data barang: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p.Name+"-"+p.Code] = struct{}{}
	}

	var res ImportResult
	for _, row := range rows {
		if _, dup := seen[row.key()]; dup {
			res.Skipped++
			continue
		}
		_, err := im.store.CreateProduct(ctx, token, backend.ProductInput{
			Name:       row.Name,
			Code:       row.Code,
			SellPrice:  row.SellPrice,
			CostPrice:  row.CostPrice,
			Stock:      row.Stock,
			CategoryID: row.CategoryID,
		})
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			im.log.Warn("import row failed", zap.String("code", row.Code), zap.String("name", row.Name), zap.Error(err))
			continue
		}
		seen[row.key()] = struct{}{}
		res.Inserted++
		res.Codes = append(res.Codes, row.Code)
	}

	im.log.Info("import finished",
		zap.Int("inserted", res.Inserted),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	if im.pub != nil && res.Inserted > 0 {
		payload := events.ProductsImportedPayload{Inserted: res.Codes, Skipped: res.Skipped, Failed: res.Failed}
		if err := im.pub.ProductsImported(ctx, payload); err != nil {
			im.log.Warn("publish import", zap.Error(err))
		}
	}
	return res, nil
}
