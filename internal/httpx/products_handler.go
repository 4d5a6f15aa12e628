package httpx

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-kasir/internal/backend"
	"github.com/ariefcatur/go-kasir/internal/catalog"
	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/money"
	"github.com/ariefcatur/go-kasir/internal/stockio"
	"go.uber.org/zap"
)

const maxUpload = 10 << 20

type productView struct {
	domain.Product
	CategoryName  string `json:"category_name"`
	SellPriceText string `json:"selling_price_text"`
}

func productViews(snap *catalog.Snapshot, ps []domain.Product) []productView {
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView{Product: p, CategoryName: snap.CategoryName(p.CategoryID), SellPriceText: money.Format(p.SellPrice)})
	}
	return out
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Catalog.Load(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(snap, snap.FilterByName(r.URL.Query().Get("q"))))
}

// productForm reads the multipart product form. The image file is optional.
func productForm(r *http.Request) (backend.ProductInput, error) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return backend.ProductInput{}, badRequest("form tidak valid")
	}
	var in backend.ProductInput
	in.Name = strings.TrimSpace(r.FormValue("name"))
	in.Code = strings.TrimSpace(r.FormValue("code"))
	if in.Name == "" || in.Code == "" {
		return in, badRequest("nama dan kode barang wajib diisi")
	}

	var err error
	if in.SellPrice, err = money.Parse(r.FormValue("price_sell")); err != nil {
		return in, badRequest("harga jual tidak valid")
	}
	if in.CostPrice, err = money.Parse(r.FormValue("price_buy")); err != nil {
		return in, badRequest("harga dasar tidak valid")
	}
	if in.Stock, err = strconv.Atoi(strings.TrimSpace(r.FormValue("stock"))); err != nil || in.Stock < 0 {
		return in, badRequest("stok tidak valid")
	}
	in.CategoryID = 1
	if v := strings.TrimSpace(r.FormValue("category_id")); v != "" {
		if in.CategoryID, err = strconv.ParseInt(v, 10, 64); err != nil || in.CategoryID <= 0 {
			return in, badRequest("kategori tidak valid")
		}
	}

	f, hdr, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return in, badRequest("gambar tidak valid")
	default:
		defer f.Close()
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, f); err != nil {
			return in, badRequest("gambar tidak valid")
		}
		in.Image = buf.Bytes()
		in.ImageName = hdr.Filename
	}
	return in, nil
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	in, err := productForm(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s := currentSession(r)
	p, err := h.Backend.CreateProduct(r.Context(), s.Token, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	in, err := productForm(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s := currentSession(r)
	p, err := h.Backend.UpdateProduct(r.Context(), s.Token, id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s := currentSession(r)
	if err := h.Backend.DeleteProduct(r.Context(), s.Token, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	f, err := stockio.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, badRequest("%s", err.Error()))
		return
	}
	// ekspor selalu pakai data terbaru
	snap, err := h.Catalog.Refresh(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Exporter.ExportStock(&buf, f, snap.Products()); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeFile(w, f, "stok-barang", buf.Bytes())
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		h.writeError(w, r, badRequest("form tidak valid"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, badRequest("file xlsx wajib diunggah"))
		return
	}
	defer file.Close()

	s := currentSession(r)
	res, err := h.Importer.Import(r.Context(), s.Token, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	h.log().Info("products imported", zap.String("session_id", s.ID), zap.Int("inserted", res.Inserted))
	writeJSON(w, http.StatusOK, res)
}

func writeFile(w http.ResponseWriter, f stockio.Format, base string, b []byte) {
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.Filename(base)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
