package httpx

import (
	"net/http"
	"strings"
)

type categoryReq struct {
	Name string `json:"name"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Catalog.Load(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Categories())
}

func (h *Handler) categoryName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req categoryReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.writeError(w, r, badRequest("nama kategori wajib diisi"))
		return "", false
	}
	return name, true
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	name, ok := h.categoryName(w, r)
	if !ok {
		return
	}
	s := currentSession(r)
	c, err := h.Backend.CreateCategory(r.Context(), s.Token, name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	name, ok := h.categoryName(w, r)
	if !ok {
		return
	}
	s := currentSession(r)
	if err := h.Backend.RenameCategory(r.Context(), s.Token, id, name); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "name": name})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	s := currentSession(r)
	if err := h.Backend.DeleteCategory(r.Context(), s.Token, id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Catalog.Invalidate(r.Context(), s.Token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.Catalog.Load(r.Context(), currentSession(r).Token)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productViews(snap, snap.ProductsInCategory(id)))
}
