package httpx

import (
	"net/http"
	"time"

	"github.com/ariefcatur/go-kasir/internal/domain"
	"github.com/ariefcatur/go-kasir/internal/redisx"
	"github.com/ariefcatur/go-kasir/internal/session"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	SessionID string      `json:"session_id"`
	User      domain.User `json:"user"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	s, err := h.Sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.CreatedAt.Add(redisx.TTLSession),
	})
	writeJSON(w, http.StatusOK, loginResp{SessionID: s.ID, User: s.User})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	h.Carts.Reset(s.ID)
	h.Catalog.Invalidate(r.Context(), s.Token)
	if err := h.Sessions.Logout(r.Context(), s.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	u, err := h.Sessions.Profile(r.Context(), currentSession(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req session.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	u, err := h.Sessions.UpdateProfile(r.Context(), currentSession(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
