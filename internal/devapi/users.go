package devapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/client/models"
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/devapi/auth"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, "malformed login request")
		return
	}

	u, err := h.store.Authenticate(req.Email, req.Password)
	if err != nil {
		h.errorResponse(w, r, http.StatusUnauthorized, "invalid email or password")
		return
	}

	roles := []string{string(u.Role)}
	token, err := auth.GenerateToken(u.Email, roles, []byte(h.config.JWTSecret), h.config.TokenTTL)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, models.LoginResponse{Token: token, Roles: roles})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.store.List())
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.store.Search(r.URL.Query().Get("keyword")))
}

func (h *Handler) UsersByDepartment(w http.ResponseWriter, r *http.Request) {
	dept, err := models.ParseDepartment(chi.URLParam(r, "department"))
	if err != nil {
		h.badRequest(w, r, err.Error())
		return
	}
	h.writeJSON(w, r, http.StatusOK, h.store.ByDepartment(dept))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	u, err := h.store.Get(id)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, u)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if err := h.readJSON(r, &d); err != nil {
		h.badRequest(w, r, "malformed user")
		return
	}
	d.Email = strings.TrimSpace(d.Email)
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		h.badRequest(w, r, "email is required")
		return
	}
	if !d.Role.Valid() || !d.Department.Valid() {
		h.badRequest(w, r, "unknown role or department")
		return
	}

	u, err := h.store.Create(d)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil || email == "" {
		h.badRequest(w, r, "malformed email")
		return
	}

	var p models.Patch
	if err := h.readJSON(r, &p); err != nil {
		h.badRequest(w, r, "malformed patch")
		return
	}
	if (p.Role != nil && !p.Role.Valid()) || (p.Department != nil && !p.Department.Valid()) {
		h.badRequest(w, r, "unknown role or department")
		return
	}

	u, err := h.store.Update(email, p)
	if err != nil {
		h.storeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(id); err != nil {
		h.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 64)
	if err != nil {
		h.badRequest(w, r, "user id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		h.errorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		h.errorResponse(w, r, http.StatusConflict, err.Error())
	default:
		h.internalServerError(w, r, err)
	}
}
