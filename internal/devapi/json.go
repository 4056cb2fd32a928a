package devapi

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Message string `json:"message"`
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(r.Context(), "write response failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, errorBody{Message: msg})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusBadRequest, msg)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error(r.Context(), "internal server error", "method", r.Method, "path", r.URL.Path, "err", err)
	h.errorResponse(w, r, http.StatusInternalServerError, "internal server error")
}
