package devapi

import (
	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store  *Store
	config *Config
	log    logging.Logger

	Mux *chi.Mux
}

func NewHandler(cfg *Config, store *Store, log logging.Logger) *Handler {
	h := &Handler{store: store, config: cfg, log: log, Mux: chi.NewRouter()}
	h.RegisterRoutes()
	return h
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/api/users", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Use(h.requiredRole(common.AdminRole))

			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/search", h.SearchUsers)
			r.Get("/department/{department}", h.UsersByDepartment)

			// {key} is the numeric id for GET and DELETE and the email for PUT
			r.Get("/{key}", h.GetUser)
			r.Put("/{key}", h.UpdateUser)
			r.Delete("/{key}", h.DeleteUser)
		})
	})
}
