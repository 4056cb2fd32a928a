package devapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/logging"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr    string
	handler *Handler
	log     logging.Logger
}

// NewServer builds a seeded server from cfg.
func NewServer(cfg *Config, log logging.Logger) (*Server, error) {
	store := NewStore()
	if cfg.Seed {
		if err := Seed(store, cfg); err != nil {
			return nil, err
		}
	}
	return &Server{addr: cfg.Addr, handler: NewHandler(cfg, store, log), log: log}, nil
}

func (s *Server) Handler() http.Handler { return s.handler.Mux }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler.Mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "dev api listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info(ctx, "dev api shutting down")
	return srv.Shutdown(shutdownCtx)
}
