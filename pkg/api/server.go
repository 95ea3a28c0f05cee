package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/duelbot/pkg/api/handlers"
	"github.com/cbodonnell/duelbot/pkg/api/middleware"
	"github.com/cbodonnell/duelbot/pkg/log"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port     int
	TLS      *TLSConfig
	Token    string
	Profiles handlers.Profiles
	Arena    handlers.Arena
}

// NewRouter wires the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	tokenMiddleware := middleware.NewTokenMiddleware(opts.Token)

	r := mux.NewRouter()
	r.Use(middleware.Logging)
	r.HandleFunc("/healthz", handlers.HandleHealthz()).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{playerID}", handlers.HandleGetProfile(opts.Profiles)).Methods(http.MethodGet)
	r.Handle("/profiles", tokenMiddleware(handlers.HandleCreateProfile(opts.Profiles))).Methods(http.MethodPost)
	r.HandleFunc("/arena/stats", handlers.HandleArenaStats(opts.Arena)).Methods(http.MethodGet)
	r.HandleFunc("/arena/players/{playerID}", handlers.HandlePlayerStatus(opts.Arena)).Methods(http.MethodGet)
	return r
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer and blocks until it is stopped
func (s *APIServer) Start() error {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return nil
		}
		return fmt.Errorf("api server error: %w", err)
	}
	return nil
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
