package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

type Options struct {
	Addr        string
	CORSOrigins []string
}

// NewRouter wires the middleware stack and the API routes.
func NewRouter(h *Handler, corsOrigins []string, log *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(withRequestID)
	r.Use(withLogging(log))
	r.Use(withRecover(log))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	h.Attach(r)

	return r
}

func New(opts Options, h *Handler, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(h, opts.CORSOrigins, log),
			ReadHeaderTimeout: 10 * time.Second,
			// scans of large sheets with a slow download need headroom
			WriteTimeout:   90 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		log: log,
	}
}

func (s *Server) Run() error {
	s.log.Info("server is running", zap.String("address", s.httpServer.Addr))

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
