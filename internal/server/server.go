package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aarol/reload"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"

	"microblog/internal/auth"
	"microblog/internal/config"
	"microblog/web/static"
)

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	cfg    *config.Config
	posts  PostStore
	pinger Pinger
	auth   *auth.Service
	views  Renderer
	log    *slog.Logger
}

func New(cfg *config.Config, posts PostStore, pinger Pinger, authSvc *auth.Service, views Renderer, log *slog.Logger) *Server {
	return &Server{cfg: cfg, posts: posts, pinger: pinger, auth: authSvc, views: views, log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID) // add unique id to each request context
	r.Use(middleware.RealIP)    // add request RemoteAddr to X-Real-IP
	r.Use(requestLogger(s.log)) // log end of each request
	r.Use(middleware.Recoverer) // recover and log from panic, return 500

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.Files))))
	r.Get("/healthz", s.health)

	dispatcher := NewDispatcher(s.posts, s.identify, s.views, s.log)
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.cfg.TokenAuth))
		r.Handle("/", dispatcher)
		r.Handle("/index.php", dispatcher)
	})

	var handler http.Handler = r
	if s.cfg.IsDev {
		// list of directories to recursively watch
		reloader := reload.New("web/static/html/", "web/static/css/")
		handler = reloader.Handle(handler)
	}
	return handler
}

func (s *Server) identify(w http.ResponseWriter, r *http.Request) (Identity, error) {
	sess, err := s.auth.Identify(w, r)
	if err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.log.WarnContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr(),
		Handler:      s.Routes(),
		ErrorLog:     slog.NewLogLogger(s.log.Handler(), slog.LevelError),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server running", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("took", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
