// Package server exposes the interest form over HTTP: the rendered page, a
// JSON submission endpoint and the embedded page assets.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-spidrform/pkg/model"
	"github.com/goliatone/go-spidrform/pkg/render"
	"github.com/goliatone/go-spidrform/pkg/renderers/vanilla"
	"github.com/goliatone/go-spidrform/pkg/submit"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 64 << 10
)

// Submitter receives bound FormStates.
type Submitter interface {
	OnSubmit(ctx context.Context, state model.FormState) (submit.Receipt, error)
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			s.addr = trimmed
		}
	}
}

// WithForm replaces the built-in field table.
func WithForm(form model.FormModel) Option {
	return func(s *Server) {
		s.form = form
	}
}

// WithRenderer replaces the vanilla page renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithSubmitter routes submissions to sub.
func WithSubmitter(sub Submitter) Option {
	return func(s *Server) {
		if sub != nil {
			s.submitter = sub
		}
	}
}

// WithLogger sets the access logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderDefaults seeds the presentation settings every page inherits.
// Per-request fields (State, PinVisibility, Acknowledgment) are ignored.
func WithRenderDefaults(opts render.RenderOptions) Option {
	return func(s *Server) {
		s.defaults = opts
	}
}

// WithRateLimit caps submissions per client. PIN toggles are never charged.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(perSecond, burst)
	}
}

// WithAssets replaces the files served under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		if files != nil {
			s.assets = files
		}
	}
}

// Server serves the form page and the submission endpoint.
type Server struct {
	addr      string
	form      model.FormModel
	renderer  render.Renderer
	submitter Submitter
	logger    *log.Logger
	defaults  render.RenderOptions
	limiter   *clientLimiter
	assets    fs.FS

	httpServer *http.Server
}

// New assembles a Server. Without options it serves the built-in form with
// the vanilla renderer and logs submissions to stderr.
func New(options ...Option) (*Server, error) {
	s := &Server{
		addr:   defaultAddr,
		form:   model.InterestForm(),
		logger: log.Default(),
		assets: vanilla.AssetsFS(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if len(s.form.Fields) == 0 {
		return nil, fmt.Errorf("server: form %q has no fields", s.form.ID)
	}
	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	if s.submitter == nil {
		s.submitter = submit.New()
	}

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the routed handler with access logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /{$}", s.handlePagePost)
	mux.Handle("POST /submissions", s.limited(http.HandlerFunc(s.handleSubmission)))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	mux.HandleFunc("GET /healthz", handleHealth)
	return s.accessLog(mux)
}

// admitSubmission charges the rate limit for a page submission.
func (s *Server) admitSubmission(w http.ResponseWriter, r *http.Request) bool {
	return s.limiter == nil || s.limiter.admit(w, r)
}

func (s *Server) limited(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return s.limiter.Middleware(next)
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return errors.New("server: not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	s.logger.Printf("listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
