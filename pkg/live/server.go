package live

import (
	"context"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vango-dev/vbind/pkg/store"
)

// Default routes.
const (
	DefaultPath     = "/_vbind/live"
	DefaultDataPath = "/_vbind/data"
)

// maxDataBody caps a data endpoint request.
const maxDataBody = 1 << 20

const tracerName = "github.com/vango-dev/vbind/pkg/live"

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":7300".
	Addr string

	// Path is the websocket route. Default: DefaultPath.
	Path string

	// Title is the viewer page title.
	Title string

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Gatherer, when set, is served at /metrics.
	Gatherer prometheus.Gatherer
}

// Server serves the viewer page, the websocket hub and the data endpoint.
type Server struct {
	cfg    Config
	stream *Stream
	data   *store.Store
	exec   ExecFunc
	logger *slog.Logger
	router chi.Router
}

// NewServer creates a server for stream. Data endpoint mutations are applied
// to data through exec, which must serialize them with flushes.
func NewServer(cfg Config, stream *Stream, data *store.Store, exec ExecFunc) *Server {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Title == "" {
		cfg.Title = "vbind"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "live")
	}
	if exec == nil {
		exec = inline
	}
	s := &Server{
		cfg:    cfg,
		stream: stream,
		data:   data,
		exec:   exec,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle(s.cfg.Path, s.stream.Hub())
	if s.data != nil {
		r.Post(DefaultDataPath, s.handleData)
	}
	if s.cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("live server listening", "addr", s.cfg.Addr, "path", s.cfg.Path)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.stream.Hub().Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div id="vbind-root"></div>
<script>var VBIND_PATH = {{.Path}};</script>
<script>` + clientScript + `</script>
</body>
</html>
`))

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, s.cfg); err != nil {
		s.logger.Warn("page render failed", "error", err)
	}
}

// handleData applies one store mutation. The body is a JSON object in the
// form store.ParseMutation reads. Cross-origin requests are refused.
//
//	{"op": "set", "path": "extra.height", "value": "50px"}
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if !SameOrigin(r) {
		http.Error(w, "cross-origin request", http.StatusForbidden)
		return
	}
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "vbind.data")
	defer span.End()

	fail := func(err error, status int) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		http.Error(w, err.Error(), status)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxDataBody))
	if err != nil {
		fail(err, http.StatusBadRequest)
		return
	}
	req, err := store.DecodeJSON(body)
	if err != nil {
		fail(err, http.StatusBadRequest)
		return
	}
	m, err := store.ParseMutation(req)
	if err != nil {
		fail(err, http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("vbind.mutation.op", string(m.Op)),
		attribute.String("vbind.mutation.path", m.Path.String()),
	)
	if err := s.exec(ctx, func() { m.Apply(s.data) }); err != nil {
		fail(err, http.StatusServiceUnavailable)
		return
	}
	span.SetStatus(codes.Ok, "")
	s.logger.Debug("data mutation applied", "op", m.Op, "path", m.Path.String())
	w.WriteHeader(http.StatusNoContent)
}
