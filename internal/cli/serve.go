package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railroad/pkg/buildinfo"
	"github.com/matzehuels/railroad/pkg/errors"
	rio "github.com/matzehuels/railroad/pkg/io"
	"github.com/matzehuels/railroad/pkg/observability"
	"github.com/matzehuels/railroad/pkg/pipeline"
)

// serveCommand creates the serve command, which renders descriptions over
// HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, dir string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render descriptions posted over HTTP",
		Long: `Serve renders over HTTP.

  POST /render          render the description in the request body
  GET  /diagrams/{path} render a description file under --dir
  GET  /healthz         liveness check

Both render endpoints take ?format=svg|png|pdf, ?stylesheet=, ?markers=false,
?simple=true, ?debug=true, ?measurer= and ?scale=. POST bodies are JSON
unless Content-Type or ?input= says yaml or toml.`,
		Example: `  railroad serve --addr :8080
  curl --data-binary @expr.json 'localhost:8080/render?format=png' -o expr.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg().Serve
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr
			}
			if !cmd.Flags().Changed("dir") {
				dir = cfg.Dir
			}

			runner, err := c.newRunner(cmd.Context(), noCache, c.cfg().Render.Font)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           newServer(runner, c.Logger, dir, cfg.MaxBody).routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return c.listen(cmd.Context(), srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&dir, "dir", "", "serve description files from this directory under /diagrams/")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// listen runs srv until ctx is cancelled, then shuts it down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	printInfo(c.Err, "Listening on %s", StyleLink.Render("http://"+displayAddr(srv.Addr)))

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", srv.Addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	printSuccess(c.Err, "Server stopped")
	return nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// Handlers
// =============================================================================

// server holds the state shared by the HTTP handlers.
type server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	dir     string
	maxBody int64
}

func newServer(runner *pipeline.Runner, logger *log.Logger, dir string, maxBody int64) *server {
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	return &server{runner: runner, logger: logger, dir: dir, maxBody: maxBody}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Get("/diagrams/*", s.handleDiagram)
	return r
}

// hooksMiddleware reports every request to the HTTP hooks.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// handleRender renders the description in the request body.
func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := bodyFormat(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:  string(errors.ErrCodeInvalidInput),
				Error: fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	doc, err := rio.DecodeBytes(data, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, doc)
}

// handleDiagram renders a description file below the served directory.
func (s *server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	if s.dir == "" {
		http.NotFound(w, r)
		return
	}
	rel := chi.URLParam(r, "*")
	if err := errors.ValidatePath(rel); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := rio.Load(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, doc)
}

func (s *server) render(w http.ResponseWriter, r *http.Request, doc *rio.Document) {
	opts, err := queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.runner.Render(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if res.CacheHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Artifact(format)); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

// queryOptions reads render options from the query string.
func queryOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:    []string{pipeline.FormatSVG},
		Stylesheet: q.Get("stylesheet"),
		Measurer:   q.Get("measurer"),
	}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"simple", &opts.SimpleMarkers},
		{"debug", &opts.Debug},
		{"embed_font", &opts.EmbedFont},
		{"refresh", &opts.Refresh},
	} {
		if v := q.Get(b.name); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "query %s: not a boolean: %q", b.name, v)
			}
			*b.dst = parsed
		}
	}
	if v := q.Get("markers"); v != "" {
		markers, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query markers: not a boolean: %q", v)
		}
		opts.NoMarkers = !markers
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "query scale: not a number: %q", v)
		}
		opts.Scale = scale
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if len(opts.Formats) != 1 {
		return opts, errors.New(errors.ErrCodeInvalidInput, "exactly one format per request")
	}
	return opts, nil
}

// bodyFormat picks the description format from ?input= or Content-Type.
// JSON is the default.
func bodyFormat(r *http.Request) (rio.Format, error) {
	if v := r.URL.Query().Get("input"); v != "" {
		return rio.ParseFormat(v)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return rio.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "bad Content-Type %q", ct)
	}
	switch mt {
	case "application/json", "text/json", "text/plain", "application/octet-stream",
		"application/x-www-form-urlencoded":
		return rio.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return rio.FormatYAML, nil
	case "application/toml", "text/toml":
		return rio.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported Content-Type %q", mt)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: string(code), Error: errors.UserMessage(err)})
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeInternal, "":
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
