package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flamedump/flamedump/pkg/cache"
	"github.com/flamedump/flamedump/pkg/colorspace"
	"github.com/flamedump/flamedump/pkg/flame"
	"github.com/flamedump/flamedump/pkg/render"
	"github.com/flamedump/flamedump/pkg/spindump"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address, config value if empty
	cacheSpec string // cache backend: directory, redis URL, or "off"
}

// serveCommand creates the serve command for viewing a report over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [report]",
		Short: "Serve a report's flame graphs over HTTP",
		Long: `Serve a report's flame graphs over HTTP.

The server parses the report once and renders artifacts on demand:

  GET /                            HTML index with thread overview
  GET /threads/{index}/flame.svg   flame graph (SVG)
  GET /threads/{index}/flame.png   flame graph (PNG)
  GET /threads/{index}/calltree.svg call tree via Graphviz
  GET /report.json                 interchange document, every thread

Rendered artifacts are cached. --cache picks the backend: a directory
for the file cache, a redis:// URL for a shared redis, or "off". Left
unset, the [serve] section of the config file decides.

Examples:
  flamedump serve heavy.txt                 # listen on :8470
  flamedump serve heavy.txt --addr :9000
  flamedump serve heavy.txt --cache off     # re-render on every request
  flamedump serve heavy.txt --cache redis://localhost:6379/0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8470)")
	cmd.Flags().StringVar(&opts.cacheSpec, "cache", "", "cache backend: directory, redis:// URL, or 'off'")

	return cmd
}

// runServe parses the report, builds the layouts, and blocks serving HTTP
// until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	rep, err := spindump.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}
	logger.Infof("Loaded report: %d threads", len(rep.Process.Threads))

	store, err := newCache(opts.cacheSpec, c.Config.Serve.RedisURL)
	if err != nil {
		return fmt.Errorf("artifact cache: %w", err)
	}
	defer store.Close()

	srv, err := c.newReportServer(rep, data, logger, store)
	if err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = c.Config.Serve.Addr
	}
	if addr == "" {
		addr = DefaultConfig().Serve.Addr
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.routes(),
	}

	printSuccess("Serving %s", StyleHighlight.Render(input))
	printKeyValue("URL", StyleLink.Render("http://"+displayAddr(addr)))
	printDetail("Press Ctrl+C to stop")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// displayAddr turns a listen address into something clickable in a
// terminal: ":8470" becomes "localhost:8470".
func displayAddr(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

// reportServer holds one parsed report and everything needed to render
// and cache its artifacts.
type reportServer struct {
	logger *log.Logger
	rep    *spindump.Report
	stats  []spindump.Stats

	// layouts is indexed by thread; entries stay nil for threads that
	// cannot be laid out (zero samples).
	layouts []*flame.Layout

	palette    colorspace.Palette
	inverted   bool
	background string

	cache      cache.Cache
	keyer      cache.Keyer
	ttl        time.Duration
	reportHash string
	docID      string
}

// newReportServer wires the render configuration and the artifact cache
// for one report.
func (c *CLI) newReportServer(rep *spindump.Report, raw []byte, logger *log.Logger, store cache.Cache) (*reportServer, error) {
	pal, err := c.Config.Palette.ColorPalette()
	if err != nil {
		return nil, fmt.Errorf("config palette: %w", err)
	}
	ttl, err := c.Config.Serve.TTL()
	if err != nil {
		return nil, fmt.Errorf("config cache_ttl: %w", err)
	}

	keyer := cache.NewDefaultKeyer()
	if prefix := c.Config.Serve.KeyPrefix; prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, prefix)
	}

	srv := &reportServer{
		logger:     logger,
		rep:        rep,
		stats:      rep.Stats(),
		layouts:    make([]*flame.Layout, len(rep.Process.Threads)),
		palette:    pal,
		inverted:   c.Config.Inverted,
		background: c.Config.Background,
		cache:      store,
		keyer:      keyer,
		ttl:        ttl,
		reportHash: keyer.ReportKey(raw),
		docID:      uuid.NewString(),
	}

	layoutOpts := flame.Options{TotalWidth: c.Config.Width, SampleHeight: c.Config.SampleHeight}
	for i, t := range rep.Process.Threads {
		l, err := flame.New(t, layoutOpts)
		if err != nil {
			logger.Warnf("Thread %d not renderable: %v", i, err)
			continue
		}
		srv.layouts[i] = l
	}

	return srv, nil
}

// routes builds the chi router for the report server.
func (s *reportServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/report.json", s.handleReportJSON)
	r.Get("/threads/{index}/flame.svg", s.handleFlameSVG)
	r.Get("/threads/{index}/flame.png", s.handleFlamePNG)
	r.Get("/threads/{index}/calltree.svg", s.handleCalltreeSVG)

	return r
}

// logRequests logs one line per request through the CLI logger.
func (s *reportServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"dur", time.Since(start).Round(time.Millisecond))
	})
}

// thread resolves the {index} route parameter. A false return means the
// response has already been written.
func (s *reportServer) thread(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 || idx >= len(s.rep.Process.Threads) {
		http.Error(w, "no such thread", http.StatusNotFound)
		return 0, false
	}
	return idx, true
}

// layout returns the flame layout for a thread, writing the error
// response for threads that cannot be drawn.
func (s *reportServer) layout(w http.ResponseWriter, idx int) (*flame.Layout, bool) {
	l := s.layouts[idx]
	if l == nil {
		http.Error(w, "thread has no samples", http.StatusUnprocessableEntity)
		return nil, false
	}
	return l, true
}

// artifact serves one cached render: cache hit bytes, or produce() and
// store. Cache failures degrade to rendering; they never fail the
// request.
func (s *reportServer) artifact(w http.ResponseWriter, r *http.Request, kind string, thread int, contentType string, produce func() ([]byte, error)) {
	key := s.keyer.ArtifactKey(s.reportHash, s.artifactKeyOpts(kind, thread))

	if data, hit, err := s.cache.Get(r.Context(), key); err != nil {
		s.logger.Warnf("Cache get %s: %v", kind, err)
	} else if hit {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("X-Cache", "hit")
		w.Write(data)
		return
	}

	data, err := produce()
	if err != nil {
		s.logger.Errorf("Render %s: %v", kind, err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, s.ttl); err != nil {
		s.logger.Warnf("Cache set %s: %v", kind, err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", "miss")
	w.Write(data)
}

// artifactKeyOpts binds every render setting into the cache key, so a
// config change invalidates stale artifacts.
func (s *reportServer) artifactKeyOpts(kind string, thread int) cache.ArtifactKeyOpts {
	var width, sampleHeight float64
	for _, l := range s.layouts {
		if l != nil {
			width, sampleHeight = l.TotalWidth, l.SampleHeight
			break
		}
	}
	return cache.ArtifactKeyOpts{
		Kind:         kind,
		Thread:       thread,
		Width:        width,
		SampleHeight: sampleHeight,
		Inverted:     s.inverted,
		Background:   s.background,
		Palette: [4]string{
			s.palette.LeftBottom.Hex(),
			s.palette.LeftTop.Hex(),
			s.palette.RightBottom.Hex(),
			s.palette.RightTop.Hex(),
		},
	}
}

func (s *reportServer) handleFlameSVG(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.thread(w, r)
	if !ok {
		return
	}
	l, ok := s.layout(w, idx)
	if !ok {
		return
	}
	s.artifact(w, r, "flame-svg", idx, "image/svg+xml", func() ([]byte, error) {
		return render.RenderSVG(l, s.svgOptions()...)
	})
}

func (s *reportServer) handleFlamePNG(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.thread(w, r)
	if !ok {
		return
	}
	l, ok := s.layout(w, idx)
	if !ok {
		return
	}
	s.artifact(w, r, "flame-png", idx, "image/png", func() ([]byte, error) {
		return render.RenderPNG(l, s.pngOptions()...)
	})
}

func (s *reportServer) handleCalltreeSVG(w http.ResponseWriter, r *http.Request) {
	idx, ok := s.thread(w, r)
	if !ok {
		return
	}
	t := s.rep.Process.Threads[idx]
	s.artifact(w, r, "calltree-svg", idx, "image/svg+xml", func() ([]byte, error) {
		return render.RenderDOTSVG(render.ToDOT(t))
	})
}

func (s *reportServer) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	s.artifact(w, r, "report-json", -1, "application/json", func() ([]byte, error) {
		var layouts []*flame.Layout
		for _, l := range s.layouts {
			if l != nil {
				layouts = append(layouts, l)
			}
		}
		return render.RenderJSON(s.rep, layouts,
			render.WithJSONPalette(s.palette),
			render.WithJSONDocumentID(s.docID),
			render.WithJSONGeneratedAt(time.Now()),
		)
	})
}

func (s *reportServer) svgOptions() []render.SVGOption {
	result := []render.SVGOption{render.WithPalette(s.palette)}
	if s.inverted {
		result = append(result, render.WithInverted())
	}
	if s.background != "" {
		result = append(result, render.WithBackground(s.background))
	}
	return result
}

func (s *reportServer) pngOptions() []render.PNGOption {
	result := []render.PNGOption{render.WithPNGPalette(s.palette)}
	if s.inverted {
		result = append(result, render.WithPNGInverted())
	}
	if s.background != "" {
		result = append(result, render.WithPNGBackground(s.background))
	}
	return result
}
