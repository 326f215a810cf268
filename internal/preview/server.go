// Package preview serves a built EEP directory and rebuilds it when sources
// change.
package preview

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/eepbuilder/internal/build"
	"git.home.luguber.info/inful/eepbuilder/internal/logfields"
	"git.home.luguber.info/inful/eepbuilder/internal/metrics"
)

// Builder is the build step run on start and after every change.
type Builder interface {
	Build(ctx context.Context) (*build.Report, error)
}

// Options configures a preview session.
type Options struct {
	Addr     string
	Source   string
	Output   string
	Debounce time.Duration
	// Registry, when set, is exposed at /metrics.
	Registry *prom.Registry
}

// Server watches Source, rebuilds through Builder, and serves Output.
type Server struct {
	opts    Options
	builder Builder
	status  buildStatus

	mu       sync.Mutex
	listener net.Listener
}

// New returns a preview server.
func New(opts Options, b Builder) *Server {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	return &Server{opts: opts, builder: b}
}

// Addr returns the bound listen address once Run has started listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the HTTP handler: the output directory, /status and,
// when a registry is configured, /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.Registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	mux.HandleFunc("/status", s.handleStatus)

	files := http.FileServer(http.Dir(s.opts.Output))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		snap := s.status.snapshot()
		if !snap.HasGoodBuild && snap.Error != "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "<!DOCTYPE html>\n<html><body><h1>Build failed</h1><pre>%s</pre></body></html>\n",
				html.EscapeString(snap.Error))
			return
		}
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/eep-0000.html", http.StatusFound)
			return
		}
		files.ServeHTTP(w, r)
	})
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status.snapshot()); err != nil {
		slog.Warn("Failed to encode status", logfields.Error(err))
	}
}

// Run builds once, then serves and rebuilds on change until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	absSource, err := filepath.Abs(s.opts.Source)
	if err != nil {
		return fmt.Errorf("resolve source dir: %w", err)
	}
	absOutput, err := filepath.Abs(s.opts.Output)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	s.rebuild(ctx)

	w, err := newWatcher(absSource, absOutput)
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = w.Close() }()

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func(errc chan<- error) {
		defer close(errc)
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}(serveErr)
	slog.Info("Preview server listening", "addr", ln.Addr().String(), "url", "http://"+ln.Addr().String()+"/")

	rebuildReq, trigger := newDebouncer(s.opts.Debounce)
	workerDone := s.startRebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server...")
			s.shutdown(srv)
			<-workerDone
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			serveErr = nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				slog.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
				trigger()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// startRebuildWorker runs rebuilds one at a time. A request arriving during
// a rebuild schedules exactly one more.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				slog.Info("Change detected; rebuilding")
				s.rebuild(ctx)
			}
		}
	}()
	return done
}

func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Build(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		slog.Warn("Build failed", logfields.Error(err))
	}
	s.status.record(report, err)
}

func (s *Server) shutdown(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}
