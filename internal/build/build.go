// Package build renders a directory of EEP sources into a directory of pages.
package build

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
	"git.home.luguber.info/inful/eepbuilder/internal/errors"
	"git.home.luguber.info/inful/eepbuilder/internal/logfields"
	"git.home.luguber.info/inful/eepbuilder/internal/metrics"
	"git.home.luguber.info/inful/eepbuilder/internal/publisher"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/writer"
)

// Options controls a directory build.
type Options struct {
	Source      string
	Output      string
	Workers     int
	Incremental bool
	Index       bool
	CopySources bool
}

// Failure is a source that could not be rendered.
type Failure struct {
	Path string
	Err  error
}

// Report summarizes a build.
type Report struct {
	RunID    string
	Rendered []string
	Skipped  []string
	Failures []Failure
	Index    bool
	Duration time.Duration
}

// Builder renders EEP directories. A Builder may run several builds, but not
// concurrently.
type Builder struct {
	opts      Options
	rs        reader.Settings
	ws        writer.Settings
	publisher *publisher.Publisher
	recorder  metrics.Recorder
	now       func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithClock sets the time source used for the index date.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// New returns a builder rendering with the EEP reader and writer.
func New(opts Options, rs reader.Settings, ws writer.Settings, options ...Option) *Builder {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	b := &Builder{
		opts:      opts,
		rs:        rs,
		ws:        ws,
		publisher: publisher.NewEEP(rs, ws),
		recorder:  metrics.NoopRecorder{},
		now:       time.Now,
	}
	for _, o := range options {
		o(b)
	}
	return b
}

// pageResult is what a worker learned about one source.
type pageResult struct {
	source  Source
	header  eep.Header
	fp      string
	skipped bool
	err     error
}

// Build renders every source. It returns a report even when some documents
// fail; the error then lists them.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	log := slog.With(logfields.RunID(report.RunID))

	outcome := metrics.BuildOutcomeFailed
	defer func() {
		report.Duration = time.Since(start)
		b.recorder.ObserveBuildDuration(report.Duration)
		b.recorder.IncBuildOutcome(outcome)
	}()

	if err := os.MkdirAll(b.opts.Output, 0o750); err != nil {
		return report, errors.FileSystemError("create output directory", err).WithContext("path", b.opts.Output)
	}
	sources, err := Discover(b.opts.Source)
	if err != nil {
		return report, errors.FileSystemError("discover sources", err).WithContext("path", b.opts.Source)
	}

	hash, err := b.settingsHash()
	if err != nil {
		return report, errors.TemplateFailed(b.ws.Template, err)
	}
	manifestPath := filepath.Join(b.opts.Output, ManifestName)
	var previous *Manifest
	if b.opts.Incremental {
		previous, err = LoadManifest(manifestPath)
		if err != nil {
			log.Warn("Ignoring unreadable manifest", logfields.Path(manifestPath), logfields.Error(err))
			previous = nil
		}
	}

	log.Info("Building EEPs", "sources", len(sources), "output", b.opts.Output, "workers", b.opts.Workers, "incremental", b.opts.Incremental)
	b.recorder.SetWorkers(b.opts.Workers)

	results := make([]pageResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.renderOne(src, previous, hash)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		outcome = metrics.BuildOutcomeCanceled
		return report, err
	}

	manifest := newManifest(report.RunID, hash)
	manifest.BuiltAt = b.now().UTC()
	var entries []IndexEntry
	for _, r := range results {
		switch {
		case r.err != nil:
			report.Failures = append(report.Failures, Failure{Path: r.source.Path, Err: r.err})
			b.recorder.IncDocumentResult(metrics.ResultFailed)
			log.Error("Failed to render EEP", logfields.Path(r.source.Path), logfields.Error(r.err))
			continue
		case r.skipped:
			report.Skipped = append(report.Skipped, r.source.Name)
			b.recorder.IncDocumentResult(metrics.ResultSkipped)
		default:
			report.Rendered = append(report.Rendered, r.source.Name)
			b.recorder.IncDocumentResult(metrics.ResultRendered)
		}
		manifest.Entries[r.source.Name] = Entry{Fingerprint: r.fp, Page: r.source.PageName()}
		entries = append(entries, NewIndexEntry(r.source.Number, r.header))
	}

	if err := b.copyAssets(sources); err != nil {
		return report, err
	}

	if b.opts.Index && !hasSource(sources, IndexNumber) {
		if err := b.writeIndex(entries); err != nil {
			report.Failures = append(report.Failures, Failure{Path: eep.FileName(IndexNumber) + SourceExt, Err: err})
			log.Error("Failed to render index", logfields.Error(err))
		} else {
			report.Index = true
		}
	}

	if err := manifest.Save(manifestPath); err != nil {
		log.Warn("Failed to save manifest", logfields.Path(manifestPath), logfields.Error(err))
	}

	log.Info("Build finished",
		"rendered", len(report.Rendered),
		"skipped", len(report.Skipped),
		"failed", len(report.Failures),
		logfields.Duration(time.Since(start)))

	if len(report.Failures) > 0 {
		errs := make([]error, 0, len(report.Failures))
		for _, f := range report.Failures {
			errs = append(errs, f.Err)
		}
		return report, errors.BuildFailed(len(report.Failures), stdErrors.Join(errs...))
	}
	outcome = metrics.BuildOutcomeSuccess
	return report, nil
}

func (b *Builder) renderOne(src Source, previous *Manifest, hash string) pageResult {
	res := pageResult{source: src}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		res.err = errors.FileSystemError("read source", err).WithContext("path", src.Path)
		return res
	}
	res.fp = Fingerprint(data)
	res.header, _, _ = eep.SplitHeader(data)

	out := filepath.Join(b.opts.Output, src.PageName())
	if previous.upToDate(hash, src.Name, res.fp) && fileExists(out) {
		res.skipped = true
		slog.Debug("Skipping unchanged EEP", logfields.Path(src.Path))
		return res
	}

	start := time.Now()
	page, doc, err := b.publisher.Publish(data, src.Path)
	b.recorder.ObserveDocumentDuration(time.Since(start))
	if err != nil {
		if doc == nil {
			res.err = errors.ParseFailed(src.Path, err)
		} else {
			res.err = errors.RenderFailed(src.Path, err)
		}
		return res
	}
	if err := publisher.WriteFileAtomic(out, page); err != nil {
		res.err = errors.FileSystemError("write page", err).WithContext("path", out)
		return res
	}
	slog.Debug("Rendered EEP", logfields.Path(src.Path), logfields.Page(out), logfields.EEP(doc.Header.Number()))
	return res
}

func (b *Builder) writeIndex(entries []IndexEntry) error {
	name := eep.FileName(IndexNumber)
	src := IndexSource(entries, b.now())
	page, _, err := b.publisher.Publish(src, "")
	if err != nil {
		return errors.RenderFailed(name+SourceExt, err)
	}
	if err := publisher.WriteFileAtomic(filepath.Join(b.opts.Output, name+".html"), page); err != nil {
		return errors.FileSystemError("write index", err)
	}
	if b.opts.CopySources {
		if err := publisher.WriteFileAtomic(filepath.Join(b.opts.Output, name+SourceExt), src); err != nil {
			return errors.FileSystemError("write index source", err)
		}
	}
	return nil
}

// copyAssets places the stylesheet and, when enabled, the sources next to
// the pages. The template links both.
func (b *Builder) copyAssets(sources []Source) error {
	if !b.ws.EmbedStylesheet && isLocalPath(b.ws.StylesheetPath) {
		css, err := writer.New(b.ws).StylesheetCSS()
		if err != nil {
			return errors.FileSystemError("read stylesheet", err).WithContext("path", b.ws.StylesheetPath)
		}
		// Pages link the path as given, so the copy keeps its relative location.
		dst := filepath.Join(b.opts.Output, filepath.FromSlash(b.ws.StylesheetPath))
		if err := publisher.WriteFileAtomic(dst, css); err != nil {
			return errors.FileSystemError("copy stylesheet", err).WithContext("path", dst)
		}
	}

	if !b.opts.CopySources {
		return nil
	}
	for _, src := range sources {
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return errors.FileSystemError("read source", err).WithContext("path", src.Path)
		}
		if err := publisher.WriteFileAtomic(filepath.Join(b.opts.Output, src.Name), data); err != nil {
			return errors.FileSystemError("copy source", err).WithContext("path", src.Path)
		}
	}
	return nil
}

func (b *Builder) settingsHash() (string, error) {
	var tmpl []byte
	if b.ws.Template != "" {
		data, err := os.ReadFile(b.ws.Template)
		if err != nil {
			return "", fmt.Errorf("read template: %w", err)
		}
		tmpl = data
	}
	rs := b.rs
	rs.LastModified = nil
	return settingsHash(struct {
		Reader   reader.Settings
		Writer   writer.Settings
		GitDates bool
	}{rs, b.ws, b.rs.LastModified != nil}, tmpl)
}

func hasSource(sources []Source, n int) bool {
	for _, s := range sources {
		if s.Number == n {
			return true
		}
	}
	return false
}

// isLocalPath reports whether p is a relative path that stays inside the
// output directory. Other stylesheet paths are linked without a copy.
func isLocalPath(p string) bool {
	return p != "" && !strings.Contains(p, "://") && filepath.IsLocal(filepath.FromSlash(p))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
