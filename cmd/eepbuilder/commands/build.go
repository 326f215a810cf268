package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/eepbuilder/internal/build"
	"git.home.luguber.info/inful/eepbuilder/internal/config"
	"git.home.luguber.info/inful/eepbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source      string `short:"s" help:"Directory containing eep-NNNN.md sources"`
	Output      string `short:"o" help:"Output directory for pages"`
	Incremental bool   `short:"i" help:"Skip sources unchanged since the last build"`
	Workers     int    `short:"w" help:"Documents rendered in parallel"`
	NoIndex     bool   `name:"no-index" help:"Do not generate the EEP 0 index"`
	GitDates    bool   `name:"git-dates" help:"Fill empty Last-Modified fields from git history"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := newBuilder(cfg, metrics.NoopRecorder{}).Build(ctx)
	if report != nil && err == nil {
		fmt.Printf("Rendered %d, skipped %d EEPs into %s\n", len(report.Rendered), len(report.Skipped), cfg.Build.Output)
	}
	return err
}

// apply layers the flags over the configuration.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Source != "" {
		cfg.Build.Source = b.Source
	}
	if b.Output != "" {
		cfg.Build.Output = b.Output
	}
	if b.Incremental {
		cfg.Build.Incremental = true
	}
	if b.Workers != 0 {
		cfg.Build.Workers = b.Workers
	}
	if b.NoIndex {
		index := false
		cfg.Build.Index = &index
	}
	if b.GitDates {
		cfg.Build.GitDates = true
	}
}

func newBuilder(cfg *config.Config, rec metrics.Recorder) *build.Builder {
	rs := cfg.ReaderSettings()
	attachGitDates(&rs, cfg.Build.GitDates, cfg.Build.Source)
	opts := build.Options{
		Source:      cfg.Build.Source,
		Output:      cfg.Build.Output,
		Workers:     cfg.Build.Workers,
		Incremental: cfg.Build.Incremental,
		Index:       cfg.Build.IndexEnabled(),
		CopySources: cfg.Build.CopySourcesEnabled(),
	}
	return build.New(opts, rs, cfg.WriterSettings(), build.WithRecorder(rec))
}
