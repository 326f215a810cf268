package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/eepbuilder/internal/config"
	"git.home.luguber.info/inful/eepbuilder/internal/metrics"
	"git.home.luguber.info/inful/eepbuilder/internal/preview"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr   string `short:"a" help:"Listen address"`
	Source string `short:"s" help:"Directory containing eep-NNNN.md sources"`
	Output string `short:"o" help:"Output directory for pages"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	s.apply(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Rebuilds in a preview session are always incremental.
	cfg.Build.Incremental = true

	opts := preview.Options{
		Addr:     cfg.Serve.Addr,
		Source:   cfg.Build.Source,
		Output:   cfg.Build.Output,
		Debounce: cfg.Serve.DebounceDuration(),
	}
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts.Registry = reg

	return preview.New(opts, newBuilder(cfg, metrics.NewPrometheusRecorder(reg))).Run(ctx)
}

func (s *ServeCmd) apply(cfg *config.Config) {
	if s.Addr != "" {
		cfg.Serve.Addr = s.Addr
	}
	if s.Source != "" {
		cfg.Build.Source = s.Source
	}
	if s.Output != "" {
		cfg.Build.Output = s.Output
	}
}
