// Package commands implements the eepbuilder subcommands.
package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/eepbuilder/internal/config"
	"git.home.luguber.info/inful/eepbuilder/internal/gitinfo"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"eepbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Render RenderCmd `cmd:"" help:"Render a single EEP document to HTML"`
	Build  BuildCmd  `cmd:"" help:"Render every EEP in a directory and generate the index"`
	Serve  ServeCmd  `cmd:"" help:"Build, serve and rebuild on change"`
	Init   InitCmd   `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; set up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration file. The default path may be absent;
// an explicitly named one must exist. The logger is reconfigured from the
// logging section unless --verbose was given.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOptional(root.Config, root.Config != config.DefaultPath)
	if err != nil {
		return nil, err
	}
	if !root.Verbose {
		logger := newLogger(cfg.Logging)
		slog.SetDefault(logger)
		if g != nil {
			g.Logger = logger
		}
	}
	return cfg, nil
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.Level.SlogLevel()}
	if lc.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// attachGitDates fills empty Last-Modified fields from the history of the
// repository containing dir.
func attachGitDates(rs *reader.Settings, enabled bool, dir string) {
	if enabled {
		rs.LastModified = gitinfo.NewResolver(dir)
	}
}
