package commands

import (
	"context"
	"path/filepath"

	"git.home.luguber.info/inful/eepbuilder/internal/config"
	"git.home.luguber.info/inful/eepbuilder/internal/errors"
	"git.home.luguber.info/inful/eepbuilder/internal/publisher"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/writer"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Input  string `arg:"" help:"EEP source file" type:"existingfile"`
	Output string `short:"o" help:"Output file (default: stdout)"`

	Template        string `help:"Page template file (.tmpl/.gotmpl files use Go templates)"`
	ErlangHome      string `name:"erlang-home" help:"Home URL of the Erlang site"`
	EEPHome         string `name:"eep-home" help:"Home URL of the EEP collection"`
	StylesheetPath  string `name:"stylesheet-path" help:"Stylesheet to link or embed"`
	EmbedStylesheet bool   `name:"embed-stylesheet" help:"Inline the stylesheet into the page"`
	OutputEncoding  string `name:"output-encoding" help:"Character encoding of the page"`

	NoEEPReferences bool `name:"no-eep-references" help:"Do not link 'EEP n' references"`
	NoRFCReferences bool `name:"no-rfc-references" help:"Do not link 'RFC n' references"`
	NoTOC           bool `name:"no-toc" help:"Do not insert a table of contents"`
	StripComments   bool `name:"strip-comments" help:"Drop HTML comments from the output"`
	GitDates        bool `name:"git-dates" help:"Fill an empty Last-Modified field from git history"`

	NoRandom bool `name:"no-random" hidden:"" help:"Always use banner 0"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	rs, ws := r.settings(cfg)
	attachGitDates(&rs, r.GitDates || cfg.Build.GitDates, filepath.Dir(r.Input))

	p := publisher.NewEEP(rs, ws)
	if _, err := p.PublishFile(context.Background(), r.Input, r.Output); err != nil {
		return errors.RenderFailed(r.Input, err)
	}
	return nil
}

// settings layers the flags over the configuration.
func (r *RenderCmd) settings(cfg *config.Config) (reader.Settings, writer.Settings) {
	rs := cfg.ReaderSettings()
	if r.NoEEPReferences {
		rs.EEPReferences = false
	}
	if r.NoRFCReferences {
		rs.RFCReferences = false
	}
	if r.NoTOC {
		rs.TOC = false
	}
	if r.StripComments {
		rs.StripComments = true
	}

	ws := cfg.WriterSettings()
	if r.Template != "" {
		ws.Template = r.Template
	}
	if r.ErlangHome != "" {
		ws.ErlangHome = r.ErlangHome
	}
	if r.EEPHome != "" {
		ws.EEPHome = r.EEPHome
	}
	if r.StylesheetPath != "" {
		ws.StylesheetPath = r.StylesheetPath
	}
	if r.EmbedStylesheet {
		ws.EmbedStylesheet = true
	}
	if r.OutputEncoding != "" {
		ws.OutputEncoding = r.OutputEncoding
	}
	if r.NoRandom {
		ws.NoRandom = true
	}
	return rs, ws
}
