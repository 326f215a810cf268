// Package reader turns EEP source text into a transformed document tree.
//
// Parsing is goldmark's; this package only decides which tree transforms run.
// NewEEP drops the standalone title promotion (the title lives in the
// RFC-2822 header) and adds the header, reference, target-note and contents
// transforms.
package reader

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
)

// Document is a parsed and transformed source document.
type Document struct {
	Path     string
	Header   eep.Header
	Source   []byte
	Root     ast.Node
	Title    string
	Subtitle string
}

// Reader parses documents and applies its selected transforms.
type Reader struct {
	settings   Settings
	rfc2822    bool
	transforms []Transform
	md         goldmark.Markdown
}

// New returns a reader running exactly the given transforms. Header blocks
// are not recognized; use NewEEP for proposals.
func New(settings Settings, transforms ...Transform) *Reader {
	return newReader(settings, false, transforms)
}

// NewStandalone returns a reader for plain documents.
func NewStandalone(settings Settings) *Reader {
	return New(settings, StandaloneTransforms()...)
}

// NewEEP returns the reader for Erlang Enhancement Proposals.
func NewEEP(settings Settings) *Reader {
	transforms := Without(StandaloneTransforms(), NameDocTitle, NameSectionSubTitle, NameDocInfo)
	transforms = append(transforms, EEPTransforms()...)
	return newReader(settings, true, transforms)
}

func newReader(settings Settings, rfc2822 bool, transforms []Transform) *Reader {
	p := newPipeline(transforms)
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(p, 100)),
		),
	)
	return &Reader{
		settings:   settings,
		rfc2822:    rfc2822,
		transforms: p.transforms,
		md:         md,
	}
}

// Settings returns the reader settings.
func (r *Reader) Settings() Settings {
	return r.settings
}

// Transforms returns the selected transforms in execution order.
func (r *Reader) Transforms() []Transform {
	out := make([]Transform, len(r.transforms))
	copy(out, r.transforms)
	return out
}

// TransformNames returns the names of the selected transforms in execution order.
func (r *Reader) TransformNames() []string {
	names := make([]string, 0, len(r.transforms))
	for _, t := range r.transforms {
		names = append(names, t.Name())
	}
	return names
}

// ReadOption customizes a single Read call.
type ReadOption func(*readOptions)

type readOptions struct {
	path string
}

// WithPath records the source path of the document being read.
func WithPath(path string) ReadOption {
	return func(o *readOptions) {
		o.path = path
	}
}

// Read parses src and runs the selected transforms over the tree.
func (r *Reader) Read(src []byte, opts ...ReadOption) (*Document, error) {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	var header eep.Header
	body := src
	if r.rfc2822 {
		var err error
		header, body, err = eep.SplitHeader(src)
		if err != nil {
			return nil, fmt.Errorf("parse header: %w", err)
		}
	}

	tc := &Context{
		Settings: r.settings,
		Header:   header,
		Path:     o.path,
	}
	pc := parser.NewContext()
	pc.Set(contextKey, tc)

	root := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	if err := tc.Err(); err != nil {
		return nil, err
	}

	return &Document{
		Path:     o.path,
		Header:   tc.Header,
		Source:   body,
		Root:     root,
		Title:    tc.Title,
		Subtitle: tc.Subtitle,
	}, nil
}
