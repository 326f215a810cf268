package reader

import (
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
)

// Transform names.
const (
	NameDocTitle        = "DocTitle"
	NameSectionSubTitle = "SectionSubTitle"
	NameDocInfo         = "DocInfo"
	NameStripComments   = "StripComments"
	NameHeaders         = "Headers"
	NameReferences      = "References"
	NameTargetNotes     = "TargetNotes"
	NameContents        = "Contents"
)

// Transform rewrites the parsed document tree. Transforms run in ascending
// Priority order.
type Transform interface {
	Name() string
	Priority() int
	Apply(doc *ast.Document, tc *Context)
}

// Context is the per-document state shared by transforms.
type Context struct {
	Settings Settings
	Header   eep.Header
	Path     string
	Source   []byte
	Parser   parser.Context

	Title    string
	Subtitle string

	err error
}

// Fail records the first transform error; Read returns it.
func (c *Context) Fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the recorded transform error, if any.
func (c *Context) Err() error {
	return c.err
}

type transformFunc struct {
	name     string
	priority int
	fn       func(doc *ast.Document, tc *Context)
}

func (t transformFunc) Name() string {
	return t.name
}

func (t transformFunc) Priority() int {
	return t.priority
}

func (t transformFunc) Apply(doc *ast.Document, tc *Context) {
	t.fn(doc, tc)
}

var contextKey = parser.NewContextKey()

// pipeline adapts the selected transforms to goldmark's ASTTransformer hook.
type pipeline struct {
	transforms []Transform
}

func newPipeline(transforms []Transform) *pipeline {
	sorted := make([]Transform, len(transforms))
	copy(sorted, transforms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	return &pipeline{transforms: sorted}
}

func (p *pipeline) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	tc, ok := pc.Get(contextKey).(*Context)
	if !ok {
		return
	}
	tc.Source = reader.Source()
	tc.Parser = pc
	for _, t := range p.transforms {
		if tc.err != nil {
			return
		}
		t.Apply(doc, tc)
	}
}

// Without returns transforms minus the ones with the given names.
func Without(transforms []Transform, names ...string) []Transform {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := make([]Transform, 0, len(transforms))
	for _, t := range transforms {
		if _, ok := drop[t.Name()]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

// StandaloneTransforms returns the transforms run for plain documents.
func StandaloneTransforms() []Transform {
	return []Transform{
		DocTitle(),
		SectionSubTitle(),
		StripComments(),
	}
}

// EEPTransforms returns the EEP-specific transforms.
func EEPTransforms() []Transform {
	return []Transform{
		Headers(),
		References(),
		TargetNotes(),
		Contents(),
	}
}

func insertFirst(parent ast.Node, n ast.Node) {
	if first := parent.FirstChild(); first != nil {
		parent.InsertBefore(parent, first, n)
		return
	}
	parent.AppendChild(parent, n)
}
