package reader

import (
	"regexp"
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

var referencePattern = regexp.MustCompile(`\b(EEP|RFC)\s+(\d+)\b`)

// References links "EEP n" and "RFC n" mentions in body text.
func References() Transform {
	return transformFunc{name: NameReferences, priority: 365, fn: applyReferences}
}

func applyReferences(doc *ast.Document, tc *Context) {
	s := tc.Settings
	if !s.EEPReferences && !s.RFCReferences {
		return
	}

	var candidates []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindLink, ast.KindAutoLink, ast.KindImage, ast.KindCodeSpan,
			ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML,
			nodes.KindFieldList, nodes.KindTopic:
			return ast.WalkSkipChildren, nil
		}
		if t, ok := n.(*ast.Text); ok && plainText(t) {
			candidates = append(candidates, t)
		}
		return ast.WalkContinue, nil
	})

	// Inline parsers split a line into several text nodes, and every line
	// of a paragraph is its own node, so references are matched across
	// runs of adjacent text siblings.
	var runs [][]*ast.Text
	for _, t := range candidates {
		if joinable(t.PreviousSibling(), t) {
			continue
		}
		run := []*ast.Text{t}
		for {
			next, ok := run[len(run)-1].NextSibling().(*ast.Text)
			if !ok || !joinable(run[len(run)-1], next) {
				break
			}
			run = append(run, next)
		}
		runs = append(runs, run)
	}

	for _, run := range runs {
		linkReferences(run, tc)
	}
}

func plainText(t *ast.Text) bool {
	return !t.IsRaw() && t.Segment.Padding == 0
}

// joinable reports whether b continues the text of a, either directly or
// after a soft line break.
func joinable(a ast.Node, b *ast.Text) bool {
	prev, ok := a.(*ast.Text)
	if !ok || !plainText(prev) || !plainText(b) || prev.HardLineBreak() {
		return false
	}
	return prev.Segment.Stop == b.Segment.Start || prev.SoftLineBreak()
}

type textRun struct {
	pieces []runPiece
	value  []byte
}

type runPiece struct {
	node *ast.Text
	off  int
}

func newTextRun(run []*ast.Text, source []byte) *textRun {
	r := &textRun{}
	for i, t := range run {
		if i > 0 && run[i-1].Segment.Stop != t.Segment.Start {
			r.value = append(r.value, '\n')
		}
		r.pieces = append(r.pieces, runPiece{node: t, off: len(r.value)})
		r.value = append(r.value, t.Segment.Value(source)...)
	}
	return r
}

// texts returns fresh text nodes covering [start, stop) of the joined
// value. A piece keeps its line break on the node that ends it.
func (r *textRun) texts(start, stop int, final bool) []*ast.Text {
	var out []*ast.Text
	for _, p := range r.pieces {
		size := p.node.Segment.Len()
		end := p.off + size
		lo, hi := max(start, p.off), min(stop, end)
		switch {
		case lo < hi:
		case size == 0 && p.off >= start && (p.off < stop || final && p.off == stop):
			lo, hi = p.off, p.off
		default:
			continue
		}
		seg := p.node.Segment
		t := ast.NewTextSegment(text.NewSegment(seg.Start+lo-p.off, seg.Start+hi-p.off))
		if hi == end {
			t.SetSoftLineBreak(p.node.SoftLineBreak())
			t.SetHardLineBreak(p.node.HardLineBreak())
		}
		out = append(out, t)
	}
	return out
}

func linkReferences(run []*ast.Text, tc *Context) {
	r := newTextRun(run, tc.Source)

	type match struct {
		start, stop int
		dest        string
	}
	var matches []match
	for _, m := range referencePattern.FindAllSubmatchIndex(r.value, -1) {
		n, err := strconv.Atoi(string(r.value[m[4]:m[5]]))
		if err != nil {
			continue
		}
		switch string(r.value[m[2]:m[3]]) {
		case "EEP":
			if tc.Settings.EEPReferences {
				matches = append(matches, match{m[0], m[1], tc.Settings.EEPURL(n)})
			}
		case "RFC":
			if tc.Settings.RFCReferences {
				matches = append(matches, match{m[0], m[1], tc.Settings.RFCURL(n)})
			}
		}
	}
	if len(matches) == 0 {
		return
	}

	parent := run[0].Parent()
	anchor := run[0]
	emit := func(n ast.Node) { parent.InsertBefore(parent, anchor, n) }

	pos := 0
	for _, m := range matches {
		for _, t := range r.texts(pos, m.start, false) {
			emit(t)
		}
		link := ast.NewLink()
		link.Destination = []byte(m.dest)
		for _, t := range r.texts(m.start, m.stop, false) {
			link.AppendChild(link, t)
		}
		emit(link)
		// A line break ending the reference belongs after the link.
		if last, ok := link.LastChild().(*ast.Text); ok && (last.SoftLineBreak() || last.HardLineBreak()) {
			trail := ast.NewTextSegment(text.NewSegment(last.Segment.Stop, last.Segment.Stop))
			trail.SetSoftLineBreak(last.SoftLineBreak())
			trail.SetHardLineBreak(last.HardLineBreak())
			last.SetSoftLineBreak(false)
			last.SetHardLineBreak(false)
			emit(trail)
		}
		pos = m.stop
	}
	for _, t := range r.texts(pos, len(r.value), true) {
		emit(t)
	}

	for _, t := range run {
		parent.RemoveChild(parent, t)
	}
}
