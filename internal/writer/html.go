package writer

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

// htmlTranslator renders the nodes goldmark does not know about.
type htmlTranslator struct{}

func (t *htmlTranslator) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(nodes.KindFieldList, t.renderFieldList)
	reg.Register(nodes.KindField, t.renderField)
	reg.Register(nodes.KindTopic, t.renderTopic)
	reg.Register(nodes.KindTargetNotes, t.renderTargetNotes)
	reg.Register(nodes.KindNoteReference, t.renderNoteReference)
}

func (t *htmlTranslator) renderFieldList(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	list := n.(*nodes.FieldList)
	if entering {
		t.visitFieldList(w, list)
	} else {
		t.departFieldList(w, list)
	}
	return ast.WalkContinue, nil
}

func (t *htmlTranslator) visitFieldList(w util.BufWriter, list *nodes.FieldList) {
	_, _ = w.WriteString(`<table class="`)
	for _, c := range list.Classes {
		_, _ = w.Write(util.EscapeHTML([]byte(c)))
		_ = w.WriteByte(' ')
	}
	_, _ = w.WriteString(`docutils field-list" frame="void" rules="none">` + "\n")
	_, _ = w.WriteString(`<col class="field-name" />` + "\n")
	_, _ = w.WriteString(`<col class="field-body" />` + "\n")
	_, _ = w.WriteString(`<tbody valign="top">` + "\n")
}

// departFieldList closes the table; the header block is followed by a rule.
func (t *htmlTranslator) departFieldList(w util.BufWriter, list *nodes.FieldList) {
	_, _ = w.WriteString("</tbody>\n</table>\n")
	if list.HasClass(nodes.ClassRFC2822) {
		_, _ = w.WriteString("<hr />\n")
	}
}

func (t *htmlTranslator) renderField(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	field := n.(*nodes.Field)
	if entering {
		_, _ = w.WriteString(`<tr class="field"><th class="field-name">`)
		_, _ = w.Write(util.EscapeHTML([]byte(field.Name)))
		_, _ = w.WriteString(`:&nbsp;</th><td class="field-body">`)
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</td>\n</tr>\n")
	return ast.WalkContinue, nil
}

func (t *htmlTranslator) renderTopic(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	topic := n.(*nodes.Topic)
	if entering {
		_, _ = w.WriteString(`<div class="`)
		_, _ = w.Write(util.EscapeHTML([]byte(topic.Class)))
		_, _ = w.WriteString(` topic" id="`)
		_, _ = w.Write(util.EscapeHTML([]byte(topic.ID)))
		_, _ = w.WriteString("\">\n")
		if topic.Title != "" {
			_, _ = w.WriteString(`<p class="topic-title first">`)
			_, _ = w.Write(util.EscapeHTML([]byte(topic.Title)))
			_, _ = w.WriteString("</p>\n")
		}
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</div>\n")
	return ast.WalkContinue, nil
}

func (t *htmlTranslator) renderTargetNotes(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	notes := n.(*nodes.TargetNotes)
	_, _ = w.WriteString(`<ol class="target-notes">` + "\n")
	for _, note := range notes.Notes {
		dest := util.EscapeHTML(util.URLEscape([]byte(note.Destination), true))
		_, _ = w.WriteString(`<li id="`)
		_, _ = w.WriteString(nodes.NoteID(note.Number))
		_, _ = w.WriteString(`"><a class="reference external" href="`)
		_, _ = w.Write(dest)
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(note.Destination)))
		_, _ = w.WriteString("</a></li>\n")
	}
	_, _ = w.WriteString("</ol>\n")
	return ast.WalkSkipChildren, nil
}

func (t *htmlTranslator) renderNoteReference(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	ref := n.(*nodes.NoteReference)
	num := strconv.Itoa(ref.Number)
	_, _ = w.WriteString(` <a class="footnote-reference" href="#`)
	_, _ = w.WriteString(nodes.NoteID(ref.Number))
	_, _ = w.WriteString(`">[` + num + `]</a>`)
	return ast.WalkContinue, nil
}
