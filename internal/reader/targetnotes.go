package reader

import (
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

// TargetNotes numbers every link that goes through a reference definition
// and lists the targets in the "References" section, creating the section at
// the end of the document when it does not exist.
func TargetNotes() Transform {
	return transformFunc{name: NameTargetNotes, priority: 520, fn: applyTargetNotes}
}

func applyTargetNotes(doc *ast.Document, tc *Context) {
	if tc.Parser == nil {
		return
	}
	targets := make(map[string]struct{})
	for _, ref := range tc.Parser.References() {
		targets[string(ref.Destination())] = struct{}{}
	}
	if len(targets) == 0 {
		return
	}

	var links []*ast.Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *nodes.FieldList, *nodes.Topic:
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			if _, ok := targets[string(v.Destination)]; ok {
				links = append(links, v)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if len(links) == 0 {
		return
	}

	numbers := make(map[string]int)
	var notes []nodes.Note
	for _, link := range links {
		dest := string(link.Destination)
		num, ok := numbers[dest]
		if !ok {
			num = len(notes) + 1
			numbers[dest] = num
			notes = append(notes, nodes.Note{Number: num, Destination: dest})
		}
		link.Parent().InsertAfter(link.Parent(), link, nodes.NewNoteReference(num))
	}

	block := nodes.NewTargetNotes(notes)
	if heading := findSection(doc, tc.Source, "References"); heading != nil {
		end := sectionEnd(heading)
		if end != nil {
			doc.InsertBefore(doc, end, block)
		} else {
			doc.AppendChild(doc, block)
		}
		return
	}

	heading := ast.NewHeading(topSectionLevel(doc))
	heading.SetAttributeString("id", []byte("references"))
	heading.AppendChild(heading, ast.NewString([]byte("References")))
	doc.AppendChild(doc, heading)
	doc.AppendChild(doc, block)
}

func findSection(doc *ast.Document, source []byte, title string) *ast.Heading {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && strings.EqualFold(nodes.PlainText(h, source), title) {
			return h
		}
	}
	return nil
}

// sectionEnd returns the first top-level node after heading that starts a
// section of the same or a higher rank, or nil if the section runs to the end.
func sectionEnd(heading *ast.Heading) ast.Node {
	for n := heading.NextSibling(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level <= heading.Level {
			return h
		}
	}
	return nil
}

// topSectionLevel returns the rank of the highest-ranked section heading,
// or 2 when the document has none.
func topSectionLevel(doc *ast.Document) int {
	level := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || isPromoted(h) {
			continue
		}
		if level == 0 || h.Level < level {
			level = h.Level
		}
	}
	if level == 0 {
		return 2
	}
	return level
}
