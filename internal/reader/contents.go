package reader

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

// Contents inserts a table of contents after the header field list.
func Contents() Transform {
	return transformFunc{name: NameContents, priority: 720, fn: applyContents}
}

type tocEntry struct {
	level int
	id    string
	text  string
}

func applyContents(doc *ast.Document, tc *Context) {
	if !tc.Settings.TOC {
		return
	}

	var entries []tocEntry
	seen := make(map[string]int)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || isPromoted(h) {
			continue
		}
		label := nodes.PlainText(h, tc.Source)
		if label == "" {
			continue
		}
		id := headingID(h)
		if id == "" {
			id = fmt.Sprintf("section-%d", len(entries)+1)
		}
		base := id
		if count := seen[base]; count > 0 {
			id = fmt.Sprintf("%s-%d", base, count)
		}
		seen[base]++
		h.SetAttributeString("id", []byte(id))
		entries = append(entries, tocEntry{level: h.Level, id: id, text: label})
	}
	if len(entries) == 0 {
		return
	}

	topic := nodes.NewTopic("contents", "Contents", "contents")
	topic.AppendChild(topic, buildTOC(entries))

	var header ast.Node
	if first, ok := doc.FirstChild().(*nodes.FieldList); ok {
		header = first
	}
	if header != nil {
		doc.InsertAfter(doc, header, topic)
		return
	}
	insertFirst(doc, topic)
}

func isPromoted(h *ast.Heading) bool {
	v, ok := h.AttributeString("class")
	if !ok {
		return false
	}
	b, _ := v.([]byte)
	class := string(b)
	return class == "title" || class == "subtitle"
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

func buildTOC(entries []tocEntry) *ast.List {
	type frame struct {
		level int
		list  *ast.List
	}

	root := newTOCList()
	stack := []frame{{level: entries[0].level, list: root}}

	for _, e := range entries {
		for len(stack) > 1 && e.level < stack[len(stack)-1].level {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		if e.level > top.level {
			if last := top.list.LastChild(); last != nil {
				sub := newTOCList()
				last.AppendChild(last, sub)
				stack = append(stack, frame{level: e.level, list: sub})
				top = stack[len(stack)-1]
			}
		}

		item := ast.NewListItem(2)
		block := ast.NewTextBlock()
		link := ast.NewLink()
		link.Destination = []byte("#" + e.id)
		link.AppendChild(link, ast.NewString([]byte(e.text)))
		block.AppendChild(block, link)
		item.AppendChild(item, block)
		top.list.AppendChild(top.list, item)
	}
	return root
}

func newTOCList() *ast.List {
	l := ast.NewList('-')
	l.IsTight = true
	return l
}
