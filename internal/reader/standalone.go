package reader

import (
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

// DocTitle promotes a lone leading H1 to the document title. The heading
// stays in the tree marked with class "title".
func DocTitle() Transform {
	return transformFunc{name: NameDocTitle, priority: 320, fn: promoteDocTitle}
}

func promoteDocTitle(doc *ast.Document, tc *Context) {
	h := leadingHeading(doc)
	if h == nil || h.Level != 1 {
		return
	}

	// A second H1 means the document has several top-level sections and no
	// single title.
	for n := h.NextSibling(); n != nil; n = n.NextSibling() {
		if other, ok := n.(*ast.Heading); ok && other.Level == 1 {
			return
		}
	}

	title := nodes.PlainText(h, tc.Source)
	if title == "" {
		return
	}
	h.SetAttributeString("class", []byte("title"))
	tc.Title = title
}

// SectionSubTitle promotes an H2 directly following the promoted title to
// the document subtitle.
func SectionSubTitle() Transform {
	return transformFunc{name: NameSectionSubTitle, priority: 350, fn: promoteSubtitle}
}

func promoteSubtitle(doc *ast.Document, tc *Context) {
	if tc.Title == "" {
		return
	}
	title := leadingHeading(doc)
	if title == nil {
		return
	}
	sub, ok := title.NextSibling().(*ast.Heading)
	if !ok || sub.Level != 2 {
		return
	}
	text := nodes.PlainText(sub, tc.Source)
	if text == "" {
		return
	}
	sub.SetAttributeString("class", []byte("subtitle"))
	tc.Subtitle = text
}

// StripComments removes HTML comment blocks when Settings.StripComments is set.
func StripComments() Transform {
	return transformFunc{name: NameStripComments, priority: 740, fn: stripComments}
}

func stripComments(doc *ast.Document, tc *Context) {
	if !tc.Settings.StripComments {
		return
	}
	var comments []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if block, ok := n.(*ast.HTMLBlock); ok {
			if block.HTMLBlockType == ast.HTMLBlockType2 {
				comments = append(comments, block)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, c := range comments {
		c.Parent().RemoveChild(c.Parent(), c)
	}
}

func leadingHeading(doc *ast.Document) *ast.Heading {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			return v
		case *ast.HTMLBlock:
			continue
		default:
			return nil
		}
	}
	return nil
}
