package nodes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestPlainText_CollectsInlineText(t *testing.T) {
	src := []byte("# Hello *brave*\n`new` world\n")
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	heading := root.FirstChild()
	require.Equal(t, ast.KindHeading, heading.Kind())
	require.Equal(t, "Hello brave", PlainText(heading, src))

	para := heading.NextSibling()
	require.Equal(t, "new world", PlainText(para, src))
}

func TestPlainText_IncludesStrings(t *testing.T) {
	h := ast.NewHeading(2)
	h.AppendChild(h, ast.NewString([]byte("References")))
	require.Equal(t, "References", PlainText(h, nil))
}

func TestHasAncestor(t *testing.T) {
	list := NewFieldList(ClassRFC2822)
	field := NewField("Author")
	list.AppendChild(list, field)
	link := ast.NewLink()
	field.AppendChild(field, link)

	require.True(t, HasAncestor(link, KindFieldList))
	require.False(t, HasAncestor(link, KindTopic))
	require.True(t, list.HasClass(ClassRFC2822))
}
