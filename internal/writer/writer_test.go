package writer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
)

const sample = `EEP: 42
Title: Sample Proposal
Author: Jane Doe <jane@example.com>
Status: Draft

## Abstract

Refers to EEP 1 and a [site][s].

[s]: https://example.com/
`

func readSample(t *testing.T, src string) *reader.Document {
	t.Helper()
	doc, err := reader.NewEEP(reader.DefaultSettings()).Read([]byte(src))
	require.NoError(t, err)
	return doc
}

func testSettings() Settings {
	s := DefaultSettings()
	s.NoRandom = true
	return s
}

func TestWrite_DefaultTemplate(t *testing.T) {
	out, err := New(testSettings()).Write(readSample(t, sample))
	require.NoError(t, err)

	page := string(out)
	require.Contains(t, page, `<?xml version="1.0" encoding="utf-8"?>`)
	require.Contains(t, page, "<title>EEP 42 -- Sample Proposal</title>")
	require.Contains(t, page, `href="./eep-0042.md"`)
	require.Contains(t, page, `href="http://www.erlang.org/eeps/"`)
	require.Contains(t, page, "erlang-banner-00.png")
	require.Contains(t, page, `<link rel="stylesheet" href="eep.css" type="text/css" />`)
	require.True(t, strings.HasSuffix(page, "</div>\n</body>\n</html>\n\n"))
}

func TestRenderBody_HeaderTableFollowedByRule(t *testing.T) {
	body, err := New(testSettings()).RenderBody(readSample(t, sample))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(body, `<table class="rfc2822 docutils field-list"`), body)
	require.Contains(t, body, "</tbody>\n</table>\n<hr />\n")
	require.Contains(t, body, `<th class="field-name">Author:&nbsp;</th>`)
	require.Contains(t, body, `<a href="mailto:jane@example.com">jane at example dot com</a>`)
}

func TestRenderBody_NoRuleForOtherFieldLists(t *testing.T) {
	for _, classes := range [][]string{nil, {"docinfo"}} {
		t.Run(strings.Join(append([]string{"classes"}, classes...), "-"), func(t *testing.T) {
			doc, err := reader.NewStandalone(reader.DefaultSettings()).Read([]byte("text\n"))
			require.NoError(t, err)

			list := nodes.NewFieldList(classes...)
			field := nodes.NewField("Author")
			field.AppendChild(field, ast.NewString([]byte("Jane Doe")))
			list.AppendChild(list, field)
			doc.Root.InsertBefore(doc.Root, doc.Root.FirstChild(), list)

			body, err := New(testSettings()).RenderBody(doc)
			require.NoError(t, err)
			require.Contains(t, body, "field-list")
			require.Contains(t, body, `<th class="field-name">Author:&nbsp;</th>`)
			require.Contains(t, body, "</tbody>\n</table>\n")
			require.NotContains(t, body, "<hr />")
		})
	}
}

func TestRenderBody_Structure(t *testing.T) {
	body, err := New(testSettings()).RenderBody(readSample(t, sample))
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)

	var (
		contents  bool
		notes     []string
		noteRefs  int
		eepLinks  []string
		headingID []string
	)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "div":
				if attr(n, "id") == "contents" {
					contents = true
				}
			case "li":
				if strings.HasPrefix(attr(n, "id"), "target-note-") {
					notes = append(notes, attr(n, "id"))
				}
			case "a":
				if attr(n, "class") == "footnote-reference" {
					noteRefs++
				}
				if strings.HasSuffix(attr(n, "href"), "eep-0001.html") {
					eepLinks = append(eepLinks, attr(n, "href"))
				}
			case "h2":
				headingID = append(headingID, attr(n, "id"))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	require.True(t, contents)
	require.Equal(t, []string{"target-note-1"}, notes)
	require.Equal(t, 1, noteRefs)
	require.Equal(t, []string{"./eep-0001.html"}, eepLinks)
	require.Equal(t, []string{"abstract", "references"}, headingID)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestSubstitutions_EEPNumber(t *testing.T) {
	w := New(testSettings())

	subs := w.Substitutions(readSample(t, "EEP: 7\nTitle: Seven\n\nx\n"), "", "")
	require.Equal(t, "7", subs["eep"])
	require.Equal(t, "0007", subs["eepnum"])
	require.Equal(t, "Seven", subs["title"])

	subs = w.Substitutions(readSample(t, "EEP: draft-x\nTitle: Draft\n\nx\n"), "", "")
	require.Equal(t, "draft-x", subs["eep"])
	require.Equal(t, "draft-x", subs["eepnum"])
}

func TestSubstitutions_EEPIndex(t *testing.T) {
	s := testSettings()
	doc := readSample(t, sample)

	require.Equal(t, "http://www.erlang.org/eeps", New(s).Substitutions(doc, "", "")["eepindex"])

	s.ErlangHome = ".."
	require.Equal(t, ".", New(s).Substitutions(doc, "", "")["eepindex"])
}

func TestSubstitutions_Banner(t *testing.T) {
	doc := readSample(t, sample)
	require.Equal(t, 0, New(testSettings()).Substitutions(doc, "", "")["banner"])

	s := testSettings()
	s.NoRandom = false
	for i := 0; i < 50; i++ {
		b := New(s).Substitutions(doc, "", "")["banner"].(int)
		require.GreaterOrEqual(t, b, 0)
		require.Less(t, b, BannerCount)
	}
}

func TestWrite_CustomTemplates(t *testing.T) {
	dir := t.TempDir()
	doc := readSample(t, sample)

	txt := filepath.Join(dir, "page.txt")
	require.NoError(t, os.WriteFile(txt, []byte("%(eepnum)s|%(title)s"), 0o600))
	s := testSettings()
	s.Template = txt
	out, err := New(s).Write(doc)
	require.NoError(t, err)
	require.Equal(t, "0042|Sample Proposal", string(out))

	tmpl := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(tmpl, []byte("{{.eepnum}}/{{.eep}}"), 0o600))
	s.Template = tmpl
	out, err = New(s).Write(doc)
	require.NoError(t, err)
	require.Equal(t, "0042/42", string(out))

	s.Template = filepath.Join(dir, "missing.txt")
	_, err = New(s).Write(doc)
	require.Error(t, err)
}

func TestWrite_EmbeddedStylesheet(t *testing.T) {
	dir := t.TempDir()
	css := filepath.Join(dir, "custom.css")
	require.NoError(t, os.WriteFile(css, []byte("body { color: red; }"), 0o600))

	s := testSettings()
	s.Template = filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(s.Template, []byte("%(stylesheet)s"), 0o600))
	s.EmbedStylesheet = true
	s.StylesheetPath = css

	out, err := New(s).Write(readSample(t, sample))
	require.NoError(t, err)
	require.Equal(t, "<style type=\"text/css\">\n\nbody { color: red; }\n</style>\n", string(out))

	s.StylesheetPath = filepath.Join(dir, "missing.css")
	_, err = New(s).Write(readSample(t, sample))
	require.Error(t, err)
}

func TestWrite_OutputEncoding(t *testing.T) {
	dir := t.TempDir()
	s := testSettings()
	s.Template = filepath.Join(dir, "t.txt")
	require.NoError(t, os.WriteFile(s.Template, []byte("%(encoding)s:%(title)s"), 0o600))
	s.OutputEncoding = "iso-8859-1"

	doc := readSample(t, "EEP: 1\nTitle: Café ☃\n\nx\n")
	out, err := New(s).Write(doc)
	require.NoError(t, err)
	require.Equal(t, []byte("iso-8859-1:Caf\xe9 &#9731;"), out)

	s.OutputEncoding = "no-such-encoding"
	_, err = New(s).Write(doc)
	require.Error(t, err)
}
