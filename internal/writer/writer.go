// Package writer renders transformed EEP documents to HTML pages.
//
// Body markup comes from goldmark's HTML renderer plus the node renderers in
// html.go. The page around it comes from a template with named placeholders:
//
//	encoding, version, stylesheet, erlhome, eephome, eepindex,
//	eep, eepnum, banner, title, body, body_suffix
package writer

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/version"
)

//go:embed assets/template.txt
var defaultTemplate string

//go:embed assets/eep.css
var defaultStylesheet []byte

const bodySuffix = "</div>\n</body>\n</html>\n"

// BannerCount is the number of banner images the template may pick from.
const BannerCount = 64

// DefaultTemplate returns the built-in page template.
func DefaultTemplate() string {
	return defaultTemplate
}

// DefaultStylesheetCSS returns the built-in stylesheet.
func DefaultStylesheetCSS() []byte {
	return bytes.Clone(defaultStylesheet)
}

// Writer renders documents with fixed settings. It is safe for concurrent use.
type Writer struct {
	settings Settings
	md       goldmark.Markdown
}

// New returns a writer for settings.
func New(settings Settings) *Writer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&htmlTranslator{}, 100)),
		),
	)
	return &Writer{settings: settings, md: md}
}

// Settings returns the writer settings.
func (w *Writer) Settings() Settings {
	return w.settings
}

// RenderBody renders the document tree to an HTML fragment.
func (w *Writer) RenderBody(doc *reader.Document) (string, error) {
	var buf bytes.Buffer
	if err := w.md.Renderer().Render(&buf, doc.Source, doc.Root); err != nil {
		return "", fmt.Errorf("render body: %w", err)
	}
	return buf.String(), nil
}

// Write renders doc into a complete page in the configured output encoding.
func (w *Writer) Write(doc *reader.Document) ([]byte, error) {
	body, err := w.RenderBody(doc)
	if err != nil {
		return nil, err
	}

	stylesheet, err := w.stylesheet()
	if err != nil {
		return nil, err
	}

	tpl, err := w.template()
	if err != nil {
		return nil, err
	}

	subs := w.Substitutions(doc, body, stylesheet)

	var page string
	if isGoTemplate(w.settings.Template) {
		page, err = executeGoTemplate(filepath.Base(w.settings.Template), tpl, subs)
	} else {
		page, err = Substitute(tpl, subs)
	}
	if err != nil {
		return nil, fmt.Errorf("fill template: %w", err)
	}

	return encodeOutput(page, w.settings.OutputEncoding)
}

// Substitutions returns the template values for doc.
func (w *Writer) Substitutions(doc *reader.Document, body, stylesheet string) map[string]any {
	s := w.settings

	eepIndex := s.ErlangHome + "/eeps"
	if s.ErlangHome == ".." {
		eepIndex = "."
	}

	number := doc.Header.Number()
	title := doc.Header.Title()
	if title == "" {
		title = doc.Title
	}

	banner := 0
	if !s.NoRandom {
		banner = rand.IntN(BannerCount)
	}

	encodingName := s.OutputEncoding
	if encodingName == "" {
		encodingName = "utf-8"
	}

	return map[string]any{
		"encoding":    encodingName,
		"version":     version.Version,
		"stylesheet":  stylesheet,
		"erlhome":     s.ErlangHome,
		"eephome":     s.EEPHome,
		"eepindex":    eepIndex,
		"eep":         number,
		"eepnum":      eep.FormatNumber(number),
		"banner":      banner,
		"title":       title,
		"body":        body,
		"body_suffix": bodySuffix,
	}
}

func (w *Writer) template() (string, error) {
	if w.settings.Template == "" {
		return defaultTemplate, nil
	}
	data, err := os.ReadFile(w.settings.Template)
	if err != nil {
		return "", fmt.Errorf("read template: %w", err)
	}
	return string(data), nil
}

func (w *Writer) stylesheet() (string, error) {
	path := w.settings.StylesheetPath
	if path == "" {
		return "", nil
	}
	if !w.settings.EmbedStylesheet {
		return fmt.Sprintf("<link rel=\"stylesheet\" href=\"%s\" type=\"text/css\" />\n",
			util.EscapeHTML([]byte(path))), nil
	}

	css, err := w.StylesheetCSS()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<style type=\"text/css\">\n\n%s\n</style>\n", css), nil
}

// StylesheetCSS returns the contents of the configured stylesheet. A missing
// default stylesheet is replaced by the built-in one.
func (w *Writer) StylesheetCSS() ([]byte, error) {
	path := w.settings.StylesheetPath
	css, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || path != DefaultStylesheet {
			return nil, fmt.Errorf("read stylesheet: %w", err)
		}
		return DefaultStylesheetCSS(), nil
	}
	return css, nil
}
