package reader

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
	"git.home.luguber.info/inful/eepbuilder/internal/nodes"
)

var (
	// ErrNoHeader is returned for a document without an RFC-2822 header block.
	ErrNoHeader = errors.New("document does not begin with an RFC-2822 header; it is not an EEP")
	// ErrNoEEPField is returned when the first header field is not "EEP".
	ErrNoEEPField = errors.New("document does not contain an RFC-2822 'EEP' header")
)

// LastModifiedLayout is the display format of a resolved Last-Modified date.
const LastModifiedLayout = "2006-01-02 15:04:05 -0700 (Mon, 02 Jan 2006)"

var (
	mailboxPattern  = regexp.MustCompile(`^(.*?)\s*<([^<>\s]+@[^<>\s]+)>$`)
	datePattern     = regexp.MustCompile(`^\$Date(?::\s*(.*?))?\s*\$$`)
	revisionPattern = regexp.MustCompile(`^\$Revision(?::\s*(.*?))?\s*\$$`)
	listSeparator   = regexp.MustCompile(`[,\s]+`)
)

// Headers validates the RFC-2822 header and inserts it at the top of the
// tree as a field list with class "rfc2822".
func Headers() Transform {
	return transformFunc{name: NameHeaders, priority: 360, fn: applyHeaders}
}

func applyHeaders(doc *ast.Document, tc *Context) {
	h := tc.Header
	if h.Len() == 0 {
		tc.Fail(ErrNoHeader)
		return
	}
	if !strings.EqualFold(h.Fields[0].Name, "EEP") {
		tc.Fail(ErrNoEEPField)
		return
	}
	if _, err := eep.ParseInt(h.Number()); err != nil {
		slog.Debug("EEP number is not an integer; using it verbatim", "path", tc.Path, "eep", h.Number())
	}

	tc.Title = h.Title()

	list := nodes.NewFieldList(nodes.ClassRFC2822)
	for i := range h.Fields {
		f := &h.Fields[i]
		field := nodes.NewField(f.Name)

		switch strings.ToLower(f.Name) {
		case "author", "discussions-to":
			appendMailboxes(field, f.Value)
		case "replaces", "superseded-by", "requires":
			appendEEPList(field, f.Value, tc.Settings)
		case "last-modified":
			f.Value = lastModified(f.Value, tc)
			appendText(field, f.Value)
		case "version":
			f.Value = stripKeyword(revisionPattern, f.Value)
			appendText(field, f.Value)
		default:
			appendText(field, f.Value)
		}
		list.AppendChild(list, field)
	}
	insertFirst(doc, list)
}

func lastModified(value string, tc *Context) string {
	value = stripKeyword(datePattern, value)
	if value != "" || tc.Settings.LastModified == nil || tc.Path == "" {
		return value
	}
	when, err := tc.Settings.LastModified.LastModified(tc.Path)
	if err != nil {
		slog.Debug("Could not resolve Last-Modified", "path", tc.Path, "error", err)
		return value
	}
	if when.IsZero() {
		return value
	}
	return when.Format(LastModifiedLayout)
}

// stripKeyword turns "$Keyword: value $" into "value" and "$Keyword$" into "".
func stripKeyword(pattern *regexp.Regexp, value string) string {
	m := pattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return value
	}
	return strings.TrimSpace(m[1])
}

func appendText(parent ast.Node, s string) {
	if s == "" {
		return
	}
	parent.AppendChild(parent, ast.NewString([]byte(s)))
}

func appendLink(parent ast.Node, dest, label string) {
	link := ast.NewLink()
	link.Destination = []byte(dest)
	link.AppendChild(link, ast.NewString([]byte(label)))
	parent.AppendChild(parent, link)
}

func appendMailboxes(field *nodes.Field, value string) {
	entries := strings.Split(value, ",")
	first := true
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !first {
			appendText(field, ", ")
		}
		first = false

		switch {
		case mailboxPattern.MatchString(entry):
			m := mailboxPattern.FindStringSubmatch(entry)
			name, addr := strings.TrimSpace(m[1]), m[2]
			if name == "" {
				appendLink(field, "mailto:"+addr, eep.MaskEmail(addr))
				continue
			}
			appendText(field, name+" <")
			appendLink(field, "mailto:"+addr, eep.MaskEmail(addr))
			appendText(field, ">")
		case strings.HasPrefix(entry, "http://") || strings.HasPrefix(entry, "https://"):
			appendLink(field, entry, entry)
		case strings.Contains(entry, "@") && !strings.ContainsAny(entry, " \t"):
			appendLink(field, "mailto:"+entry, eep.MaskEmail(entry))
		default:
			appendText(field, entry)
		}
	}
}

func appendEEPList(field *nodes.Field, value string, settings Settings) {
	first := true
	for _, tok := range listSeparator.Split(strings.TrimSpace(value), -1) {
		if tok == "" {
			continue
		}
		if !first {
			appendText(field, ", ")
		}
		first = false

		n, err := eep.ParseInt(tok)
		if err != nil || n < 0 {
			appendText(field, tok)
			continue
		}
		appendLink(field, settings.EEPURL(n), tok)
	}
}

// staticResolver is a LastModifiedResolver returning a fixed time; used by tests
// and by callers rendering from memory.
type staticResolver time.Time

func (s staticResolver) LastModified(string) (time.Time, error) {
	return time.Time(s), nil
}

// FixedLastModified returns a resolver that always answers t.
func FixedLastModified(t time.Time) LastModifiedResolver {
	return staticResolver(t)
}
