package writer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
)

// placeholderPattern matches "%(name)s", "%(name)03d", "%(name).10s" and
// the "%%" escape.
var placeholderPattern = regexp.MustCompile(`%(?:\(([A-Za-z_][A-Za-z0-9_]*)\)([-0 +]*)(\d*)(\.\d*)?([sdi])|%)`)

// PlaceholderError reports a template placeholder that cannot be filled.
type PlaceholderError struct {
	Name   string
	Reason string
}

func (e *PlaceholderError) Error() string {
	return fmt.Sprintf("template placeholder %q: %s", e.Name, e.Reason)
}

// Substitute fills named placeholders in tpl from subs.
func Substitute(tpl string, subs map[string]any) (string, error) {
	var b strings.Builder
	b.Grow(len(tpl))

	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(tpl, -1) {
		if err := writeLiteral(&b, tpl[last:m[0]], last); err != nil {
			return "", err
		}
		last = m[1]

		if m[2] < 0 {
			b.WriteByte('%')
			continue
		}

		name := tpl[m[2]:m[3]]
		spec := "%" + tpl[m[4]:m[5]] + tpl[m[6]:m[7]]
		if m[8] >= 0 {
			spec += tpl[m[8]:m[9]]
		}
		verb := tpl[m[10]:m[11]]

		value, ok := subs[name]
		if !ok {
			return "", &PlaceholderError{Name: name, Reason: "no such key"}
		}

		formatted, err := formatValue(name, spec, verb, value)
		if err != nil {
			return "", err
		}
		b.WriteString(formatted)
	}
	if err := writeLiteral(&b, tpl[last:], last); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeLiteral(b *strings.Builder, s string, offset int) error {
	if i := strings.IndexByte(s, '%'); i >= 0 {
		return fmt.Errorf("unsupported format sequence at offset %d", offset+i)
	}
	b.WriteString(s)
	return nil
}

func formatValue(name, spec, verb string, value any) (string, error) {
	if verb == "s" {
		return fmt.Sprintf(spec+"s", fmt.Sprint(value)), nil
	}

	switch v := value.(type) {
	case int:
		return fmt.Sprintf(spec+"d", v), nil
	case int64:
		return fmt.Sprintf(spec+"d", v), nil
	case string:
		n, err := eep.ParseInt(v)
		if err != nil {
			return "", &PlaceholderError{Name: name, Reason: "a number is required"}
		}
		return fmt.Sprintf(spec+"d", n), nil
	default:
		return "", &PlaceholderError{Name: name, Reason: fmt.Sprintf("a number is required, not %T", value)}
	}
}

// isGoTemplate reports whether path names a text/template page template.
func isGoTemplate(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tmpl", ".gotmpl":
		return true
	}
	return false
}

func executeGoTemplate(name, tpl string, subs map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, subs); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}
