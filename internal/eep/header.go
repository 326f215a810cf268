package eep

import (
	"bytes"
	"strings"
)

// Field is a single header field. Continuation lines are folded into Value.
type Field struct {
	Name  string
	Value string
}

// Header is the ordered RFC-2822 field block at the top of an EEP.
type Header struct {
	Fields []Field
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.Fields)
}

// Get returns the value of the first field named name (case-insensitive).
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Number returns the raw value of the first field, which for an EEP is the
// proposal number.
func (h Header) Number() string {
	if len(h.Fields) == 0 {
		return ""
	}
	return h.Fields[0].Value
}

// Title returns the raw value of the second field.
func (h Header) Title() string {
	if len(h.Fields) < 2 {
		return ""
	}
	return h.Fields[1].Value
}

// SplitHeader separates the leading RFC-2822 field block from the body.
//
// The block ends at the first blank line or at end of input. If the first
// line is not a "Name: value" field the header is empty and body is src.
func SplitHeader(src []byte) (Header, []byte, error) {
	var h Header
	rest := src
	offset := 0

	for len(rest) > 0 {
		line, next := cutLine(rest)
		trimmed := strings.TrimRight(string(line), "\r\n")

		if strings.TrimSpace(trimmed) == "" {
			if len(h.Fields) == 0 {
				return Header{}, src, nil
			}
			offset += len(rest) - len(next)
			return h, src[offset:], nil
		}

		if trimmed[0] == ' ' || trimmed[0] == '\t' {
			if len(h.Fields) == 0 {
				return Header{}, src, nil
			}
			last := &h.Fields[len(h.Fields)-1]
			cont := strings.TrimSpace(trimmed)
			if last.Value == "" {
				last.Value = cont
			} else {
				last.Value += " " + cont
			}
		} else {
			name, value, ok := parseFieldLine(trimmed)
			if !ok {
				if len(h.Fields) == 0 {
					return Header{}, src, nil
				}
				return Header{}, nil, &MalformedHeaderError{Line: trimmed}
			}
			h.Fields = append(h.Fields, Field{Name: name, Value: value})
		}

		offset += len(rest) - len(next)
		rest = next
	}

	return h, src[offset:], nil
}

// MalformedHeaderError reports a header line that is neither a field nor a
// continuation.
type MalformedHeaderError struct {
	Line string
}

func (e *MalformedHeaderError) Error() string {
	return "malformed header line: " + e.Line
}

func cutLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i+1], b[i+1:]
	}
	return b, nil
}

// parseFieldLine splits "Name: value". Field names are printable ASCII
// without spaces or colons, as in RFC 2822 section 2.2.
func parseFieldLine(line string) (string, string, bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}
	name := line[:idx]
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c > '~' {
			return "", "", false
		}
	}
	return name, strings.TrimSpace(line[idx+1:]), true
}
