package writer

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// encodeOutput converts UTF-8 page text to the named encoding. Characters
// the target encoding cannot represent become numeric character references.
func encodeOutput(s, name string) ([]byte, error) {
	if isUTF8(name) {
		return []byte(s), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("output encoding %q: %w", name, err)
	}
	out, err := encoding.HTMLEscapeUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode output as %s: %w", name, err)
	}
	return out, nil
}

func isUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}
