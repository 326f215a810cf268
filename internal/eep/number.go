package eep

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrNotInteger is returned by ParseInt for text that is not a decimal integer.
var ErrNotInteger = errors.New("not a decimal integer")

// ParseInt parses a decimal integer the way header values have always been
// read: surrounding whitespace is ignored, an optional sign is allowed,
// single underscores may separate digits, and any Unicode decimal digit
// counts.
func ParseInt(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	var b strings.Builder
	if s != "" && (s[0] == '+' || s[0] == '-') {
		b.WriteByte(s[0])
		s = s[1:]
	}
	digits := 0
	underscore := false
	for _, r := range s {
		if r == '_' {
			if digits == 0 || underscore {
				return 0, fmt.Errorf("%q: %w", raw, ErrNotInteger)
			}
			underscore = true
			continue
		}
		d, ok := digitValue(r)
		if !ok {
			return 0, fmt.Errorf("%q: %w", raw, ErrNotInteger)
		}
		b.WriteByte('0' + d)
		digits++
		underscore = false
	}
	if digits == 0 || underscore {
		return 0, fmt.Errorf("%q: %w", raw, ErrNotInteger)
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, fmt.Errorf("%q: %w", raw, err)
	}
	return n, nil
}

// digitValue returns the value of a Unicode decimal digit. Decimal digits
// are encoded in contiguous runs of complete 0-9 sequences.
func digitValue(r rune) (byte, bool) {
	if r >= '0' && r <= '9' {
		return byte(r - '0'), true
	}
	if !unicode.IsDigit(r) {
		return 0, false
	}
	start := r
	for unicode.IsDigit(start - 1) {
		start--
	}
	return byte((r - start) % 10), true
}

// FormatNumber renders an EEP number for file names and titles.
// Integers are zero-padded to four digits; anything else is returned as-is.
func FormatNumber(raw string) string {
	n, err := ParseInt(raw)
	if err != nil {
		return raw
	}
	return fmt.Sprintf("%04d", n)
}

// FileName returns the base name (without extension) used for EEP n.
func FileName(n int) string {
	return fmt.Sprintf("eep-%04d", n)
}

// ParseFileName extracts the number from a base name like "eep-0042.md".
func ParseFileName(name string) (int, bool) {
	base := strings.TrimPrefix(name, "eep-")
	if base == name {
		return 0, false
	}
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if base == "" {
		return 0, false
	}
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaskEmail returns a display form of addr that is harder to harvest.
func MaskEmail(addr string) string {
	r := strings.NewReplacer("@", " at ", ".", " dot ")
	return r.Replace(addr)
}
