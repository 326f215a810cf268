package eep

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single digit", "1", "0001"},
		{"two digits", "42", "0042"},
		{"four digits", "1234", "1234"},
		{"wider than four", "12345", "12345"},
		{"already padded", "0007", "0007"},
		{"surrounding whitespace", " 9 ", "0009"},
		{"zero", "0", "0000"},
		{"non numeric kept verbatim", "draft", "draft"},
		{"mixed kept verbatim", "12a", "12a"},
		{"empty kept verbatim", "", ""},
		{"whitespace kept verbatim", "  ", "  "},
		{"underscore separator", "1_000", "1000"},
		{"explicit sign", "+7", "0007"},
		{"arabic-indic digits", "\u0664\u0662", "0042"},
		{"fullwidth digits", "\uff14\uff12", "0042"},
		{"leading underscore kept verbatim", "_42", "_42"},
		{"double underscore kept verbatim", "4__2", "4__2"},
		{"trailing underscore kept verbatim", "42_", "42_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatNumber(tt.raw))
		})
	}
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt(" -1_2 ")
	require.NoError(t, err)
	require.Equal(t, -12, n)

	n, err = ParseInt("\U0001D7D7") // MATHEMATICAL BOLD DIGIT NINE
	require.NoError(t, err)
	require.Equal(t, 9, n)

	for _, raw := range []string{"", "-", "+_1", "1 2", "0x10", "12a"} {
		_, err := ParseInt(raw)
		require.ErrorIs(t, err, ErrNotInteger, raw)
	}
}

func TestFileName(t *testing.T) {
	require.Equal(t, "eep-0000", FileName(0))
	require.Equal(t, "eep-0049", FileName(49))
}

func TestParseFileName(t *testing.T) {
	n, ok := ParseFileName("eep-0049.md")
	require.True(t, ok)
	require.Equal(t, 49, n)

	_, ok = ParseFileName("README.md")
	require.False(t, ok)

	_, ok = ParseFileName("eep-abc.md")
	require.False(t, ok)

	_, ok = ParseFileName("eep-.md")
	require.False(t, ok)
}

func TestMaskEmail(t *testing.T) {
	require.Equal(t, "raimo at erlang dot org", MaskEmail("raimo@erlang.org"))
}
