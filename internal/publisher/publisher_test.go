package publisher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/writer"
)

func newTestPublisher() *Publisher {
	ws := writer.DefaultSettings()
	ws.NoRandom = true
	return NewEEP(reader.DefaultSettings(), ws)
}

func TestPublish(t *testing.T) {
	out, doc, err := newTestPublisher().Publish([]byte("EEP: 3\nTitle: Three\n\nBody text.\n"), "")
	require.NoError(t, err)
	require.Equal(t, "Three", doc.Title)
	require.Contains(t, string(out), "<title>EEP 3 -- Three</title>")
	require.Contains(t, string(out), "<p>Body text.</p>")
}

func TestPublish_ReadError(t *testing.T) {
	_, _, err := newTestPublisher().Publish([]byte("no header here\n"), "eep-0009.md")
	require.ErrorIs(t, err, reader.ErrNoHeader)
	require.Contains(t, err.Error(), "eep-0009.md")
}

func TestPublishFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "eep-0003.md")
	out := filepath.Join(dir, "html", "eep-0003.html")
	require.NoError(t, os.WriteFile(in, []byte("EEP: 3\nTitle: Three\n\nBody.\n"), 0o600))

	doc, err := newTestPublisher().PublishFile(context.Background(), in, out)
	require.NoError(t, err)
	require.Equal(t, in, doc.Path)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "EEP 3 -- Three")

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
}

func TestPublishFile_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPublisher().PublishFile(ctx, "unused", "unused")
	require.ErrorIs(t, err, context.Canceled)
}
