// Package publisher connects a reader and a writer: parse, transform, render.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/eepbuilder/internal/reader"
	"git.home.luguber.info/inful/eepbuilder/internal/writer"
)

// Publisher renders source documents to pages.
type Publisher struct {
	Reader *reader.Reader
	Writer *writer.Writer
}

// New returns a publisher for the given reader and writer.
func New(r *reader.Reader, w *writer.Writer) *Publisher {
	return &Publisher{Reader: r, Writer: w}
}

// NewEEP returns a publisher using the EEP reader and writer.
func NewEEP(rs reader.Settings, ws writer.Settings) *Publisher {
	return New(reader.NewEEP(rs), writer.New(ws))
}

// Publish renders src. path is recorded on the document and may be empty.
func (p *Publisher) Publish(src []byte, path string) ([]byte, *reader.Document, error) {
	doc, err := p.Reader.Read(src, reader.WithPath(path))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", displayName(path), err)
	}
	out, err := p.Writer.Write(doc)
	if err != nil {
		return nil, doc, fmt.Errorf("write %s: %w", displayName(path), err)
	}
	return out, doc, nil
}

// PublishFile renders the file at in and writes the page to out. An empty
// out writes to stdout.
func (p *Publisher) PublishFile(ctx context.Context, in, out string) (*reader.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	page, doc, err := p.Publish(src, in)
	if err != nil {
		return doc, err
	}

	if out == "" || out == "-" {
		_, err = os.Stdout.Write(page)
		return doc, err
	}

	if err := WriteFileAtomic(out, page); err != nil {
		return doc, err
	}
	slog.Debug("Published document", "source", in, "output", out, "bytes", len(page))
	return doc, nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers never see a partial page.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

func displayName(path string) string {
	if path == "" {
		return "<input>"
	}
	return path
}
