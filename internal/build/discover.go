package build

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
)

// SourceExt is the extension of EEP source files.
const SourceExt = ".md"

// Source is one discovered EEP source file.
type Source struct {
	Path   string // full path
	Name   string // base name, e.g. eep-0042.md
	Number int
}

// PageName returns the output file name, e.g. eep-0042.html.
func (s Source) PageName() string {
	return eep.FileName(s.Number) + ".html"
}

// Discover lists the eep-NNNN.md files directly inside dir, ordered by number.
func Discover(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var sources []Source
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, SourceExt) {
			continue
		}
		n, ok := eep.ParseFileName(name)
		if !ok || name != eep.FileName(n)+SourceExt {
			continue
		}
		sources = append(sources, Source{
			Path:   filepath.Join(dir, name),
			Name:   name,
			Number: n,
		})
	}
	slices.SortFunc(sources, func(a, b Source) int { return a.Number - b.Number })
	return sources, nil
}
