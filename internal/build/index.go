package build

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
	"git.home.luguber.info/inful/eepbuilder/internal/reader"
)

// IndexNumber is the EEP number of the generated index.
const IndexNumber = 0

// IndexEntry summarizes one proposal for the index.
type IndexEntry struct {
	Number  int
	Title   string
	Type    string
	Status  string
	Authors []string
}

// statusOrder lists index sections in display order. Other statuses follow
// alphabetically.
var statusOrder = []string{"Active", "Accepted", "Draft", "Final", "Deferred", "Replaced", "Rejected", "Withdrawn"}

// NewIndexEntry extracts the index fields of header for EEP n.
func NewIndexEntry(n int, h eep.Header) IndexEntry {
	e := IndexEntry{Number: n, Title: h.Title()}
	e.Type, _ = h.Get("Type")
	e.Status, _ = h.Get("Status")
	if e.Status == "" {
		e.Status = "Unknown"
	}
	if authors, ok := h.Get("Author"); ok {
		for _, a := range strings.Split(authors, ",") {
			if name := authorName(a); name != "" {
				e.Authors = append(e.Authors, name)
			}
		}
	}
	return e
}

// authorName drops the address from "Name <addr>".
func authorName(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '<'); i > 0 {
		return strings.TrimSpace(s[:i])
	}
	if strings.Contains(s, "@") {
		return eep.MaskEmail(s)
	}
	return s
}

// IndexSource renders the EEP 0 source document listing entries, grouped by
// status. The result goes through the normal EEP pipeline.
func IndexSource(entries []IndexEntry, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "EEP: %d\n", IndexNumber)
	b.WriteString("Title: Index of Erlang Enhancement Proposals (EEPs)\n")
	b.WriteString("Version: 1\n")
	fmt.Fprintf(&b, "Last-Modified: %s\n", now.UTC().Format(reader.LastModifiedLayout))
	b.WriteString("Author: The EEP editors\n")
	b.WriteString("Status: Active\n")
	b.WriteString("Type: Process\n")
	b.WriteString("Content-Type: text/markdown\n")
	fmt.Fprintf(&b, "Created: %s\n", now.UTC().Format("02-Jan-2006"))
	b.WriteString("\n")

	b.WriteString("Introduction\n============\n\n")
	b.WriteString("This index lists every Erlang Enhancement Proposal in this\n")
	b.WriteString("collection, grouped by status. It is generated at build time.\n\n")

	groups := map[string][]IndexEntry{}
	for _, e := range entries {
		if e.Number == IndexNumber {
			continue
		}
		groups[e.Status] = append(groups[e.Status], e)
	}

	for _, status := range statusSections(groups) {
		list := groups[status]
		slices.SortFunc(list, func(a, b IndexEntry) int { return cmp.Compare(a.Number, b.Number) })

		fmt.Fprintf(&b, "%s\n%s\n\n", status, strings.Repeat("=", len(status)))
		b.WriteString("| Type | EEP | Title | Owner(s) |\n")
		b.WriteString("|:----:|----:|:------|:---------|\n")
		for _, e := range list {
			fmt.Fprintf(&b, "| %s | [%d](%s.html) | %s | %s |\n",
				cell(typeAbbrev(e.Type)),
				e.Number, eep.FileName(e.Number),
				cell(e.Title),
				cell(strings.Join(e.Authors, ", ")))
		}
		b.WriteString("\n")
	}

	if len(groups) == 0 {
		b.WriteString("No proposals have been published yet.\n")
	}
	return []byte(b.String())
}

func statusSections(groups map[string][]IndexEntry) []string {
	var out []string
	for _, s := range statusOrder {
		if len(groups[s]) > 0 {
			out = append(out, s)
		}
	}
	var rest []string
	for s := range groups {
		if !slices.Contains(statusOrder, s) {
			rest = append(rest, s)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// typeAbbrev returns the one-letter type code used in the index tables.
func typeAbbrev(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	if _, err := strconv.Atoi(t); err == nil {
		return t
	}
	return strings.ToUpper(t[:1])
}

// cell escapes text for a GFM table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
