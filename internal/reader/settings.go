package reader

import (
	"fmt"
	"time"
)

// LastModifiedResolver supplies a modification time for a source file when
// its header does not carry one.
type LastModifiedResolver interface {
	LastModified(path string) (time.Time, error)
}

// Settings configures parsing and the document transforms.
type Settings struct {
	// EEPReferences turns "EEP 42" in body text into links.
	EEPReferences bool
	// RFCReferences turns "RFC 2822" in body text into links.
	RFCReferences bool

	EEPBaseURL         string
	EEPFileURLTemplate string
	RFCBaseURL         string
	RFCFileURLTemplate string

	// TOC inserts a table of contents after the header.
	TOC bool
	// StripComments removes HTML comment blocks from the tree.
	StripComments bool

	LastModified LastModifiedResolver
}

// DefaultSettings returns the settings used by the EEP reader. EEP and RFC
// references are on by default.
func DefaultSettings() Settings {
	return Settings{
		EEPReferences:      true,
		RFCReferences:      true,
		EEPBaseURL:         "./",
		EEPFileURLTemplate: "eep-%04d.html",
		RFCBaseURL:         "https://www.rfc-editor.org/rfc/",
		RFCFileURLTemplate: "rfc%d.html",
		TOC:                true,
	}
}

// EEPURL returns the link target for EEP n.
func (s Settings) EEPURL(n int) string {
	return s.EEPBaseURL + fmt.Sprintf(s.EEPFileURLTemplate, n)
}

// RFCURL returns the link target for RFC n.
func (s Settings) RFCURL(n int) string {
	return s.RFCBaseURL + fmt.Sprintf(s.RFCFileURLTemplate, n)
}
