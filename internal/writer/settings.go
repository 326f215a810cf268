package writer

// DefaultStylesheet is the stylesheet file name linked from rendered pages.
const DefaultStylesheet = "eep.css"

// Settings configures HTML output.
type Settings struct {
	// Template is the page template file. Empty selects the built-in template.
	Template string
	// StylesheetPath is linked from the page, or read and inlined when
	// EmbedStylesheet is set. An unreadable default is replaced by the
	// built-in stylesheet.
	StylesheetPath  string
	EmbedStylesheet bool

	ErlangHome string
	EEPHome    string

	// NoRandom pins the banner number to 0 for reproducible output.
	NoRandom bool

	OutputEncoding string
}

// DefaultSettings returns the EEP writer defaults.
func DefaultSettings() Settings {
	return Settings{
		StylesheetPath: DefaultStylesheet,
		ErlangHome:     "http://www.erlang.org",
		EEPHome:        ".",
		OutputEncoding: "utf-8",
	}
}
