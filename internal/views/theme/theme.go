package theme

import "strings"

// Option represents a selectable print theme.
type Option struct {
	Value string
	Label string
}

// PrintTheme contains the styling primitives for a printable shopping list.
type PrintTheme struct {
	Key           string
	BodyClass     string
	HeadingClass  string
	CategoryClass string
	ItemClass     string
	NoteClass     string
	Stylesheet    string
}

const (
	// DefaultKey defines the fallback theme when none is requested.
	DefaultKey = "standard"
)

var catalogue = map[string]PrintTheme{
	"standard": {
		Key:           "standard",
		BodyClass:     "print-body",
		HeadingClass:  "print-heading",
		CategoryClass: "print-category",
		ItemClass:     "print-item",
		NoteClass:     "print-note",
		Stylesheet:    "body{font-family:sans-serif;font-size:12pt;margin:2em}li{margin:.25em 0}.print-note{color:#555}",
	},
	"compact": {
		Key:           "compact",
		BodyClass:     "print-body compact",
		HeadingClass:  "print-heading",
		CategoryClass: "print-category",
		ItemClass:     "print-item",
		NoteClass:     "print-note",
		Stylesheet:    "body{font-family:sans-serif;font-size:9pt;margin:1em;columns:2}li{margin:0}.print-note{color:#555}",
	},
	"large_print": {
		Key:           "large_print",
		BodyClass:     "print-body large",
		HeadingClass:  "print-heading",
		CategoryClass: "print-category",
		ItemClass:     "print-item",
		NoteClass:     "print-note",
		Stylesheet:    "body{font-family:sans-serif;font-size:18pt;margin:2em}li{margin:.5em 0}.print-note{color:#333}",
	},
}

var options = []Option{
	{Value: "standard", Label: "Standard"},
	{Value: "compact", Label: "Compact (two columns)"},
	{Value: "large_print", Label: "Large print"},
}

// Resolve returns the registered theme for key, falling back to the default.
func Resolve(key string) PrintTheme {
	normalized := strings.ToLower(strings.TrimSpace(key))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	if value, ok := catalogue[normalized]; ok {
		return value
	}
	return catalogue[DefaultKey]
}

// Options exposes the available theme selections.
func Options() []Option {
	return options
}
