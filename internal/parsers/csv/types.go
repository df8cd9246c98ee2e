package csv

// Delimiter represents supported CSV delimiters.
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// Options represents CSV parser options. Zero-valued fields are filled in
// by detection (delimiter, encoding) or by DefaultOptions.
type Options struct {
	Delimiter     Delimiter
	HasHeader     bool
	SkipEmptyRows bool
	QuoteChar     rune
}

// DefaultOptions returns default CSV parser options.
func DefaultOptions() Options {
	return Options{
		HasHeader:     true,
		SkipEmptyRows: true,
		QuoteChar:     '"',
	}
}

// Table is a parsed CSV file: optional header row plus data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}
