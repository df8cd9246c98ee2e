// Package csv parses delimited dataset files with encoding and delimiter
// detection. It is schema-agnostic; callers map headers to fields.
package csv

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cargoplan/facility-service/internal/parsers/charset"
)

// Parse parses raw file content into a Table. Encoding is detected and
// normalized to UTF-8; the delimiter is detected when not set in opts.
func Parse(content []byte, opts Options) (*Table, error) {
	if opts.QuoteChar == 0 {
		opts.QuoteChar = '"'
	}

	decoded, err := charset.Decode(content, charset.DetectEncoding(content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	if opts.Delimiter == "" {
		opts.Delimiter = DetectDelimiter(decoded)
	}
	delim, _ := utf8.DecodeRuneInString(string(opts.Delimiter))

	table := &Table{}
	for _, line := range strings.Split(decoded, "\n") {
		line = strings.TrimRight(line, "\r")
		if opts.SkipEmptyRows && strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line, delim, opts.QuoteChar)
		if opts.HasHeader && table.Headers == nil {
			for i := range fields {
				fields[i] = strings.TrimSpace(fields[i])
			}
			table.Headers = fields
			continue
		}
		table.Rows = append(table.Rows, fields)
	}

	return table, nil
}

// Index resolves a column by any of the given header names,
// case-insensitively. Returns an error naming the first candidate when no
// header matches.
func (t *Table) Index(names ...string) (int, error) {
	for _, name := range names {
		for i, h := range t.Headers {
			if strings.EqualFold(h, name) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("missing column %q (headers: %s)", names[0], strings.Join(t.Headers, ", "))
}

// splitLine splits one CSV line handling quoted fields and doubled quotes.
func splitLine(line string, delimiter, quoteChar rune) []string {
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inQuotes && r == quoteChar:
			if i+1 < len(runes) && runes[i+1] == quoteChar {
				current.WriteRune(quoteChar)
				i++
			} else {
				inQuotes = false
			}
		case inQuotes:
			current.WriteRune(r)
		case r == quoteChar:
			inQuotes = true
		case r == delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())
	return fields
}
