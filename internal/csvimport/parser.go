package csvimport

import (
	"errors"
	"strings"
)

// Delimiters are the candidate column separators, in preference order.
var Delimiters = []rune{';', ',', '\t'}

var ErrNotEnoughLines = errors.New("file must contain a header and at least one data row")

// Table is a parsed delimited file: the header row plus the data rows,
// positionally aligned to the header.
type Table struct {
	Delimiter rune
	Headers   []string
	Rows      [][]string
}

// Parse splits text into lines, drops blank ones and parses the rest with the
// delimiter detected on the header line.
func Parse(text string) (Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")

	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	if len(lines) < 2 {
		return Table{}, ErrNotEnoughLines
	}

	delimiter := DetectDelimiter(lines[0])
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, ParseRow(line, delimiter))
	}

	return Table{
		Delimiter: delimiter,
		Headers:   ParseRow(lines[0], delimiter),
		Rows:      rows,
	}, nil
}

// DetectDelimiter picks the candidate that occurs most often in line.
// Ties keep the earlier candidate; no match at all yields ';'.
func DetectDelimiter(line string) rune {
	detected := Delimiters[0]
	maxCount := 0
	for _, d := range Delimiters {
		count := strings.Count(line, string(d))
		if count > maxCount {
			maxCount = count
			detected = d
		}
	}
	return detected
}

// ParseRow splits a single line on delimiter, honoring double-quoted spans.
// An unterminated quote runs to the end of the line.
func ParseRow(line string, delimiter rune) []string {
	runes := []rune(line)
	fields := make([]string, 0, 8)

	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

func cleanField(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, `"`)
	value = strings.TrimSuffix(value, `"`)
	return value
}
