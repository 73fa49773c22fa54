package csvimport

import (
	"sort"
	"strings"
)

// Ignore marks a source column that feeds no entity field.
const Ignore = "ignore"

// Column is an entity field that can be filled from an imported column.
type Column struct {
	Field    string `json:"field" yaml:"field"`
	Label    string `json:"label" yaml:"label"`
	Required bool   `json:"required" yaml:"required"`
}

// Mapping associates a source column index with a target field or Ignore.
// Mapping two columns onto the same field is allowed; the rightmost wins.
type Mapping map[int]string

// Record is a projected row: target field to raw cell value. Fields the
// mapping does not target are absent.
type Record map[string]string

// AutoMap maps each header to the column whose label matches it,
// ignoring case and surrounding whitespace.
func AutoMap(headers []string, columns []Column) Mapping {
	mapping := make(Mapping, len(headers))
	for i, header := range headers {
		mapping[i] = Ignore
		normalized := strings.ToLower(strings.TrimSpace(header))
		for _, col := range columns {
			if strings.ToLower(strings.TrimSpace(col.Label)) == normalized {
				mapping[i] = col.Field
				break
			}
		}
	}
	return mapping
}

// Valid reports whether every required column is the target of some source column.
func (m Mapping) Valid(columns []Column) bool {
	return len(m.Missing(columns)) == 0
}

// Missing lists the required fields no source column is mapped to.
func (m Mapping) Missing(columns []Column) []string {
	targets := make(map[string]struct{}, len(m))
	for _, field := range m {
		if field != Ignore && field != "" {
			targets[field] = struct{}{}
		}
	}

	missing := make([]string, 0)
	for _, col := range columns {
		if !col.Required {
			continue
		}
		if _, ok := targets[col.Field]; !ok {
			missing = append(missing, col.Field)
		}
	}
	return missing
}

// Override sets the target of a source column. An unknown field is rejected
// so a typo cannot silently drop data.
func (m Mapping) Override(index int, field string, columns []Column) bool {
	if field == Ignore {
		m[index] = Ignore
		return true
	}
	for _, col := range columns {
		if col.Field == field {
			m[index] = field
			return true
		}
	}
	return false
}

// Project turns every data row into a Record using mapping. Cells beyond the
// end of a short row read as empty strings.
func Project(table Table, mapping Mapping) []Record {
	indexes := make([]int, 0, len(mapping))
	for index := range mapping {
		if index >= 0 && index < len(table.Headers) {
			indexes = append(indexes, index)
		}
	}
	sort.Ints(indexes)

	records := make([]Record, 0, len(table.Rows))
	for _, row := range table.Rows {
		record := make(Record, len(indexes))
		for _, index := range indexes {
			field := mapping[index]
			if field == Ignore || field == "" {
				continue
			}
			value := ""
			if index < len(row) {
				value = row[index]
			}
			record[field] = value
		}
		records = append(records, record)
	}
	return records
}

// Has reports whether field is set to a non-blank value.
func (r Record) Has(field string) bool {
	value, ok := r[field]
	return ok && strings.TrimSpace(value) != ""
}
