package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geritapp/gerit/internal/csvimport"
)

// loadMapping reads a YAML mapping file. Each key names a source column by
// zero-based index or by header, each value the target field; a null value
// ignores the column.
//
//	0: nome
//	E-mail: email
//	Observações: ~
func loadMapping(path string, headers []string) (csvimport.Mapping, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return parseMapping(raw, headers)
}

func parseMapping(raw []byte, headers []string) (csvimport.Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if len(doc.Content) == 0 {
		return csvimport.Mapping{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse mapping: line %d: expected a map of column to field", root.Line)
	}

	mapping := make(csvimport.Mapping, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse mapping: line %d: field must be a string", value.Line)
		}

		index, err := columnIndex(key.Value, headers)
		if err != nil {
			return nil, fmt.Errorf("parse mapping: line %d: %w", key.Line, err)
		}

		field := strings.TrimSpace(value.Value)
		if value.ShortTag() == "!!null" || field == "" {
			field = csvimport.Ignore
		}
		mapping[index] = field
	}
	return mapping, nil
}

func columnIndex(key string, headers []string) (int, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if n < 0 || n >= len(headers) {
			return 0, fmt.Errorf("column %d out of range (file has %d)", n, len(headers))
		}
		return n, nil
	}

	want := strings.ToLower(strings.TrimSpace(key))
	for i, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no column named %q", key)
}
