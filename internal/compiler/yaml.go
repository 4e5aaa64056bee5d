package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/holical/internal/ir"
)

// knownAttrs are the attributes accepted on a date entry.
var knownAttrs = map[string]bool{
	ir.AttrName:   true,
	ir.AttrValue:  true,
	ir.AttrOffset: true,
	ir.AttrIf:     true,
	ir.AttrType:   true,
}

type yamlTable struct {
	Countries []yamlCountry `yaml:"countries"`
}

type yamlCountry struct {
	Name  string      `yaml:"name"`
	Dates []yaml.Node `yaml:"dates"`
}

// DecodeYAML decodes a YAML rule table with the same shape as the CUE form.
// Unknown keys are rejected at every level.
func DecodeYAML(data []byte, filename string) (*ir.RuleTable, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var doc yamlTable
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty rule table", filename)
		}
		return nil, fmt.Errorf("%s: parse YAML: %w", filename, err)
	}

	table := &ir.RuleTable{}
	for i, c := range doc.Countries {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: countries[%d]: country name is required", filename, i)
		}
		set := ir.CountrySet{Name: c.Name}
		for j := range c.Dates {
			entry, err := yamlEntry(&c.Dates[j], filename)
			if err != nil {
				return nil, fmt.Errorf("%s: countries[%d].dates[%d]: %w", filename, i, j, err)
			}
			set.Entries = append(set.Entries, entry)
		}
		table.Countries = append(table.Countries, set)
	}

	return table, nil
}

func yamlEntry(node *yaml.Node, filename string) (ir.RawEntry, error) {
	if node.Kind != yaml.MappingNode {
		return ir.RawEntry{}, fmt.Errorf("line %d: date entry must be a mapping", node.Line)
	}

	entry := ir.RawEntry{
		Attributes: make(map[string]string),
		Source:     fmt.Sprintf("%s:%d", filename, node.Line),
	}
	for k := 0; k+1 < len(node.Content); k += 2 {
		key, val := node.Content[k], node.Content[k+1]
		if !knownAttrs[key.Value] {
			return ir.RawEntry{}, fmt.Errorf("line %d: unknown attribute %q", key.Line, key.Value)
		}
		if val.Kind != yaml.ScalarNode {
			return ir.RawEntry{}, fmt.Errorf("line %d: attribute %q must be a scalar", val.Line, key.Value)
		}
		entry.Attributes[key.Value] = val.Value
	}

	return entry, nil
}
