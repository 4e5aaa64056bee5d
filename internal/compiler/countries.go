package compiler

import "github.com/roach88/holical/internal/ir"

// ListCountries returns the distinct country names of table in first-seen
// order. Names are NFC-normalized before comparison.
func ListCountries(table *ir.RuleTable) []string {
	seen := make(map[string]bool)
	var names []string
	for _, set := range table.Countries {
		name := ir.NormalizeName(set.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// HasCountry reports whether table holds a country set named country.
func HasCountry(table *ir.RuleTable, country string) bool {
	return containsName(ListCountries(table), country)
}
