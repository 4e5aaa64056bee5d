package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// The version suffix allows the hashed shape to change later.
const (
	DomainRuleTable = "holical/rules/v1"
	DomainCalendar  = "holical/calendar/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TableHash computes the content hash of a rule table.
//
// Entry attributes and order are hashed; Source positions are not, so the
// same table in CUE, YAML or XML hashes identically.
func TableHash(table *RuleTable) (string, error) {
	countries := make([]any, len(table.Countries))
	for i, set := range table.Countries {
		entries := make([]any, len(set.Entries))
		for j, e := range set.Entries {
			attrs := make(map[string]any, len(e.Attributes))
			for k, v := range e.Attributes {
				attrs[k] = v
			}
			entries[j] = attrs
		}
		countries[i] = map[string]any{
			"name":    set.Name,
			"entries": entries,
		}
	}

	canonical, err := MarshalCanonical(map[string]any{"countries": countries})
	if err != nil {
		return "", fmt.Errorf("TableHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRuleTable, canonical), nil
}

// CalendarHash computes the content hash of a calendar's days.
// The run ID is excluded, so two builds of the same inputs hash the same.
func CalendarHash(cal *CalendarYear) (string, error) {
	m := cal.ToCanonicalMap()
	delete(m, "run_id")

	canonical, err := MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("CalendarHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCalendar, canonical), nil
}

// MustTableHash is like TableHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTableHash(table *RuleTable) string {
	h, err := TableHash(table)
	if err != nil {
		panic(err)
	}
	return h
}
