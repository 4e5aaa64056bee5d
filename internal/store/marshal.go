package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/holical/internal/ir"
)

// marshalDate stores a date as ISO TEXT.
func marshalDate(d ir.Date) string {
	return d.String()
}

// marshalOptionalDate stores nil as SQL NULL.
func marshalOptionalDate(d *ir.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

// unmarshalDate parses a stored ISO date.
func unmarshalDate(s string) (ir.Date, error) {
	d, err := ir.ParseDate(s)
	if err != nil {
		return ir.Date{}, fmt.Errorf("unmarshal date: %w", err)
	}
	return d, nil
}

// unmarshalOptionalDate parses a nullable stored date.
func unmarshalOptionalDate(ns sql.NullString) (*ir.Date, error) {
	if !ns.Valid {
		return nil, nil
	}
	d, err := unmarshalDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
