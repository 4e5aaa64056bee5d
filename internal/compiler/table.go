package compiler

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/holical/internal/ir"
)

//go:embed schema.cue
var schemaSource string

// DecodeCUE compiles a CUE rule table and extracts it into an ir.RuleTable.
//
// The document must unify with the #Table definition of the embedded schema:
//
//	countries: [{
//		name: "United States of America"
//		dates: [
//			{name: "New Year's Day", value: "*/1/1"},
//			{name: "Thanksgiving", value: "*/4/thu/nov"},
//		]
//	}]
//
// Unknown attributes are rejected. Missing name or value is left to
// RecordsFor so that one bad entry does not hide the rest.
func DecodeCUE(data []byte, filename string) (*ir.RuleTable, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Table")).Unify(v)
	if err := unified.Validate(); err != nil {
		return nil, formatCUEError(err)
	}

	return CompileTable(v)
}

// CompileTable extracts a rule table from an already compiled CUE value.
// Attribute positions are recorded as RawEntry.Source.
func CompileTable(v cue.Value) (*ir.RuleTable, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	countriesVal := v.LookupPath(cue.ParsePath("countries"))
	if !countriesVal.Exists() {
		return nil, &CompileError{
			Field:   "countries",
			Message: "countries is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := countriesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	table := &ir.RuleTable{}
	for iter.Next() {
		set, err := compileCountry(iter.Value())
		if err != nil {
			return nil, err
		}
		table.Countries = append(table.Countries, set)
	}

	return table, nil
}

func compileCountry(v cue.Value) (ir.CountrySet, error) {
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return ir.CountrySet{}, &CompileError{
			Field:   "country.name",
			Message: "country name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return ir.CountrySet{}, formatCUEError(err)
	}

	set := ir.CountrySet{Name: name}

	datesVal := v.LookupPath(cue.ParsePath("dates"))
	if !datesVal.Exists() {
		return set, nil
	}

	iter, err := datesVal.List()
	if err != nil {
		return ir.CountrySet{}, formatCUEError(err)
	}
	for iter.Next() {
		entry, err := compileEntry(iter.Value())
		if err != nil {
			return ir.CountrySet{}, err
		}
		set.Entries = append(set.Entries, entry)
	}

	return set, nil
}

func compileEntry(v cue.Value) (ir.RawEntry, error) {
	entry := ir.RawEntry{
		Attributes: make(map[string]string),
		Source:     sourceOf(v),
	}

	iter, err := v.Fields()
	if err != nil {
		return ir.RawEntry{}, formatCUEError(err)
	}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return ir.RawEntry{}, &CompileError{
				Field:   "date." + iter.Label(),
				Message: "attribute must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		entry.Attributes[iter.Label()] = s
	}

	return entry, nil
}
