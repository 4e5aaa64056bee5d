package compiler

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/roach88/holical/internal/ir"
)

type xmlCalendar struct {
	XMLName   xml.Name     `xml:"calendar"`
	Countries []xmlCountry `xml:"country"`
}

type xmlCountry struct {
	Name  string    `xml:"name,attr"`
	Dates []xmlDate `xml:"date"`
}

type xmlDate struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

// DecodeXML decodes a holidays.xml rule table:
//
//	<calendar>
//	  <country name="Canada">
//	    <date name="Victoria Day" value="*/-1/mon/may" offset="" type="national"/>
//	  </country>
//	</calendar>
//
// Unknown attributes are kept and ignored by RecordsFor. encoding/xml does
// not report element positions, so Source names the country and entry
// position instead of a line.
func DecodeXML(data []byte, filename string) (*ir.RuleTable, error) {
	var cal xmlCalendar
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&cal); err != nil {
		return nil, fmt.Errorf("%s: parse XML: %w", filename, err)
	}

	table := &ir.RuleTable{}
	for i, c := range cal.Countries {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: country #%d: name attribute is required", filename, i+1)
		}
		set := ir.CountrySet{Name: c.Name}
		for j, d := range c.Dates {
			entry := ir.RawEntry{
				Attributes: make(map[string]string, len(d.Attrs)),
				Source:     fmt.Sprintf("%s:%s#%d", filename, c.Name, j+1),
			}
			for _, a := range d.Attrs {
				entry.Attributes[a.Name.Local] = a.Value
			}
			set.Entries = append(set.Entries, entry)
		}
		table.Countries = append(table.Countries, set)
	}

	return table, nil
}
