package ir

import "time"

// RuleRecord is one named date-matching rule for a country, as loaded.
//
// Value is a slash-delimited date expression, Offset is empty, a signed
// integer or a (optionally "-" prefixed) weekday token, and Condition is an
// optional eligibility expression. Type is the rule kind marker carried by the
// raw record ("national", "religious", ...); it never affects matching.
type RuleRecord struct {
	Name      string `json:"name" yaml:"name"`
	Value     string `json:"value" yaml:"value"`
	Offset    string `json:"offset,omitempty" yaml:"offset,omitempty"`
	Condition string `json:"if,omitempty" yaml:"if,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	Country   string `json:"country" yaml:"country"`

	// Source is a diagnostic position ("file:line") when the loader knows it.
	Source string `json:"source,omitempty" yaml:"-"`
}

// Attribute names recognised on a raw date entry.
const (
	AttrName   = "name"
	AttrValue  = "value"
	AttrOffset = "offset"
	AttrIf     = "if"
	AttrType   = "type"
)

// RawEntry is one materialised date entry of a country set.
// A key missing from Attributes means the attribute was absent.
type RawEntry struct {
	Attributes map[string]string `json:"attributes"`
	Source     string            `json:"source,omitempty"`
}

// Attr returns the attribute value and whether it was present.
func (e RawEntry) Attr(key string) (string, bool) {
	v, ok := e.Attributes[key]
	return v, ok
}

// CountrySet groups the date entries declared for one country.
type CountrySet struct {
	Name    string     `json:"name"`
	Entries []RawEntry `json:"entries"`
}

// RuleTable is the deserialised, ordered forest of country sets.
// The same country may appear in more than one set; order is preserved.
type RuleTable struct {
	Countries []CountrySet `json:"countries"`
}

// RuleKind discriminates the two shapes of a value expression.
type RuleKind int

const (
	// FixedDate is "year/month/day" with optional wildcards.
	FixedDate RuleKind = iota + 1
	// NthWeekdayOfMonth is "year/ordinal/weekday/month".
	NthWeekdayOfMonth
)

// String returns the kind name used in diagnostics.
func (k RuleKind) String() string {
	switch k {
	case FixedDate:
		return "fixed_date"
	case NthWeekdayOfMonth:
		return "nth_weekday_of_month"
	default:
		return "unknown"
	}
}

// Field is one component of a value expression: a literal or the wildcard.
type Field struct {
	Wildcard bool `json:"wildcard,omitempty"`
	Value    int  `json:"value,omitempty"`
}

// Wild is the wildcard field.
var Wild = Field{Wildcard: true}

// Lit returns a literal field.
func Lit(v int) Field {
	return Field{Value: v}
}

// Or returns the literal value, or fallback when the field is the wildcard.
func (f Field) Or(fallback int) int {
	if f.Wildcard {
		return fallback
	}
	return f.Value
}

// DateExpr is the compiled value expression.
//
// For FixedDate, Year/Month/Day are used. For NthWeekdayOfMonth, Year/Month,
// Ordinal (1-based; negative counts from the end) and Weekday are used.
type DateExpr struct {
	Kind    RuleKind     `json:"kind"`
	Year    Field        `json:"year"`
	Month   Field        `json:"month"`
	Day     Field        `json:"day,omitempty"`
	Ordinal int          `json:"ordinal,omitempty"`
	Weekday time.Weekday `json:"weekday,omitempty"`
}

// OffsetKind discriminates the compiled offset expression.
type OffsetKind int

const (
	// OffsetNone leaves the resolved date unchanged.
	OffsetNone OffsetKind = iota
	// OffsetDays shifts the resolved date by a signed number of days.
	OffsetDays
	// OffsetSnap walks to the nearest matching weekday, inclusive.
	OffsetSnap
)

// Offset is the compiled offset expression.
type Offset struct {
	Kind     OffsetKind   `json:"kind"`
	Days     int          `json:"days,omitempty"`
	Weekday  time.Weekday `json:"weekday,omitempty"`
	Backward bool         `json:"backward,omitempty"`
}

// Condition is a compiled, side-effect free eligibility test.
// Implementations live in internal/predicate.
type Condition interface {
	Holds(d Date) bool
	String() string
}

// Rule is a RuleRecord compiled for matching.
type Rule struct {
	// Index is the record's position among the country's records.
	Index     int
	Record    RuleRecord
	Date      DateExpr
	Offset    Offset
	Condition Condition // nil when the record has no condition
}

// Name returns the rule's display name.
func (r Rule) Name() string {
	return r.Record.Name
}

// LifeEvent is an externally supplied (month, day, text) item such as a
// birthday or anniversary. Life events never take part in rule evaluation.
type LifeEvent struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
	Text  string     `json:"text"`
}
