package ir

// NOTE: These are store-layer records, not part of the rule model.

// LifeEventKind discriminates stored life events.
type LifeEventKind string

const (
	KindBirth    LifeEventKind = "birth"
	KindMarriage LifeEventKind = "marriage"
)

// Valid reports whether k is a known kind.
func (k LifeEventKind) Valid() bool {
	return k == KindBirth || k == KindMarriage
}

// LifeEventRecord is one stored birth or marriage.
//
// For a birth, Name is the person and Date the birth date. For a marriage,
// Name is the person, Spouse the spouse and Date the wedding date.
// Death dates are empty when the person is living.
type LifeEventRecord struct {
	ID          string        `json:"id"`
	Seq         int64         `json:"seq"`
	Kind        LifeEventKind `json:"kind"`
	Name        string        `json:"name"`
	Spouse      string        `json:"spouse,omitempty"`
	Date        Date          `json:"date"`
	Death       *Date         `json:"death,omitempty"`
	SpouseDeath *Date         `json:"spouse_death,omitempty"`
}

// AliveIn reports whether the person, and for a marriage the spouse, may be
// alive during year: no death date, or a death date not before that year.
func (r LifeEventRecord) AliveIn(year int) bool {
	if r.Death != nil && r.Death.Year < year {
		return false
	}
	if r.Kind == KindMarriage && r.SpouseDeath != nil && r.SpouseDeath.Year < year {
		return false
	}
	return true
}

// CalendarRun describes a saved calendar build.
type CalendarRun struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Year          int    `json:"year"`
	Country       string `json:"country"`
	RulesHash     string `json:"rules_hash"`
	EngineVersion string `json:"engine_version"`
	ItemCount     int    `json:"item_count"`
	ErrorCount    int    `json:"error_count"`
}
