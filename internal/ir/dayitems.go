package ir

import (
	"fmt"
	"slices"
	"time"
)

// DayKey identifies a day of the year independent of the year.
// Month is 1-12 and Day is 1 up to the longest length the month can have,
// so February 29 is a valid key and February 30 is not.
type DayKey struct {
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// maxDays is the longest possible length of each month (leap-year February).
var maxDays = [...]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Valid reports whether the key is inside the documented key domain.
func (k DayKey) Valid() bool {
	if k.Month < time.January || k.Month > time.December {
		return false
	}
	return k.Day >= 1 && k.Day <= maxDays[k.Month]
}

// String formats the key as MM-DD.
func (k DayKey) String() string {
	return fmt.Sprintf("%02d-%02d", int(k.Month), k.Day)
}

func compareDayKeys(a, b DayKey) int {
	if a.Month != b.Month {
		return int(a.Month) - int(b.Month)
	}
	return a.Day - b.Day
}

// DayKeyError reports a key outside the DayItems key domain.
type DayKeyError struct {
	Key DayKey
}

func (e *DayKeyError) Error() string {
	return fmt.Sprintf("day key out of range: month=%d day=%d", int(e.Key.Month), e.Key.Day)
}

// DayItems is an append-only multimap from (month, day) to an ordered list of
// text items. Items are never merged or deduplicated.
//
// DayItems is not safe for concurrent use; a single builder owns it until it
// is handed to NewCalendarYear.
type DayItems struct {
	items map[DayKey][]string
	count int
}

// NewDayItems creates an empty DayItems.
func NewDayItems() *DayItems {
	return &DayItems{items: make(map[DayKey][]string)}
}

// Add appends text to the list of the given day.
// Returns *DayKeyError if the key is outside the key domain.
func (d *DayItems) Add(month time.Month, day int, text string) error {
	key := DayKey{Month: month, Day: day}
	if !key.Valid() {
		return &DayKeyError{Key: key}
	}
	d.items[key] = append(d.items[key], text)
	d.count++
	return nil
}

// Day returns a copy of the items recorded for the day, in insertion order.
func (d *DayItems) Day(month time.Month, day int) []string {
	return slices.Clone(d.items[DayKey{Month: month, Day: day}])
}

// Keys returns the days holding at least one item, in calendar order.
func (d *DayItems) Keys() []DayKey {
	keys := make([]DayKey, 0, len(d.items))
	for k := range d.items {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareDayKeys)
	return keys
}

// Len returns the number of days holding at least one item.
func (d *DayItems) Len() int {
	return len(d.items)
}

// Count returns the total number of items across all days.
func (d *DayItems) Count() int {
	return d.count
}

// CalendarYear is the product of one (year, country) build.
// It is read-only: the DayItems it was built from is owned by it.
type CalendarYear struct {
	Year    int
	Country string
	RunID   string
	items   *DayItems
}

// NewCalendarYear takes ownership of items. The caller must not modify items
// afterwards.
func NewCalendarYear(year int, country, runID string, items *DayItems) *CalendarYear {
	if items == nil {
		items = NewDayItems()
	}
	return &CalendarYear{Year: year, Country: country, RunID: runID, items: items}
}

// Day returns the items of the given day, in insertion order.
func (c *CalendarYear) Day(month time.Month, day int) []string {
	return c.items.Day(month, day)
}

// Days returns the days holding at least one item, in calendar order.
func (c *CalendarYear) Days() []DayKey {
	return c.items.Keys()
}

// Month returns the days of month holding at least one item, in order.
func (c *CalendarYear) Month(month time.Month) []DayKey {
	var keys []DayKey
	for _, k := range c.items.Keys() {
		if k.Month == month {
			keys = append(keys, k)
		}
	}
	return keys
}

// ItemCount returns the total number of items.
func (c *CalendarYear) ItemCount() int {
	return c.items.Count()
}

// ToCanonicalMap converts the calendar to a map for MarshalCanonical.
// Days are keyed "MM-DD" so canonical key order is calendar order.
func (c *CalendarYear) ToCanonicalMap() map[string]any {
	days := make(map[string]any, c.items.Len())
	for _, k := range c.items.Keys() {
		list := c.items.items[k]
		items := make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
		days[k.String()] = items
	}
	result := map[string]any{
		"year":    c.Year,
		"country": c.Country,
		"days":    days,
	}
	if c.RunID != "" {
		result["run_id"] = c.RunID
	}
	return result
}
