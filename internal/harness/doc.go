// Package harness runs calendar scenarios as executable tests.
//
// A scenario names a rule table, a country and a year, optionally seeds
// life events, builds the calendar and checks assertions against it.
//
// # Scenario Format
//
//	name: us_2024
//	description: "US federal holidays with two family events"
//	rules: ../rules/holidays.yaml     # relative to the scenario file
//	country: United States of America
//	year: 2024
//	on_error: collect                 # or abort
//	run_id: us-2024                   # fixed run ID for golden files
//	events:
//	  - {kind: birth, name: Ada, date: 1988-12-10}
//	  - {kind: marriage, name: Charles, spouse: Mary, date: 1990-06-02}
//	filter: {birthdays: true, anniversaries: true, alive_only: true}
//	assertions:
//	  - {type: day_contains, date: 11-28, text: Thanksgiving}
//	  - {type: day_order, date: 12-25, items: [Christmas, "Ada, 36"]}
//	  - {type: day_count, date: 07-04, count: 1}
//	  - {type: no_items, date: 02-14}
//	  - {type: error_count, count: 0}
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory store with a fixed run ID
// (run_id, or "scenario-run"), so the canonical JSON of the calendar is
// stable and can be compared with a golden file by RunWithGolden.
package harness
