// Package store provides SQLite-backed storage for life events and saved
// calendar runs.
//
// Tables:
//   - life_events: births and marriages, the source of birthday and
//     anniversary items
//   - calendar_runs: one row per saved BuildYear result, keyed by run ID,
//     with the rule table hash and engine version that produced it
//   - calendar_items: the ordered items of each saved run
//
// All ordering uses seq INTEGER columns, never timestamps, so listings are
// identical across machines.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
