// Package ir provides the shared data types for holical.
//
// This package contains type definitions and small value helpers only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - RuleRecord is the raw, loaded form; Rule is the compiled form whose
//     DateExpr and Offset are tagged variants chosen once at load time
//   - Date arithmetic uses day ordinals (0001-01-01 is ordinal 1), never
//     wall-clock time, so month and leap-year rollover fall out naturally
//   - DayItems is append-only; insertion order within a day is significant
//   - All JSON tags use snake_case
package ir
