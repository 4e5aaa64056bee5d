// Package predicate implements the eligibility condition language of
// holiday rules.
//
// A condition is a boolean expression over the matched date. It is parsed
// once, when the rule is compiled, into a sealed AST and evaluated with no
// access to anything but the date. There is no general evaluator: only the
// names, operators and constants listed below exist.
//
// Grammar (lowest precedence first):
//
//	expr    = or
//	or      = and { ("or" | "||") and }
//	and     = not { ("and" | "&&") not }
//	not     = ("not" | "!") not | cmp
//	cmp     = sum [ ("==" | "!=" | "<" | "<=" | ">" | ">=") sum ]
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/" | "%") unary }
//	unary   = "-" unary | primary
//	primary = int | name [ "(" ")" ] | "true" | "false" | "(" expr ")"
//
// Names:
//
//	year, month, day     fields of the date
//	weekday              0 (mon) .. 6 (sun)
//	isoweekday           1 (mon) .. 7 (sun)
//	yday                 day of the year, 1-based
//	mon .. sun           weekday constants 0 .. 6
//	jan .. dec           month constants 1 .. 12
//
// The spellings date.year, date.month, date.day, date.weekday() and
// date.isoweekday() found in existing holiday files are accepted as aliases.
//
// Division or modulo by zero makes the enclosing comparison false.
package predicate
