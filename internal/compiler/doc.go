// Package compiler turns rule tables into compiled rules.
//
// A rule table is decoded from CUE (DecodeCUE), YAML (DecodeYAML) or the
// holidays.xml format (DecodeXML) into an ir.RuleTable. LoadRules selects one
// country and compiles each record once: the value expression becomes an
// ir.DateExpr, the offset an ir.Offset and the condition a predicate AST.
// Problems with a single record are reported as *MalformedRuleError carrying
// an E12x code; LoadModeCollectAll keeps loading the remaining records.
package compiler
