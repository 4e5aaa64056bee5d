package predicate

import (
	"fmt"
	"strings"

	"github.com/roach88/holical/internal/ir"
)

// Num is a numeric expression node.
//
// This is a sealed interface - only types in this package implement it.
type Num interface {
	numNode()
	// eval returns the value and false when the expression is undefined
	// (division by zero).
	eval(d ir.Date) (int, bool)
	format(b *strings.Builder)
}

// Bool is a boolean expression node.
//
// This is a sealed interface - only types in this package implement it.
type Bool interface {
	boolNode()
	eval(d ir.Date) bool
	format(b *strings.Builder)
}

// Int is an integer literal.
type Int struct {
	Value int
}

// Var reads one field of the date.
type Var struct {
	Name string // canonical name, e.g. "weekday"
}

// Neg is unary minus.
type Neg struct {
	X Num
}

// Arith is a binary arithmetic expression.
type Arith struct {
	Op   string // + - * / %
	L, R Num
}

// Lit is a boolean literal.
type Lit struct {
	Value bool
}

// Not negates a boolean expression.
type Not struct {
	X Bool
}

// Logic combines two boolean expressions with "and" or "or".
type Logic struct {
	Op   string // and, or
	L, R Bool
}

// Compare compares two numeric expressions.
type Compare struct {
	Op   string // == != < <= > >=
	L, R Num
}

func (Int) numNode()   {}
func (Var) numNode()   {}
func (Neg) numNode()   {}
func (Arith) numNode() {}

func (Lit) boolNode()     {}
func (Not) boolNode()     {}
func (Logic) boolNode()   {}
func (Compare) boolNode() {}

func (n Int) eval(ir.Date) (int, bool) { return n.Value, true }

func (n Var) eval(d ir.Date) (int, bool) {
	switch n.Name {
	case "year":
		return d.Year, true
	case "month":
		return int(d.Month), true
	case "day":
		return d.Day, true
	case "weekday":
		return mondayBased(d), true
	case "isoweekday":
		return mondayBased(d) + 1, true
	case "yday":
		return d.YearDay(), true
	}
	// Unreachable: the parser only builds Vars for known names.
	return 0, false
}

// mondayBased returns the weekday with Monday as 0 and Sunday as 6.
func mondayBased(d ir.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

func (n Neg) eval(d ir.Date) (int, bool) {
	v, ok := n.X.eval(d)
	return -v, ok
}

func (n Arith) eval(d ir.Date) (int, bool) {
	l, ok := n.L.eval(d)
	if !ok {
		return 0, false
	}
	r, ok := n.R.eval(d)
	if !ok {
		return 0, false
	}
	switch n.Op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return floorDiv(l, r), true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l - floorDiv(l, r)*r, true
	}
	return 0, false
}

// floorDiv divides rounding toward negative infinity, so that "%" keeps the
// sign of the divisor as holiday files written for Python expect.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (n Lit) eval(ir.Date) bool { return n.Value }

func (n Not) eval(d ir.Date) bool { return !n.X.eval(d) }

func (n Logic) eval(d ir.Date) bool {
	if n.Op == "and" {
		return n.L.eval(d) && n.R.eval(d)
	}
	return n.L.eval(d) || n.R.eval(d)
}

func (n Compare) eval(d ir.Date) bool {
	l, ok := n.L.eval(d)
	if !ok {
		return false
	}
	r, ok := n.R.eval(d)
	if !ok {
		return false
	}
	switch n.Op {
	case "==":
		return l == r
	case "!=":
		return l != r
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

func (n Int) format(b *strings.Builder) { fmt.Fprintf(b, "%d", n.Value) }
func (n Var) format(b *strings.Builder) { b.WriteString(n.Name) }

func (n Neg) format(b *strings.Builder) {
	b.WriteString("-")
	n.X.format(b)
}

func (n Arith) format(b *strings.Builder) {
	b.WriteString("(")
	n.L.format(b)
	fmt.Fprintf(b, " %s ", n.Op)
	n.R.format(b)
	b.WriteString(")")
}

func (n Lit) format(b *strings.Builder) { fmt.Fprintf(b, "%t", n.Value) }

func (n Not) format(b *strings.Builder) {
	b.WriteString("not ")
	n.X.format(b)
}

func (n Logic) format(b *strings.Builder) {
	b.WriteString("(")
	n.L.format(b)
	fmt.Fprintf(b, " %s ", n.Op)
	n.R.format(b)
	b.WriteString(")")
}

func (n Compare) format(b *strings.Builder) {
	n.L.format(b)
	fmt.Fprintf(b, " %s ", n.Op)
	n.R.format(b)
}
