package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/holical/internal/ir"
)

// Condition is a parsed eligibility condition. It implements ir.Condition.
type Condition struct {
	src  string
	root Bool
}

var _ ir.Condition = (*Condition)(nil)

// Holds evaluates the condition against d. Evaluation has no side effects.
func (c *Condition) Holds(d ir.Date) bool {
	return c.root.eval(d)
}

// String returns the source text the condition was parsed from.
func (c *Condition) String() string {
	return c.src
}

// Canonical returns a fully parenthesised rendering of the parsed AST.
func (c *Condition) Canonical() string {
	var b strings.Builder
	c.root.format(&b)
	return b.String()
}

// Root returns the parsed AST.
func (c *Condition) Root() Bool {
	return c.root
}

// SyntaxError reports a condition that does not parse or type-check.
type SyntaxError struct {
	Source  string
	Offset  int // byte offset into Source
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("condition %q: at offset %d: %s", e.Source, e.Offset, e.Message)
}

// variables maps every accepted spelling to its canonical Var name.
var variables = map[string]string{
	"year":            "year",
	"month":           "month",
	"day":             "day",
	"weekday":         "weekday",
	"isoweekday":      "isoweekday",
	"yday":            "yday",
	"date.year":       "year",
	"date.month":      "month",
	"date.day":        "day",
	"date.weekday":    "weekday",
	"date.isoweekday": "isoweekday",
}

// callable names may be followed by an empty argument list.
var callable = map[string]bool{
	"date.weekday":    true,
	"date.isoweekday": true,
}

// constants are the weekday and month tokens of the rule language.
var constants = map[string]int{
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Parse parses and type-checks a condition. The result must be boolean.
func Parse(src string) (*Condition, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	root, err := p.parseBool()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
	return &Condition{src: src, root: root}, nil
}

// MustParse is like Parse but panics on error. For tests and constants.
func MustParse(src string) *Condition {
	c, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return c
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokInt
	tokName
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			toks = append(toks, token{kind: tokInt, text: src[start:i], pos: start})
		case isNameStart(c):
			start := i
			for i < len(src) && (isNameStart(src[i]) || (src[i] >= '0' && src[i] <= '9') || src[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokName, text: src[start:i], pos: start})
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			op := matchOp(src[i:])
			if op == "" {
				return nil, &SyntaxError{Source: src, Offset: i, Message: fmt.Sprintf("unexpected character %q", c)}
			}
			toks = append(toks, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

var operators = []string{"==", "!=", "<=", ">=", "&&", "||", "<", ">", "!", "+", "-", "*", "/", "%"}

func matchOp(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

type parser struct {
	src  string
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &SyntaxError{Source: p.src, Offset: t.pos, Message: fmt.Sprintf(format, args...)}
}

// isWord reports whether t is the operator or keyword w (or its symbol form).
func isWord(t token, word, symbol string) bool {
	return (t.kind == tokName && t.text == word) || (t.kind == tokOp && t.text == symbol)
}

// parseBool parses an "or" expression; it is the entry point for booleans.
func (p *parser) parseBool() (Bool, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for isWord(p.peek(), "or", "||") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Logic{Op: "or", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Bool, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for isWord(p.peek(), "and", "&&") {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = Logic{Op: "and", L: left, R: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Bool, error) {
	if isWord(p.peek(), "not", "!") {
		p.next()
		x, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return Not{X: x}, nil
	}
	return p.parseCompare()
}

var comparisons = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}

// parseCompare parses a comparison, or a boolean atom (literal or
// parenthesised boolean) that stands on its own.
func (p *parser) parseCompare() (Bool, error) {
	t := p.peek()
	if t.kind == tokName && (t.text == "true" || t.text == "false") {
		p.next()
		return Lit{Value: t.text == "true"}, nil
	}
	if t.kind == tokLParen {
		if b, ok, err := p.tryParenBool(); ok || err != nil {
			return b, err
		}
	}

	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	op := p.peek()
	if op.kind != tokOp || !comparisons[op.text] {
		return nil, p.errorf(op, "expected comparison operator, condition must be boolean")
	}
	p.next()
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if next := p.peek(); next.kind == tokOp && comparisons[next.text] {
		return nil, p.errorf(next, "chained comparisons are not supported")
	}
	return Compare{Op: op.text, L: left, R: right}, nil
}

// tryParenBool parses "( bool )" when the parenthesised text is boolean.
// It backtracks and reports ok=false when the group is numeric instead,
// e.g. "(year % 4) == 0".
func (p *parser) tryParenBool() (Bool, bool, error) {
	save := p.pos
	p.next()
	b, err := p.parseBool()
	if err == nil && p.peek().kind == tokRParen {
		p.next()
		if next := p.peek(); next.kind == tokOp && (comparisons[next.text] || isArith(next.text)) {
			p.pos = save
			return nil, false, nil
		}
		return b, true, nil
	}
	p.pos = save
	return nil, false, nil
}

func isArith(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}

func (p *parser) parseSum() (Num, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "+" && t.text != "-") {
			return left, nil
		}
		p.next()
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = Arith{Op: t.text, L: left, R: right}
	}
}

func (p *parser) parseProduct() (Num, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp || (t.text != "*" && t.text != "/" && t.text != "%") {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Arith{Op: t.text, L: left, R: right}
	}
}

func (p *parser) parseUnary() (Num, error) {
	if t := p.peek(); t.kind == tokOp && t.text == "-" {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Neg{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Num, error) {
	t := p.next()
	switch t.kind {
	case tokInt:
		v, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, p.errorf(t, "integer %q out of range", t.text)
		}
		return Int{Value: v}, nil
	case tokName:
		if v, ok := constants[t.text]; ok {
			return Int{Value: v}, nil
		}
		name, ok := variables[t.text]
		if !ok {
			return nil, p.errorf(t, "unknown name %q", t.text)
		}
		if p.peek().kind == tokLParen {
			if !callable[t.text] {
				return nil, p.errorf(p.peek(), "%q is not callable", t.text)
			}
			p.next()
			if closing := p.next(); closing.kind != tokRParen {
				return nil, p.errorf(closing, "expected \")\" after %s(", t.text)
			}
		}
		return Var{Name: name}, nil
	case tokLParen:
		x, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected \")\"")
		}
		return x, nil
	case tokEOF:
		return nil, p.errorf(t, "unexpected end of condition")
	default:
		return nil, p.errorf(t, "unexpected %q", t.text)
	}
}
