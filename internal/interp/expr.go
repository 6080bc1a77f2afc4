package interp

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

const defaultCacheSize = 256

// Evaluator computes arithmetic expressions over float literals, pi and the
// scalars bound in a symbol table. Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | name | "(" expr ")"
type Evaluator struct {
	symbols   *Symbols
	cache     *lru.Cache[string, float64]
	resolving map[string]bool
}

// NewEvaluator returns an evaluator that memoises up to cacheSize scalar values.
func NewEvaluator(symbols *Symbols, cacheSize int) (*Evaluator, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, float64](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scalar cache")
	}
	return &Evaluator{
		symbols:   symbols,
		cache:     cache,
		resolving: make(map[string]bool),
	}, nil
}

// Eval evaluates expr.
func (e *Evaluator) Eval(expr string) (float64, error) {
	p := &exprParser{src: expr, ev: e}
	p.skipSpace()
	if p.eof() {
		return 0, newError(InvalidExpression, "empty expression")
	}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if !p.eof() {
		return 0, newError(InvalidExpression, "unexpected %q in %q", p.src[p.pos:], expr)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newError(InvalidExpression, "%q is not finite", expr)
	}
	return v, nil
}

// value resolves a name to a number. Scalars are evaluated on first use and
// cached; bindings never change once declared.
func (e *Evaluator) value(name string) (float64, error) {
	if reservedNames[name] {
		return math.Pi, nil
	}
	if v, ok := e.cache.Get(name); ok {
		return v, nil
	}
	sc, err := e.symbols.LookupScalar(name)
	if err != nil {
		return 0, err
	}
	if e.resolving[name] {
		return 0, newError(InvalidExpression, "%q is defined in terms of itself", name)
	}
	e.resolving[name] = true
	defer delete(e.resolving, name)

	v, err := e.Eval(sc.Expr)
	if err != nil {
		return 0, err
	}
	e.cache.Add(name, v)
	return v, nil
}

type exprParser struct {
	src string
	pos int
	ev  *Evaluator
}

func (p *exprParser) eof() bool { return p.pos >= len(p.src) }

func (p *exprParser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *exprParser) skipSpace() {
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

// accept consumes op if it is the next non-space byte.
func (p *exprParser) accept(op byte) bool {
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == op {
		p.pos++
		return true
	}
	return false
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept('+'):
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left += right
		case p.accept('-'):
			right, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept('*'):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			left *= right
		case p.accept('/'):
			right, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, newError(InvalidExpression, "division by zero in %q", p.src)
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	if p.accept('-') {
		v, err := p.parseUnary()
		return -v, err
	}
	if p.accept('+') {
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (float64, error) {
	p.skipSpace()
	if p.eof() {
		return 0, newError(InvalidExpression, "unexpected end of %q", p.src)
	}

	r := p.peek()
	switch {
	case r == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if !p.accept(')') {
			return 0, newError(InvalidExpression, "missing ) in %q", p.src)
		}
		return v, nil
	case r == '.' || (r < utf8.RuneSelf && isDigit(byte(r))):
		return p.parseNumber()
	case r == '_' || unicode.IsLetter(r):
		return p.ev.value(p.scanName())
	default:
		return 0, newError(InvalidExpression, "unexpected %q in %q", r, p.src)
	}
}

func (p *exprParser) scanName() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func (p *exprParser) parseNumber() (float64, error) {
	start := p.pos
	digits := func() {
		for !p.eof() && (isDigit(p.src[p.pos]) || p.src[p.pos] == '_') {
			p.pos++
		}
	}
	digits()
	if !p.eof() && p.src[p.pos] == '.' {
		p.pos++
		digits()
	}
	if !p.eof() && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
		p.pos++
		if !p.eof() && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
			p.pos++
		}
		digits()
	}
	lit := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, newError(InvalidExpression, "bad number %q", p.src[start:p.pos])
	}
	return v, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
