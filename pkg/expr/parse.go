package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/store"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokDot
	tokPlus
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lexer splits an expression into tokens.
type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	c := l.src[l.pos]
	switch {
	case c == '.':
		// ".5" is a number, "a.b" is a path step
		if l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) && !l.afterOperand() {
			return l.number()
		}
		l.pos++
		return token{kind: tokDot, text: ".", pos: start}, nil
	case c == '+':
		l.pos++
		return token{kind: tokPlus, text: "+", pos: start}, nil
	case c == '[':
		l.pos++
		return token{kind: tokLBracket, text: "[", pos: start}, nil
	case c == ']':
		l.pos++
		return token{kind: tokRBracket, text: "]", pos: start}, nil
	case c == '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case c == '\'' || c == '"':
		return l.quoted(c)
	case isDigit(c) || c == '-':
		return l.number()
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: start}, nil
	}
	return token{}, fmt.Errorf("unexpected character %q at %d", c, start)
}

// afterOperand reports whether the previous non-space byte ends an operand,
// which makes a following '.' a path step.
func (l *lexer) afterOperand() bool {
	for i := l.pos - 1; i >= 0; i-- {
		c := l.src[i]
		if isSpace(c) {
			continue
		}
		return isIdentPart(c) || c == ']' || c == ')'
	}
	return false
}

func (l *lexer) quoted(q byte) (token, error) {
	start := l.pos
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case q:
			l.pos++
			return token{kind: tokString, text: b.String(), pos: start}, nil
		case '\\':
			if l.pos+1 >= len(l.src) {
				return token{}, fmt.Errorf("unterminated string at %d", start)
			}
			l.pos++
			switch e := l.src[l.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
		l.pos++
	}
	return token{}, fmt.Errorf("unterminated string at %d", start)
}

func (l *lexer) number() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	digits := l.digits()
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		l.pos++
		digits += l.digits()
	}
	if digits == 0 {
		return token{}, fmt.Errorf("unexpected character %q at %d", l.src[start], start)
	}
	return token{kind: tokNumber, text: l.src[start:l.pos], pos: start}, nil
}

func (l *lexer) digits() int {
	n := 0
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		n++
	}
	return n
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

// parser is a recursive-descent parser over the lexer's tokens.
type parser struct {
	lex lexer
	tok token
}

// Parse compiles one expression body (the text between {{ and }}).
func Parse(src string) (Expr, error) {
	p := &parser{lex: lexer{src: src}}
	e, err := p.parse()
	if err != nil {
		return nil, errors.New(errors.CodeInvalidExpression).
			WithDetailf("%q", strings.TrimSpace(src)).
			Wrap(err)
	}
	return e, nil
}

// MustParse is like Parse but panics on error. Use it for expressions known
// at compile time.
func MustParse(src string) Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) parse() (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, fmt.Errorf("empty expression")
	}
	e, err := p.concat()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at %d", p.tok.text, p.tok.pos)
	}
	return e, nil
}

// concat := primary ('+' primary)*
func (p *parser) concat() (Expr, error) {
	first, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPlus {
		return first, nil
	}
	parts := flatten(nil, first)
	for p.tok.kind == tokPlus {
		if err := p.advance(); err != nil {
			return nil, err
		}
		next, err := p.primary()
		if err != nil {
			return nil, err
		}
		parts = flatten(parts, next)
	}
	return Concat{Parts: parts}, nil
}

func flatten(parts []Expr, e Expr) []Expr {
	if c, ok := e.(Concat); ok {
		return append(parts, c.Parts...)
	}
	return append(parts, e)
}

func (p *parser) primary() (Expr, error) {
	t := p.tok
	switch t.kind {
	case tokString:
		return Literal{Value: t.text}, p.advance()
	case tokNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at %d", t.text, t.pos)
		}
		return Literal{Value: f}, p.advance()
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.concat()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("expected ) at %d", p.tok.pos)
		}
		return e, p.advance()
	case tokIdent:
		switch t.text {
		case "true":
			return Literal{Value: true}, p.advance()
		case "false":
			return Literal{Value: false}, p.advance()
		case "null", "undefined":
			return Literal{Value: nil}, p.advance()
		}
		return p.path()
	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}

// path := ident ('.' ident | '[' (number | string) ']')*
func (p *parser) path() (Expr, error) {
	path := store.Path{store.Key(p.tok.text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for {
		switch p.tok.kind {
		case tokDot:
			if err := p.advance(); err != nil {
				return nil, err
			}
			switch p.tok.kind {
			case tokIdent:
				path = append(path, store.Key(p.tok.text))
			case tokNumber:
				// "a.0.1" lexes its tail as the number "0.1"
				for _, part := range strings.Split(p.tok.text, ".") {
					n, err := strconv.Atoi(part)
					if err != nil || n < 0 {
						return nil, fmt.Errorf("invalid index %q at %d", p.tok.text, p.tok.pos)
					}
					path = append(path, store.Index(n))
				}
			default:
				return nil, fmt.Errorf("expected name after '.' at %d", p.tok.pos)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokLBracket:
			if err := p.advance(); err != nil {
				return nil, err
			}
			switch p.tok.kind {
			case tokString:
				path = append(path, store.Key(p.tok.text))
			case tokNumber:
				n, err := strconv.Atoi(p.tok.text)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("invalid index %q at %d", p.tok.text, p.tok.pos)
				}
				path = append(path, store.Index(n))
			default:
				return nil, fmt.Errorf("expected index or quoted key at %d", p.tok.pos)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokRBracket {
				return nil, fmt.Errorf("expected ] at %d", p.tok.pos)
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		default:
			return PathRef{Path: path}, nil
		}
	}
}
