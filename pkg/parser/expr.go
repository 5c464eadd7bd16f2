package parser

import (
	"strconv"
	"strings"

	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/token"
)

// binOpOf maps a binary operator token kind to its cast.BinaryOp tag and
// its binding power, per spec.md §4.4's precedence table: || =1, && =2,
// ==/!= =3, </>/<=/>= =4, +/- =5, */ / =6.
func binOpOf(k token.Kind) (cast.BinaryOp, int, bool) {
	switch k {
	case token.OrOr:
		return cast.OpOrOr, 1, true
	case token.AndAnd:
		return cast.OpAndAnd, 2, true
	case token.Eq:
		return cast.OpEq, 3, true
	case token.Ne:
		return cast.OpNe, 3, true
	case token.Lt:
		return cast.OpLt, 4, true
	case token.Gt:
		return cast.OpGt, 4, true
	case token.Le:
		return cast.OpLe, 4, true
	case token.Ge:
		return cast.OpGe, 4, true
	case token.Plus:
		return cast.OpAdd, 5, true
	case token.Minus:
		return cast.OpSub, 5, true
	case token.Star:
		return cast.OpMul, 6, true
	case token.Slash:
		return cast.OpDiv, 6, true
	default:
		return 0, 0, false
	}
}

// parseExpr parses a full expression, which is always an assignment
// expression (assignment binds lower than, and wraps, every infix
// operator).
func (p *Parser) parseExpr() (cast.Expr, error) {
	return p.parseAssignmentExpr()
}

// parseAssignmentExpr parses `target = value`, right-associative, or
// falls through to the Pratt precedence climb when no `=` follows.
func (p *Parser) parseAssignmentExpr() (cast.Expr, error) {
	left, err := p.parseBinaryExpr(1)
	if err != nil {
		return nil, err
	}
	if p.check(token.Assign) {
		pos := p.posOf(p.LA(0))
		p.consume()
		value, err := p.parseAssignmentExpr()
		if err != nil {
			return nil, err
		}
		return cast.Assign{Target: left, Value: value, Pos: pos}, nil
	}
	return left, nil
}

// parseBinaryExpr implements precedence-climbing: it parses a unary
// expression, then repeatedly folds in infix operators whose binding
// power is at least minBp.
func (p *Parser) parseBinaryExpr(minBp int) (cast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, bp, ok := binOpOf(p.LA(0).Kind)
		if !ok || bp < minBp {
			return left, nil
		}
		pos := p.posOf(p.LA(0))
		p.consume()
		right, err := p.parseBinaryExpr(bp + 1)
		if err != nil {
			return nil, err
		}
		left = cast.Binary{Op: op, Left: left, Right: right, Pos: pos}
	}
}

// parseUnary handles the prefix operators `++ -- + - ! & *`, falling
// through to parsePostfix for everything else.
func (p *Parser) parseUnary() (cast.Expr, error) {
	var op cast.UnaryOp
	switch p.LA(0).Kind {
	case token.Increment:
		op = cast.OpPreInc
	case token.Decrement:
		op = cast.OpPreDec
	case token.Plus:
		op = cast.OpPos
	case token.Minus:
		op = cast.OpNeg
	case token.Bang:
		op = cast.OpNot
	case token.Amp:
		op = cast.OpAddress
	case token.Star:
		op = cast.OpDeref
	default:
		return p.parsePostfix()
	}
	pos := p.posOf(p.LA(0))
	p.consume()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return cast.Unary{Op: op, Expr: operand, Pos: pos}, nil
}

// parsePostfix handles postfix `++`/`--` and call-expression
// application, both of which may chain (`f()()`, `x++` is not chainable
// in C but a call result can itself be called).
func (p *Parser) parsePostfix() (cast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.LA(0).Kind {
		case token.Increment:
			pos := p.posOf(p.LA(0))
			p.consume()
			e = cast.Unary{Op: cast.OpPostInc, Expr: e, Pos: pos}
		case token.Decrement:
			pos := p.posOf(p.LA(0))
			p.consume()
			e = cast.Unary{Op: cast.OpPostDec, Expr: e, Pos: pos}
		case token.LParen:
			pos := p.posOf(p.LA(0))
			p.consume()
			var args []cast.Expr
			if !p.check(token.RParen) {
				for {
					arg, err := p.parseAssignmentExpr()
					if err != nil {
						return nil, err
					}
					args = append(args, arg)
					if p.match(token.Comma) {
						continue
					}
					break
				}
			}
			if _, err := p.eat(token.RParen); err != nil {
				return nil, err
			}
			e = cast.Call{Func: e, Args: args, Pos: pos}
		default:
			return e, nil
		}
	}
}

// parsePrimary handles literals, identifiers, NULL, and parenthesized
// expressions. A parenthesized expression returns its inner expression
// directly — spec.md §3's expression data model has no Paren node.
func (p *Parser) parsePrimary() (cast.Expr, error) {
	tok := p.LA(0)
	pos := p.posOf(tok)

	switch tok.Kind {
	case token.IntLiteral:
		p.consume()
		v, err := strconv.ParseInt(p.lexeme(tok), 10, 64)
		if err != nil {
			return nil, p.fatalf(tok, "invalid integer literal %q: %s", p.lexeme(tok), err)
		}
		return cast.IntLiteral{Value: v, Pos: pos}, nil
	case token.FloatLiteral:
		p.consume()
		lit := strings.TrimRight(p.lexeme(tok), "fF")
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.fatalf(tok, "invalid float literal %q: %s", p.lexeme(tok), err)
		}
		return cast.FloatLiteral{Value: v, Pos: pos}, nil
	case token.StringLiteral:
		p.consume()
		return cast.StringLiteral{Value: stripQuotes(p.lexeme(tok)), Pos: pos}, nil
	case token.KwNull:
		p.consume()
		return cast.NullLiteral{Pos: pos}, nil
	case token.Identifier:
		p.consume()
		return cast.Ident{Name: p.lexeme(tok), Pos: pos}, nil
	case token.LParen:
		p.consume()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.fatalf(tok, "expected expression, got %s", tok.Kind)
	}
}
