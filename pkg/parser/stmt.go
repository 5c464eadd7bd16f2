package parser

import (
	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/token"
)

// parseStatement dispatches on the lookahead token to one of the
// statement forms spec.md §4.4 lists, falling through to a local
// variable declaration or an expression statement.
func (p *Parser) parseStatement() (cast.Stmt, error) {
	switch {
	case p.check(token.LBrace):
		c, err := p.parseCompoundStmt()
		if err != nil {
			return nil, err
		}
		return *c, nil
	case p.check(token.KwReturn):
		return p.parseReturnStmt()
	case p.check(token.KwIf):
		return p.parseIfStmt()
	case p.check(token.KwWhile):
		return p.parseWhileStmt()
	case p.check(token.KwFor):
		return p.parseForStmt()
	case p.check(token.KwBreak):
		p.consume()
		if _, err := p.eat(token.Semicolon); err != nil {
			return nil, err
		}
		return cast.BreakStmt{}, nil
	case p.check(token.KwContinue):
		p.consume()
		if _, err := p.eat(token.Semicolon); err != nil {
			return nil, err
		}
		return cast.ContinueStmt{}, nil
	}

	if d, ok, err := p.tryParseLocalVarDecl(); err != nil {
		return nil, err
	} else if ok {
		return d, nil
	}

	return p.parseExprStmt()
}

// tryParseLocalVarDecl attempts a local `Type Name [= Init] ;` using the
// same bounded mark/reset backtracking idiom as parseTypeRef: if no type
// specifier starts here, it falls through unchanged (ok == false, err ==
// nil). Once a type specifier and identifier are both committed to,
// any further failure is a genuine parse error, not a backtrack signal.
func (p *Parser) tryParseLocalVarDecl() (cast.VarDecl, bool, error) {
	mark := p.mark()
	t, ok := p.parseTypeRef()
	if !ok {
		return cast.VarDecl{}, false, nil
	}
	if !p.check(token.Identifier) {
		p.reset(mark)
		return cast.VarDecl{}, false, nil
	}
	pos := p.posOf(p.LA(0))
	name := p.lexeme(p.consume())
	d, err := p.finishVarDecl(t, name, pos)
	if err != nil {
		return cast.VarDecl{}, false, err
	}
	return d.(cast.VarDecl), true, nil
}

func (p *Parser) parseCompoundStmt() (*cast.CompoundStmt, error) {
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	var items []cast.Node
	for !p.check(token.RBrace) {
		if p.check(token.EOF) {
			return nil, p.fatalf(p.LA(0), "unexpected EOF in compound statement")
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	p.consume() // '}'
	return &cast.CompoundStmt{Items: items}, nil
}

func (p *Parser) parseReturnStmt() (cast.Stmt, error) {
	p.consume() // 'return'
	if p.match(token.Semicolon) {
		return cast.ReturnStmt{}, nil
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}
	return cast.ReturnStmt{Expr: e}, nil
}

func (p *Parser) parseIfStmt() (cast.Stmt, error) {
	p.consume() // 'if'
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt cast.Stmt
	if p.match(token.KwElse) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		elseStmt = s
	}
	return cast.IfStmt{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhileStmt() (cast.Stmt, error) {
	p.consume() // 'while'
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return cast.WhileStmt{Cond: cond, Body: body}, nil
}

// parseForStmt parses `for ( init ; cond ; post ) body`, where init is
// either a VarDecl, an expression, or empty. It reuses the same
// type-vs-expression ambiguity resolved by tryParseLocalVarDecl rather
// than opening a third backtracking site.
func (p *Parser) parseForStmt() (cast.Stmt, error) {
	p.consume() // 'for'
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}

	var initDecl *cast.VarDecl
	var initExpr cast.Expr

	if !p.check(token.Semicolon) {
		vd, ok, err := p.tryParseLocalVarDecl()
		if err != nil {
			return nil, err
		}
		if ok {
			initDecl = &vd
		} else {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			initExpr = e
			if _, err := p.eat(token.Semicolon); err != nil {
				return nil, err
			}
		}
	} else {
		p.consume() // ';'
	}

	var cond cast.Expr
	if !p.check(token.Semicolon) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		cond = e
	}
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}

	var post cast.Expr
	if !p.check(token.RParen) {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		post = e
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	return cast.ForStmt{InitDecl: initDecl, InitExpr: initExpr, Cond: cond, Post: post, Body: body}, nil
}

func (p *Parser) parseExprStmt() (cast.Stmt, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}
	return cast.ExprStmt{Expr: e}, nil
}
