package parser

import (
	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/token"
)

// parseExternalDecl parses one top-level declaration: an optional
// `extern "lang"` wrapper, optional `__attribute__((...))`, optional bare
// `extern`, then a typedef, struct declaration, function definition/
// declaration, or global variable declaration.
func (p *Parser) parseExternalDecl() (cast.Decl, error) {
	if p.check(token.KwExtern) && p.LA(1).Kind == token.StringLiteral {
		return p.parseExternBlock()
	}

	attr := cast.AttrNone
	if p.check(token.KwAttribute) {
		a, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		attr = a
	}

	isExtern := p.match(token.KwExtern)

	if p.check(token.KwTypedef) {
		return p.parseTypedefDecl()
	}

	if p.check(token.KwStruct) {
		tag, after := p.LA(1), p.LA(2)
		if tag.Kind == token.Identifier && (after.Kind == token.Semicolon || after.Kind == token.LBrace) {
			return p.parseStructDecl(attr, isExtern)
		}
	}

	return p.parseFuncDefOrVarDecl(attr, isExtern)
}

// parseExternBlock handles `extern "C"`/`extern "C++"` and the
// supplemented `extern "<library>"` wrapper (DESIGN.md §9, grounded on
// original_source/main.c's `extern "glfw3.dll" ...`). A single
// declaration or a `{ ... }` block of declarations follows.
func (p *Parser) parseExternBlock() (cast.Decl, error) {
	p.consume() // 'extern'
	langTok := p.consume()
	lang := stripQuotes(p.lexeme(langTok))

	var decls []cast.Decl
	if p.check(token.LBrace) {
		p.consume()
		for !p.check(token.RBrace) {
			if p.check(token.EOF) {
				return nil, p.fatalf(p.LA(0), "unexpected EOF in extern %q block", lang)
			}
			d, err := p.parseExternalDecl()
			if err != nil {
				return nil, err
			}
			decls = append(decls, d)
		}
		p.consume() // '}'
	} else {
		d, err := p.parseExternalDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}

	if lang != "C" && lang != "C++" {
		for i, d := range decls {
			if fn, ok := d.(cast.FuncDecl); ok {
				fn.Library = lang
				decls[i] = fn
			}
		}
	}

	return cast.ExternBlock{Language: lang, Decls: decls}, nil
}

// parseAttribute handles `__attribute__((dllimport))`/`((dllexport))`.
func (p *Parser) parseAttribute() (cast.Attribute, error) {
	p.consume() // '__attribute__'
	if _, err := p.eat(token.LParen); err != nil {
		return cast.AttrNone, err
	}
	if _, err := p.eat(token.LParen); err != nil {
		return cast.AttrNone, err
	}
	if !p.check(token.Identifier) {
		return cast.AttrNone, p.fatalf(p.LA(0), "expected dllimport or dllexport, got %s", p.LA(0).Kind)
	}
	name := p.lexeme(p.consume())
	var attr cast.Attribute
	switch name {
	case "dllimport":
		attr = cast.AttrImport
	case "dllexport":
		attr = cast.AttrExport
	default:
		return cast.AttrNone, p.fatalf(p.LA(0), "unknown attribute %q", name)
	}
	if _, err := p.eat(token.RParen); err != nil {
		return cast.AttrNone, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return cast.AttrNone, err
	}
	return attr, nil
}

// parseTypedefDecl implements spec.md §4.4's ParseTypedefDecl, including
// the function-pointer typedef shape `RetType (*Name)(Params) ;`.
func (p *Parser) parseTypedefDecl() (cast.Decl, error) {
	kwPos := p.posOf(p.LA(0))
	p.consume() // 'typedef'

	baseType, ok := p.parseTypeRef()
	if !ok {
		return nil, p.fatalf(p.LA(0), "expected type specifier, got %s", p.LA(0).Kind)
	}

	if p.check(token.LParen) && p.LA(1).Kind == token.Star {
		p.consume() // '('
		depth := 0
		for p.match(token.Star) {
			depth++
		}
		if !p.check(token.Identifier) {
			return nil, p.fatalf(p.LA(0), "expected function-pointer typedef name, got %s", p.LA(0).Kind)
		}
		name := p.lexeme(p.consume())
		if _, err := p.eat(token.RParen); err != nil {
			return nil, err
		}
		if _, err := p.eat(token.LParen); err != nil {
			return nil, err
		}
		params, err := p.parseParamList()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RParen); err != nil {
			return nil, err
		}
		if _, err := p.eat(token.Semicolon); err != nil {
			return nil, err
		}
		p.typedefNames[name] = true
		return cast.TypedefDecl{
			FuncPtr: &cast.FuncPtrTypeRef{ReturnType: baseType, Parameters: params, PointerDepthToFunction: depth, Pos: kwPos},
			Name:    name,
			Pos:     kwPos,
		}, nil
	}

	if !p.check(token.Identifier) {
		return nil, p.fatalf(p.LA(0), "expected type name after typedef, got %s", p.LA(0).Kind)
	}
	name := p.lexeme(p.consume())
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}
	// Register only after the declaration successfully completes.
	p.typedefNames[name] = true
	return cast.TypedefDecl{Type: baseType, Name: name, Pos: kwPos}, nil
}

// parseStructDecl handles `struct Tag ;` (forward declaration) and
// `struct Tag { fields... } [Name2] ;`.
func (p *Parser) parseStructDecl(attr cast.Attribute, isExtern bool) (cast.Decl, error) {
	pos := p.posOf(p.LA(0))
	p.consume() // 'struct'
	name := p.lexeme(p.consume())

	if p.match(token.Semicolon) {
		p.structTags[name] = true
		return cast.StructDecl{Attribute: attr, IsExtern: isExtern, Name: name, Pos: pos}, nil
	}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	var fields []cast.StructField
	for !p.check(token.RBrace) {
		fieldType, ok := p.parseTypeRef()
		if !ok {
			return nil, p.fatalf(p.LA(0), "expected type specifier in struct field, got %s", p.LA(0).Kind)
		}
		if !p.check(token.Identifier) {
			return nil, p.fatalf(p.LA(0), "expected field name, got %s", p.LA(0).Kind)
		}
		fieldName := p.lexeme(p.consume())
		if _, err := p.eat(token.Semicolon); err != nil {
			return nil, err
		}
		fields = append(fields, cast.StructField{Type: fieldType, Name: fieldName})
	}
	p.consume() // '}'

	var name2 string
	if p.check(token.Identifier) {
		name2 = p.lexeme(p.consume())
	}
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}

	p.structTags[name] = true
	return cast.StructDecl{Attribute: attr, IsExtern: isExtern, Name: name, Name2: name2, Fields: fields, Pos: pos}, nil
}

// parseFuncDefOrVarDecl implements spec.md §4.4's function-def-vs-
// global-variable disambiguation: it attempts ParseFuncDef, and on
// backtracking failure (anything after the parameter list's `)` other
// than `;` or `{`) resets to the mark and reparses as a global variable.
func (p *Parser) parseFuncDefOrVarDecl(attr cast.Attribute, isExtern bool) (cast.Decl, error) {
	mark := p.mark()

	typeRef, ok := p.parseTypeRef()
	if !ok {
		return nil, p.fatalf(p.LA(0), "expected type specifier, got %s", p.LA(0).Kind)
	}
	if !p.check(token.Identifier) {
		return nil, p.fatalf(p.LA(0), "expected identifier, got %s", p.LA(0).Kind)
	}
	pos := p.posOf(p.LA(0))
	name := p.lexeme(p.consume())

	if p.check(token.LParen) {
		fn, ok, err := p.tryParseFuncDef(attr, isExtern, typeRef, name, pos)
		if err != nil {
			return nil, err
		}
		if ok {
			return fn, nil
		}
		p.reset(mark)
		return p.parseVarDecl()
	}

	return p.finishVarDecl(typeRef, name, pos)
}

func (p *Parser) tryParseFuncDef(attr cast.Attribute, isExtern bool, retType cast.TypeRef, name string, pos csrc.Position) (cast.Decl, bool, error) {
	p.consume() // '('
	params, err := p.parseParamList()
	if err != nil {
		return nil, false, err
	}
	if !p.check(token.RParen) {
		return nil, false, p.fatalf(p.LA(0), "expected ')' in parameter list, got %s", p.LA(0).Kind)
	}
	p.consume() // ')'

	switch {
	case p.match(token.Semicolon):
		return cast.FuncDecl{Attribute: attr, IsExtern: isExtern, ReturnType: retType, Name: name, Params: params, Pos: pos}, true, nil
	case p.check(token.LBrace):
		body, err := p.parseCompoundStmt()
		if err != nil {
			return nil, false, err
		}
		return cast.FuncDecl{Attribute: attr, IsExtern: isExtern, ReturnType: retType, Name: name, Params: params, Body: body, Pos: pos}, true, nil
	default:
		return nil, false, nil
	}
}

// parseParamList treats `(void)` as an empty parameter list.
func (p *Parser) parseParamList() ([]cast.ParamDecl, error) {
	if p.check(token.RParen) {
		return nil, nil
	}
	if p.check(token.Identifier) && p.lexeme(p.LA(0)) == "void" && p.LA(1).Kind == token.RParen {
		p.consume()
		return nil, nil
	}

	var params []cast.ParamDecl
	for {
		t, ok := p.parseTypeRef()
		if !ok {
			return nil, p.fatalf(p.LA(0), "expected type specifier in parameter list, got %s", p.LA(0).Kind)
		}
		if !p.check(token.Identifier) {
			return nil, p.fatalf(p.LA(0), "expected parameter name, got %s", p.LA(0).Kind)
		}
		name := p.lexeme(p.consume())
		params = append(params, cast.ParamDecl{Type: t, Name: name})
		if p.match(token.Comma) {
			continue
		}
		break
	}
	return params, nil
}

func (p *Parser) parseVarDecl() (cast.Decl, error) {
	typeRef, ok := p.parseTypeRef()
	if !ok {
		return nil, p.fatalf(p.LA(0), "expected type specifier, got %s", p.LA(0).Kind)
	}
	if !p.check(token.Identifier) {
		return nil, p.fatalf(p.LA(0), "expected identifier, got %s", p.LA(0).Kind)
	}
	pos := p.posOf(p.LA(0))
	name := p.lexeme(p.consume())
	return p.finishVarDecl(typeRef, name, pos)
}

func (p *Parser) finishVarDecl(t cast.TypeRef, name string, pos csrc.Position) (cast.Decl, error) {
	var init cast.Expr
	if p.match(token.Assign) {
		e, err := p.parseAssignmentExpr()
		if err != nil {
			return nil, err
		}
		init = e
	}
	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}
	return cast.VarDecl{Type: t, Name: name, Init: init, Pos: pos}, nil
}

func stripQuotes(lexeme string) string {
	if len(lexeme) >= 2 && lexeme[0] == '"' && lexeme[len(lexeme)-1] == '"' {
		return lexeme[1 : len(lexeme)-1]
	}
	return lexeme
}
