// Package parser implements a recursive-descent + Pratt-precedence parser
// for the declaration-level C subset: external declarations, typedefs,
// struct declarations, function definitions and extern declarations,
// local declarations and statements, and expressions with C precedence.
package parser

import (
	"fmt"

	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/token"
)

// Error is a fatal parse error: a token mismatch, missing type specifier,
// or missing primary expression. Per spec.md §7, parsing has no recovery
// — the first Error aborts the translation unit.
type Error struct {
	Pos csrc.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Col, e.Msg)
}

// builtinTypeNames seeds typedef_names with spec.md §3's built-in C type
// names and a set of fixed-width Khronos-style aliases (the motivating
// GLFW-binding use case, per original_source/, leans on these heavily).
var builtinTypeNames = []string{
	"int", "char", "float", "double", "long", "void", "short",
	"int8_t", "uint8_t", "int16_t", "uint16_t",
	"int32_t", "uint32_t", "int64_t", "uint64_t",
	"size_t", "ssize_t",
}

// Parser is a buffered reader over a projected token stream, supporting
// LA(k)/consume/check/match/eat and a single mark/reset pair for bounded
// backtracking (spec.md §4.4).
type Parser struct {
	buf          *csrc.Buffer
	toks         []token.Token
	pos          int
	typedefNames map[string]bool
	structTags   map[string]bool
}

// New creates a Parser over toks, the token stream produced by
// macro.Project, with typedef_names seeded per spec.md §3.
func New(buf *csrc.Buffer, toks []token.Token) *Parser {
	p := &Parser{
		buf:          buf,
		toks:         toks,
		typedefNames: make(map[string]bool),
		structTags:   make(map[string]bool),
	}
	for _, name := range builtinTypeNames {
		p.typedefNames[name] = true
	}
	return p
}

// Parse parses toks into a TranslationUnit.
func Parse(buf *csrc.Buffer, toks []token.Token) (*cast.TranslationUnit, error) {
	p := New(buf, toks)
	var decls []cast.Decl
	for !p.check(token.EOF) {
		d, err := p.parseExternalDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return &cast.TranslationUnit{Decls: decls}, nil
}

// LA returns the token k positions ahead of the cursor (LA(0) is the
// current token).
func (p *Parser) LA(k int) token.Token {
	i := p.pos + k
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) consume() token.Token {
	tok := p.LA(0)
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return p.LA(0).Kind == k
}

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.consume()
		return true
	}
	return false
}

func (p *Parser) eat(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.consume(), nil
	}
	return token.Token{}, p.fatalf(p.LA(0), "expected %s, got %s", k, p.LA(0).Kind)
}

// mark/reset implement the single bounded-backtracking pair spec.md §4.4
// allows, used only at the designated ambiguity sites (type-vs-expression
// head, function-def vs global variable).
func (p *Parser) mark() int   { return p.pos }
func (p *Parser) reset(m int) { p.pos = m }

func (p *Parser) lexeme(tok token.Token) string {
	return p.buf.String(tok.Start, tok.Length)
}

func (p *Parser) posOf(tok token.Token) csrc.Position {
	return p.buf.PositionAt(tok.Start)
}

func (p *Parser) fatalf(tok token.Token, format string, args ...any) error {
	return &Error{Pos: p.posOf(tok), Msg: fmt.Sprintf(format, args...)}
}

// parseTypeRef is the primary backtracking point: optional `struct`
// prefix, optional `unsigned` qualifier (fused into the name), then an
// identifier that must already be a typedef name or struct tag, then a
// run of `*` counted as pointer depth. On failure the reader is reset and
// (TypeRef{}, false) is returned.
func (p *Parser) parseTypeRef() (cast.TypeRef, bool) {
	mark := p.mark()
	pos := p.posOf(p.LA(0))

	isStruct := p.match(token.KwStruct)

	unsigned := p.match(token.KwUnsigned)

	if !p.check(token.Identifier) {
		p.reset(mark)
		return cast.TypeRef{}, false
	}
	name := p.lexeme(p.LA(0))

	var known bool
	if isStruct {
		known = p.structTags[name]
	} else {
		known = p.typedefNames[name]
	}
	if !known {
		p.reset(mark)
		return cast.TypeRef{}, false
	}
	p.consume()

	if unsigned {
		name = "unsigned " + name
	}

	depth := 0
	for p.match(token.Star) {
		depth++
	}

	return cast.TypeRef{IsStruct: isStruct, Name: name, PointerDepth: depth, Pos: pos}, true
}
