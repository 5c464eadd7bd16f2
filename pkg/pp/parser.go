package pp

import (
	"fmt"

	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/token"
)

// Error is a fatal PP-parse error: an unmatched #elif/#else/#endif, a
// missing #endif, or a malformed macro parameter list.
type Error struct {
	Pos csrc.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Pos.File, e.Pos.Line, e.Pos.Col, e.Msg)
}

// Parser groups a flat token stream into a TranslationUnit.
type Parser struct {
	buf  *csrc.Buffer
	toks []token.Token
	pos  int
}

// Parse consumes toks (as produced by lexer.Lexer, including the trailing
// EOF token) and returns the preprocessor tree.
func Parse(buf *csrc.Buffer, toks []token.Token) (*TranslationUnit, error) {
	p := &Parser{buf: buf, toks: toks}
	parts, _, err := p.parseGroupUntil(nil)
	if err != nil {
		return nil, err
	}
	return &TranslationUnit{Parts: parts}, nil
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(k int) token.Token {
	if p.pos+k >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos+k]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) lexeme(tok token.Token) string {
	return p.buf.String(tok.Start, tok.Length)
}

func (p *Parser) errorAt(tok token.Token, msg string) error {
	return &Error{Pos: p.buf.PositionAt(tok.Start), Msg: msg}
}

// collectRestOfLine accumulates tokens until the next token's leading
// trivia contains a Newline (or it is EOF), then returns the collected
// slice. The token that carries the newline is not consumed.
func (p *Parser) collectRestOfLine() []token.Token {
	var toks []token.Token
	for {
		tok := p.peek()
		if tok.Kind == token.EOF || token.HasNewline(tok.Leading) {
			return toks
		}
		toks = append(toks, tok)
		p.pos++
	}
}

// tryConsumeEllipsis consumes three pairwise-adjacent Dot tokens (`...`)
// if present at the current position, per spec.md §4.2's adjacency test.
func (p *Parser) tryConsumeEllipsis() bool {
	a, b, c := p.peek(), p.peekAt(1), p.peekAt(2)
	if a.Kind == token.Dot && b.Kind == token.Dot && c.Kind == token.Dot &&
		a.AdjacentTo(b) && b.AdjacentTo(c) {
		p.pos += 3
		return true
	}
	return false
}

// parseGroupUntil parses GroupParts until it encounters a directive whose
// keyword PPKind is in terminators, or EOF. It returns the parts, the
// PPKind that stopped it (Other on EOF), and any fatal error.
func (p *Parser) parseGroupUntil(terminators map[token.PPKind]bool) ([]GroupPart, token.PPKind, error) {
	var parts []GroupPart
	for {
		tok := p.peek()
		if tok.Kind == token.EOF {
			return parts, token.Other, nil
		}
		if tok.Kind == token.DirectiveHash {
			kw := p.peekAt(1)
			if terminators != nil && terminators[kw.PPKind] {
				return parts, kw.PPKind, nil
			}
			part, err := p.parseDirective()
			if err != nil {
				return nil, token.Other, err
			}
			parts = append(parts, part)
			continue
		}
		parts = append(parts, p.parseTextRun())
	}
}

func (p *Parser) parseTextRun() GroupPart {
	var toks []token.Token
	for {
		tok := p.peek()
		if tok.Kind == token.DirectiveHash || tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
		p.pos++
	}
	return Text{Tokens: toks}
}

var ifSectionTerminators = map[token.PPKind]bool{
	token.Elif:  true,
	token.Else:  true,
	token.Endif: true,
}

func (p *Parser) parseDirective() (GroupPart, error) {
	p.advance() // consume '#'
	kw := p.peek()

	if kw.Kind == token.EOF || token.HasNewline(kw.Leading) {
		// `#` alone on a line is a legal empty directive.
		return SimpleDirective{}, nil
	}

	switch kw.PPKind {
	case token.Include:
		p.advance()
		return IncludeDirective{RawTokens: p.collectRestOfLine()}, nil
	case token.Define:
		return p.parseDefine()
	case token.Undef:
		p.advance()
		if p.peek().Kind != token.Identifier {
			return nil, p.errorAt(p.peek(), "expected identifier after #undef")
		}
		name := p.lexeme(p.advance())
		p.collectRestOfLine() // discard trailing garbage
		return UndefDirective{Name: name}, nil
	case token.If:
		p.advance()
		return p.parseIfSection(token.If)
	case token.Ifdef:
		p.advance()
		return p.parseIfSection(token.Ifdef)
	case token.Ifndef:
		p.advance()
		return p.parseIfSection(token.Ifndef)
	case token.Elif, token.Else, token.Endif:
		return nil, p.errorAt(kw, fmt.Sprintf("#%s without matching #if", p.lexeme(kw)))
	default:
		keyword := p.lexeme(kw)
		p.advance()
		return SimpleDirective{Keyword: keyword, RestOfLine: p.collectRestOfLine()}, nil
	}
}

// parseDefine implements spec.md §4.2's ParseDefine.
func (p *Parser) parseDefine() (GroupPart, error) {
	p.advance() // consume 'define'

	if p.peek().Kind != token.Identifier {
		return nil, p.errorAt(p.peek(), "expected macro name after #define")
	}
	nameTok := p.advance()
	name := p.lexeme(nameTok)

	lparen := p.peek()
	isFunctionLike := lparen.Kind == token.LParen && nameTok.AdjacentTo(lparen)

	var params []string
	isVariadic := false
	if isFunctionLike {
		p.advance() // consume '('
		if p.peek().Kind != token.RParen {
			for {
				if p.tryConsumeEllipsis() {
					isVariadic = true
					break
				}
				if p.peek().Kind != token.Identifier {
					return nil, p.errorAt(p.peek(), "malformed #define parameter list")
				}
				params = append(params, p.lexeme(p.advance()))
				if p.tryConsumeEllipsis() {
					isVariadic = true
					break
				}
				if p.peek().Kind == token.Comma {
					p.advance()
					continue
				}
				break
			}
		}
		if p.peek().Kind != token.RParen {
			return nil, p.errorAt(p.peek(), "malformed #define parameter list: expected ')'")
		}
		p.advance() // consume ')'
	}

	return DefineDirective{
		Name:              name,
		IsFunctionLike:    isFunctionLike,
		Parameters:        params,
		IsVariadic:        isVariadic,
		ReplacementTokens: p.collectRestOfLine(),
	}, nil
}

// parseIfSection implements spec.md §4.2's ParseIfSection. kind is the
// already-consumed If/Ifdef/Ifndef keyword.
func (p *Parser) parseIfSection(kind token.PPKind) (GroupPart, error) {
	condition := p.collectRestOfLine()
	body, term, err := p.parseGroupUntil(ifSectionTerminators)
	if err != nil {
		return nil, err
	}

	section := IfSection{If: IfBranch{Kind: kind, Condition: condition, Body: body}}

	for term == token.Elif {
		p.advance() // '#'
		p.advance() // 'elif'
		cond := p.collectRestOfLine()
		elifBody, nextTerm, err := p.parseGroupUntil(ifSectionTerminators)
		if err != nil {
			return nil, err
		}
		section.Elifs = append(section.Elifs, IfBranch{Kind: token.Elif, Condition: cond, Body: elifBody})
		term = nextTerm
	}

	if term == token.Else {
		p.advance() // '#'
		p.advance() // 'else'
		p.collectRestOfLine() // else takes no condition; discard any garbage
		elseBody, nextTerm, err := p.parseGroupUntil(map[token.PPKind]bool{token.Endif: true})
		if err != nil {
			return nil, err
		}
		section.Else = &IfBranch{Kind: token.Else, Body: elseBody}
		term = nextTerm
	}

	if term != token.Endif {
		return nil, p.errorAt(p.peek(), "missing #endif")
	}
	p.advance() // '#'
	p.advance() // 'endif'
	p.collectRestOfLine()

	return section, nil
}
