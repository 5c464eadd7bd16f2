// Package pp implements the preprocessor parser: it groups a flat token
// stream into a structured tree of directives and raw text runs, without
// evaluating conditions or resolving inclusion.
package pp

import "github.com/ccbind/cbind/pkg/token"

// GroupPart is the sum type spec.md §3 calls PpGroupPart. Every concrete
// part implements implGroupPart as a marker, following the teacher's
// cabs.Node idiom (an interface with no methods beyond the marker).
type GroupPart interface {
	implGroupPart()
}

// Text is a maximal run of non-directive tokens.
type Text struct {
	Tokens []token.Token
}

func (Text) implGroupPart() {}

// IncludeDirective captures the tokens after `include` to end-of-line,
// unparsed: header-inclusion is out of scope (spec.md §1, §9).
type IncludeDirective struct {
	RawTokens []token.Token
}

func (IncludeDirective) implGroupPart() {}

// DefineDirective is a `#define`. ReplacementTokens is the raw token run
// collected to end-of-line; it is never evaluated or substituted here.
type DefineDirective struct {
	Name              string
	IsFunctionLike    bool
	Parameters        []string
	IsVariadic        bool
	ReplacementTokens []token.Token
}

func (DefineDirective) implGroupPart() {}

// UndefDirective is a `#undef`.
type UndefDirective struct {
	Name string
}

func (UndefDirective) implGroupPart() {}

// IfBranch is one arm of a conditional section: the `#if`/`#ifdef`/
// `#ifndef`/`#elif` head (kind + condition tokens, empty for an
// unconditional `#else`), and the child parts of its body.
type IfBranch struct {
	Kind      token.PPKind
	Condition []token.Token
	Body      []GroupPart
}

// IfSection is a full `#if ... #elif ... #else ... #endif` chain. At
// most one Else is present.
type IfSection struct {
	If    IfBranch
	Elifs []IfBranch
	Else  *IfBranch
}

func (IfSection) implGroupPart() {}

// SimpleDirective is the catch-all for any directive keyword the
// dispatcher does not special-case (`#pragma`, `#line`, `#error`, ...).
type SimpleDirective struct {
	Keyword        string
	RestOfLine     []token.Token
}

func (SimpleDirective) implGroupPart() {}

// TranslationUnit is the ordered top-level list of GroupParts for one
// source buffer.
type TranslationUnit struct {
	Parts []GroupPart
}
