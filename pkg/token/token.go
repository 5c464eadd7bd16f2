// Package token defines the trivia and token vocabulary shared by the
// lexer, preprocessor parser, macro projector, and declaration parser.
package token

// Kind is the closed set of token kinds spec.md §3 lists. Unlike the
// teacher's lexer.TokenType, there is no separate preprocessor token type:
// a single Kind/PPKind pair classifies every token both ways, since the PP
// parser and the declaration parser share one token stream.
type Kind int

const (
	EOF Kind = iota
	Identifier
	IntLiteral
	FloatLiteral
	StringLiteral
	Dot

	// Punctuation
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semicolon
	Plus
	Minus
	Star
	Slash
	Bang
	Amp
	Assign
	Lt
	Gt
	Pipe
	Increment
	Decrement
	Eq
	Ne
	Le
	Ge
	AndAnd
	OrOr

	// Keywords
	KwReturn
	KwIf
	KwElse
	KwWhile
	KwFor
	KwBreak
	KwContinue
	KwExtern
	KwTypedef
	KwStruct
	KwConst
	KwVolatile
	KwRestrict
	KwUnsigned
	KwAttribute
	KwNull

	// A line-initial '#'.
	DirectiveHash
)

var kindNames = map[Kind]string{
	EOF:           "EOF",
	Identifier:    "IDENT",
	IntLiteral:    "INT",
	FloatLiteral:  "FLOAT",
	StringLiteral: "STRING",
	Dot:           ".",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	Comma:         ",",
	Semicolon:     ";",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Bang:          "!",
	Amp:           "&",
	Assign:        "=",
	Lt:            "<",
	Gt:            ">",
	Pipe:          "|",
	Increment:     "++",
	Decrement:     "--",
	Eq:            "==",
	Ne:            "!=",
	Le:            "<=",
	Ge:            ">=",
	AndAnd:        "&&",
	OrOr:          "||",
	KwReturn:      "return",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwFor:         "for",
	KwBreak:       "break",
	KwContinue:    "continue",
	KwExtern:      "extern",
	KwTypedef:     "typedef",
	KwStruct:      "struct",
	KwConst:       "const",
	KwVolatile:    "volatile",
	KwRestrict:    "restrict",
	KwUnsigned:    "unsigned",
	KwAttribute:   "__attribute__",
	KwNull:        "NULL",
	DirectiveHash: "#",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// keywords maps a C keyword lexeme to its Kind. Identifiers that miss this
// table keep Kind == Identifier.
var keywords = map[string]Kind{
	"return":        KwReturn,
	"if":            KwIf,
	"else":          KwElse,
	"while":         KwWhile,
	"for":           KwFor,
	"break":         KwBreak,
	"continue":      KwContinue,
	"extern":        KwExtern,
	"typedef":       KwTypedef,
	"struct":        KwStruct,
	"const":         KwConst,
	"volatile":      KwVolatile,
	"restrict":      KwRestrict,
	"unsigned":      KwUnsigned,
	"__attribute__": KwAttribute,
	"NULL":          KwNull,
}

// LookupKeyword returns the Kind for ident: a keyword Kind if ident names
// one, else Identifier.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}

// PPKind is the closed tag set spec.md §3 attaches to identifier-like
// tokens so the PP parser never has to rescan lexemes to recognize a
// directive keyword.
type PPKind int

const (
	Other PPKind = iota
	If
	Else
	Define
	Undef
	Include
	Ifdef
	Ifndef
	Elif
	Endif
)

var ppKindNames = map[PPKind]string{
	Other:   "other",
	If:      "if",
	Else:    "else",
	Define:  "define",
	Undef:   "undef",
	Include: "include",
	Ifdef:   "ifdef",
	Ifndef:  "ifndef",
	Elif:    "elif",
	Endif:   "endif",
}

func (k PPKind) String() string {
	if name, ok := ppKindNames[k]; ok {
		return name
	}
	return "other"
}

var ppKeywords = map[string]PPKind{
	"if":      If,
	"else":    Else,
	"define":  Define,
	"undef":   Undef,
	"include": Include,
	"ifdef":   Ifdef,
	"ifndef":  Ifndef,
	"elif":    Elif,
	"endif":   Endif,
}

// LookupPPKeyword returns the PPKind for ident: a directive PPKind if
// ident names one, else Other.
func LookupPPKeyword(ident string) PPKind {
	if k, ok := ppKeywords[ident]; ok {
		return k
	}
	return Other
}
