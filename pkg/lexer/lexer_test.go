package lexer

import (
	"testing"

	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(csrc.NewBuffer("t.c", []byte(src)))
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestNextTokenKinds(t *testing.T) {
	buf := csrc.NewBuffer("t.c", []byte("int main() { return 42; }"))
	l := New(buf)

	tests := []struct {
		kind    token.Kind
		lexeme  string
	}{
		{token.Identifier, "int"},
		{token.Identifier, "main"},
		{token.LParen, "("},
		{token.RParen, ")"},
		{token.LBrace, "{"},
		{token.KwReturn, "return"},
		{token.IntLiteral, "42"},
		{token.Semicolon, ";"},
		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d]: NextToken: %v", i, err)
		}
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v", i, tt.kind, tok.Kind)
		}
		got := buf.String(tok.Start, tok.Length)
		if got != tt.lexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lexeme, got)
		}
	}
}

func TestOperators(t *testing.T) {
	toks := lexAll(t, "+ - * / = == != < <= > >= && || ! & | ++ --")
	want := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Assign,
		token.Eq, token.Ne, token.Lt, token.Le, token.Gt, token.Ge,
		token.AndAnd, token.OrOr, token.Bang, token.Amp, token.Pipe,
		token.Increment, token.Decrement, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTriviaReconstructsSource(t *testing.T) {
	src := "int  x; // comment\n/* block */int y;\n"
	buf := csrc.NewBuffer("t.c", []byte(src))
	l := New(buf)

	var rebuilt []byte
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		for _, tr := range tok.Leading {
			rebuilt = append(rebuilt, buf.Slice(tr.Start, tr.Length)...)
		}
		rebuilt = append(rebuilt, buf.Slice(tok.Start, tok.Length)...)
		if tok.Kind == token.EOF {
			break
		}
	}
	if string(rebuilt) != src {
		t.Errorf("reconstructed source = %q, want %q", rebuilt, src)
	}
}

func TestDirectiveHashAtBOL(t *testing.T) {
	toks := lexAll(t, "#define A 1\nint x = A + 1;\n")
	if toks[0].Kind != token.DirectiveHash {
		t.Fatalf("first token kind = %v, want DirectiveHash", toks[0].Kind)
	}
	if toks[1].PPKind != token.Define {
		t.Fatalf("second token PPKind = %v, want Define", toks[1].PPKind)
	}
}

func TestNumericScanning(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLiteral},
		{"3.14", token.FloatLiteral},
		{"3.", token.FloatLiteral},
		{".5", token.FloatLiteral},
		{"1e10", token.FloatLiteral},
		{"1e", token.IntLiteral}, // no exponent digits: rolled back to plain int
		{"2f", token.FloatLiteral},
	}
	for _, c := range cases {
		toks := lexAll(t, c.src)
		if toks[0].Kind != c.kind {
			t.Errorf("lex(%q) kind = %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestEmptyInputYieldsSingleEOF(t *testing.T) {
	toks := lexAll(t, "")
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("lex(\"\") = %v, want single EOF", toks)
	}
	if toks[0].Start != 0 || toks[0].Length != 0 {
		t.Fatalf("EOF token = %+v, want Start=0 Length=0", toks[0])
	}
}

func TestUnterminatedBlockCommentIsFatal(t *testing.T) {
	l := New(csrc.NewBuffer("t.c", []byte("int x; /* oops")))
	for i := 0; i < 4; i++ {
		if _, err := l.NextToken(); err != nil {
			return
		}
	}
	t.Fatal("expected a fatal lex error for unterminated block comment")
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	l := New(csrc.NewBuffer("t.c", []byte(`"oops`)))
	if _, err := l.NextToken(); err == nil {
		t.Fatal("expected a fatal lex error for unterminated string")
	}
}
