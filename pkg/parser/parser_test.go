package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/lexer"
	"github.com/ccbind/cbind/pkg/macro"
	"github.com/ccbind/cbind/pkg/pp"
	"github.com/ccbind/cbind/pkg/token"
)

func ignorePos() cmp.Option {
	return cmp.FilterValues(func(_, _ csrc.Position) bool { return true },
		cmp.Ignore())
}

// parseSource runs the full pipeline the cbind binary uses: lex, parse the
// preprocessor grammar, project macros, then parse declarations. This
// exercises pkg/lexer, pkg/pp, pkg/macro, and pkg/parser together, matching
// how spec.md's end-to-end scenarios are phrased.
func parseSource(t *testing.T, src string) *cast.TranslationUnit {
	t.Helper()
	buf := csrc.NewBuffer("test.c", []byte(src))
	lx := lexer.New(buf)

	var toks []token.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	tu, err := pp.Parse(buf, toks)
	if err != nil {
		t.Fatalf("pp parse error: %v", err)
	}

	env := macro.NewEnv()
	projected := macro.Project(buf, tu, env)

	ast, err := Parse(buf, projected)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return ast
}

func TestArithmeticOnlyProgram(t *testing.T) {
	ast := parseSource(t, `
int add(int a, int b) {
    return a + b * 2;
}
`)
	want := &cast.TranslationUnit{
		Decls: []cast.Decl{
			cast.FuncDecl{
				ReturnType: cast.TypeRef{Name: "int"},
				Name:       "add",
				Params: []cast.ParamDecl{
					{Type: cast.TypeRef{Name: "int"}, Name: "a"},
					{Type: cast.TypeRef{Name: "int"}, Name: "b"},
				},
				Body: &cast.CompoundStmt{Items: []cast.Node{
					cast.ReturnStmt{Expr: cast.Binary{
						Op:   cast.OpAdd,
						Left: cast.Ident{Name: "a"},
						Right: cast.Binary{
							Op:    cast.OpMul,
							Left:  cast.Ident{Name: "b"},
							Right: cast.IntLiteral{Value: 2},
						},
					}},
				}},
			},
		},
	}
	if diff := cmp.Diff(want, ast, ignorePos()); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestForLoopWithBreakAndContinue(t *testing.T) {
	ast := parseSource(t, `
void scan(int n) {
    for (int i = 0; i < n; i++) {
        if (i == 5) {
            break;
        }
        if (i == 2) {
            continue;
        }
    }
}
`)
	fn, ok := ast.Decls[0].(cast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", ast.Decls[0])
	}
	forStmt, ok := fn.Body.Items[0].(cast.ForStmt)
	if !ok {
		t.Fatalf("expected ForStmt, got %T", fn.Body.Items[0])
	}
	if forStmt.InitDecl == nil || forStmt.InitDecl.Name != "i" {
		t.Fatalf("expected for-loop init decl of i, got %+v", forStmt.InitDecl)
	}
	body, ok := forStmt.Body.(cast.CompoundStmt)
	if !ok || len(body.Items) != 2 {
		t.Fatalf("expected 2-statement for-loop body, got %+v", forStmt.Body)
	}
	if _, ok := body.Items[0].(cast.IfStmt).Then.(cast.CompoundStmt).Items[0].(cast.BreakStmt); !ok {
		t.Errorf("expected break inside first if")
	}
	if _, ok := body.Items[1].(cast.IfStmt).Then.(cast.CompoundStmt).Items[0].(cast.ContinueStmt); !ok {
		t.Errorf("expected continue inside second if")
	}
}

func TestTypedefDisambiguation(t *testing.T) {
	ast := parseSource(t, `
typedef int MyInt;
MyInt value;
`)
	if len(ast.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(ast.Decls))
	}
	td, ok := ast.Decls[0].(cast.TypedefDecl)
	if !ok || td.Name != "MyInt" {
		t.Fatalf("expected typedef MyInt, got %+v", ast.Decls[0])
	}
	v, ok := ast.Decls[1].(cast.VarDecl)
	if !ok || v.Type.Name != "MyInt" || v.Name != "value" {
		t.Fatalf("expected var decl of type MyInt named value, got %+v", ast.Decls[1])
	}
}

func TestFunctionLikeMacroLeftUnexpandedVsObjectLikeExpanded(t *testing.T) {
	ast := parseSource(t, `
#define SCALE 2
#define DOUBLE(x) ((x) * 2)
int factor = SCALE;
int result = DOUBLE(factor);
`)
	if len(ast.Decls) != 2 {
		t.Fatalf("expected 2 decls after macro projection, got %d", len(ast.Decls))
	}
	factor, ok := ast.Decls[0].(cast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", ast.Decls[0])
	}
	if lit, ok := factor.Init.(cast.IntLiteral); !ok || lit.Value != 2 {
		t.Errorf("expected SCALE to expand to int literal 2, got %+v", factor.Init)
	}

	result, ok := ast.Decls[1].(cast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", ast.Decls[1])
	}
	call, ok := result.Init.(cast.Call)
	if !ok {
		t.Fatalf("expected DOUBLE(factor) to survive as an unexpanded call, got %+v", result.Init)
	}
	if ident, ok := call.Func.(cast.Ident); !ok || ident.Name != "DOUBLE" {
		t.Errorf("expected call target DOUBLE, got %+v", call.Func)
	}
}

func TestOpaqueStructAndPointerTypedef(t *testing.T) {
	ast := parseSource(t, `
struct GLFWwindow;
typedef struct GLFWwindow* GLFWwindowPtr;
`)
	want := &cast.TranslationUnit{
		Decls: []cast.Decl{
			cast.StructDecl{Name: "GLFWwindow"},
			cast.TypedefDecl{
				Type: cast.TypeRef{IsStruct: true, Name: "GLFWwindow", PointerDepth: 1},
				Name: "GLFWwindowPtr",
			},
		},
	}
	if diff := cmp.Diff(want, ast, ignorePos()); diff != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedIfSectionProjectsOnlyIfBranch(t *testing.T) {
	ast := parseSource(t, `
#ifdef FEATURE_A
#ifdef FEATURE_B
int inner;
#else
int notreached;
#endif
#else
int outer_else;
#endif
`)
	if len(ast.Decls) != 1 {
		t.Fatalf("expected 1 decl (only the If branch is ever projected), got %d", len(ast.Decls))
	}
	v, ok := ast.Decls[0].(cast.VarDecl)
	if !ok || v.Name != "inner" {
		t.Fatalf("expected var decl named inner, got %+v", ast.Decls[0])
	}
}

func TestLibraryQualifiedExternBlock(t *testing.T) {
	ast := parseSource(t, `
extern "glfw3.dll" {
    int glfwInit(void);
}
`)
	block, ok := ast.Decls[0].(cast.ExternBlock)
	if !ok || block.Language != "glfw3.dll" {
		t.Fatalf("expected extern glfw3.dll block, got %+v", ast.Decls[0])
	}
	fn, ok := block.Decls[0].(cast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl inside extern block, got %T", block.Decls[0])
	}
	if fn.Library != "glfw3.dll" {
		t.Errorf("expected Library tagged from enclosing extern block, got %q", fn.Library)
	}
	if len(fn.Params) != 0 {
		t.Errorf("expected (void) to parse as zero parameters, got %d", len(fn.Params))
	}
}

func TestEmptyInputYieldsZeroDecls(t *testing.T) {
	ast := parseSource(t, "")
	if len(ast.Decls) != 0 {
		t.Fatalf("expected zero decls for empty input, got %d", len(ast.Decls))
	}
}

func TestGlobalVsFunctionDisambiguationBacktracks(t *testing.T) {
	ast := parseSource(t, `
int counter = 0;
int increment(int step) {
    return counter + step;
}
`)
	if len(ast.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(ast.Decls))
	}
	if _, ok := ast.Decls[0].(cast.VarDecl); !ok {
		t.Errorf("expected first decl to be a VarDecl, got %T", ast.Decls[0])
	}
	fn, ok := ast.Decls[1].(cast.FuncDecl)
	if !ok || fn.Body == nil {
		t.Errorf("expected second decl to be a function definition, got %+v", ast.Decls[1])
	}
}

func TestUnknownIdentifierAsTypeIsFatal(t *testing.T) {
	buf := csrc.NewBuffer("test.c", []byte("Widget w;"))
	lx := lexer.New(buf)
	var toks []token.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatalf("lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	_, err := Parse(buf, toks)
	if err == nil {
		t.Fatalf("expected parse error for unknown type name Widget")
	}
}
