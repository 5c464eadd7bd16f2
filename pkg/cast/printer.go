package cast

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders a TranslationUnit back to indented, C-like text. It is
// a debugging/dump aid (grounded on the teacher's cabs.Printer), not a
// byte-exact unparser.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintTranslationUnit prints every top-level declaration in order.
func (p *Printer) PrintTranslationUnit(tu *TranslationUnit) {
	for _, d := range tu.Decls {
		p.printDecl(d)
	}
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("    ", p.indent))
}

func (p *Printer) printType(t TypeRef) string {
	var b strings.Builder
	if t.IsStruct {
		b.WriteString("struct ")
	}
	b.WriteString(t.Name)
	b.WriteString(strings.Repeat("*", t.PointerDepth))
	return b.String()
}

func (p *Printer) printDecl(d Decl) {
	switch d := d.(type) {
	case FuncDecl:
		p.printFuncDecl(d)
	case TypedefDecl:
		p.printTypedefDecl(d)
	case StructDecl:
		p.printStructDecl(d)
	case VarDecl:
		p.writeIndent()
		p.printVarDeclHeader(d)
		fmt.Fprintln(p.w, ";")
	case ExternBlock:
		p.writeIndent()
		fmt.Fprintf(p.w, "extern %q {\n", d.Language)
		p.indent++
		for _, inner := range d.Decls {
			p.printDecl(inner)
		}
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown decl %T */\n", d)
	}
}

func (p *Printer) printVarDeclHeader(v VarDecl) {
	fmt.Fprintf(p.w, "%s %s", p.printType(v.Type), v.Name)
	if v.Init != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(v.Init)
	}
}

func (p *Printer) printFuncDecl(f FuncDecl) {
	p.writeIndent()
	if f.Attribute != AttrNone {
		fmt.Fprintf(p.w, "__attribute__((%s)) ", f.Attribute)
	}
	if f.IsExtern {
		if f.Library != "" {
			fmt.Fprintf(p.w, "extern %q ", f.Library)
		} else {
			fmt.Fprint(p.w, "extern ")
		}
	}
	fmt.Fprintf(p.w, "%s %s(", p.printType(f.ReturnType), f.Name)
	for i, param := range f.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprintf(p.w, "%s %s", p.printType(param.Type), param.Name)
	}
	fmt.Fprint(p.w, ")")
	if f.Body == nil {
		fmt.Fprintln(p.w, ";")
		return
	}
	fmt.Fprintln(p.w, " {")
	p.indent++
	for _, item := range f.Body.Items {
		p.printNode(item)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprintln(p.w, "}")
}

func (p *Printer) printTypedefDecl(t TypedefDecl) {
	p.writeIndent()
	if t.FuncPtr != nil {
		fmt.Fprintf(p.w, "typedef %s (*%s)(", p.printType(t.FuncPtr.ReturnType), t.Name)
		for i, param := range t.FuncPtr.Parameters {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			fmt.Fprintf(p.w, "%s %s", p.printType(param.Type), param.Name)
		}
		fmt.Fprintln(p.w, ");")
		return
	}
	fmt.Fprintf(p.w, "typedef %s %s;\n", p.printType(t.Type), t.Name)
}

func (p *Printer) printStructDecl(s StructDecl) {
	p.writeIndent()
	if s.Fields == nil {
		fmt.Fprintf(p.w, "struct %s;\n", s.Name)
		return
	}
	fmt.Fprintf(p.w, "struct %s {\n", s.Name)
	p.indent++
	for _, f := range s.Fields {
		p.writeIndent()
		fmt.Fprintf(p.w, "%s %s;\n", p.printType(f.Type), f.Name)
	}
	p.indent--
	p.writeIndent()
	if s.Name2 != "" {
		fmt.Fprintf(p.w, "} %s;\n", s.Name2)
	} else {
		fmt.Fprintln(p.w, "};")
	}
}

func (p *Printer) printNode(n Node) {
	switch n := n.(type) {
	case VarDecl:
		p.writeIndent()
		p.printVarDeclHeader(n)
		fmt.Fprintln(p.w, ";")
	default:
		if s, ok := n.(Stmt); ok {
			p.printStmt(s)
		}
	}
}

func (p *Printer) printStmt(s Stmt) {
	switch s := s.(type) {
	case ExprStmt:
		p.writeIndent()
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case ReturnStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "return")
		if s.Expr != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case CompoundStmt:
		p.writeIndent()
		fmt.Fprintln(p.w, "{")
		p.indent++
		for _, item := range s.Items {
			p.printNode(item)
		}
		p.indent--
		p.writeIndent()
		fmt.Fprintln(p.w, "}")
	case IfStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printStmt(s.Then)
		if s.Else != nil {
			p.writeIndent()
			fmt.Fprintln(p.w, "else")
			p.printStmt(s.Else)
		}
	case WhileStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprintln(p.w, ")")
		p.printStmt(s.Body)
	case ForStmt:
		p.writeIndent()
		fmt.Fprint(p.w, "for (")
		if s.InitDecl != nil {
			p.printVarDeclHeader(*s.InitDecl)
		} else if s.InitExpr != nil {
			p.printExpr(s.InitExpr)
		}
		fmt.Fprint(p.w, "; ")
		if s.Cond != nil {
			p.printExpr(s.Cond)
		}
		fmt.Fprint(p.w, "; ")
		if s.Post != nil {
			p.printExpr(s.Post)
		}
		fmt.Fprintln(p.w, ")")
		p.printStmt(s.Body)
	case BreakStmt:
		p.writeIndent()
		fmt.Fprintln(p.w, "break;")
	case ContinueStmt:
		p.writeIndent()
		fmt.Fprintln(p.w, "continue;")
	case VarDecl:
		p.writeIndent()
		p.printVarDeclHeader(s)
		fmt.Fprintln(p.w, ";")
	default:
		p.writeIndent()
		fmt.Fprintf(p.w, "/* unknown stmt %T */\n", s)
	}
}

func (p *Printer) printExpr(e Expr) {
	switch e := e.(type) {
	case IntLiteral:
		fmt.Fprintf(p.w, "%d", e.Value)
	case FloatLiteral:
		fmt.Fprintf(p.w, "%g", e.Value)
	case StringLiteral:
		fmt.Fprintf(p.w, "%q", e.Value)
	case NullLiteral:
		fmt.Fprint(p.w, "NULL")
	case Ident:
		fmt.Fprint(p.w, e.Name)
	case Unary:
		switch e.Op {
		case OpPostInc, OpPostDec:
			p.printExpr(e.Expr)
			fmt.Fprint(p.w, e.Op)
		default:
			fmt.Fprint(p.w, e.Op)
			p.printExpr(e.Expr)
		}
	case Binary:
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printExpr(e.Right)
	case Assign:
		p.printExpr(e.Target)
		fmt.Fprint(p.w, " = ")
		p.printExpr(e.Value)
	case Call:
		p.printExpr(e.Func)
		fmt.Fprint(p.w, "(")
		for i, arg := range e.Args {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(arg)
		}
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", e)
	}
}
