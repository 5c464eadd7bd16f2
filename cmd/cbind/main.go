package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccbind/cbind/internal/emitgo"
	"github.com/ccbind/cbind/pkg/cast"
	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/lexer"
	"github.com/ccbind/cbind/pkg/macro"
	"github.com/ccbind/cbind/pkg/parser"
	"github.com/ccbind/cbind/pkg/pp"
	"github.com/ccbind/cbind/pkg/token"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Dump/action flags.
var (
	dumpTokens bool
	dumpPP     bool
	dumpMacros bool
	dumpAST    bool
	emitGo     bool
	interpret  bool
	bindNative bool
)

var (
	defineFlags   []string
	undefineFlags []string
	outPath       string
	pkgName       string
)

// debugFlagInfo holds metadata for a not-yet-implemented flag.
type debugFlagInfo struct {
	flag *bool
	desc string
}

// debugFlags maps flag names to descriptions for unimplemented warnings.
// --interpret and --bind-native are registered flags with no backing
// implementation: the interpreter and native function binder are
// explicitly out-of-scope collaborators this repository only exposes
// entry points for.
var debugFlags = map[string]debugFlagInfo{
	"interpret":   {&interpret, "execute the translation unit via an interpreter"},
	"bind-native": {&bindNative, "resolve extern declarations against a loaded native library"},
}

// ErrNotImplemented indicates a feature is not yet implemented.
var ErrNotImplemented = errors.New("not yet implemented")

func checkDebugFlags(w io.Writer) error {
	for name, info := range debugFlags {
		if *info.flag {
			fmt.Fprintf(w, "cbind: warning: --%s (%s) is not yet implemented\n", name, info.desc)
			return ErrNotImplemented
		}
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cbind [file]",
		Short: "cbind parses a C declaration file and emits a Go binding",
		Long: `cbind is a C declaration front-end: it lexes, preprocesses, expands
object-like macros, and parses a restricted C declaration grammar, then can
render the resulting AST as a Go binding file.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkDebugFlags(errOut); err != nil {
				return err
			}

			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			filename := args[0]

			switch {
			case dumpTokens:
				return doDumpTokens(filename, out, errOut)
			case dumpPP:
				return doDumpPP(filename, out, errOut)
			case dumpMacros:
				return doDumpMacros(filename, out, errOut)
			case dumpAST:
				return doDumpAST(filename, out, errOut)
			case emitGo:
				return doEmitGo(filename, out, errOut)
			}

			fmt.Fprintf(errOut, "cbind: parsing %s\n", filename)
			_, err := runParse(filename, errOut)
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "Dump the raw lexer token stream")
	rootCmd.Flags().BoolVar(&dumpPP, "dump-pp", false, "Dump the preprocessor parse tree")
	rootCmd.Flags().BoolVar(&dumpMacros, "dump-macros", false, "Dump the projected token stream (the macro environment itself is not printed)")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "Dump the declaration AST")
	rootCmd.Flags().BoolVar(&emitGo, "emit-go", false, "Render a Go binding file")
	rootCmd.Flags().BoolVar(&interpret, "interpret", false, "Execute the translation unit (not yet implemented)")
	rootCmd.Flags().BoolVar(&bindNative, "bind-native", false, "Resolve externs against a native library (not yet implemented)")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().StringArrayVarP(&undefineFlags, "undefine", "U", nil, "Undefine macro")
	rootCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write --emit-go output to this file instead of stdout")
	rootCmd.Flags().StringVar(&pkgName, "package", "cbinding", "Go package name for --emit-go output")

	return rootCmd
}

// readBuffer reads filename into a csrc.Buffer.
func readBuffer(filename string) (*csrc.Buffer, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cbind: error reading %s: %w", filename, err)
	}
	return csrc.NewBuffer(filename, content), nil
}

// lexAll runs pkg/lexer to completion, including the trailing EOF token.
func lexAll(buf *csrc.Buffer) ([]token.Token, error) {
	lx := lexer.New(buf)
	var toks []token.Token
	for {
		tok, err := lx.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, nil
}

// seedEnv applies -D/-U flags to env before projection, mirroring the
// teacher's buildPreprocessorOptions' Defines/Undefines handling.
func seedEnv(env *macro.Env) {
	for _, d := range defineFlags {
		name, value := d, ""
		if idx := strings.Index(d, "="); idx >= 0 {
			name, value = d[:idx], d[idx+1:]
		}
		var repl []token.Token
		if value != "" {
			toks, err := lexAll(csrc.NewBuffer("<command-line>", []byte(value)))
			if err == nil {
				for _, t := range toks {
					if t.Kind != token.EOF {
						repl = append(repl, t)
					}
				}
			}
		}
		env.Define(macro.ObjectMacro{NameField: name, ReplacementTokens: repl})
	}
	for _, name := range undefineFlags {
		env.Undef(name)
	}
}

// runParse executes the full pipeline: lex, parse the preprocessor
// grammar, project macros, and parse declarations.
func runParse(filename string, errOut io.Writer) (*cast.TranslationUnit, error) {
	buf, err := readBuffer(filename)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return nil, err
	}
	toks, err := lexAll(buf)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return nil, err
	}
	tu, err := pp.Parse(buf, toks)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return nil, err
	}
	env := macro.NewEnv()
	seedEnv(env)
	projected := macro.Project(buf, tu, env)

	ast, err := parser.Parse(buf, projected)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return nil, err
	}
	return ast, nil
}

func doDumpTokens(filename string, out, errOut io.Writer) error {
	buf, err := readBuffer(filename)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return err
	}
	toks, err := lexAll(buf)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return err
	}
	for _, tok := range toks {
		pos := buf.PositionAt(tok.Start)
		fmt.Fprintf(out, "%d:%d\t%s\t%q\n", pos.Line, pos.Col, tok.Kind, buf.String(tok.Start, tok.Length))
	}
	return nil
}

func doDumpPP(filename string, out, errOut io.Writer) error {
	buf, err := readBuffer(filename)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return err
	}
	toks, err := lexAll(buf)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return err
	}
	tu, err := pp.Parse(buf, toks)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return err
	}
	dumpGroupParts(out, buf, tu.Parts, 0)
	return nil
}

func dumpGroupParts(out io.Writer, buf *csrc.Buffer, parts []pp.GroupPart, indent int) {
	prefix := strings.Repeat("    ", indent)
	for _, part := range parts {
		switch part := part.(type) {
		case pp.Text:
			fmt.Fprintf(out, "%stext (%d tokens)\n", prefix, len(part.Tokens))
		case pp.DefineDirective:
			fmt.Fprintf(out, "%sdefine %s (function-like=%v)\n", prefix, part.Name, part.IsFunctionLike)
		case pp.UndefDirective:
			fmt.Fprintf(out, "%sundef %s\n", prefix, part.Name)
		case pp.IncludeDirective:
			fmt.Fprintf(out, "%sinclude\n", prefix)
		case pp.IfSection:
			fmt.Fprintf(out, "%sif\n", prefix)
			dumpGroupParts(out, buf, part.If.Body, indent+1)
			for _, elif := range part.Elifs {
				fmt.Fprintf(out, "%selif\n", prefix)
				dumpGroupParts(out, buf, elif.Body, indent+1)
			}
			if part.Else != nil {
				fmt.Fprintf(out, "%selse\n", prefix)
				dumpGroupParts(out, buf, part.Else.Body, indent+1)
			}
		case pp.SimpleDirective:
			fmt.Fprintf(out, "%s%s\n", prefix, part.Keyword)
		}
	}
}

func doDumpMacros(filename string, out, errOut io.Writer) error {
	buf, err := readBuffer(filename)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return err
	}
	toks, err := lexAll(buf)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return err
	}
	tu, err := pp.Parse(buf, toks)
	if err != nil {
		fmt.Fprintf(errOut, "%s\n", err)
		return err
	}
	env := macro.NewEnv()
	seedEnv(env)
	projected := macro.Project(buf, tu, env)

	fmt.Fprintln(out, "projected tokens:")
	for _, tok := range projected {
		fmt.Fprintf(out, "  %s %q\n", tok.Kind, buf.String(tok.Start, tok.Length))
	}
	return nil
}

func doDumpAST(filename string, out, errOut io.Writer) error {
	ast, err := runParse(filename, errOut)
	if err != nil {
		return err
	}
	printer := cast.NewPrinter(out)
	printer.PrintTranslationUnit(ast)
	return nil
}

func doEmitGo(filename string, out, errOut io.Writer) error {
	ast, err := runParse(filename, errOut)
	if err != nil {
		return err
	}

	var dest io.Writer = out
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(errOut, "cbind: error creating %s: %v\n", outPath, err)
			return err
		}
		defer f.Close()
		dest = f
	}

	if err := emitgo.Render(dest, ast, pkgName); err != nil {
		fmt.Fprintf(errOut, "cbind: %v\n", err)
		return err
	}
	return nil
}
