// Package emitgo renders a pkg/cast.TranslationUnit as Go source: the
// binding-generation side of cbind, consumed only by cmd/cbind's
// --emit-go flag.
package emitgo

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/ccbind/cbind/pkg/cast"
)

// Render writes tu as a single Go source file in package pkgName to w.
func Render(w io.Writer, tu *cast.TranslationUnit, pkgName string) error {
	doc, err := buildDoc(pkgName, tu)
	if err != nil {
		return err
	}
	return fileTemplate.Execute(w, doc)
}

// fileDoc is the template input: a flat list of rendered top-level
// fragments, kept in source order.
type fileDoc struct {
	Package   string
	Fragments []string
}

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by cbind's Go binding emitter. DO NOT EDIT.

package {{.Package}}

{{range .Fragments}}{{.}}
{{end}}`))

func buildDoc(pkgName string, tu *cast.TranslationUnit) (fileDoc, error) {
	doc := fileDoc{Package: pkgName}
	for _, d := range tu.Decls {
		frag, err := renderDecl(d)
		if err != nil {
			return fileDoc{}, err
		}
		if frag != "" {
			doc.Fragments = append(doc.Fragments, frag)
		}
	}
	return doc, nil
}

func renderDecl(d cast.Decl) (string, error) {
	switch d := d.(type) {
	case cast.TypedefDecl:
		return renderTypedef(d), nil
	case cast.StructDecl:
		return renderStruct(d), nil
	case cast.FuncDecl:
		return renderFunc(d), nil
	case cast.VarDecl:
		return renderVar(d), nil
	case cast.ExternBlock:
		return renderExternBlock(d)
	default:
		return "", fmt.Errorf("emitgo: unsupported top-level declaration %T", d)
	}
}

func renderExternBlock(b cast.ExternBlock) (string, error) {
	var frags []string
	for _, d := range b.Decls {
		frag, err := renderDecl(d)
		if err != nil {
			return "", err
		}
		if frag != "" {
			frags = append(frags, frag)
		}
	}
	return strings.Join(frags, "\n\n"), nil
}

// goType maps a cast.TypeRef to its Go spelling. Opaque struct pointers
// become `*Name` (an incomplete handle type), scalar builtins map to the
// nearest Go numeric type (`void` maps to `struct{}`), and anything else
// falls back to the type name with its first letter upper-cased, so the
// emitted file can compile against a hand-written declaration of it.
func goType(t cast.TypeRef) string {
	base := t.Name
	if t.IsStruct {
		base = exportedName(t.Name)
	} else if mapped, ok := builtinGoTypes[t.Name]; ok {
		base = mapped
	} else {
		base = exportedName(t.Name)
	}
	return strings.Repeat("*", t.PointerDepth) + base
}

var builtinGoTypes = map[string]string{
	"int":      "int32",
	"unsigned int": "uint32",
	"char":     "int8",
	"unsigned char": "uint8",
	"short":    "int16",
	"long":     "int64",
	"float":    "float32",
	"double":   "float64",
	"void":     "struct{}",
	"int8_t":   "int8",
	"uint8_t":  "uint8",
	"int16_t":  "int16",
	"uint16_t": "uint16",
	"int32_t":  "int32",
	"uint32_t": "uint32",
	"int64_t":  "int64",
	"uint64_t": "uint64",
	"size_t":   "uintptr",
	"ssize_t":  "int",
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func renderTypedef(t cast.TypedefDecl) string {
	name := exportedName(t.Name)
	if t.FuncPtr != nil {
		params := make([]string, len(t.FuncPtr.Parameters))
		for i, p := range t.FuncPtr.Parameters {
			params[i] = fmt.Sprintf("%s %s", paramGoName(p.Name), goType(p.Type))
		}
		ret := goType(t.FuncPtr.ReturnType)
		if ret == "struct{}" {
			ret = ""
		}
		return fmt.Sprintf("type %s = func(%s) %s", name, strings.Join(params, ", "), ret)
	}
	return fmt.Sprintf("type %s = %s", name, goType(t.Type))
}

func renderStruct(s cast.StructDecl) string {
	name := exportedName(s.Name)
	if s.Fields == nil {
		// An opaque forward declaration, as GLFW's header treats
		// `struct GLFWwindow;` — a pure handle type, never dereferenced
		// by Go code, only passed across the boundary by pointer.
		return fmt.Sprintf("type %s struct{}", name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "\t%s %s\n", exportedName(f.Name), goType(f.Type))
	}
	b.WriteString("}")
	return b.String()
}

func renderFunc(f cast.FuncDecl) string {
	name := exportedName(f.Name)
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", paramGoName(p.Name), goType(p.Type))
	}
	ret := goType(f.ReturnType)
	if ret == "struct{}" {
		ret = ""
	}
	sig := fmt.Sprintf("func %s(%s) %s", name, strings.Join(params, ", "), ret)

	if f.Library != "" {
		// Dynamic resolution against f.Library is the native-function-
		// binder's job, not this emitter's; leave a stub naming the
		// import so a binder pass can fill it in.
		return fmt.Sprintf("//go:cgo_import_dynamic %s %s \"%s\"\n%s {\n\tpanic(\"not bound: %s\")\n}", name, f.Name, f.Library, sig, f.Name)
	}
	if f.Body == nil {
		return sig
	}
	return sig + " {\n\t// function body translation is out of scope for the emitter\n}"
}

func renderVar(v cast.VarDecl) string {
	name := exportedName(v.Name)
	return fmt.Sprintf("var %s %s", name, goType(v.Type))
}

func paramGoName(name string) string {
	if name == "" {
		return "_"
	}
	return name
}
