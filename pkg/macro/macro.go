// Package macro holds the macro environment and the projector that
// flattens a pp.TranslationUnit into a token stream, expanding object-like
// macros along the way.
package macro

import "github.com/ccbind/cbind/pkg/token"

// Macro is the sum type spec.md §3 defines: ObjectMacro or FunctionMacro.
// Both share a Name.
type Macro interface {
	implMacro()
	Name() string
}

// ObjectMacro is a `#define NAME replacement...` with no parameter list.
type ObjectMacro struct {
	NameField         string
	ReplacementTokens []token.Token
}

func (ObjectMacro) implMacro()        {}
func (m ObjectMacro) Name() string    { return m.NameField }

// FunctionMacro is a `#define NAME(params...) replacement...`. It is
// recorded in the environment but never expanded in this revision (§9):
// occurrences of its name are passed through verbatim by the projector.
type FunctionMacro struct {
	NameField         string
	Parameters        []string
	IsVariadic        bool
	ReplacementTokens []token.Token
}

func (FunctionMacro) implMacro()     {}
func (m FunctionMacro) Name() string { return m.NameField }

// Env maps each macro name to its Macro. It does not record the order in
// which names were defined. Define overwrites; Undef of an undefined name
// is a no-op.
type Env struct {
	macros map[string]Macro
}

// NewEnv returns an empty macro environment.
func NewEnv() *Env {
	return &Env{macros: make(map[string]Macro)}
}

// Define registers m, overwriting any prior macro of the same name.
func (e *Env) Define(m Macro) {
	e.macros[m.Name()] = m
}

// Undef removes name's macro, if any.
func (e *Env) Undef(name string) {
	delete(e.macros, name)
}

// Lookup returns name's macro and whether it is defined.
func (e *Env) Lookup(name string) (Macro, bool) {
	m, ok := e.macros[name]
	return m, ok
}
