package macro

import (
	"github.com/ccbind/cbind/pkg/csrc"
	"github.com/ccbind/cbind/pkg/pp"
	"github.com/ccbind/cbind/pkg/token"
)

// Project walks tu in document order, folding #define/#undef into env and
// flattening everything else into a single token stream suitable for the
// declaration parser. It unconditionally descends into the If branch of
// every pp.IfSection (§4.3: a known simplification — see DESIGN.md §9).
func Project(buf *csrc.Buffer, tu *pp.TranslationUnit, env *Env) []token.Token {
	var out []token.Token
	hideset := make(map[string]bool)
	walkParts(buf, tu.Parts, env, hideset, &out)
	return out
}

func walkParts(buf *csrc.Buffer, parts []pp.GroupPart, env *Env, hideset map[string]bool, out *[]token.Token) {
	for _, part := range parts {
		switch part := part.(type) {
		case pp.DefineDirective:
			if part.IsFunctionLike {
				env.Define(FunctionMacro{
					NameField:         part.Name,
					Parameters:        part.Parameters,
					IsVariadic:        part.IsVariadic,
					ReplacementTokens: part.ReplacementTokens,
				})
			} else {
				env.Define(ObjectMacro{NameField: part.Name, ReplacementTokens: part.ReplacementTokens})
			}
		case pp.UndefDirective:
			env.Undef(part.Name)
		case pp.Text:
			for _, tok := range part.Tokens {
				*out = append(*out, expandToken(buf, env, tok, hideset)...)
			}
		case pp.IfSection:
			walkParts(buf, part.If.Body, env, hideset, out)
		case pp.IncludeDirective, pp.SimpleDirective:
			// Their content is never emitted.
		}
	}
}

// expandToken expands tok if it is an identifier naming an ObjectMacro
// not currently being expanded, recursively expanding its replacement
// list with the same hideset. On a self-reference the token is dropped
// (the hideset guard prevents infinite recursion, per spec.md §4.3).
// Function-like macro names and non-identifier tokens pass through
// unchanged.
func expandToken(buf *csrc.Buffer, env *Env, tok token.Token, hideset map[string]bool) []token.Token {
	if tok.Kind != token.Identifier {
		return []token.Token{tok}
	}
	name := buf.String(tok.Start, tok.Length)
	m, ok := env.Lookup(name)
	if !ok {
		return []token.Token{tok}
	}
	obj, ok := m.(ObjectMacro)
	if !ok {
		return []token.Token{tok}
	}
	if hideset[name] {
		return nil
	}
	hideset[name] = true
	defer delete(hideset, name)

	var expanded []token.Token
	for _, rt := range obj.ReplacementTokens {
		expanded = append(expanded, expandToken(buf, env, rt, hideset)...)
	}
	return expanded
}
