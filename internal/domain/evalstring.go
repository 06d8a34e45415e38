package domain

import "strings"

// TokenKind distinguishes a literal slice from a variable reference in
// an EvalString's token stream.
type TokenKind int

const (
	// Literal tokens are copied verbatim into the evaluated result.
	Literal TokenKind = iota
	// VarRef tokens are replaced by Env.Lookup(text) at evaluation time.
	VarRef
)

// Token is one element of an EvalString's token stream.
type Token struct {
	Text string
	Kind TokenKind
}

// EvalString is an ordered sequence of literal and variable-reference
// tokens, the un-evaluated form every rule and edge binding is stored
// in. Expansion is deferred until a concrete Env (the edge's binding
// scope, ultimately) is available.
type EvalString struct {
	tokens []Token
}

// NewEvalString builds an EvalString from a literal with no variable
// references, useful for values that never need expansion (e.g. a
// directly-supplied depfile path in tests).
func NewEvalString(literal string) EvalString {
	if literal == "" {
		return EvalString{}
	}
	return EvalString{tokens: []Token{{Text: literal, Kind: Literal}}}
}

// AddText appends a literal token.
func (s *EvalString) AddText(text string) {
	if text == "" {
		return
	}
	s.tokens = append(s.tokens, Token{Text: text, Kind: Literal})
}

// AddVarRef appends a variable-reference token.
func (s *EvalString) AddVarRef(name string) {
	s.tokens = append(s.tokens, Token{Text: name, Kind: VarRef})
}

// Empty reports whether the EvalString has no tokens at all.
func (s EvalString) Empty() bool { return len(s.tokens) == 0 }

// Evaluate concatenates the token stream against env, resolving each
// VarRef token via env.Lookup.
func (s EvalString) Evaluate(env Env) string {
	if len(s.tokens) == 0 {
		return ""
	}
	if len(s.tokens) == 1 && s.tokens[0].Kind == Literal {
		return s.tokens[0].Text
	}

	var b strings.Builder
	for _, t := range s.tokens {
		switch t.Kind {
		case Literal:
			b.WriteString(t.Text)
		case VarRef:
			if env != nil {
				b.WriteString(env.Lookup(t.Text))
			}
		}
	}
	return b.String()
}

// Unparse reconstructs the original `$name` / literal source text, used
// for diagnostics and for rewriting a manifest-level default back out.
func (s EvalString) Unparse() string {
	var b strings.Builder
	for _, t := range s.tokens {
		switch t.Kind {
		case Literal:
			b.WriteString(t.Text)
		case VarRef:
			b.WriteString("${")
			b.WriteString(t.Text)
			b.WriteString("}")
		}
	}
	return b.String()
}
