// Package ast defines the abstract syntax produced by package parser.
package ast

import (
	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/token"
)

// Expr is the tagged-variant interface implemented by every AST
// expression node. It carries no behavior beyond identifying its
// source span; type switches in package resolve and package
// specialize dispatch on the concrete type.
type Expr interface {
	Span() token.Span
	exprNode()
}

type base struct{ span token.Span }

func (b base) Span() token.Span { return b.span }
func (base) exprNode()          {}

// Literal is a single-symbol union, e.g. 'c' or '' (blank).
type Literal struct {
	base
	Sym byte
}

func NewLiteral(span token.Span, sym byte) *Literal { return &Literal{base{span}, sym} }

// Union is u1 | u2 | ..., flattened by the parser into one list of
// symbols in source order; Resolve turns it into the canonical
// alphabet.Union. Any is represented by an empty Syms slice with IsAny set;
// the actual symbol set is filled in once Σ is known. AliasName is set
// instead of Syms when a pattern position named an identifier that
// must resolve (via package resolve) to a union alias or to `any`.
type Union struct {
	base
	Syms      []byte
	IsAny     bool
	AliasName string
}

func NewUnion(span token.Span, syms []byte) *Union { return &Union{base: base{span}, Syms: syms} }
func NewAny(span token.Span) *Union                { return &Union{base: base{span}, IsAny: true} }

// Resolve computes the alphabet.Union this AST union denotes, given a
// concrete alphabet (needed to expand `any`).
func (u *Union) Resolve(sigma *alphabet.Alphabet) alphabet.Union {
	if u.IsAny {
		return sigma.Full()
	}
	s := sigma.Empty()
	for _, c := range u.Syms {
		s = s.Add(sigma.Index(c))
	}
	return s
}

// Ident is a free or bound identifier reference.
type Ident struct {
	base
	Name string
}

func NewIdent(span token.Span, name string) *Ident { return &Ident{base{span}, name} }

// Lambda is `x: body`.
type Lambda struct {
	base
	Param string
	Body  Expr
}

func NewLambda(span token.Span, param string, body Expr) *Lambda {
	return &Lambda{base{span}, param, body}
}

// App is left-associative application `f x`.
type App struct {
	base
	Func Expr
	Arg  Expr
}

func NewApp(span token.Span, fn, arg Expr) *App { return &App{base{span}, fn, arg} }

// Binding is one member of a let group: either `name = expr` or the
// symbol-typed alias form `name ? 'c'`.
type Binding struct {
	Span   token.Span
	Name   string
	Value  Expr    // set when this is a `name = expr` binding
	Symbol *Union  // set when this is a `name ? pat` alias binding
}

// Let is `let b1, b2, ..., in body`. Bindings are mutually visible
// within the group.
type Let struct {
	base
	Bindings []Binding
	Body     Expr
}

func NewLet(span token.Span, bindings []Binding, body Expr) *Let {
	return &Let{base{span}, bindings, body}
}

// Arm is one `pat > expr` case of a match, or its catch form
// `id @ pat > expr`. CatchName is empty for the plain form; set, it
// names a binding visible in Result holding whichever single symbol
// of Pattern the arm actually matched.
type Arm struct {
	Span      token.Span
	Pattern   *Union
	Result    Expr
	CatchName string
}

// Match is `match scrutinee { arm, arm, ... }`. Arms are ordered;
// the first matching arm wins.
type Match struct {
	base
	Scrutinee Expr
	Arms      []Arm
}

func NewMatch(span token.Span, scrutinee Expr, arms []Arm) *Match {
	return &Match{base{span}, scrutinee, arms}
}

// Fix is `Y f: body`, the source language's only recursion construct.
// Param is f, the recursive self-reference; Body is the expression
// after the colon, which package specialize requires to be a *Lambda
// over the tape cursor (`Y f: t: ...`).
type Fix struct {
	base
	Param string
	Body  Expr
}

func NewFix(span token.Span, param string, body Expr) *Fix {
	return &Fix{base{span}, param, body}
}

// File is one parsed source file: its import paths (with spans, for
// cycle reporting) and the top-level let group.
type File struct {
	Name    string
	Imports []Import
	Group   *Let
}

// Import is one `import 'path'` statement.
type Import struct {
	Span token.Span
	Path string
}
