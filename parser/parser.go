// Package parser turns a tmc token stream into an *ast.File.
package parser

import (
	"fmt"
	"io"

	"github.com/tapelang/tmc/ast"
	"github.com/tapelang/tmc/lexer"
	"github.com/tapelang/tmc/token"
)

// UnexpectedTokenError reports a token the grammar did not expect at
// this point.
type UnexpectedTokenError struct {
	Span token.Span
	Got  token.Kind
	Want string
}

func (e UnexpectedTokenError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%v: unexpected %v", e.Span, e.Got)
	}
	return fmt.Sprintf("%v: unexpected %v, want %s", e.Span, e.Got, e.Want)
}

// ExpectedExprAfterColonError reports a lambda `x:` with no body.
type ExpectedExprAfterColonError struct{ Span token.Span }

func (e ExpectedExprAfterColonError) Error() string {
	return fmt.Sprintf("%v: expected expression after ':'", e.Span)
}

// Parser parses one file's worth of tokens over a small lookahead
// queue (the grammar never needs to look further ahead than the token
// that would follow a would-be lambda parameter).
type Parser struct {
	lx   *lexer.Lexer
	name string

	tok   token.Token // most recently consumed token
	queue []token.Token
}

// New returns a Parser reading name's content from r.
func New(name string, r io.Reader) *Parser {
	return &Parser{lx: lexer.New(name, r), name: name}
}

// fill ensures at least n tokens are buffered in the lookahead queue.
func (p *Parser) fill(n int) error {
	for len(p.queue) < n {
		tok, err := p.lx.Next()
		if err != nil {
			return err
		}
		p.queue = append(p.queue, tok)
	}
	return nil
}

// next consumes and returns the next token.
func (p *Parser) next() error {
	if err := p.fill(1); err != nil {
		return err
	}
	p.tok = p.queue[0]
	p.queue = p.queue[1:]
	return nil
}

// peekTok returns the next token without consuming it.
func (p *Parser) peekTok() (token.Token, error) {
	if err := p.fill(1); err != nil {
		return token.Token{}, err
	}
	return p.queue[0], nil
}

// peekAt returns the nth (0-based) not-yet-consumed token without
// consuming anything.
func (p *Parser) peekAt(n int) (token.Token, error) {
	if err := p.fill(n + 1); err != nil {
		return token.Token{}, err
	}
	return p.queue[n], nil
}

func (p *Parser) expect(k token.Kind, want string) (token.Token, error) {
	if err := p.next(); err != nil {
		return token.Token{}, err
	}
	if p.tok.Kind != k {
		return token.Token{}, UnexpectedTokenError{Span: p.tok.Span, Got: p.tok.Kind, Want: want}
	}
	return p.tok, nil
}

// ParseFile parses a complete file: leading imports, then one
// top-level let group.
func ParseFile(name string, r io.Reader) (*ast.File, error) {
	p := New(name, r)
	return p.parseFile()
}

func (p *Parser) parseFile() (*ast.File, error) {
	f := &ast.File{Name: p.name}
	for {
		tok, err := p.peekTok()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.KwImport {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		strTok, err := p.expect(token.String, "import path string")
		if err != nil {
			return nil, err
		}
		f.Imports = append(f.Imports, ast.Import{Span: tok.Span, Path: strTok.Text})
	}

	group, err := p.parseLetGroup()
	if err != nil {
		return nil, err
	}
	f.Group = group
	return f, nil
}

// parseLetGroup parses `let binding (',' binding)* ','? 'in' expr`;
// the comma before 'in' is optional.
// The leading 'let' has not yet been consumed.
func (p *Parser) parseLetGroup() (*ast.Let, error) {
	letTok, err := p.expect(token.KwLet, "let")
	if err != nil {
		return nil, err
	}

	var bindings []ast.Binding
bindingLoop:
	for {
		b, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)

		if err := p.next(); err != nil {
			return nil, err
		}
		switch p.tok.Kind {
		case token.Comma:
			// could be another binding, or the trailing ',' before 'in'
			tok, err := p.peekTok()
			if err != nil {
				return nil, err
			}
			if tok.Kind == token.KwIn {
				if err := p.next(); err != nil {
					return nil, err
				}
				break bindingLoop
			}
		case token.KwIn:
			break bindingLoop
		default:
			return nil, UnexpectedTokenError{Span: p.tok.Span, Got: p.tok.Kind, Want: "',' or 'in'"}
		}
	}

	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(letTok.Span, bindings, body), nil
}

func (p *Parser) parseBinding() (ast.Binding, error) {
	nameTok, err := p.expect(token.Ident, "binding name")
	if err != nil {
		return ast.Binding{}, err
	}
	if err := p.next(); err != nil {
		return ast.Binding{}, err
	}
	opTok := p.tok
	switch opTok.Kind {
	case token.Equals:
		val, err := p.parseExpr()
		if err != nil {
			return ast.Binding{}, err
		}
		return ast.Binding{Span: nameTok.Span, Name: nameTok.Text, Value: val}, nil
	case token.Question:
		symTok, err := p.expect(token.Symbol, "symbol literal")
		if err != nil {
			return ast.Binding{}, err
		}
		u := ast.NewUnion(symTok.Span, []byte(symTok.Text))
		return ast.Binding{Span: nameTok.Span, Name: nameTok.Text, Symbol: u}, nil
	default:
		return ast.Binding{}, UnexpectedTokenError{Span: opTok.Span, Got: opTok.Kind, Want: "'=' or '?'"}
	}
}

// parseExpr parses `lambda | match | app`, extending lambda/let bodies
// as far right as possible.
func (p *Parser) parseExpr() (ast.Expr, error) {
	tok, err := p.peekTok()
	if err != nil {
		return nil, err
	}

	switch tok.Kind {
	case token.KwMatch:
		return p.parseMatch()
	case token.KwLet:
		return p.parseLetGroup()
	case token.KwY:
		return p.parseFix()
	}

	// lambda vs app: `ident ':'` starts a lambda; anything else is an
	// application. One extra token of lookahead disambiguates.
	if tok.Kind == token.Ident {
		following, err := p.peekAt(1)
		if err != nil {
			return nil, err
		}
		if following.Kind == token.Colon {
			return p.parseLambda()
		}
	}

	return p.parseUnionApp()
}

func (p *Parser) parseLambda() (ast.Expr, error) {
	paramTok, err := p.expect(token.Ident, "lambda parameter")
	if err != nil {
		return nil, err
	}
	colonTok, err := p.expect(token.Colon, "':'")
	if err != nil {
		return nil, err
	}
	if err := p.expectExprStart(colonTok.Span); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewLambda(paramTok.Span, paramTok.Text, body), nil
}

func (p *Parser) parseFix() (ast.Expr, error) {
	yTok, err := p.expect(token.KwY, "Y")
	if err != nil {
		return nil, err
	}
	paramTok, err := p.expect(token.Ident, "recursive binding name")
	if err != nil {
		return nil, err
	}
	colonTok, err := p.expect(token.Colon, "':'")
	if err != nil {
		return nil, err
	}
	if err := p.expectExprStart(colonTok.Span); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewFix(yTok.Span, paramTok.Text, body), nil
}

// expectExprStart reports ExpectedExprAfterColonError if the upcoming
// token cannot begin an expression.
func (p *Parser) expectExprStart(colonSpan token.Span) error {
	tok, err := p.peekTok()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case token.KwMatch, token.KwLet, token.KwY:
		return nil
	default:
		if startsAtom(tok.Kind) {
			return nil
		}
	}
	return ExpectedExprAfterColonError{Span: colonSpan}
}

func (p *Parser) parseMatch() (ast.Expr, error) {
	matchTok, err := p.expect(token.KwMatch, "match")
	if err != nil {
		return nil, err
	}
	scrutinee, err := p.parseUnionApp()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace, "'{'"); err != nil {
		return nil, err
	}

	var arms []ast.Arm
	for {
		arm, err := p.parseArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)

		if err := p.next(); err != nil {
			return nil, err
		}
		switch p.tok.Kind {
		case token.Comma:
			tok, err := p.peekTok()
			if err != nil {
				return nil, err
			}
			if tok.Kind == token.RBrace {
				if err := p.next(); err != nil {
					return nil, err
				}
				return ast.NewMatch(matchTok.Span, scrutinee, arms), nil
			}
			continue
		case token.RBrace:
			return ast.NewMatch(matchTok.Span, scrutinee, arms), nil
		default:
			return nil, UnexpectedTokenError{Span: p.tok.Span, Got: p.tok.Kind, Want: "',' or '}'"}
		}
	}
}

func (p *Parser) parseArm() (ast.Arm, error) {
	catchName, err := p.parseCatchName()
	if err != nil {
		return ast.Arm{}, err
	}
	pat, err := p.parsePattern()
	if err != nil {
		return ast.Arm{}, err
	}
	arrowTok, err := p.expect(token.Arrow, "'>'")
	if err != nil {
		return ast.Arm{}, err
	}
	result, err := p.parseExpr()
	if err != nil {
		return ast.Arm{}, err
	}
	return ast.Arm{Span: arrowTok.Span, Pattern: pat, Result: result, CatchName: catchName}, nil
}

// parseCatchName recognizes the optional `id '@'` prefix of a catch
// arm (`x @ any > set x t`), consuming it and returning id, or
// returning "" and consuming nothing if the arm has the plain form.
// Disambiguating from a plain alias pattern (`pat > expr`, where pat
// is itself a bare identifier) needs one token of lookahead past the
// identifier.
func (p *Parser) parseCatchName() (string, error) {
	tok, err := p.peekTok()
	if err != nil || tok.Kind != token.Ident {
		return "", err
	}
	following, err := p.peekAt(1)
	if err != nil {
		return "", err
	}
	if following.Kind != token.At {
		return "", nil
	}
	if err := p.next(); err != nil { // the bound name
		return "", err
	}
	name := p.tok.Text
	if err := p.next(); err != nil { // '@'
		return "", err
	}
	return name, nil
}

// parsePattern parses `unionPat := symLit ('|' symLit)* | ident`.
// An identifier pattern is resolved later (to `any`/an alias union) by
// package resolve; here it is carried as a single-element pattern
// keyed by name via a zero-symbol placeholder union plus recorded name.
func (p *Parser) parsePattern() (*ast.Union, error) {
	tok, err := p.peekTok()
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.KwAny {
		if err := p.next(); err != nil {
			return nil, err
		}
		return ast.NewAny(tok.Span), nil
	}
	if tok.Kind == token.Ident {
		if err := p.next(); err != nil {
			return nil, err
		}
		u := ast.NewUnion(tok.Span, nil)
		u.AliasName = tok.Text
		return u, nil
	}

	symTok, err := p.expect(token.Symbol, "symbol literal or 'any'")
	if err != nil {
		return nil, err
	}
	syms := []byte(symTok.Text)
	for {
		next, err := p.peekTok()
		if err != nil {
			return nil, err
		}
		if next.Kind != token.Pipe {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		more, err := p.expect(token.Symbol, "symbol literal")
		if err != nil {
			return nil, err
		}
		syms = append(syms, []byte(more.Text)...)
	}
	return ast.NewUnion(symTok.Span, syms), nil
}

// parseUnionApp parses `app ('|' app)*`, i.e. application binds
// tighter than '|'.
func (p *Parser) parseUnionApp() (ast.Expr, error) {
	symsOf := func(e ast.Expr) ([]byte, bool) {
		switch e := e.(type) {
		case *ast.Literal:
			return []byte{e.Sym}, true
		case *ast.Union:
			return e.Syms, !e.IsAny && e.AliasName == ""
		}
		return nil, false
	}
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peekTok()
		if err != nil {
			return nil, err
		}
		if tok.Kind != token.Pipe {
			return lhs, nil
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		rhs, err := p.parseApp()
		if err != nil {
			return nil, err
		}
		lsyms, lok := symsOf(lhs)
		rsyms, rok := symsOf(rhs)
		if !lok || !rok {
			return nil, UnexpectedTokenError{Span: tok.Span, Got: token.Pipe, Want: "union of symbol literals"}
		}
		lhs = ast.NewUnion(lhs.Span(), append(append([]byte(nil), lsyms...), rsyms...))
	}
}

// parseApp parses `atom (atom)*`, left-associative.
func (p *Parser) parseApp() (ast.Expr, error) {
	fn, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.peekTok()
		if err != nil {
			return nil, err
		}
		if !startsAtom(tok.Kind) {
			return fn, nil
		}
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		fn = ast.NewApp(fn.Span(), fn, arg)
	}
}

func startsAtom(k token.Kind) bool {
	switch k {
	case token.Ident, token.Symbol, token.KwY, token.LParen:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	tok, err := p.peekTok()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Ident:
		if err := p.next(); err != nil {
			return nil, err
		}
		return ast.NewIdent(tok.Span, tok.Text), nil
	case token.Symbol:
		if err := p.next(); err != nil {
			return nil, err
		}
		var c byte
		if len(tok.Text) > 0 {
			c = tok.Text[0]
		}
		return ast.NewLiteral(tok.Span, c), nil
	case token.KwY:
		return p.parseFix()
	case token.LParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, UnexpectedTokenError{Span: tok.Span, Got: tok.Kind, Want: "expression"}
	}
}
