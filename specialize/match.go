package specialize

import (
	"github.com/tapelang/tmc/alphabet"
	"github.com/tapelang/tmc/ast"
	"github.com/tapelang/tmc/ir"
)

// evalMatch specializes a match expression. A statically known
// scrutinee reduces directly to its winning arm; a dynamic (`get`)
// scrutinee compiles to a Branch.
func (s *Specializer) evalMatch(e *ast.Match, env *Env) (Value, error) {
	scrutinee, err := s.evalExpr(e.Scrutinee, env)
	if err != nil {
		return nil, err
	}

	switch sv := scrutinee.(type) {
	case SymVal:
		for _, arm := range e.Arms {
			pat, err := s.resolveUnion(arm.Pattern, env)
			if err != nil {
				return nil, err
			}
			matched := pat.Intersect(sv.U)
			if matched.IsEmpty() {
				continue
			}
			armEnv := env
			if arm.CatchName != "" {
				armEnv = NewEnv(env)
				armEnv.Bind(arm.CatchName, newForcedCell(SymVal{U: matched}))
			}
			return s.evalExpr(arm.Result, armEnv)
		}
		return nil, NonReducibleError{Span: e.Span(), Reason: "no match arm covers the scrutinee's statically known symbol"}

	case DynVal:
		return s.evalDynamicMatch(e, sv, env)

	default:
		return nil, NonReducibleError{Span: e.Scrutinee.Span(), Reason: "match scrutinee did not reduce to a symbol or a tape read"}
	}
}

// evalDynamicMatch compiles a match on `get` into a Branch over Σ:
// each symbol is assigned to the first arm whose pattern contains it,
// uncovered symbols synthesize a reject-halt case, and overlapping
// patterns over a reachable symbol warn (or error, under strict mode).
func (s *Specializer) evalDynamicMatch(e *ast.Match, scrutinee DynVal, env *Env) (Value, error) {
	patterns := make([]alphabet.Union, len(e.Arms))
	for i, arm := range e.Arms {
		pat, err := s.resolveUnion(arm.Pattern, env)
		if err != nil {
			return nil, err
		}
		patterns[i] = pat
	}

	for i := 1; i < len(patterns); i++ {
		for j := 0; j < i; j++ {
			if !patterns[i].Intersect(patterns[j]).IsEmpty() {
				err := AmbiguousMatchError{Span: e.Arms[i].Span, PriorSpan: e.Arms[j].Span}
				if s.strict {
					return nil, err
				}
				s.warnings = append(s.warnings, err)
			}
		}
	}

	var cases []ir.Case
	covered := s.sigma.Empty()
	hasAny := false
	for i, arm := range e.Arms {
		claimed := patterns[i].Difference(covered)
		if arm.Pattern.IsAny {
			hasAny = true
		}
		if claimed.IsEmpty() {
			continue
		}

		if arm.CatchName == "" {
			armVal, err := s.evalExpr(arm.Result, env)
			if err != nil {
				return nil, err
			}
			node, err := s.toNode(armVal, arm.Result.Span())
			if err != nil {
				return nil, err
			}
			cases = append(cases, ir.Case{Symbols: claimed, Then: node})
			covered = covered.Union(claimed)
			continue
		}

		// A catch arm binds the symbol it matched, so it can't share
		// one compiled Then node across every claimed symbol the way a
		// plain arm does -- each symbol gets its own evaluation of
		// Result with CatchName bound to that single symbol.
		for _, sym := range s.sigma.Members(claimed) {
			armEnv := NewEnv(env)
			armEnv.Bind(arm.CatchName, newForcedCell(SymVal{U: s.sigma.Single(sym)}))
			armVal, err := s.evalExpr(arm.Result, armEnv)
			if err != nil {
				return nil, err
			}
			node, err := s.toNode(armVal, arm.Result.Span())
			if err != nil {
				return nil, err
			}
			cases = append(cases, ir.Case{Symbols: s.sigma.Single(sym), Then: node})
		}
		covered = covered.Union(claimed)
	}

	uncovered := s.sigma.Complement(covered)
	if !uncovered.IsEmpty() {
		if hasAny {
			return nil, NonExhaustiveRequiredError{Span: e.Span()}
		}
		cases = append(cases, ir.Case{Symbols: uncovered, Then: ir.Halt{Accept: false}})
	}

	return TapeVal{Node: seq(scrutinee.Node, ir.Branch{Cases: cases})}, nil
}
