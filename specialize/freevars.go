package specialize

import "github.com/tapelang/tmc/ast"

// freeVarsOfFix collects the names free in a Y expression's body,
// excluding the recursive self-reference and the tape-cursor
// parameter it introduces. Used only to fingerprint the Y's captured
// environment for memoization (fixKey).
func freeVarsOfFix(e *ast.Fix) []string {
	bound := map[string]bool{e.Param: true}
	if lambda, ok := e.Body.(*ast.Lambda); ok {
		bound[lambda.Param] = true
	}
	seen := map[string]bool{}
	var out []string
	collectFreeVars(e.Body, bound, seen, &out)
	return out
}

func collectFreeVars(e ast.Expr, bound, seen map[string]bool, out *[]string) {
	switch e := e.(type) {
	case *ast.Literal, *ast.Union:
		return

	case *ast.Ident:
		if bound[e.Name] || builtinNames[e.Name] || seen[e.Name] {
			return
		}
		seen[e.Name] = true
		*out = append(*out, e.Name)

	case *ast.Lambda:
		collectFreeVars(e.Body, withBound(bound, e.Param), seen, out)

	case *ast.App:
		collectFreeVars(e.Func, bound, seen, out)
		collectFreeVars(e.Arg, bound, seen, out)

	case *ast.Let:
		inner := bound
		for _, b := range e.Bindings {
			inner = withBound(inner, b.Name)
		}
		for _, b := range e.Bindings {
			if b.Value != nil {
				collectFreeVars(b.Value, inner, seen, out)
			}
		}
		collectFreeVars(e.Body, inner, seen, out)

	case *ast.Match:
		collectFreeVars(e.Scrutinee, bound, seen, out)
		for _, arm := range e.Arms {
			if n := arm.Pattern.AliasName; n != "" && !bound[n] && !seen[n] {
				seen[n] = true
				*out = append(*out, n)
			}
			armBound := bound
			if arm.CatchName != "" {
				armBound = withBound(bound, arm.CatchName)
			}
			collectFreeVars(arm.Result, armBound, seen, out)
		}

	case *ast.Fix:
		inner := withBound(bound, e.Param)
		collectFreeVars(e.Body, inner, seen, out)
	}
}

func withBound(bound map[string]bool, name string) map[string]bool {
	next := make(map[string]bool, len(bound)+1)
	for k, v := range bound {
		next[k] = v
	}
	next[name] = true
	return next
}
