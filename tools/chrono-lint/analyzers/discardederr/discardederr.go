// Package discardederr detects flexidate parse and constructor errors that
// are thrown away.
//
// A zero flexidate.Date is a valid exact year 0, so code that ignores the
// error from ParseDate silently files an event under 1 BC.
package discardederr

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports flexidate.Parse*/New* calls whose error result is discarded.
var Analyzer = &analysis.Analyzer{
	Name:     "discardederr",
	Doc:      "detects discarded errors from flexidate parsers and constructors",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const pkgName = "flexidate"

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.AssignStmt)(nil),
		(*ast.ValueSpec)(nil),
		(*ast.ExprStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		switch stmt := n.(type) {
		case *ast.AssignStmt:
			if len(stmt.Rhs) == 1 {
				checkDiscard(pass, stmt.Lhs, stmt.Rhs[0])
			}
		case *ast.ValueSpec:
			if len(stmt.Values) == 1 {
				lhs := make([]ast.Expr, len(stmt.Names))
				for i, name := range stmt.Names {
					lhs[i] = name
				}
				checkDiscard(pass, lhs, stmt.Values[0])
			}
		case *ast.ExprStmt:
			if call, name := fallibleCall(pass, stmt.X); call != nil {
				pass.Reportf(call.Pos(), "result of %s.%s is ignored", pkgName, name)
			}
		}
	})

	return nil, nil
}

// checkDiscard reports when the last left-hand side, the error, is blank.
func checkDiscard(pass *analysis.Pass, lhs []ast.Expr, rhs ast.Expr) {
	call, name := fallibleCall(pass, rhs)
	if call == nil || len(lhs) < 2 {
		return
	}
	if ident, ok := lhs[len(lhs)-1].(*ast.Ident); ok && ident.Name == "_" {
		pass.Reportf(call.Pos(), "error from %s.%s is discarded", pkgName, name)
	}
}

// fallibleCall returns expr as a call to a flexidate function named
// Parse* or New* whose last result is an error.
func fallibleCall(pass *analysis.Pass, expr ast.Expr) (*ast.CallExpr, string) {
	call, ok := ast.Unparen(expr).(*ast.CallExpr)
	if !ok {
		return nil, ""
	}

	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return nil, ""
	}

	fn, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok || fn.Pkg() == nil || fn.Pkg().Name() != pkgName {
		return nil, ""
	}

	name := fn.Name()
	if !strings.HasPrefix(name, "Parse") && !strings.HasPrefix(name, "New") {
		return nil, ""
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Results().Len() == 0 {
		return nil, ""
	}
	last := sig.Results().At(sig.Results().Len() - 1).Type()
	if !types.Identical(last, types.Universe.Lookup("error").Type()) {
		return nil, ""
	}

	return call, name
}
