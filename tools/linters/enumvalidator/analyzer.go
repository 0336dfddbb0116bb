// Package enumvalidator reports string literals written into fields whose
// type is an enum-like string type (a named string type with declared constants),
// e.g. Organization.Subscription = "trial" instead of model.TierTrial.
package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

var Analyzer = &analysis.Analyzer{
	Name:     "enumvalidator",
	Doc:      "reports string literals assigned to enum-typed struct fields",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	enums := map[*types.TypeName]bool{}

	filter := []ast.Node{(*ast.AssignStmt)(nil), (*ast.KeyValueExpr)(nil)}
	insp.Preorder(filter, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.AssignStmt:
			if len(n.Lhs) != len(n.Rhs) {
				return
			}
			for i, lhs := range n.Lhs {
				sel, ok := lhs.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				check(pass, enums, sel.Sel.Name, pass.TypesInfo.TypeOf(sel), n.Rhs[i])
			}
		case *ast.KeyValueExpr:
			key, ok := n.Key.(*ast.Ident)
			if !ok {
				return
			}
			field, ok := pass.TypesInfo.Uses[key].(*types.Var)
			if !ok || !field.IsField() {
				return
			}
			check(pass, enums, key.Name, field.Type(), n.Value)
		}
	})

	return nil, nil
}

func check(pass *analysis.Pass, enums map[*types.TypeName]bool, field string, typ types.Type, value ast.Expr) {
	lit, ok := ast.Unparen(value).(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return
	}
	named, ok := typ.(*types.Named)
	if !ok || !isEnum(enums, named) {
		return
	}
	pass.Reportf(lit.Pos(), "enum field %s assigned string literal %s; use a %s constant",
		field, lit.Value, named.Obj().Name())
}

// isEnum reports whether named is a string type with at least one constant
// declared in its own package.
func isEnum(enums map[*types.TypeName]bool, named *types.Named) bool {
	obj := named.Obj()
	if known, ok := enums[obj]; ok {
		return known
	}

	result := false
	if basic, ok := named.Underlying().(*types.Basic); ok && basic.Info()&types.IsString != 0 && obj.Pkg() != nil {
		scope := obj.Pkg().Scope()
		for _, name := range scope.Names() {
			if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), named) {
				result = true
				break
			}
		}
	}
	enums[obj] = result
	return result
}
