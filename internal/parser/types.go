package parser

import (
	"go/ast"
	"go/types"

	"github.com/toyz/pretend/pkg/pretend/descriptor"
)

func exprString(expr ast.Expr) string {
	return types.ExprString(expr)
}

// classify maps a type expression onto the vocabulary the descriptor parser
// understands. Runtime types are only recognised through the qualifier the
// file imported them under.
func classify(fc *fileContext, expr ast.Expr) descriptor.TypeRef {
	ref := descriptor.TypeRef{Expr: exprString(expr)}

	switch e := expr.(type) {
	case *ast.StarExpr:
		inner := classify(fc, e.X)
		inner.Expr = ref.Expr
		inner.Pointer = true
		return inner

	case *ast.Ident:
		switch e.Name {
		case "error":
			ref.Kind = descriptor.TypeError
		case "string":
			ref.Kind = descriptor.TypeString
		}

	case *ast.ArrayType:
		if e.Len == nil && isIdent(e.Elt, "byte") {
			ref.Kind = descriptor.TypeBytes
		}

	case *ast.StructType:
		if e.Fields == nil || len(e.Fields.List) == 0 {
			ref.Kind = descriptor.TypeUnit
		}

	case *ast.SelectorExpr:
		switch {
		case fc.context != "" && isQualified(e, fc.context, "Context"):
			ref.Kind = descriptor.TypeContext
		case fc.pretend != "" && isQualified(e, fc.pretend, "Unit"):
			ref.Kind = descriptor.TypeUnit
		}

	case *ast.IndexExpr:
		if sel, ok := e.X.(*ast.SelectorExpr); ok && fc.pretend != "" && isQualified(sel, fc.pretend, "Response") {
			elem := classify(fc, e.Index)
			ref.Kind = descriptor.TypeResponse
			ref.Elem = &elem
		}

	case *ast.IndexListExpr:
		if sel, ok := e.X.(*ast.SelectorExpr); ok && fc.pretend != "" && isQualified(sel, fc.pretend, "JsonResult") && len(e.Indices) == 2 {
			ref.Kind = descriptor.TypeJSONResult
		}
	}

	return ref
}

func isIdent(expr ast.Expr, name string) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == name
}

func isQualified(sel *ast.SelectorExpr, pkg, name string) bool {
	return isIdent(sel.X, pkg) && sel.Sel.Name == name
}
