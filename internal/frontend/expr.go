package frontend

import (
	"go/ast"
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
)

// ConstInt evaluates expr as a compile-time integer constant. Identifiers
// bound to constants, literals, constant folding results and single-argument
// conversions of any of those all qualify.
func ConstInt(info *types.Info, expr ast.Expr) (int64, bool) {
	if info == nil {
		return 0, false
	}
	if ident, ok := expr.(*ast.Ident); ok {
		if obj, ok := info.ObjectOf(ident).(*types.Const); ok && obj.Val() != nil {
			if obj.Val().Kind() != constant.Int {
				return 0, false
			}
			return constant.Int64Val(obj.Val())
		}
	}
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil {
		if call, ok := expr.(*ast.CallExpr); ok && len(call.Args) == 1 {
			return ConstInt(info, call.Args[0])
		}
		return 0, false
	}
	if tv.Value.Kind() != constant.Int {
		return 0, false
	}
	return constant.Int64Val(tv.Value)
}

// ConstString evaluates expr as a compile-time string constant.
func ConstString(info *types.Info, expr ast.Expr) (string, bool) {
	if info == nil {
		return "", false
	}
	tv, ok := info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(tv.Value), true
}

// RefObject resolves expr to the object it names, unwrapping parentheses.
// It returns nil when expr is not a plain reference.
func RefObject(info *types.Info, expr ast.Expr) types.Object {
	switch e := astutil.Unparen(expr).(type) {
	case *ast.Ident:
		return info.ObjectOf(e)
	case *ast.SelectorExpr:
		return info.ObjectOf(e.Sel)
	default:
		return nil
	}
}

// CalleeObject resolves the function a call invokes, looking through generic
// instantiation expressions.
func CalleeObject(info *types.Info, call *ast.CallExpr) types.Object {
	switch e := astutil.Unparen(call.Fun).(type) {
	case *ast.IndexExpr:
		return RefObject(info, e.X)
	case *ast.IndexListExpr:
		return RefObject(info, e.X)
	default:
		return RefObject(info, call.Fun)
	}
}

// IndexRef decomposes expr as a constant-indexed array element reference,
// returning the array object and element index.
func IndexRef(info *types.Info, expr ast.Expr) (types.Object, int64, bool) {
	idx, ok := astutil.Unparen(expr).(*ast.IndexExpr)
	if !ok {
		return nil, 0, false
	}
	obj := RefObject(info, idx.X)
	if obj == nil {
		return nil, 0, false
	}
	i, ok := ConstInt(info, idx.Index)
	if !ok {
		return nil, 0, false
	}
	return obj, i, true
}
