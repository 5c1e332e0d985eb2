package frontend

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"
)

const exprSrc = `package p

const k = 3
const s = "hi"

var arr [4]int

var x = k
var y = int32(k + 1)
var z = arr[2]
var w = s
`

func checkSrc(t *testing.T) (*types.Info, map[string]ast.Expr) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "p.go", exprSrc, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{}
	if _, err := conf.Check("p", fset, []*ast.File{file}, info); err != nil {
		t.Fatalf("typecheck: %v", err)
	}

	values := make(map[string]ast.Expr)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok {
			continue
		}
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok || len(vs.Values) != 1 {
				continue
			}
			values[vs.Names[0].Name] = vs.Values[0]
		}
	}
	return info, values
}

func TestConstInt(t *testing.T) {
	info, values := checkSrc(t)

	if v, ok := ConstInt(info, values["x"]); !ok || v != 3 {
		t.Errorf("const ident = %d, %v; want 3, true", v, ok)
	}
	if v, ok := ConstInt(info, values["y"]); !ok || v != 4 {
		t.Errorf("conversion of folded constant = %d, %v; want 4, true", v, ok)
	}
	if _, ok := ConstInt(info, values["z"]); ok {
		t.Errorf("array element read should not be a constant")
	}
	if _, ok := ConstInt(info, values["w"]); ok {
		t.Errorf("string constant should not evaluate as integer")
	}
}

func TestConstString(t *testing.T) {
	info, values := checkSrc(t)
	if s, ok := ConstString(info, values["w"]); !ok || s != "hi" {
		t.Errorf("ConstString = %q, %v; want \"hi\", true", s, ok)
	}
	if _, ok := ConstString(info, values["x"]); ok {
		t.Errorf("integer constant should not evaluate as string")
	}
}

func TestIndexRef(t *testing.T) {
	info, values := checkSrc(t)
	obj, idx, ok := IndexRef(info, values["z"])
	if !ok {
		t.Fatalf("arr[2] not recognized as indexed reference")
	}
	if obj.Name() != "arr" || idx != 2 {
		t.Errorf("IndexRef = %s[%d], want arr[2]", obj.Name(), idx)
	}
	if _, _, ok := IndexRef(info, values["x"]); ok {
		t.Errorf("plain ident recognized as indexed reference")
	}
}

func TestRefObject(t *testing.T) {
	info, values := checkSrc(t)
	obj := RefObject(info, values["x"])
	if obj == nil || obj.Name() != "k" {
		t.Errorf("RefObject(x) = %v, want k", obj)
	}
	if RefObject(info, values["z"]) != nil {
		t.Errorf("index expression should not resolve as a plain reference")
	}
}
