// Package usageend implements an analyzer for resource usage windows.
package usageend

import (
	"go/ast"
	"go/types"
	"strconv"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/ast/astutil"
)

// Analyzer reports handles returned by probe StartUsage that are thrown away,
// or that are never passed on: not to EndUsage, another call, a return,
// an assignment or a channel.
//
// Test files and generated code are skipped.
var Analyzer = &analysis.Analyzer{
	Name: "usageend",
	Doc:  "report resource usage handles that never reach EndUsage",
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	for _, f := range pass.Files {
		if isGenerated(f) || importsTesting(f) {
			continue
		}
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			checkBody(pass, fd.Body)
		}
	}
	return nil, nil
}

func checkBody(pass *analysis.Pass, body *ast.BlockStmt) {
	handles := map[types.Object]*ast.CallExpr{}

	ast.Inspect(body, func(n ast.Node) bool {
		switch st := n.(type) {
		case *ast.ExprStmt:
			if call, ok := st.X.(*ast.CallExpr); ok && isProbeFunc(pass, call, "StartUsage") {
				pass.Reportf(call.Pos(), "result of StartUsage is discarded; the usage window is never ended")
			}
		case *ast.AssignStmt:
			if len(st.Rhs) != 1 || len(st.Lhs) == 0 {
				return true
			}
			call, ok := st.Rhs[0].(*ast.CallExpr)
			if !ok || !isProbeFunc(pass, call, "StartUsage") {
				return true
			}
			id, ok := st.Lhs[0].(*ast.Ident)
			if !ok {
				return true // stored into a field or element
			}
			if id.Name == "_" {
				pass.Reportf(call.Pos(), "result of StartUsage is discarded; the usage window is never ended")
				return true
			}
			if obj := pass.TypesInfo.ObjectOf(id); obj != nil {
				handles[obj] = call
			}
		}
		return true
	})
	if len(handles) == 0 {
		return
	}

	passed := map[types.Object]bool{}
	mark := func(e ast.Expr) {
		if id, ok := astutil.Unparen(e).(*ast.Ident); ok {
			if obj := pass.TypesInfo.ObjectOf(id); obj != nil {
				passed[obj] = true
			}
		}
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch e := n.(type) {
		case *ast.CallExpr:
			for _, arg := range e.Args {
				mark(arg)
			}
		case *ast.ReturnStmt:
			for _, r := range e.Results {
				mark(r)
			}
		case *ast.AssignStmt:
			for _, r := range e.Rhs {
				mark(r)
			}
		case *ast.KeyValueExpr:
			mark(e.Value)
		case *ast.CompositeLit:
			for _, elt := range e.Elts {
				mark(elt)
			}
		case *ast.SendStmt:
			mark(e.Value)
		}
		return true
	})

	for obj, call := range handles {
		if !passed[obj] {
			pass.Reportf(call.Pos(), "handle %s from StartUsage is never ended or handed off", obj.Name())
		}
	}
}

// isProbeFunc matches calls of the named function or method declared in a package named probe.
func isProbeFunc(pass *analysis.Pass, call *ast.CallExpr, name string) bool {
	var id *ast.Ident
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		id = fn.Sel
	case *ast.Ident:
		id = fn
	default:
		return false
	}
	f, ok := pass.TypesInfo.Uses[id].(*types.Func)
	if !ok || f.Name() != name || f.Pkg() == nil {
		return false
	}
	path := f.Pkg().Path()
	return path == "probe" || strings.HasSuffix(path, "/probe")
}

func isGenerated(f *ast.File) bool {
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			if strings.Contains(c.Text, "Code generated") && strings.Contains(c.Text, "DO NOT EDIT") {
				return true
			}
		}
	}
	return false
}

func importsTesting(f *ast.File) bool {
	for _, im := range f.Imports {
		if p, _ := strconv.Unquote(im.Path.Value); p == "testing" || p == "testing/internal/testdeps" {
			return true
		}
	}
	return false
}
