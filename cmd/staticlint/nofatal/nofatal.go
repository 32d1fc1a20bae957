// Package nofatal содержит анализатор, который запрещает завершать процесс
// из библиотечных пакетов: os.Exit, log.Fatal*, log.Panic*, Fatal/Panic у
// zap.Logger и zap.SugaredLogger, а также встроенный panic.
// Ошибки возвращаются вызывающему; завершать процесс может только пакет main.
package nofatal

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// Analyzer запрещает завершение процесса вне пакета main.
var Analyzer = &analysis.Analyzer{
	Name: "nofatal",
	Doc:  "запрещает os.Exit, log.Fatal, zap Fatal и panic вне пакета main",
	Run:  run,
}

// NewAnalyzer возвращает анализатор nofatal.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

var forbiddenFuncs = map[string]bool{
	"os.Exit":     true,
	"log.Fatal":   true,
	"log.Fatalf":  true,
	"log.Fatalln": true,
	"log.Panic":   true,
	"log.Panicf":  true,
	"log.Panicln": true,
}

var zapTypes = []string{
	"(*go.uber.org/zap.Logger).",
	"(*go.uber.org/zap.SugaredLogger).",
}

func forbidden(fn *types.Func) bool {
	name := fn.FullName()
	if forbiddenFuncs[name] {
		return true
	}
	for _, prefix := range zapTypes {
		if method, ok := strings.CutPrefix(name, prefix); ok {
			return strings.HasPrefix(method, "Fatal") || strings.HasPrefix(method, "Panic") || strings.HasPrefix(method, "DPanic")
		}
	}
	return false
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() == "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.File(file.Pos()).Name(), "_test.go") {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			switch fun := call.Fun.(type) {
			case *ast.Ident:
				if b, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok && b.Name() == "panic" {
					pass.Reportf(call.Pos(), "panic в библиотечном пакете запрещён, верните ошибку")
				}
			case *ast.SelectorExpr:
				if fn, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func); ok && forbidden(fn) {
					pass.Reportf(call.Pos(), "вызов %s в библиотечном пакете запрещён, верните ошибку", fn.FullName())
				}
			}
			return true
		})
	}
	return nil, nil
}
