// Command staticlint проверяет код сервиса писем перед сборкой.
//
// Набор проверок:
//   - go/analysis/passes: ошибки в контекстах с таймаутом (lostcancel), в
//     ответах HTTP-клиентов (httpresponse), в копировании мьютексов файловых
//     хранилищ (copylock), а также printf, structtag, errorsas, nilness, shadow;
//   - staticcheck: вся группа SA и отдельные проверки из extraChecks;
//   - bodyclose для клиентов ZwennPay и Brevo;
//   - nofatal: процесс завершает только пакет main.
//
// Запуск:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/ArrearsLetters/cmd/staticlint/nofatal"
)

// extraChecks проверки staticcheck вне группы SA.
var extraChecks = map[string]bool{
	"S1000":  true, // select с единственным case
	"S1002":  true, // сравнение bool с константой
	"S1011":  true, // append в цикле вместо append(a, b...)
	"ST1012": true, // имена переменных ошибок: ErrX / errX
	"U1000":  true, // неиспользуемый код
}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		bodyclose.Analyzer,
		nofatal.NewAnalyzer(),
	}

	var suite []*lint.Analyzer
	suite = append(suite, staticcheck.Analyzers...)
	suite = append(suite, simple.Analyzers...)
	suite = append(suite, stylecheck.Analyzers...)
	suite = append(suite, unused.Analyzer)
	for _, a := range suite {
		name := a.Analyzer.Name
		if strings.HasPrefix(name, "SA") || extraChecks[name] {
			list = append(list, a.Analyzer)
		}
	}
	return list
}
