package batch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/metrics"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/payment"
	"github.com/Totarae/ArrearsLetters/internal/pdf"
	"github.com/Totarae/ArrearsLetters/internal/sheet"
	"github.com/Totarae/ArrearsLetters/internal/templates"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

const jobGenerate = "generate"

// LetterRenderer превращает содержимое письма в PDF.
type LetterRenderer interface {
	Render(letter model.LetterContent, qrPath string) ([]byte, error)
}

// Generator produces one protected and one unprotected PDF per row.
type Generator struct {
	Coder     payment.Coder
	Renderer  LetterRenderer
	Template  templates.Template
	OutputDir string
	// TempDir каталог временных PNG; пусто означает os.TempDir.
	TempDir      string
	FallbackDate time.Time
	Logger       *zap.Logger
	Now          func() time.Time
}

// Run processes the table row by row. Only setup failures are returned;
// row failures end up in Summary.Skipped.
func (g *Generator) Run(ctx context.Context, table *sheet.Table) (*Summary, error) {
	if table == nil || table.Len() == 0 {
		return nil, setupErr("no rows to process", sheet.ErrEmptyTable)
	}
	if err := table.Require(g.Template.RequiredColumns...); err != nil {
		return nil, setupErr("spreadsheet check failed", err)
	}
	for _, dir := range []string{pdf.ProtectedDir, pdf.UnprotectedDir} {
		if err := os.MkdirAll(filepath.Join(g.OutputDir, dir), 0o755); err != nil {
			return nil, setupErr("create output folder", err)
		}
	}
	tmp := g.TempDir
	if tmp == "" {
		tmp = os.TempDir()
	}

	now := g.now()
	fallback := FallbackDate(g.FallbackDate, now)
	sum := newSummary(jobGenerate, table.Len())
	g.Logger.Info("Letter generation started",
		zap.String("run_id", sum.RunID),
		zap.String("template", g.Template.Name),
		zap.Int("rows", sum.Total))

	for _, row := range table.Rows() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		current := row.Index + 1
		if shouldLogProgress(current, sum.Total) {
			g.Logger.Info("Processing row", zap.Int("row", current), zap.Int("total", sum.Total))
		}

		prep, skip := Prepare(row, g.Template, fallback)
		if skip == nil {
			skip = g.processRow(ctx, prep, tmp)
		}
		if skip != nil {
			g.Logger.Warn("Skipping row", zap.Int("row", skip.Row), zap.String("name", skip.Name), zap.String("reason", skip.Reason))
			sum.Skipped = append(sum.Skipped, *skip)
			metrics.BatchRows.WithLabelValues(jobGenerate, "skipped").Inc()
			continue
		}
		sum.Generated++
		metrics.BatchRows.WithLabelValues(jobGenerate, "generated").Inc()
	}

	sum.Duration = g.now().Sub(now)
	return sum, nil
}

func (g *Generator) processRow(ctx context.Context, prep *Prepared, tmp string) *Skip {
	letter := prep.Letter
	skip := func(reason string) *Skip {
		return &Skip{Row: prep.Seq, Name: letter.CustomerName, Reason: reason}
	}

	res := g.Coder.RequestCode(ctx, prep.Request)
	if !res.OK() {
		return skip(ReasonPaymentCode + ": " + res.Failure.Error())
	}

	qrPath, err := payment.WriteQRCode(res.Payload, tmp, "qr_"+util.SanitizeFilename(letter.PolicyNo))
	if err != nil {
		return skip("write qr code: " + err.Error())
	}
	defer os.Remove(qrPath)

	doc, err := g.Renderer.Render(letter, qrPath)
	if err != nil {
		return skip(err.Error())
	}

	name := prep.PdfName()
	encrypted, err := pdf.WriteOutputs(doc,
		filepath.Join(g.OutputDir, pdf.UnprotectedDir, name),
		filepath.Join(g.OutputDir, pdf.ProtectedDir, name),
		letter.NIC, g.Logger)
	if err != nil {
		return skip("write pdf: " + err.Error())
	}
	g.Logger.Debug("Letter written", zap.String("file", name), zap.Bool("encrypted", encrypted))
	return nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
