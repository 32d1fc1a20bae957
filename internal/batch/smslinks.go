package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/lock"
	"github.com/Totarae/ArrearsLetters/internal/metrics"
	"github.com/Totarae/ArrearsLetters/internal/model"
	"github.com/Totarae/ArrearsLetters/internal/payment"
	"github.com/Totarae/ArrearsLetters/internal/pdf"
	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/sheet"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/templates"
)

const jobSMSLinks = "sms-links"

// Имена файлов выгрузки.
const (
	SMSBatchCSV  = "sms_batch.csv"
	SMSBatchXLSX = "sms_batch.xlsx"
)

// SMSText is the message sent to the customer.
func SMSText(name, shortURL string) string {
	return fmt.Sprintf("Dear %s, your NICL arrears notice is ready. View online: %s Valid for 30 days.", name, shortURL)
}

// SMSLinker creates a letter record and a short link per row and exports
// the SMS batch.
type SMSLinker struct {
	Coder   payment.Coder
	Letters *service.LetterService
	Links   *service.LinkService
	Locker  lock.Locker
	// BaseURL адрес веб-просмотра писем.
	BaseURL      string
	LettersDir   string
	Template     templates.Template
	FallbackDate time.Time
	Logger       *zap.Logger
	Now          func() time.Time
}

// Run replaces every letter and short link of folder with a fresh set built
// from table. Only one run may touch the registry at a time.
func (l *SMSLinker) Run(ctx context.Context, folder string, table *sheet.Table) (*Summary, error) {
	if err := storage.ValidScope(folder); err != nil {
		return nil, setupErr("invalid folder name", err)
	}
	if table == nil || table.Len() == 0 {
		return nil, setupErr("no rows to process", sheet.ErrEmptyTable)
	}
	if err := table.Require(ColPolicyNo, ColArrears); err != nil {
		return nil, setupErr("spreadsheet check failed", err)
	}

	release, err := l.Locker.Acquire(ctx, jobSMSLinks)
	if err != nil {
		return nil, setupErr("acquire job lock", err)
	}
	defer release()

	letters, err := l.Letters.PurgeScope(ctx, folder)
	if err != nil {
		return nil, setupErr("clear previous letters", err)
	}
	links, err := l.Links.PurgeScope(ctx, folder)
	if err != nil {
		return nil, setupErr("clear previous links", err)
	}
	l.Logger.Info("Cleared previous SMS links",
		zap.String("folder", folder), zap.Int("letters", letters), zap.Int("links", links))

	start := l.now()
	fallback := FallbackDate(l.FallbackDate, start)
	sum := newSummary(jobSMSLinks, table.Len())
	var out []model.SMSMessage

	for _, row := range table.Rows() {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		prep, skip := Prepare(row, l.Template, fallback)
		if skip == nil && prep.Letter.MobileNo == "" {
			skip = &Skip{Row: prep.Seq, Name: prep.Letter.CustomerName, Reason: ReasonNoMobile}
		}
		if skip != nil {
			l.skip(sum, *skip)
			continue
		}

		msg, err := l.processRow(ctx, folder, prep)
		if err != nil {
			l.skip(sum, Skip{Row: prep.Seq, Name: prep.Letter.CustomerName, Reason: err.Error()})
			if msg != nil {
				out = append(out, *msg)
			}
			continue
		}
		out = append(out, *msg)
		sum.Generated++
		metrics.BatchRows.WithLabelValues(jobSMSLinks, "generated").Inc()
	}

	dir := filepath.Join(l.LettersDir, folder)
	if err := writeSMSBatch(dir, out); err != nil {
		return sum, fmt.Errorf("write sms batch: %w", err)
	}
	sum.Duration = l.now().Sub(start)
	return sum, nil
}

func (l *SMSLinker) processRow(ctx context.Context, folder string, prep *Prepared) (*model.SMSMessage, error) {
	letter := prep.Letter

	res := l.Coder.RequestCode(ctx, prep.Request)
	if !res.OK() {
		l.Logger.Warn("Retrying payment code with defaults",
			zap.String("policy", letter.PolicyNo), zap.Error(res.Failure))
		res = l.Coder.RequestCode(ctx, prep.FallbackRequest())
	}
	if res.OK() {
		letter.QRCodeData = res.Payload
	} else {
		l.Logger.Warn("Letter published without payment code",
			zap.String("policy", letter.PolicyNo), zap.Error(res.Failure))
	}
	letter.PDFPath = path.Join("/", folder, pdf.ProtectedDir, prep.PdfName())

	id, err := l.Letters.Create(ctx, folder, letter)
	if err != nil {
		return nil, fmt.Errorf("create letter: %w", err)
	}

	msg := &model.SMSMessage{
		Mobile:       letter.MobileNo,
		Policy:       letter.PolicyNo,
		CustomerName: letter.CustomerName,
	}
	shortID, err := l.Links.Mint(ctx, l.BaseURL+"/letter/"+id, folder)
	if err != nil {
		msg.Status = model.SMSStatusLinkFailed
		return msg, fmt.Errorf("mint short link: %w", err)
	}
	msg.ShortURL = l.Links.ShortURL(shortID)
	msg.Message = SMSText(prep.SMSName(), msg.ShortURL)
	msg.Status = model.SMSStatusReady
	return msg, nil
}

func (l *SMSLinker) skip(sum *Summary, sk Skip) {
	l.Logger.Warn("Skipping row", zap.Int("row", sk.Row), zap.String("name", sk.Name), zap.String("reason", sk.Reason))
	sum.Skipped = append(sum.Skipped, sk)
	metrics.BatchRows.WithLabelValues(jobSMSLinks, "skipped").Inc()
}

func (l *SMSLinker) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// writeSMSBatch пишет sms_batch.csv и sms_batch.xlsx в dir.
func writeSMSBatch(dir string, rows []model.SMSMessage) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, SMSBatchCSV))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.SMSMessage{}.Columns()); err != nil {
		return err
	}
	for _, m := range rows {
		if err := w.Write(m.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return sheet.ExportSMSBatch(filepath.Join(dir, SMSBatchXLSX), rows)
}
