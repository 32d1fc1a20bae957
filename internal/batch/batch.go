// Package batch drives the per-row pipelines over an arrears spreadsheet:
// letter generation and SMS link generation.
package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Колонки таблицы задолженностей.
const (
	ColPolicyNo    = "Policy No"
	ColTitle       = "Owner 1 Title"
	ColFirstName   = "Owner 1 First Name"
	ColSurname     = "Owner 1 Surname"
	ColAssignee    = "Assignee Surname Corrected"
	ColMobile      = "MOBILE_NO"
	ColNIC         = "NIC"
	ColArrears     = "Arrears Amount"
	ColPremium     = "Computed Gross Premium"
	ColFrequency   = "Frequency"
	ColInstalments = "No of Instalments in Arrears"
	ColDate        = "Arrears Processing Date"
)

// AddressColumns строки адреса в порядке печати.
var AddressColumns = []string{
	"Owner 1 Policy Address 1",
	"Owner 1 Policy Address 2",
	"Owner 1 Policy Address 3",
	"Owner 1 Policy Address 4",
}

// LetterDateLayout формат даты в письме.
const LetterDateLayout = "02-January-2006"

// Skip reasons.
const (
	ReasonNoPolicy    = "missing policy number"
	ReasonNoMobile    = "missing mobile number"
	ReasonPaymentCode = "payment code unavailable"
)

// SetupError ошибка подготовки запуска: обработка строк не начиналась.
type SetupError struct {
	Msg string
	Err error
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

func setupErr(msg string, err error) *SetupError {
	return &SetupError{Msg: msg, Err: err}
}

// Skip describes a row that produced no output.
type Skip struct {
	// Row номер строки, начиная с единицы.
	Row    int
	Name   string
	Reason string
}

// Summary итог запуска.
type Summary struct {
	RunID     string
	Job       string
	Total     int
	Generated int
	Skipped   []Skip
	Duration  time.Duration
}

func newSummary(job string, total int) *Summary {
	return &Summary{RunID: uuid.NewString(), Job: job, Total: total}
}

// Log печатает итог запуска и список пропущенных строк.
func (s *Summary) Log(logger *zap.Logger) {
	logger.Info("Batch finished",
		zap.String("run_id", s.RunID),
		zap.String("job", s.Job),
		zap.Int("total", s.Total),
		zap.Int("generated", s.Generated),
		zap.Int("skipped", len(s.Skipped)),
		zap.Duration("duration", s.Duration),
	)
	for _, sk := range s.Skipped {
		logger.Info("Skipped row", zap.Int("row", sk.Row), zap.String("name", sk.Name), zap.String("reason", sk.Reason))
	}
}

// Lines returns a plain-text rendition of the summary for notifications.
func (s *Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("Job: %s (run %s)", s.Job, s.RunID),
		fmt.Sprintf("Rows: %d, generated: %d, skipped: %d", s.Total, s.Generated, len(s.Skipped)),
		fmt.Sprintf("Duration: %s", s.Duration.Round(time.Second)),
	}
	for _, sk := range s.Skipped {
		lines = append(lines, fmt.Sprintf("Row %d (%s): %s", sk.Row, sk.Name, sk.Reason))
	}
	return lines
}

// FallbackDate returns configured when set, otherwise the last day of the
// month before now.
func FallbackDate(configured, now time.Time) time.Time {
	if !configured.IsZero() {
		return configured
	}
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
}

// shouldLogProgress: for tables over 1000 rows every 50th row, otherwise every row.
func shouldLogProgress(current, total int) bool {
	if total > 1000 {
		return current%50 == 0 || current == 1 || current == total
	}
	return true
}
