package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Totarae/ArrearsLetters/internal/model"
)

const smsSheet = "SMS Batch"

// ExportSMSBatch записывает выгрузку SMS в книгу xlsx.
func ExportSMSBatch(path string, rows []model.SMSMessage) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", smsSheet); err != nil {
		return err
	}

	header := model.SMSMessage{}.Columns()
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, m := range rows {
		if err := setRow(f, i+2, m.Record()); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(smsSheet, 1, 1, style)
	}
	_ = f.SetColWidth(smsSheet, "A", "A", 14)
	_ = f.SetColWidth(smsSheet, "B", "B", 90)
	_ = f.SetColWidth(smsSheet, "C", "F", 28)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(smsSheet, cell, &row)
}
