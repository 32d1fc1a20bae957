// Package sheet reads arrears workbooks and exposes rows through typed
// accessors that treat every spreadsheet flavour of "empty" as absent.
package sheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Totarae/ArrearsLetters/internal/util"
)

// ErrEmptyTable таблица не содержит строк данных.
var ErrEmptyTable = errors.New("spreadsheet has no data rows")

// dateLayouts форматы текстовых дат в выгрузках.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Table заголовок и строки первого листа книги.
type Table struct {
	Sheet   string
	Header  []string
	index   map[string]int
	records [][]string
}

// NewTable собирает таблицу из заголовка и строк.
func NewTable(header []string, records [][]string) *Table {
	t := &Table{Header: header, index: make(map[string]int, len(header)), records: records}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	return t
}

// Open читает первый лист книги с сырыми значениями ячеек.
func Open(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	t := NewTable(rows[0], rows[1:])
	t.Sheet = name
	return t, nil
}

// Len число строк данных.
func (t *Table) Len() int {
	return len(t.records)
}

// Has сообщает, есть ли колонка в заголовке.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require проверяет наличие колонок и непустоту таблицы.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	if t.Len() == 0 {
		return ErrEmptyTable
	}
	return nil
}

// Rows возвращает строки данных; Index начинается с нуля.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.records))
	for i, rec := range t.records {
		rows[i] = Row{Index: i, table: t, cells: rec}
	}
	return rows
}

// Row одна строка данных.
type Row struct {
	Index int
	table *Table
	cells []string
}

func (r Row) raw(col string) (string, bool) {
	i, ok := r.table.index[col]
	if !ok || i >= len(r.cells) {
		return "", false
	}
	return r.cells[i], true
}

// String returns the trimmed cell text, or false for absent, empty and
// nan/none/null cells.
func (r Row) String(col string) (string, bool) {
	v, ok := r.raw(col)
	if !ok || util.IsBlank(v) {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// StringOr возвращает значение или def.
func (r Row) StringOr(col, def string) string {
	if v, ok := r.String(col); ok {
		return v
	}
	return def
}

// Value возвращает строку или nil, если значения нет.
func (r Row) Value(col string) any {
	if v, ok := r.String(col); ok {
		return v
	}
	return nil
}

// Float разбирает число; NaN и бесконечности считаются отсутствием значения.
func (r Row) Float(col string) (float64, bool) {
	v, ok := r.String(col)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Date parses an Excel serial date or a dd/mm/yyyy[ hh:mm:ss] text date.
func (r Row) Date(col string) (time.Time, bool) {
	v, ok := r.String(col)
	if !ok {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
