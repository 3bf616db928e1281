// Package schedulexcel renders a weekly schedule to an xlsx workbook laid out
// by a YAML template.
package schedulexcel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GridData is the weekly grid as displayed: one row per slot, one column per day.
type GridData struct {
	Days  []string
	Slots []string
	Cells [][]string // [slot][day], "" for an empty cell
}

func (g *GridData) validate() error {
	if len(g.Cells) != len(g.Slots) {
		return fmt.Errorf("grid has %d slot labels but %d rows", len(g.Slots), len(g.Cells))
	}
	for i, row := range g.Cells {
		if len(row) != len(g.Days) {
			return fmt.Errorf("grid row %s has %d cells, want %d", g.Slots[i], len(row), len(g.Days))
		}
	}
	return nil
}

// Entry is one line of the flat sheet.
type Entry struct {
	Employee string
	Day      string
	Time     string
}

func (e Entry) field(name string) string {
	switch name {
	case FieldEmployee:
		return e.Employee
	case FieldDay:
		return e.Day
	case FieldTime:
		return e.Time
	}
	return ""
}

// Exporter is the main entry point for exporting a schedule.
type Exporter struct {
	template *ReportTemplate
	grid     *GridData
	entries  []Entry
}

// NewExporter returns an exporter for tmpl, or for the default layout when tmpl is nil.
func NewExporter(tmpl *ReportTemplate) *Exporter {
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	return &Exporter{template: tmpl}
}

// BindGrid sets the data rendered by grid sheets.
func (e *Exporter) BindGrid(g GridData) *Exporter {
	e.grid = &g
	return e
}

// BindEntries sets the data rendered by flat sheets.
func (e *Exporter) BindEntries(entries []Entry) *Exporter {
	e.entries = entries
	return e
}

// BuildExcel creates the workbook in memory. The caller closes it.
func (e *Exporter) BuildExcel() (*excelize.File, error) {
	f := excelize.NewFile()

	for i := range e.template.Sheets {
		sheet := &e.template.Sheets[i]
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			f.Close()
			return nil, err
		}

		var err error
		switch sheet.Kind {
		case SheetKindGrid:
			err = e.renderGrid(f, sheet)
		case SheetKindFlat:
			err = e.renderFlat(f, sheet)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// SaveAs writes the workbook to path, replacing any existing file.
func (e *Exporter) SaveAs(path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *Exporter) ToBytes() ([]byte, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := new(bytes.Buffer)
	if _, err := f.WriteTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToCSV writes the first flat sheet, or the first sheet when there is none, as CSV.
func (e *Exporter) ToCSV(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := e.template.Sheets[0].Name
	for _, s := range e.template.Sheets {
		if s.Kind == SheetKindFlat {
			sheet = s.Name
			break
		}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows: %v", err)
	}

	csvWriter := csv.NewWriter(w)
	for rows.Next() {
		row, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("error reading row: %v", err)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row: %v", err)
		}
	}
	if err = rows.Close(); err != nil {
		return fmt.Errorf("error iterating rows: %v", err)
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// =============================================================================
// Rendering Logic
// =============================================================================

func (e *Exporter) renderGrid(f *excelize.File, sheet *SheetTemplate) error {
	if e.grid == nil {
		return fmt.Errorf("no grid data bound")
	}
	if err := e.grid.validate(); err != nil {
		return err
	}

	days := e.grid.Days
	if len(sheet.DayHeaders) == len(days) {
		days = sheet.DayHeaders
	}

	startCol, row := origin(sheet.Position)
	width := 1 + len(days)

	if sheet.Title != "" {
		if err := renderTitle(f, sheet, startCol, row, width); err != nil {
			return err
		}
		row++
	}

	headerStyle, err := createStyle(f, sheet.HeaderStyle)
	if err != nil {
		return err
	}

	header := make([]interface{}, 0, width)
	header = append(header, sheet.CornerHeader)
	for _, d := range days {
		header = append(header, d)
	}
	if err := setRow(f, sheet.Name, startCol, row, header, headerStyle); err != nil {
		return err
	}
	headerRow := row
	row++

	for i, slot := range e.grid.Slots {
		cell, _ := excelize.CoordinatesToCellName(startCol, row)
		if err := f.SetCellValue(sheet.Name, cell, slot); err != nil {
			return err
		}
		if headerStyle != 0 {
			if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
				return err
			}
		}
		for j, text := range e.grid.Cells[i] {
			if text == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(startCol+1+j, row)
			if err := f.SetCellValue(sheet.Name, cell, text); err != nil {
				return err
			}
		}
		row++
	}

	if sheet.SlotWidth > 0 {
		col, _ := excelize.ColumnNumberToName(startCol)
		if err := f.SetColWidth(sheet.Name, col, col, sheet.SlotWidth); err != nil {
			return err
		}
	}
	if sheet.DayWidth > 0 && len(days) > 0 {
		first, _ := excelize.ColumnNumberToName(startCol + 1)
		last, _ := excelize.ColumnNumberToName(startCol + len(days))
		if err := f.SetColWidth(sheet.Name, first, last, sheet.DayWidth); err != nil {
			return err
		}
	}

	if sheet.Freeze {
		return freeze(f, sheet.Name, startCol+1, headerRow+1)
	}
	return nil
}

func (e *Exporter) renderFlat(f *excelize.File, sheet *SheetTemplate) error {
	startCol, row := origin(sheet.Position)

	if sheet.Title != "" {
		if err := renderTitle(f, sheet, startCol, row, len(sheet.Columns)); err != nil {
			return err
		}
		row++
	}

	if sheet.ShowHeader {
		headerStyle, err := createStyle(f, sheet.HeaderStyle)
		if err != nil {
			return err
		}
		header := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			header[i] = col.Header
		}
		if err := setRow(f, sheet.Name, startCol, row, header, headerStyle); err != nil {
			return err
		}
		row++
	}
	dataRow := row

	for _, entry := range e.entries {
		values := make([]interface{}, len(sheet.Columns))
		for i, col := range sheet.Columns {
			values[i] = entry.field(col.FieldName)
		}
		if err := setRow(f, sheet.Name, startCol, row, values, 0); err != nil {
			return err
		}
		row++
	}

	for i, col := range sheet.Columns {
		if col.Width > 0 {
			name, _ := excelize.ColumnNumberToName(startCol + i)
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return err
			}
		}
	}

	if sheet.Freeze && dataRow > 1 {
		return freeze(f, sheet.Name, startCol, dataRow)
	}
	return nil
}

func renderTitle(f *excelize.File, sheet *SheetTemplate, col, row, span int) error {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if err := f.SetCellValue(sheet.Name, cell, sheet.Title); err != nil {
		return err
	}
	styleID, err := createStyle(f, sheet.TitleStyle)
	if err != nil {
		return err
	}

	endCell := cell
	if span > 1 {
		endCell, _ = excelize.CoordinatesToCellName(col+span-1, row)
		if err := f.MergeCell(sheet.Name, cell, endCell); err != nil {
			return err
		}
	}
	if styleID != 0 {
		return f.SetCellStyle(sheet.Name, cell, endCell, styleID)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, col, row int, values []interface{}, styleID int) error {
	if len(values) == 0 {
		return nil
	}
	cell, _ := excelize.CoordinatesToCellName(col, row)
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return err
	}
	if styleID != 0 {
		endCell, _ := excelize.CoordinatesToCellName(col+len(values)-1, row)
		return f.SetCellStyle(sheet, cell, endCell, styleID)
	}
	return nil
}

// freeze keeps the rows above and the columns left of (col, row) in view.
func freeze(f *excelize.File, sheet string, col, row int) error {
	topLeft, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	pane := "bottomRight"
	if col == 1 {
		pane = "bottomLeft"
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      col - 1,
		YSplit:      row - 1,
		TopLeftCell: topLeft,
		ActivePane:  pane,
	})
}

func origin(position string) (int, int) {
	if position != "" {
		if c, r, err := excelize.CellNameToCoordinates(position); err == nil {
			return c, r
		}
	}
	return 1, 1
}

// createStyle returns 0 when tmpl carries nothing to apply.
func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	if tmpl == nil || (tmpl.Font == nil && tmpl.Fill == nil) {
		return 0, nil
	}
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return f.NewStyle(style)
}
