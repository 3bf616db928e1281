package service

import (
	"context"
	"fmt"
	"io"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/grid"
	"github.com/locvowork/shift_scheduler/internal/logger"
	"github.com/locvowork/shift_scheduler/pkg/schedulexcel"
)

// ExportService writes the schedule to spreadsheets.
type ExportService struct {
	schedule    *ScheduleService
	template    *schedulexcel.ReportTemplate
	defaultPath string
}

// NewExportService creates an ExportService. A nil template selects the
// built-in layout.
func NewExportService(schedule *ScheduleService, tmpl *schedulexcel.ReportTemplate, defaultPath string) *ExportService {
	if tmpl == nil {
		tmpl = schedulexcel.DefaultTemplate()
	}
	return &ExportService{schedule: schedule, template: tmpl, defaultPath: defaultPath}
}

// ExportGrid writes the grid as currently edited to path (the configured
// default when empty), overwriting any existing file. It returns the path used.
func (s *ExportService) ExportGrid(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = s.defaultPath
	}
	if err := s.gridExporter().SaveAs(path); err != nil {
		return "", fmt.Errorf("export grid to %s: %w", path, err)
	}
	logger.InfoLog(ctx, "Schedule exported to %s", path)
	return path, nil
}

// ExportRows writes the persisted entries as an employee/day/time list.
func (s *ExportService) ExportRows(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = s.defaultPath
	}
	exp, err := s.rowsExporter(ctx)
	if err != nil {
		return "", err
	}
	if err := exp.SaveAs(path); err != nil {
		return "", fmt.Errorf("export entries to %s: %w", path, err)
	}
	logger.InfoLog(ctx, "Schedule entries exported to %s", path)
	return path, nil
}

// Bytes renders the grid workbook in memory.
func (s *ExportService) Bytes(ctx context.Context) ([]byte, error) {
	return s.gridExporter().ToBytes()
}

// CSV writes the persisted entries as CSV.
func (s *ExportService) CSV(ctx context.Context, w io.Writer) error {
	exp, err := s.rowsExporter(ctx)
	if err != nil {
		return err
	}
	return exp.ToCSV(w)
}

func (s *ExportService) gridExporter() *schedulexcel.Exporter {
	g := s.schedule.Snapshot()
	return schedulexcel.NewExporter(s.template).
		BindGrid(GridData(g)).
		BindEntries(gridEntries(g))
}

func (s *ExportService) rowsExporter(ctx context.Context) (*schedulexcel.Exporter, error) {
	rows, err := s.schedule.Entries(ctx)
	if err != nil {
		return nil, err
	}

	tmpl := s.template.Only(schedulexcel.SheetKindFlat)
	if tmpl == nil {
		tmpl = schedulexcel.DefaultTemplate().Only(schedulexcel.SheetKindFlat)
	}

	entries := make([]schedulexcel.Entry, len(rows))
	for i, r := range rows {
		entries[i] = schedulexcel.Entry{Employee: r.EmployeeName, Day: string(r.Day), Time: r.Slot.String()}
	}
	return schedulexcel.NewExporter(tmpl).BindEntries(entries), nil
}

// GridData converts a grid into the exporter's display form.
func GridData(g *grid.Grid) schedulexcel.GridData {
	data := schedulexcel.GridData{Cells: g.DisplayTable()}
	for _, d := range domain.Days {
		data.Days = append(data.Days, string(d))
	}
	for _, slot := range g.Slots() {
		data.Slots = append(data.Slots, slot.String())
	}
	return data
}

func gridEntries(g *grid.Grid) []schedulexcel.Entry {
	var out []schedulexcel.Entry
	for _, day := range domain.Days {
		for row, slot := range g.Slots() {
			cell, _ := g.Cell(day, row)
			for _, a := range cell {
				out = append(out, schedulexcel.Entry{Employee: a.Name, Day: string(day), Time: slot.String()})
			}
		}
	}
	return out
}
