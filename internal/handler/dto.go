package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/locvowork/shift_scheduler/internal/domain"
	"github.com/locvowork/shift_scheduler/internal/grid"
)

// AgeText is the free-text age field; JSON numbers are accepted as well.
type AgeText string

func (a *AgeText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AgeText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = AgeText(n.String())
	return nil
}

// CreateEmployeeRequest is the body of POST /employees
type CreateEmployeeRequest struct {
	Name string  `json:"name"`
	Age  AgeText `json:"age"`
}

// AssignRequest picks an employee by id, or by name when id is zero.
type AssignRequest struct {
	EmployeeID int64  `json:"employee_id"`
	Name       string `json:"name"`
}

// UpsertEntryRequest is the body of POST /schedule
type UpsertEntryRequest struct {
	EmployeeID int64           `json:"employee_id"`
	Day        domain.Day      `json:"day"`
	Slot       domain.TimeSlot `json:"slot"`
}

// SlotsRequest replaces the grid rows, labels in HH:MM-HH:MM form.
type SlotsRequest struct {
	Slots []string `json:"slots"`
}

// SlotRequest adds one row from the editor's start and end pickers.
type SlotRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExportRequest is the body of POST /export
type ExportRequest struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // "grid" (default) or "rows"
}

// CellDTO is one grid cell.
type CellDTO struct {
	Employees []grid.Assignee `json:"employees"`
	Text      string          `json:"text"`
}

// GridResponse is the grid as the front-end renders it; Cells is [row][day].
type GridResponse struct {
	Days  []domain.Day      `json:"days"`
	Slots []domain.TimeSlot `json:"slots"`
	Cells [][]CellDTO       `json:"cells"`
}

func newGridResponse(g *grid.Grid) GridResponse {
	resp := GridResponse{
		Days:  domain.Days,
		Slots: g.Slots(),
		Cells: make([][]CellDTO, g.Rows()),
	}
	table := g.DisplayTable()
	for r := range resp.Cells {
		resp.Cells[r] = make([]CellDTO, len(domain.Days))
		for c, day := range domain.Days {
			employees, _ := g.Cell(day, r)
			if employees == nil {
				employees = []grid.Assignee{}
			}
			resp.Cells[r][c] = CellDTO{Employees: employees, Text: table[r][c]}
		}
	}
	return resp
}

// SaveResponse summarises a grid save.
type SaveResponse struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

// SlotOptionsResponse lists the values the slot editor offers.
type SlotOptionsResponse struct {
	Hours   []int `json:"hours"`
	Minutes []int `json:"minutes"`
}

// ExportResponse reports where a workbook was written.
type ExportResponse struct {
	Path string `json:"path"`
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
