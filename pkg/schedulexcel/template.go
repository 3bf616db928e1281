package schedulexcel

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SheetKindGrid = "grid"
	SheetKindFlat = "flat"
)

// Flat sheet field names.
const (
	FieldEmployee = "employee"
	FieldDay      = "day"
	FieldTime     = "time"
)

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"` // "grid" or "flat"
	Title       string         `yaml:"title"`
	Position    string         `yaml:"position"` // e.g., "A1"
	Freeze      bool           `yaml:"freeze"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`

	// Grid sheets
	CornerHeader string   `yaml:"corner_header"`
	SlotWidth    float64  `yaml:"slot_width"`
	DayWidth     float64  `yaml:"day_width"`
	DayHeaders   []string `yaml:"day_headers"` // defaults to the day codes

	// Flat sheets
	ShowHeader bool           `yaml:"show_header"`
	Columns    []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column of a flat sheet.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // employee, day or time
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

const defaultTemplateYAML = `
sheets:
  - name: "Schedule"
    kind: "grid"
    position: "A1"
    freeze: true
    corner_header: "Time"
    slot_width: 14
    day_width: 20
    header_style:
      font:
        bold: true
      fill:
        color: "#DDEBF7"
  - name: "Entries"
    kind: "flat"
    show_header: true
    freeze: true
    header_style:
      font:
        bold: true
    columns:
      - field_name: "employee"
        header: "Employee"
        width: 20
      - field_name: "day"
        header: "Day"
        width: 8
      - field_name: "time"
        header: "Time"
        width: 14
`

// DefaultTemplate returns the built-in layout: a grid sheet followed by a
// flat entry list.
func DefaultTemplate() *ReportTemplate {
	tmpl, err := ParseTemplate([]byte(defaultTemplateYAML))
	if err != nil {
		panic(err)
	}
	return tmpl
}

// ParseTemplate decodes and validates a YAML layout.
func ParseTemplate(data []byte) (*ReportTemplate, error) {
	var tmpl ReportTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplate reads a YAML layout from path.
func LoadTemplate(path string) (*ReportTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	return ParseTemplate(data)
}

// Only returns a copy of t holding the sheets of the given kind, or nil when
// there are none.
func (t *ReportTemplate) Only(kind string) *ReportTemplate {
	out := &ReportTemplate{}
	for _, s := range t.Sheets {
		if s.Kind == kind {
			out.Sheets = append(out.Sheets, s)
		}
	}
	if len(out.Sheets) == 0 {
		return nil
	}
	return out
}

func (t *ReportTemplate) validate() error {
	if len(t.Sheets) == 0 {
		return fmt.Errorf("template has no sheets")
	}
	seen := make(map[string]bool, len(t.Sheets))
	for i := range t.Sheets {
		s := &t.Sheets[i]
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return fmt.Errorf("sheet %d: name is required", i+1)
		}
		if seen[s.Name] {
			return fmt.Errorf("sheet %q: duplicate name", s.Name)
		}
		seen[s.Name] = true

		switch s.Kind {
		case SheetKindGrid:
		case SheetKindFlat:
			if len(s.Columns) == 0 {
				return fmt.Errorf("sheet %q: flat sheet needs columns", s.Name)
			}
			for _, c := range s.Columns {
				switch c.FieldName {
				case FieldEmployee, FieldDay, FieldTime:
				default:
					return fmt.Errorf("sheet %q: unknown field %q", s.Name, c.FieldName)
				}
			}
		default:
			return fmt.Errorf("sheet %q: unknown kind %q", s.Name, s.Kind)
		}
	}
	return nil
}
