package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/pders01/modeldrift/internal/models"
)

// Sheet names of the analysis workbook
const (
	SheetSummary   = "Summary"
	SheetModels    = "Models"
	SheetFields    = "Model Fields"
	SheetFunctions = "Functions"
	SheetMappings  = "API Mappings"
)

const maxColWidth = 50

var methodColors = map[string]string{
	"GET":    "B0E0E6",
	"POST":   "90EE90",
	"PUT":    "FFD700",
	"PATCH":  "FFA500",
	"DELETE": "FFB6C1",
}

type workbook struct {
	f      *excelize.File
	header int
	fills  map[string]int
}

// Workbook builds the analysis spreadsheet. The caller closes it.
func Workbook(snap *models.Snapshot, now time.Time) (*excelize.File, error) {
	wb := &workbook{f: excelize.NewFile(), fills: map[string]int{}}
	if err := wb.build(snap, now); err != nil {
		wb.f.Close()
		return nil, err
	}
	return wb.f, nil
}

// WriteXLSX writes the analysis spreadsheet to path
func WriteXLSX(fs afero.Fs, path string, snap *models.Snapshot, now time.Time) error {
	f, err := Workbook(snap, now)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteFile(fs, path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}

func (wb *workbook) build(snap *models.Snapshot, now time.Time) error {
	var err error
	wb.header, err = wb.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := wb.f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := wb.summary(snap, now); err != nil {
		return err
	}

	sheets := []struct {
		name string
		rows [][]any
		fill func(row []any) (col int, color string)
	}{
		{SheetModels, modelSheetRows(snap), func(row []any) (int, string) {
			if row[5] == "Yes" {
				return 6, "90EE90"
			}
			return 0, ""
		}},
		{SheetFields, fieldSheetRows(snap), nil},
		{SheetFunctions, functionSheetRows(snap), func(row []any) (int, string) {
			if row[6] == "Yes" {
				return 7, "ADD8E6"
			}
			return 0, ""
		}},
		{SheetMappings, mappingSheetRows(snap), func(row []any) (int, string) {
			m, _ := row[2].(string)
			return 3, methodColors[m]
		}},
	}
	for _, s := range sheets {
		if err := wb.table(s.name, s.rows, s.fill); err != nil {
			return fmt.Errorf("failed to fill sheet %s: %w", s.name, err)
		}
	}
	wb.f.SetActiveSheet(0)
	return nil
}

func (wb *workbook) summary(snap *models.Snapshot, now time.Time) error {
	f := wb.f
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	section, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	async := 0
	for _, fn := range snap.Functions {
		if fn.IsAsync {
			async++
		}
	}

	cells := []struct {
		cell  string
		value any
		style int
	}{
		{"A1", "Code Analysis Summary", title},
		{"A3", "Analysis Date:", 0},
		{"B3", now.Format("2006-01-02 15:04:05"), 0},
		{"A4", "Root Path:", 0},
		{"B4", snap.ProjectRoot, 0},
		{"A6", "Statistics", section},
		{"A7", "Total Models", bold},
		{"B7", len(snap.Models), 0},
		{"A8", "Pydantic Models", bold},
		{"B8", snap.Summary.PydanticModels, 0},
		{"A9", "Dataclasses", bold},
		{"B9", snap.Summary.Dataclasses, 0},
		{"A11", "Total Functions", bold},
		{"B11", len(snap.Functions), 0},
		{"A12", "Async Functions", bold},
		{"B12", async, 0},
		{"A14", "Request/Response Mappings", bold},
		{"B14", len(snap.Endpoints), 0},
	}
	for _, c := range cells {
		if err := f.SetCellValue(SheetSummary, c.cell, c.value); err != nil {
			return err
		}
		if c.style != 0 {
			if err := f.SetCellStyle(SheetSummary, c.cell, c.cell, c.style); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "B", "B", 50)
}

// table writes rows (header first) to a new sheet, highlights the cell
// fill picks and sizes columns to their content
func (wb *workbook) table(sheet string, rows [][]any, fill func([]any) (int, string)) error {
	f := wb.f
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	widths := map[int]int{}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
			if n := len(fmt.Sprint(v)); n > widths[c] {
				widths[c] = n
			}
		}
		if r == 0 {
			last, _ := excelize.CoordinatesToCellName(len(row), 1)
			if err := f.SetCellStyle(sheet, "A1", last, wb.header); err != nil {
				return err
			}
			continue
		}
		if fill == nil {
			continue
		}
		if col, color := fill(row); col > 0 && color != "" {
			style, err := wb.fill(color)
			if err != nil {
				return err
			}
			cell, _ := excelize.CoordinatesToCellName(col, r+1)
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}
	for c, w := range widths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		width := float64(w + 2)
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) fill(color string) (int, error) {
	if id, ok := wb.fills[color]; ok {
		return id, nil
	}
	id, err := wb.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, err
	}
	wb.fills[color] = id
	return id, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func modelSheetRows(snap *models.Snapshot) [][]any {
	rows := [][]any{{"Model Name", "File Path", "Line", "Base Classes", "Fields", "Pydantic", "Dataclass", "Decorators", "Description"}}
	for _, m := range snap.Models {
		rows = append(rows, []any{
			m.Name, m.FilePath, m.LineNumber, strings.Join(m.BaseClasses, ", "), len(m.Fields),
			yesNo(m.IsPydantic), yesNo(m.IsDataclass), strings.Join(m.Decorators, ", "), truncate(m.Docstring, 100),
		})
	}
	return rows
}

func fieldSheetRows(snap *models.Snapshot) [][]any {
	rows := [][]any{{"Model Name", "File Path", "Field Name", "Field Type", "Default Value", "Optional"}}
	for _, m := range snap.Models {
		for _, fd := range m.Fields {
			def := ""
			if fd.Default != nil {
				def = *fd.Default
			}
			rows = append(rows, []any{m.Name, m.FilePath, fd.Name, fd.Type, def, yesNo(strings.Contains(fd.Type, "Optional"))})
		}
	}
	return rows
}

func functionSheetRows(snap *models.Snapshot) [][]any {
	rows := [][]any{{"Function Name", "File Path", "Line", "Class", "Parameters", "Return Type", "Async", "Decorators", "Description"}}
	for _, fn := range snap.Functions {
		params := make([]string, len(fn.Parameters))
		for i, p := range fn.Parameters {
			t := p.Type
			if t == "" {
				t = "Any"
			}
			params[i] = p.Name + ": " + t
		}
		rows = append(rows, []any{
			fn.Name, fn.FilePath, fn.LineNumber, fn.ClassName, strings.Join(params, ", "),
			fn.ReturnType, yesNo(fn.IsAsync), strings.Join(fn.Decorators, ", "), truncate(fn.Docstring, 100),
		})
	}
	return rows
}

func mappingSheetRows(snap *models.Snapshot) [][]any {
	rows := [][]any{{"Function Name", "File Path", "HTTP Method", "Endpoint", "Request Models", "Response Models"}}
	for _, ep := range snap.Endpoints {
		rows = append(rows, []any{ep.FunctionName, ep.FilePath, ep.Method, ep.Path, ep.RequestModel, ep.ResponseModel})
	}
	return rows
}
