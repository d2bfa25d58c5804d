package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/multimediallc/complot/pkg/reconcile"
	"github.com/multimediallc/complot/pkg/summary"
)

const (
	SheetSegments = "Segments"
	SheetWells    = "Wells"
)

func writeXLSX(path string, rows []reconcile.Row, wells []summary.WellRow) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if _, err := f.NewSheet(SheetSegments); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeSheet(f, SheetSegments, headerStyle, Header(), len(rows), func(i int) []any { return segmentValues(rows[i]) }); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetWells); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	header := make([]string, len(wellColumns))
	for i, c := range wellColumns {
		header[i] = c.name
	}
	if err := writeSheet(f, SheetWells, headerStyle, header, len(wells), func(i int) []any { return wellValues(wells[i]) }); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	segmentsIdx, err := f.GetSheetIndex(SheetSegments)
	if err != nil {
		return err
	}
	f.SetActiveSheet(segmentsIdx)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, n int, record func(int) []any) error {
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i := range n {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := record(i)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 15)
}
