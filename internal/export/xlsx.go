package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"nefera/internal/domain"
)

const sheetName = "Evaluations"

// WriteXLSX renders the evaluation batch as a single-sheet workbook with a
// bold, frozen header row.
func WriteXLSX(w io.Writer, evs []domain.Evaluation) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	for col, title := range columns {
		cell, cerr := excelize.CoordinatesToCellName(col+1, 1)
		if cerr != nil {
			return fmt.Errorf("export.WriteXLSX: %w", cerr)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
	}

	for i := range evs {
		row := evaluationToRow(&evs[i])
		for col, value := range row {
			cell, cerr := excelize.CoordinatesToCellName(col+1, i+2)
			if cerr != nil {
				return fmt.Errorf("export.WriteXLSX: %w", cerr)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}
