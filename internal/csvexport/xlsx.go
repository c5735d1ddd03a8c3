package csvexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"loandesk/internal/domain"
)

// ApplicationsSheet is the sheet name used by the XLSX export and import.
const ApplicationsSheet = "Applications"

// WriteXLSX writes the applications as a single-sheet workbook to w. Amount and count
// columns are stored as numbers so they sum in a spreadsheet.
func WriteXLSX(w io.Writer, apps []domain.Application) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ApplicationsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(ApplicationsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := range apps {
		row := xlsxRow(&apps[i])
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ApplicationsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(ApplicationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxRow(app *domain.Application) []interface{} {
	text := applicationToRow(app)
	row := make([]interface{}, len(text))
	for i, v := range text {
		row[i] = v
	}
	row[9] = app.LoanAmount
	if app.ApprovedLoanAmount != nil {
		row[10] = *app.ApprovedLoanAmount
	}
	if s := app.DocumentSummary; s != nil {
		row[11] = s.ApprovedCount
		row[12] = s.RejectedCount
		row[13] = s.PendingCount
	}
	return row
}
