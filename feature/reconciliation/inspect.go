package reconciliation

import (
	"code-reconciler/core/reconcile"
	"code-reconciler/core/spreadsheet"
	"code-reconciler/core/table"
)

// SheetReport describes one sheet of an inspected workbook.
type SheetReport struct {
	Name       string               `json:"name"`
	Rows       int                  `json:"rows"`
	Columns    []table.Column       `json:"columns"`
	KeyColumns reconcile.KeyColumns `json:"keyColumns"`
	// Error is set when the sheet cannot be reconciled as it stands.
	Error string `json:"error,omitempty"`
}

// InspectReport describes an inspected workbook.
type InspectReport struct {
	Filename string        `json:"filename"`
	Sheets   []SheetReport `json:"sheets"`
}

// InspectWorkbook resolves the key columns of every sheet.
func InspectWorkbook(filename string, wb *spreadsheet.Workbook) InspectReport {
	report := InspectReport{Filename: filename, Sheets: make([]SheetReport, 0, len(wb.SheetNames))}
	for _, name := range wb.SheetNames {
		ds := wb.Sheets[name]
		sr := SheetReport{Name: name, Rows: len(ds.Rows), Columns: ds.Columns}
		keys, err := reconcile.ResolveKeyColumns(reconcile.SideMaster, ds.Columns)
		if err != nil {
			sr.Error = "no HCPCS column found"
		}
		sr.KeyColumns = keys
		report.Sheets = append(report.Sheets, sr)
	}
	return report
}
