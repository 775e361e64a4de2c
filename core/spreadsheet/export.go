package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"code-reconciler/core/table"

	"github.com/xuri/excelize/v2"
)

// Export sheet names.
const (
	SheetMerged     = "Merged"
	SheetUnmatched  = "Unmatched_Client"
	SheetDuplicates = "Duplicate_Client"
)

// ExportSet is the content of a reconciliation export.
type ExportSet struct {
	Merged     []table.Row `json:"merged"`
	Unmatched  []table.Row `json:"unmatched"`
	Duplicates []table.Row `json:"duplicates"`

	// MasterColumns and ClientColumns fix the column order of the sheets.
	// Fields not listed are appended after them.
	MasterColumns []table.Column `json:"masterColumns,omitempty"`
	ClientColumns []table.Column `json:"clientColumns,omitempty"`
}

// WriteExport writes the three-sheet export workbook to w.
func WriteExport(w io.Writer, set ExportSet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		rows    []table.Row
		columns []table.Column
	}{
		{SheetMerged, set.Merged, set.MasterColumns},
		{SheetUnmatched, set.Unmatched, set.ClientColumns},
		{SheetDuplicates, set.Duplicates, set.ClientColumns},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s.name, exportHeaders(s.columns, s.rows), s.rows); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportBytes renders the export workbook in memory.
func ExportBytes(set ExportSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteExport(&buf, set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows []table.Row) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", sheet, err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(headers))
		for j, h := range headers {
			values[j] = row.Value(h)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

// exportHeaders lists the listed columns first, then any other field seen in
// the rows (sorted per row for a stable order). The id field is stripped.
func exportHeaders(columns []table.Column, rows []table.Row) []string {
	seen := make(map[string]struct{})
	var headers []string
	add := func(field string) {
		if field == "" || field == table.IDField {
			return
		}
		if _, ok := seen[field]; ok {
			return
		}
		seen[field] = struct{}{}
		headers = append(headers, field)
	}

	for _, c := range columns {
		add(c.Field)
	}
	for _, row := range rows {
		extra := make([]string, 0)
		for field := range row.Fields {
			if _, ok := seen[field]; !ok {
				extra = append(extra, field)
			}
		}
		sort.Strings(extra)
		for _, field := range extra {
			add(field)
		}
	}
	return headers
}
