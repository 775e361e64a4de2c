package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"code-reconciler/core/table"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrSheetNotFound is returned when a requested sheet does not exist.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrEmptyWorkbook is returned when a workbook has no sheets.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
)

// Workbook is a decoded spreadsheet.
type Workbook struct {
	// SheetNames lists the sheets in workbook order.
	SheetNames []string `json:"sheetNames"`
	// Sheets holds the dataset of every sheet by name.
	Sheets map[string]table.Dataset `json:"-"`
}

// Sheet returns the named sheet, or the first sheet when name is empty.
func (w *Workbook) Sheet(name string) (table.Dataset, error) {
	if len(w.SheetNames) == 0 {
		return table.Dataset{}, ErrEmptyWorkbook
	}
	if name == "" {
		name = w.SheetNames[0]
	}
	ds, ok := w.Sheets[name]
	if !ok {
		return table.Dataset{}, fmt.Errorf("%q: %w", name, ErrSheetNotFound)
	}
	return ds, nil
}

// Decode reads a workbook. The filename extension selects the format.
func Decode(r io.Reader, filename string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return decodeXLSX(r)
	case ".csv":
		return decodeCSV(r, strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

func decodeXLSX(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{Sheets: make(map[string]table.Dataset)}
	for _, name := range f.GetSheetList() {
		records, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = buildDataset(records)
	}
	return wb, nil
}

func decodeCSV(r io.Reader, sheetName string) (*Workbook, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}

	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &Workbook{
		SheetNames: []string{sheetName},
		Sheets:     map[string]table.Dataset{sheetName: buildDataset(records)},
	}, nil
}

// buildDataset turns raw records into a dataset. The first non-blank record is
// the header; blank records are dropped and row ids are 1-based sequence numbers.
func buildDataset(records [][]string) table.Dataset {
	headerIdx := -1
	for i, rec := range records {
		if !isBlankRecord(rec) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return table.Dataset{Rows: []table.Row{}, Columns: []table.Column{}}
	}

	headers := uniqueHeaders(records[headerIdx])
	rows := make([]table.Row, 0, len(records)-headerIdx-1)
	for _, rec := range records[headerIdx+1:] {
		if isBlankRecord(rec) {
			continue
		}
		fields := make(map[string]any, len(headers))
		for i, h := range headers {
			val := ""
			if i < len(rec) {
				val = strings.TrimSpace(rec[i])
			}
			fields[h] = val
		}
		rows = append(rows, table.Row{ID: strconv.Itoa(len(rows) + 1), Fields: fields})
	}

	return table.Dataset{Rows: rows, Columns: table.ColumnsFromHeaders(headers)}
}

// uniqueHeaders trims header cells, names blank ones "Column N" and suffixes
// repeated names so every field is distinct. "id" is renamed to keep the
// reserved row key free.
func uniqueHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Column " + strconv.Itoa(i+1)
		}
		if h == table.IDField {
			h = "source_id"
		}
		name := h
		for n := 2; seen[name]; n++ {
			name = h + "_" + strconv.Itoa(n)
		}
		seen[name] = true
		headers[i] = name
	}
	return headers
}

func isBlankRecord(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
