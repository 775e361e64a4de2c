package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"code-reconciler/core/utils"

	"github.com/google/uuid"
)

// IDField is the reserved row key. It is never treated as data.
const IDField = "id"

var (
	// ErrDuplicateID is returned when two rows of one dataset share an id.
	ErrDuplicateID = errors.New("duplicate row id")
	// ErrRowIndex is returned when a row operation targets a missing index.
	ErrRowIndex = errors.New("row index out of range")
)

// Row is a single spreadsheet record.
type Row struct {
	// ID is unique within a dataset.
	ID string
	// Fields holds the cell values keyed by column field name.
	Fields map[string]any
}

// Column describes one column of a dataset.
type Column struct {
	Field      string `json:"field"`
	HeaderName string `json:"headerName"`
	Editable   bool   `json:"editable"`
}

// Dataset bundles the rows and columns of one sheet.
type Dataset struct {
	Rows    []Row    `json:"rows"`
	Columns []Column `json:"columns"`
}

// NewRow creates a row, copying the given fields.
func NewRow(id string, fields map[string]any) Row {
	r := Row{ID: id, Fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		if k == IDField {
			continue
		}
		r.Fields[k] = v
	}
	return r
}

// Value returns the raw cell value of a field. The id is not a field.
func (r Row) Value(field string) any {
	if field == "" || field == IDField || r.Fields == nil {
		return nil
	}
	return r.Fields[field]
}

// String returns the cell value of a field as a string.
func (r Row) String(field string) string {
	return utils.ToString(r.Value(field))
}

// Has reports whether the field holds a non-empty value.
func (r Row) Has(field string) bool {
	return !IsEmpty(r.Value(field))
}

// Clone returns a deep copy of the row's field map.
func (r Row) Clone() Row {
	return NewRow(r.ID, r.Fields)
}

// MarshalJSON encodes the row flat, with id next to the fields.
// Numeric ids are written back as numbers.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	if n, err := strconv.Atoi(r.ID); err == nil && strconv.Itoa(n) == r.ID {
		out[IDField] = n
	} else {
		out[IDField] = r.ID
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a flat row object. The id may be a number or a string.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	r.ID = utils.ToString(raw[IDField])
	r.Fields = make(map[string]any, len(raw))
	for k, v := range raw {
		if k == IDField {
			continue
		}
		r.Fields[k] = normalizeJSONValue(v)
	}
	return nil
}

func normalizeJSONValue(v any) any {
	switch val := v.(type) {
	case nil, string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return utils.ToString(val)
	}
}

// Clone returns a copy of the dataset with cloned rows.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Rows:    CloneRows(d.Rows),
		Columns: append([]Column(nil), d.Columns...),
	}
	return out
}

// CloneRows deep-copies a row slice.
func CloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

// IsEmpty reports whether a cell value is blank.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	return strings.TrimSpace(utils.ToString(v)) == ""
}

// ColumnsFromHeaders builds editable columns whose field and header are the same.
func ColumnsFromHeaders(headers []string) []Column {
	cols := make([]Column, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, Column{Field: h, HeaderName: h, Editable: true})
	}
	return cols
}

// DuplicateRow inserts a copy of rows[index] right after it and gives the copy a
// fresh unique id. The input slice is not modified.
func DuplicateRow(rows []Row, index int) ([]Row, error) {
	if index < 0 || index >= len(rows) {
		return nil, fmt.Errorf("duplicate row %d of %d: %w", index, len(rows), ErrRowIndex)
	}

	dup := rows[index].Clone()
	dup.ID = uuid.NewString()

	out := make([]Row, 0, len(rows)+1)
	out = append(out, rows[:index+1]...)
	out = append(out, dup)
	out = append(out, rows[index+1:]...)
	return out, nil
}

// ValidateIDs checks that every row id in the dataset is unique.
func ValidateIDs(rows []Row) error {
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, ok := seen[r.ID]; ok {
			return fmt.Errorf("id %q: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
