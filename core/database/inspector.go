package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrTableNotFound is returned when an inspected table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Field string
	Type  string
}

// GetTableColumns retrieves the column definitions for a given table.
// Names and types are lower-cased so they compare across dialects.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	migrator := db.Migrator()
	if !migrator.HasTable(tableName) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableName)
	}

	types, err := migrator.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		columns = append(columns, ColumnInfo{
			Field: strings.ToLower(ct.Name()),
			Type:  strings.ToLower(ct.DatabaseTypeName()),
		})
	}
	return columns, nil
}

// MissingColumns returns the required columns the table lacks, in the
// order they were asked for.
func MissingColumns(db *gorm.DB, tableName string, required []string) ([]string, error) {
	columns, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[col.Field] = true
	}

	var missing []string
	for _, name := range required {
		if !present[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing, nil
}
