package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_runs (id TEXT PRIMARY KEY, matched INTEGER, export_key TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_runs")
	require.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "text", colMap["id"])
	assert.Equal(t, "integer", colMap["matched"])
	assert.Equal(t, "text", colMap["export_key"])

	_, err = GetTableColumns(db, "non_existent")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestMissingColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE test_runs (id TEXT PRIMARY KEY, matched INTEGER)").Error)

	missing, err := MissingColumns(db, "test_runs", []string{"id", "Matched", "export_key"})
	require.NoError(t, err)
	assert.Equal(t, []string{"export_key"}, missing)

	_, err = MissingColumns(db, "absent", []string{"id"})
	assert.ErrorIs(t, err, ErrTableNotFound)
}
