package reconcile

import (
	"testing"

	"code-reconciler/core/table"

	"github.com/stretchr/testify/assert"
)

func cols(fields ...string) []table.Column {
	return table.ColumnsFromHeaders(fields)
}

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name    string
		logical string
		columns []table.Column
		want    string
		wantOK  bool
	}{
		{"ExactBeatsCaseInsensitive", "HCPCS", cols("hcpcs", "HCPCS"), "HCPCS", true},
		{"CaseInsensitive", "HCPCS", cols("Desc", "hcpcs"), "hcpcs", true},
		{"Normalized", "Proc Code", cols("Amount", "proc_code"), "proc_code", true},
		{"Substring", "HCPCS", cols("Description", "HCPCS Code"), "HCPCS Code", true},
		{"SubstringReverse", "Description", cols("HCPCS", "Desc"), "Desc", true},
		{"FuzzyCode", "HCPCS", cols("Description", "Proc_Code"), "Proc_Code", true},
		{"FuzzyQuantity", "Quantity", cols("HCPCS", "Units"), "Units", true},
		{"FuzzyPrice", "Price", cols("Proc_Code", "Charge"), "Charge", true},
		{"ModifierAbbreviation", "Modifier", cols("HCPCS", "Mod"), "Mod", true},
		{"NoMatch", "HCPCS", cols("Description", "Price"), "", false},
		{"IDIsNeverAColumn", "id", cols("id"), "", false},
		{"EmptyLogicalName", "", cols("HCPCS"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumn(tt.logical, tt.columns)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumn_SubstringFirstColumnWins(t *testing.T) {
	got, ok := ResolveColumn("Code", cols("HCPCS Code", "Modifier Code"))
	assert.True(t, ok)
	assert.Equal(t, "HCPCS Code", got)
}

func TestBuildColumnMapping(t *testing.T) {
	master := cols("HCPCS", "Description", "Qty", "Notes")
	client := cols("Proc_Code", "Desc", "Units", "Extra")

	mapping := BuildColumnMapping(master, client)

	assert.Equal(t, map[string]string{
		"HCPCS":       "Proc_Code",
		"Description": "Desc",
		"Qty":         "Units",
	}, mapping)
}

func TestBuildColumnMapping_SkipsID(t *testing.T) {
	mapping := BuildColumnMapping(cols("id", "HCPCS"), cols("id", "HCPCS"))
	assert.Equal(t, map[string]string{"HCPCS": "HCPCS"}, mapping)
}

func TestMemo_Resolve(t *testing.T) {
	memo := NewMemo()
	columns := cols("Proc_Code", "Desc")

	field, ok := memo.Resolve("HCPCS", columns)
	assert.True(t, ok)
	assert.Equal(t, "Proc_Code", field)
	assert.Equal(t, 0, memo.Hits())

	field, ok = memo.Resolve("HCPCS", columns)
	assert.True(t, ok)
	assert.Equal(t, "Proc_Code", field)
	assert.Equal(t, 1, memo.Hits())
	assert.Equal(t, 1, memo.Len())

	// A different column set is a different entry
	_, ok = memo.Resolve("HCPCS", cols("Price"))
	assert.False(t, ok)
	assert.Equal(t, 2, memo.Len())
}
