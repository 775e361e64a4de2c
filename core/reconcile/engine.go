package reconcile

import (
	"time"

	"code-reconciler/core/table"

	"github.com/shopspring/decimal"
)

// Reconcile joins the client dataset onto the master dataset.
// It fails only when either side has no HCPCS-equivalent column, in which case
// no partial result is returned.
//
// Rows with a blank code cell never join, so a blank client row is always
// reported as unmatched. Blank rows are also never counted as duplicates.
func Reconcile(master, client table.Dataset, criteria ModifierCriteria) (*Result, error) {
	return ReconcileWithMemo(master, client, criteria, NewMemo())
}

// ReconcileWithMemo is Reconcile with a caller-supplied memo for column
// resolution. The memo must be fresh for each call; nil creates one.
func ReconcileWithMemo(master, client table.Dataset, criteria ModifierCriteria, memo *Memo) (*Result, error) {
	start := time.Now()
	if memo == nil {
		memo = NewMemo()
	}

	// Resolve key columns on both sides
	masterCols, err := resolveKeyColumns(memo, SideMaster, master.Columns)
	if err != nil {
		return nil, err
	}
	clientCols, err := resolveKeyColumns(memo, SideClient, client.Columns)
	if err != nil {
		return nil, err
	}

	mapping := memo.ColumnMapping(master.Columns, client.Columns)

	masterRows, clientRows := master.Rows, client.Rows
	var excludedMaster, excludedClient int
	if criteria.IgnoreTrauma {
		masterRows, excludedMaster = filterTrauma(masterRows, masterCols)
		clientRows, excludedClient = filterTrauma(clientRows, clientCols)
	}

	// Build client lookup; a later row with the same key replaces an earlier one
	clientKeys := make([]string, len(clientRows))
	clientLookup := make(map[string]table.Row, len(clientRows))
	for i, row := range clientRows {
		key := comparisonKey(row, clientCols, criteria)
		clientKeys[i] = key
		if key != "" {
			clientLookup[key] = row
		}
	}

	// Master-driven join
	masterKeys := make(map[string]struct{}, len(masterRows))
	merged := make([]table.Row, 0, len(masterRows))
	matched := 0
	for _, row := range masterRows {
		key := comparisonKey(row, masterCols, criteria)
		if key != "" {
			masterKeys[key] = struct{}{}
		}

		clientRow, ok := clientLookup[key]
		if !ok {
			merged = append(merged, row.Clone())
			continue
		}
		matched++
		merged = append(merged, mergeRow(row, clientRow, mapping, masterCols))
	}

	// Unmatched is computed against every master key, not the lookup
	unmatched := make([]table.Row, 0)
	for i, row := range clientRows {
		if _, ok := masterKeys[clientKeys[i]]; ok {
			continue
		}
		unmatched = append(unmatched, row.Clone())
	}

	duplicates := findDuplicates(clientRows, clientCols)
	merged = FormatCodesForDisplay(merged)

	stats := ComparisonStats{
		TotalMasterRecords:    len(masterRows),
		TotalClientRecords:    len(clientRows),
		MatchedRecords:        matched,
		UnmatchedRecords:      len(unmatched),
		DuplicateRecords:      len(duplicates),
		MatchRate:             matchRate(matched, len(clientRows)),
		ColumnsMatched:        len(mapping),
		TotalMasterColumns:    len(master.Columns),
		TotalClientColumns:    len(client.Columns),
		ExcludedMasterRecords: excludedMaster,
		ExcludedClientRecords: excludedClient,
	}
	stats.ProcessingTime = float64(time.Since(start).Microseconds()) / 1000

	return &Result{
		Merged:     merged,
		Unmatched:  unmatched,
		Duplicates: duplicates,
		Stats:      stats,
		Mapping:    mapping,
		Columns:    ResolvedColumns{Master: masterCols, Client: clientCols},
	}, nil
}

// ResolveKeyColumns locates the HCPCS, Modifier, Description and Quantity
// columns of one dataset.
func ResolveKeyColumns(side Side, columns []table.Column) (KeyColumns, error) {
	return resolveKeyColumns(NewMemo(), side, columns)
}

func resolveKeyColumns(memo *Memo, side Side, columns []table.Column) (KeyColumns, error) {
	hcpcs, ok := memo.Resolve(LogicalHCPCS, columns)
	if !ok {
		return KeyColumns{}, &MissingKeyColumnError{Side: side, Columns: candidateFields(columns)}
	}

	cols := KeyColumns{HCPCS: hcpcs}
	cols.Modifier = resolveOther(memo, LogicalModifier, columns, hcpcs)
	cols.Description = resolveOther(memo, LogicalDescription, columns, hcpcs)
	cols.Quantity = resolveOther(memo, LogicalQuantity, columns, hcpcs)
	return cols, nil
}

// resolveOther resolves a non-key logical column. A hit on the code column
// itself is discarded so a lone "Procedure Code" column is not read twice.
func resolveOther(memo *Memo, logical string, columns []table.Column, codeField string) string {
	field, ok := memo.Resolve(logical, columns)
	if !ok || field == codeField {
		return ""
	}
	return field
}

// mergeRow overlays non-empty client values onto a copy of the master row.
// The key columns keep the master's values and the quantity goes through the
// multiplier logic of the master code.
func mergeRow(master, client table.Row, mapping map[string]string, cols KeyColumns) table.Row {
	out := master.Clone()
	multiplier := ParseMultiplierCode(master.String(cols.HCPCS))

	for masterField, clientField := range mapping {
		if masterField == cols.HCPCS || masterField == cols.Modifier {
			continue
		}
		v := client.Value(clientField)
		if table.IsEmpty(v) {
			continue
		}
		if masterField == cols.Quantity {
			out.Fields[masterField] = ApplyMultiplierQuantity(v, multiplier)
			continue
		}
		out.Fields[masterField] = v
	}
	return out
}

// findDuplicates returns, in input order, the rows whose raw key occurs more
// than once. Rows without a code are ignored.
func findDuplicates(rows []table.Row, cols KeyColumns) []table.Row {
	keys := make([]string, len(rows))
	counts := make(map[string]int, len(rows))
	for i, row := range rows {
		if cellUpper(row, cols.HCPCS) == "" {
			continue
		}
		keys[i] = BuildRawKey(row, cols.HCPCS, cols.Modifier)
		counts[keys[i]]++
	}

	duplicates := make([]table.Row, 0)
	for i, row := range rows {
		if keys[i] != "" && counts[keys[i]] > 1 {
			duplicates = append(duplicates, row.Clone())
		}
	}
	return duplicates
}

func matchRate(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(matched)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2).
		InexactFloat64()
}
