package reconcile

import (
	"strings"

	"code-reconciler/core/table"
)

const traumaIndicator = "trauma team"

// isTraumaCode reports whether a root is on the fixed trauma exclusion list.
func isTraumaCode(root string) bool {
	switch root {
	case "99284", "99285", "99291":
		return true
	}
	return false
}

// isTraumaExcluded reports whether a row carries a trauma-team description and
// an excluded code. Datasets without a description column are never filtered.
func isTraumaExcluded(row table.Row, cols KeyColumns) bool {
	if cols.Description == "" {
		return false
	}
	desc := strings.ToLower(row.String(cols.Description))
	if !strings.Contains(desc, traumaIndicator) {
		return false
	}
	return isTraumaCode(ParseCode(row, cols.HCPCS, cols.Modifier).Root)
}

// filterTrauma returns the rows that survive the trauma filter and how many were dropped.
func filterTrauma(rows []table.Row, cols KeyColumns) ([]table.Row, int) {
	kept := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if isTraumaExcluded(row, cols) {
			continue
		}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}
