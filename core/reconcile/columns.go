package reconcile

import (
	"strings"

	"code-reconciler/core/table"
)

// Logical field names located by the resolver.
const (
	LogicalHCPCS       = "HCPCS"
	LogicalModifier    = "Modifier"
	LogicalDescription = "Description"
	LogicalQuantity    = "Quantity"
)

// category is a canonical concept and the tokens that identify it.
type category struct {
	name     string
	variants []string
}

// fuzzyCategories is tried in order by the last resolver stage.
var fuzzyCategories = []category{
	{name: "hcpcs", variants: []string{"hcpc", "code", "procedure_code", "proc_code", "cpt"}},
	{name: "modifier", variants: []string{"mod", "modif", "modifier_code"}},
	{name: "description", variants: []string{"desc", "procedure_desc", "proc_desc", "name", "procedure_name"}},
	{name: "quantity", variants: []string{"qty", "units", "unit", "count"}},
	{name: "price", variants: []string{"amount", "cost", "charge", "rate", "fee"}},
	{name: "date", variants: []string{"service_date", "dos", "date_of_service"}},
}

var separatorStripper = strings.NewReplacer(" ", "", "_", "", "-", "")

// ResolveColumn maps a logical name to the field of one of the given columns.
// Stages are tried in strict order and the first hit wins:
// exact, case-insensitive, normalized, substring, fuzzy category.
func ResolveColumn(logicalName string, columns []table.Column) (string, bool) {
	if logicalName == "" {
		return "", false
	}
	fields := candidateFields(columns)

	for _, f := range fields {
		if f == logicalName {
			return f, true
		}
	}

	for _, f := range fields {
		if strings.EqualFold(f, logicalName) {
			return f, true
		}
	}

	normalized := normalizeName(logicalName)
	for _, f := range fields {
		if normalizeName(f) == normalized {
			return f, true
		}
	}

	lower := strings.ToLower(logicalName)
	for _, f := range fields {
		lf := strings.ToLower(f)
		if strings.Contains(lf, lower) || strings.Contains(lower, lf) {
			return f, true
		}
	}

	for _, cat := range fuzzyCategories {
		if !cat.matches(lower) {
			continue
		}
		for _, f := range fields {
			if cat.matches(strings.ToLower(f)) {
				return f, true
			}
		}
	}

	return "", false
}

// BuildColumnMapping resolves every master column against the client columns.
// Only resolved fields appear in the returned map.
func BuildColumnMapping(masterColumns, clientColumns []table.Column) map[string]string {
	return NewMemo().ColumnMapping(masterColumns, clientColumns)
}

func (c category) matches(lowerName string) bool {
	if strings.Contains(lowerName, c.name) {
		return true
	}
	for _, v := range c.variants {
		if strings.Contains(lowerName, v) {
			return true
		}
	}
	return false
}

// candidateFields lists the usable column fields in order, skipping the reserved id.
func candidateFields(columns []table.Column) []string {
	fields := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.Field == "" || c.Field == table.IDField {
			continue
		}
		fields = append(fields, c.Field)
	}
	return fields
}

func normalizeName(s string) string {
	return strings.ToLower(separatorStripper.Replace(s))
}
