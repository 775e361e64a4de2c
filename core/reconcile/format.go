package reconcile

import (
	"strings"

	"code-reconciler/core/table"
	"code-reconciler/core/utils"
)

var codeFieldTokens = []string{"hcpcs", "cpt", "code"}

// FormatCodesForDisplay hyphenates code fields of 7 or more characters after
// the fifth character ("1234567" -> "12345-67"). Values that already carry a
// hyphen there, or a multiplier 'x', are left alone. The input is not modified.
func FormatCodesForDisplay(rows []table.Row) []table.Row {
	out := make([]table.Row, len(rows))
	for i, row := range rows {
		formatted := row.Clone()
		for field, v := range formatted.Fields {
			if v == nil || !IsCodeField(field) {
				continue
			}
			if s, ok := hyphenate(utils.ToString(v)); ok {
				formatted.Fields[field] = s
			}
		}
		out[i] = formatted
	}
	return out
}

// IsCodeField reports whether a field name denotes a procedure code column.
func IsCodeField(field string) bool {
	lower := strings.ToLower(field)
	for _, tok := range codeFieldTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func hyphenate(s string) (string, bool) {
	r := []rune(s)
	if len(r) < 7 {
		return s, false
	}
	switch r[5] {
	case '-', 'x', 'X':
		return s, false
	}
	return string(r[:5]) + "-" + string(r[5:]), true
}
