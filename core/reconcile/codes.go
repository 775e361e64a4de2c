package reconcile

import (
	"strings"

	"code-reconciler/core/table"
)

// CodeParts is a procedure code split into root and modifier.
type CodeParts struct {
	Root     string `json:"root"`
	Modifier string `json:"modifier"`
}

// ParseCode reads the code (and optional modifier column) of a row and splits it.
//
// Precedence is fixed:
//   - a non-empty modifier column wins and the code is kept whole;
//   - 8 characters with '-' at index 5 is XXXXX-YY;
//   - 7 characters is XXXXXYY;
//   - any other length above 5 splits after the fifth character;
//   - shorter codes have no modifier.
//
// Malformed codes never fail; they fall through to the last branches.
func ParseCode(row table.Row, codeField, modifierField string) CodeParts {
	code := cellUpper(row, codeField)

	if modifierField != "" {
		if mod := cellUpper(row, modifierField); mod != "" {
			return CodeParts{Root: code, Modifier: mod}
		}
	}

	return SplitCode(code)
}

// SplitCode splits an upper-cased, trimmed code string without a modifier column.
// Lengths and offsets count characters, not bytes.
func SplitCode(code string) CodeParts {
	r := []rune(code)
	switch {
	case len(r) == 8 && r[5] == '-':
		return CodeParts{Root: string(r[:5]), Modifier: string(r[6:])}
	case len(r) == 7:
		return CodeParts{Root: string(r[:5]), Modifier: string(r[5:])}
	case len(r) > 5:
		return CodeParts{Root: string(r[:5]), Modifier: string(r[5:])}
	default:
		return CodeParts{Root: code}
	}
}

// BuildComparisonKey returns the join key of a root/modifier pair under the
// given policy. Two rows are the same procedure iff their keys are equal.
func BuildComparisonKey(root, modifier string, criteria ModifierCriteria) string {
	mod := strings.TrimSpace(modifier)
	effective := mod

	if criteria.Root00 && (mod == "" || mod == "00") {
		effective = ""
	}
	if dropsModifier(mod, criteria) {
		effective = ""
	}

	if effective == "" {
		return root
	}
	return root + "-" + effective
}

// BuildRawKey returns the policy-free key used for duplicate detection within
// one dataset. It uses the literal code cell, not the parsed root.
func BuildRawKey(row table.Row, codeField, modifierField string) string {
	code := cellUpper(row, codeField)
	if modifierField == "" {
		return code
	}
	return code + "-" + cellUpper(row, modifierField)
}

// dropsModifier reports whether a specific-modifier flag makes mod equivalent to the root.
func dropsModifier(mod string, criteria ModifierCriteria) bool {
	switch strings.ToUpper(mod) {
	case "25":
		return criteria.Root25
	case "50":
		return criteria.Root50
	case "59":
		return criteria.Root59
	case "76":
		return criteria.Root76
	case "XU":
		return criteria.RootXU
	default:
		return false
	}
}

// comparisonKey builds the join key of a row. Rows with a blank code get ""
// and never join.
func comparisonKey(row table.Row, cols KeyColumns, criteria ModifierCriteria) string {
	parts := ParseCode(row, cols.HCPCS, cols.Modifier)
	if parts.Root == "" {
		return ""
	}
	return BuildComparisonKey(parts.Root, parts.Modifier, criteria)
}

func cellUpper(row table.Row, field string) string {
	if field == "" {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(row.String(field)))
}
