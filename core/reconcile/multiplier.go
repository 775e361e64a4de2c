package reconcile

import (
	"strconv"
	"strings"

	"code-reconciler/core/utils"

	"github.com/shopspring/decimal"
)

// Multiplier is a repeat count embedded in a code, e.g. "12345x2".
type Multiplier struct {
	HasMultiplier bool `json:"hasMultiplier"`
	Value         int  `json:"multiplier"`
}

// ParseMultiplierCode detects a quantity multiplier: the sixth character is
// 'x' or 'X' and everything after it is a positive integer.
func ParseMultiplierCode(code string) Multiplier {
	c := []rune(strings.TrimSpace(code))
	if len(c) < 7 || (c[5] != 'x' && c[5] != 'X') {
		return Multiplier{}
	}

	digits := string(c[6:])
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Multiplier{}
		}
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return Multiplier{}
	}
	return Multiplier{HasMultiplier: true, Value: n}
}

// ApplyMultiplierQuantity returns the merged quantity for a client value.
// Without a multiplier the client value passes through untouched. With one,
// a numeric client quantity is multiplied by it and a blank or non-numeric
// quantity is replaced by the multiplier.
func ApplyMultiplierQuantity(clientQty any, m Multiplier) any {
	if !m.HasMultiplier {
		return clientQty
	}

	qty, ok := utils.ToFloat(clientQty)
	if !ok {
		return float64(m.Value)
	}

	// ToFloat rejects NaN and Inf, which NewFromFloat panics on
	return decimal.NewFromFloat(qty).Mul(decimal.NewFromInt(int64(m.Value))).InexactFloat64()
}
