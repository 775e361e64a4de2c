package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMultiplierCode(t *testing.T) {
	tests := []struct {
		code string
		want Multiplier
	}{
		{"12345x2", Multiplier{HasMultiplier: true, Value: 2}},
		{"12345X10", Multiplier{HasMultiplier: true, Value: 10}},
		{" 12345x3 ", Multiplier{HasMultiplier: true, Value: 3}},
		{"1234567", Multiplier{}},
		{"12345x", Multiplier{}},
		{"12345xA", Multiplier{}},
		{"12345x0", Multiplier{}},
		{"12345-25", Multiplier{}},
		{"ÉÉÉÉÉx4", Multiplier{HasMultiplier: true, Value: 4}},
		{"", Multiplier{}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMultiplierCode(tt.code))
		})
	}
}

func TestApplyMultiplierQuantity(t *testing.T) {
	two := Multiplier{HasMultiplier: true, Value: 2}

	assert.Equal(t, 6.0, ApplyMultiplierQuantity("3", two))
	assert.Equal(t, 5.0, ApplyMultiplierQuantity(2.5, two))
	assert.Equal(t, 0.6, ApplyMultiplierQuantity("0.3", two))
	assert.Equal(t, 2.0, ApplyMultiplierQuantity("", two))
	assert.Equal(t, 2.0, ApplyMultiplierQuantity("n/a", two))

	// Non-finite values are not quantities
	assert.NotPanics(t, func() {
		assert.Equal(t, 2.0, ApplyMultiplierQuantity("NaN", two))
		assert.Equal(t, 2.0, ApplyMultiplierQuantity("inf", two))
		assert.Equal(t, 2.0, ApplyMultiplierQuantity("-Infinity", two))
	})

	// Without a multiplier the client value is untouched
	assert.Equal(t, "3", ApplyMultiplierQuantity("3", Multiplier{}))
	assert.Nil(t, ApplyMultiplierQuantity(nil, Multiplier{}))
}
