package utils_test

import (
	"encoding/json"
	"testing"

	"code-reconciler/core/utils"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "99213", "99213"},
		{"WholeFloat", 99213.0, "99213"},
		{"FractionFloat", 1.5, "1.5"},
		{"Int", 42, "42"},
		{"JSONNumber", json.Number("7"), "7"},
		{"Bytes", []byte("A1234"), "A1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.ToString(tt.in))
		})
	}
}

func TestToFloat(t *testing.T) {
	f, ok := utils.ToFloat(" 2.5 ")
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	f, ok = utils.ToFloat("1,200")
	assert.True(t, ok)
	assert.Equal(t, 1200.0, f)

	_, ok = utils.ToFloat("")
	assert.False(t, ok)

	_, ok = utils.ToFloat("n/a")
	assert.False(t, ok)

	_, ok = utils.ToFloat(nil)
	assert.False(t, ok)

	for _, s := range []string{"NaN", "inf", "-Infinity"} {
		_, ok = utils.ToFloat(s)
		assert.False(t, ok, s)
	}
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 3, utils.ToInt("3"))
	assert.Equal(t, 3, utils.ToInt(3.9))
	assert.Equal(t, 0, utils.ToInt("abc"))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"on", true},
		{"1", true},
		{"0", false},
		{"", false},
		{1, true},
		{0, false},
		{nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, utils.ToBool(tt.in), "input %v", tt.in)
	}
}
