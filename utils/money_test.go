package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{450, "450.00"},
		{1820, "1820.00"},
		{0, "0.00"},
		{99.999, "99.99"},  // truncated, not rounded
		{10.005, "10.00"},
		{2.675, "2.67"},
		{0.1 + 0.2, "0.30"}, // float artifacts stay invisible
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount), "amount %v", tt.amount)
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(45000), MinorUnits("450.00"))
	assert.Equal(t, int64(182000), MinorUnits("1820.00"))
	assert.Equal(t, int64(1050), MinorUnits("10.50"))
	assert.Equal(t, int64(0), MinorUnits("not-a-number"))
}
