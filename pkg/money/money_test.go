package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrouped(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"grouped", "1,000,000.00", 100000000, false},
		{"grouped large", "24,500,000.00", 2450000000, false},
		{"ungrouped with fraction", "1500.50", 150050, false},
		{"negative", "-150.00", -15000, false},
		{"plain integer", "-150000", -15000000, false},
		{"empty", "", 0, true},
		{"garbage", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrouped(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "1000000.00", FormatFixed(100000000))
	assert.Equal(t, "0.00", FormatFixed(0))
	assert.Equal(t, "-150.25", FormatFixed(-15025))
}

func TestFormatFixedOrEmpty(t *testing.T) {
	assert.Equal(t, "", FormatFixedOrEmpty(0))
	assert.Equal(t, "2.50", FormatFixedOrEmpty(250))
}

func TestRoundTrip(t *testing.T) {
	for _, minor := range []int64{0, 1, 99, 100, 15000000, 2450000000} {
		got, err := ParseGrouped(FormatFixed(minor))
		require.NoError(t, err)
		assert.Equal(t, minor, got)
	}
}

func TestDisplay(t *testing.T) {
	t.Run("zero-exponent currency rescales from hundredths", func(t *testing.T) {
		// 15000000 hundredths is 150,000 dong; VND has no fraction digits.
		assert.Equal(t, "150,000 ₫", Display(15000000, "VND"))
	})

	t.Run("two-exponent currency keeps the stored scale", func(t *testing.T) {
		assert.Equal(t, "$1,500.50", Display(150050, "USD"))
	})

	t.Run("unknown currency falls back to VND", func(t *testing.T) {
		assert.Equal(t, "1 ₫", Display(100, "ZZZ"))
	})
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("VND"))
	assert.True(t, ValidCurrency(" usd "))
	assert.False(t, ValidCurrency("ZZZ"))
}
