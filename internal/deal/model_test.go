package deal

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCommission(t *testing.T) {
	revenue := decimal.NewFromInt(1000)
	rate := decimal.NewFromInt(5)

	got := ComputeCommission(revenue, &rate)
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(50)), "got %s", got)
}

func TestComputeCommissionNilRate(t *testing.T) {
	assert.Nil(t, ComputeCommission(decimal.NewFromInt(1000), nil))
}

func TestComputeCommissionRounds(t *testing.T) {
	revenue := decimal.RequireFromString("999.99")
	rate := decimal.RequireFromString("2.5")

	got := ComputeCommission(revenue, &rate)
	require.NotNil(t, got)
	// 999.99 * 2.5 / 100 = 24.99975, rounded to 25.00
	assert.True(t, got.Equal(decimal.RequireFromString("25.00")), "got %s", got)
}

func TestValidCurrency(t *testing.T) {
	for _, c := range []string{"AED", "USD", "EUR", "GBP"} {
		assert.True(t, ValidCurrency(c))
	}
	assert.False(t, ValidCurrency("JPY"))
	assert.False(t, ValidCurrency("aed"))
}
