package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeAmount(t *testing.T) {
	cases := []struct {
		name     string
		quantity float64
		price    float64
		want     string
	}{
		{"WholeLitres", 10, 102.5, "1025"},
		{"FractionalQuantity", 12.345, 99.99, "1234.38"},
		{"RoundsHalfUp", 1.005, 100, "100.5"},
		{"SubRupeeSale", 0.01, 99.99, "1"},
		{"FloatNoise", 19.999, 95.5, "1909.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeAmount(tc.quantity, tc.price)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", got, tc.want)
			assert.LessOrEqual(t, int(-got.Exponent()), 2)
		})
	}
}

func TestTransactionStatePredicates(t *testing.T) {
	cases := []struct {
		status    FuelTransactionStatus
		terminal  bool
		canVerify bool
		canSettle bool
	}{
		{FuelTransactionStatusPendingVerification, false, true, false},
		{FuelTransactionStatusVerified, false, false, true},
		{FuelTransactionStatusSettled, true, false, false},
		{FuelTransactionStatusFailed, true, false, false},
		{FuelTransactionStatusRejected, true, false, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			transaction := &FuelTransaction{Status: tc.status}
			assert.Equal(t, tc.terminal, transaction.IsTerminal())
			assert.Equal(t, tc.canVerify, transaction.CanVerify())
			assert.Equal(t, tc.canSettle, transaction.CanSettle())
		})
	}
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "MH12AB1234", NormalizePlate("mh 12 ab 1234"))
	assert.Equal(t, "MH12AB1234", NormalizePlate("  MH12AB1234  "))
	assert.Equal(t, "KA05CD9999", NormalizePlate("ka\t05 cd 9999"))
	assert.Equal(t, "", NormalizePlate("   "))
}
