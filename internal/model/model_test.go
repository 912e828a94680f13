package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Multi-Asset-Portfolio-Engine/internal/apperrors"
)

func TestParseAssetClass(t *testing.T) {
	for class := range assetClasses {
		got, err := ParseAssetClass(string(class))
		require.NoError(t, err)
		assert.Equal(t, class, got)
	}

	_, err := ParseAssetClass("cedear")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownAssetClass), "tags are case-sensitive")
	_, err = ParseAssetClass("")
	assert.ErrorIs(t, err, apperrors.ErrUnknownAssetClass)
}

func TestAssetClassPredicates(t *testing.T) {
	assert.True(t, AssetClassCashARS.IsCash())
	assert.True(t, AssetClassCashUSD.IsCash())
	assert.False(t, AssetClassPF.IsCash())

	assert.True(t, AssetClassCEDEAR.IsEquity())
	assert.True(t, AssetClassAccion.IsEquity())
	assert.False(t, AssetClassFCI.IsEquity())
}

func TestParseMovementType(t *testing.T) {
	got, err := ParseMovementType("transfer")
	require.NoError(t, err)
	assert.Equal(t, MovementTransfer, got)

	_, err = ParseMovementType("loan")
	assert.ErrorIs(t, err, apperrors.ErrUnknownMovementType)
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, ValidateCurrency("ARS"))
	assert.NoError(t, ValidateCurrency("USD"))
	assert.ErrorIs(t, ValidateCurrency("XXXX"), apperrors.ErrInvalidCurrency)
	assert.ErrorIs(t, ValidateCurrency(""), apperrors.ErrInvalidCurrency)
}

func TestRoundToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		currency string
		want     float64
	}{
		{name: "two decimals", amount: 103000.004, currency: "ARS", want: 103000},
		{name: "rounds half up", amount: 10.125, currency: "USD", want: 10.13},
		{name: "zero decimal currency", amount: 1234.6, currency: "JPY", want: 1235},
		{name: "three decimal currency", amount: 1.23456, currency: "KWD", want: 1.235},
		{name: "unknown currency uses two decimals", amount: 1.23456, currency: "ZZZ", want: 1.23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundToMinorUnits(tt.amount, tt.currency), 1e-9)
		})
	}
}

func TestMovementAccessors(t *testing.T) {
	var bare Movement
	assert.Empty(t, bare.PFID())
	assert.Nil(t, bare.Terms())

	terms := &FixedDepositTerms{Institution: "Banco Galicia", Principal: 1000, TermDays: 30}
	m := Movement{Meta: &MovementMeta{PF: terms, PFID: "abc"}}
	assert.Equal(t, "abc", m.PFID())
	assert.Same(t, terms, m.Terms())
}
