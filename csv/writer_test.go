package csv

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasisLabs/crypto-tax-engine/engine"
)

func TestForm8949ToCsv(t *testing.T) {
	entries := []engine.Form8949Entry{
		{
			Description:      "1 BTC",
			DateAcquired:     "01/10/2024",
			DateSold:         "02/01/2024",
			Proceeds:         decimal.NewFromInt(500),
			CostBasis:        decimal.NewFromInt(1000),
			AdjustmentCode:   "W",
			AdjustmentAmount: decimal.NewFromInt(500),
			GainLoss:         decimal.NewFromInt(-500),
			HoldingPeriod:    engine.ShortTerm,
		},
	}

	buf, err := Form8949ToCsv(entries)
	require.NoError(t, err)

	lines := splitLines(buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "description,dateAcquired,dateSold,proceeds,costBasis,adjustmentCode,adjustmentAmount,gainLoss,holdingPeriod", lines[0])
	assert.Equal(t, "1 BTC,01/10/2024,02/01/2024,500.00,1000.00,W,500.00,-500.00,short", lines[1])
}

func TestTaxableEventsToCsv(t *testing.T) {
	events := []*engine.TaxableEvent{
		{
			TxID:           "sell1",
			Asset:          "ETH",
			Amount:         decimal.NewFromInt(2),
			DisposedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			AcquiredAt:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			Proceeds:       decimal.NewFromInt(4000),
			CostBasis:      decimal.NewFromInt(3000),
			GainLoss:       decimal.NewFromInt(1000),
			HoldingPeriod:  engine.LongTerm,
			DisallowedLoss: decimal.Zero,
		},
		{
			// no contributing lot, acquisition date unknown
			TxID:           "sell2",
			Asset:          "DOGE",
			Amount:         decimal.NewFromInt(100),
			DisposedAt:     time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			Proceeds:       decimal.NewFromInt(50),
			CostBasis:      decimal.Zero,
			GainLoss:       decimal.NewFromInt(50),
			HoldingPeriod:  engine.ShortTerm,
			DisallowedLoss: decimal.Zero,
		},
	}

	buf, err := TaxableEventsToCsv(events)
	require.NoError(t, err)

	lines := splitLines(buf.String())
	require.Len(t, lines, 3)
	assert.Equal(t, "sell1,ETH,2,2024-06-01 12:00:00,2023-01-01 00:00:00,4000,3000,1000,long,false,0", lines[1])
	assert.Equal(t, "sell2,DOGE,100,2024-07-01 00:00:00,,50,0,50,short,false,0", lines[2])
}

func TestIncomeEventsToCsv(t *testing.T) {
	events := []*engine.IncomeEvent{
		{
			TxID:     "reward1",
			Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Asset:    "ATOM",
			Amount:   decimal.NewFromInt(10),
			ValueUSD: decimal.NewFromInt(100),
			Category: "staking",
		},
	}

	buf, err := IncomeEventsToCsv(events)
	require.NoError(t, err)

	lines := splitLines(buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "txId,date,asset,amount,valueUsd,category", lines[0])
	assert.Equal(t, "reward1,2024-03-01 00:00:00,ATOM,10,100,staking", lines[1])
}

func TestEmptyInputStillWritesHeader(t *testing.T) {
	buf, err := Form8949ToCsv(nil)
	require.NoError(t, err)

	lines := splitLines(buf.String())
	require.Len(t, lines, 1)
	assert.Equal(t, form8949Headers[0], lines[0][:len(form8949Headers[0])])
}

func splitLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
