package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkLot(txID string, acquired time.Time, amount, basis float64) *CostBasisLot {
	amt := decimal.NewFromFloat(amount)
	cb := decimal.NewFromFloat(basis)
	return &CostBasisLot{
		TxID:           txID,
		AcquiredAt:     acquired,
		OriginalAmount: amt,
		Remaining:      amt,
		CostBasis:      cb,
		PricePerUnit:   cb.Div(amt),
	}
}

func TestConsumeOrdering(t *testing.T) {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		method        Method
		wantTxID      string
		wantCostBasis string
	}{
		{FIFO, "jan", "100"},
		{LIFO, "feb", "200"},
		{HIFO, "feb", "200"}, // feb has the higher price per unit
	}

	for _, tc := range tests {
		t.Run(string(tc.method), func(t *testing.T) {
			ledger := NewLotLedger()
			ledger.Append("BTC", mkLot("jan", jan, 1, 100))
			ledger.Append("BTC", mkLot("feb", feb, 1, 200))

			portions, short := ledger.Consume("BTC", decimal.NewFromInt(1), tc.method)
			require.Len(t, portions, 1)
			assert.True(t, short.IsZero())
			assert.Equal(t, tc.wantTxID, portions[0].Lot.TxID)
			assert.Equal(t, tc.wantCostBasis, portions[0].CostBasis.String())
		})
	}
}

func TestConsumeSpansLotsAndRemovesEmpties(t *testing.T) {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	ledger := NewLotLedger()
	ledger.Append("ETH", mkLot("jan", jan, 2, 2000))
	ledger.Append("ETH", mkLot("feb", feb, 2, 4000))

	portions, short := ledger.Consume("ETH", decimal.NewFromInt(3), FIFO)
	require.Len(t, portions, 2)
	assert.True(t, short.IsZero())

	// jan fully consumed, feb half consumed
	assert.Equal(t, "2", portions[0].Amount.String())
	assert.Equal(t, "2000", portions[0].CostBasis.String())
	assert.Equal(t, "1", portions[1].Amount.String())
	assert.Equal(t, "2000", portions[1].CostBasis.String())

	open := ledger.Open("ETH")
	require.Len(t, open, 1)
	assert.Equal(t, "feb", open[0].TxID)
	assert.Equal(t, "1", open[0].Remaining.String())
}

func TestConsumePartialBasisScalesLinearly(t *testing.T) {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := NewLotLedger()
	ledger.Append("SOL", mkLot("jan", jan, 4, 100))

	portions, _ := ledger.Consume("SOL", decimal.NewFromInt(1), FIFO)
	require.Len(t, portions, 1)
	assert.Equal(t, "25", portions[0].CostBasis.String())

	// consuming the rest yields the remaining 75
	portions, _ = ledger.Consume("SOL", decimal.NewFromInt(3), FIFO)
	require.Len(t, portions, 1)
	assert.Equal(t, "75", portions[0].CostBasis.String())
	assert.Empty(t, ledger.Open("SOL"))
}

func TestConsumeShortfallNeverFails(t *testing.T) {
	ledger := NewLotLedger()

	portions, short := ledger.Consume("DOGE", decimal.NewFromInt(10), FIFO)
	assert.Empty(t, portions)
	assert.Equal(t, "10", short.String())

	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger.Append("DOGE", mkLot("jan", jan, 4, 40))
	portions, short = ledger.Consume("DOGE", decimal.NewFromInt(10), FIFO)
	require.Len(t, portions, 1)
	assert.Equal(t, "4", portions[0].Amount.String())
	assert.Equal(t, "6", short.String())
}

func TestConsumeDustRemainderIsSwept(t *testing.T) {
	jan := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	ledger := NewLotLedger()
	ledger.Append("BTC", mkLot("jan", jan, 1, 100))

	dust := decimal.New(1, -12)
	_, short := ledger.Consume("BTC", decimal.NewFromInt(1).Sub(dust), FIFO)
	assert.True(t, short.IsZero())
	assert.Empty(t, ledger.Open("BTC"), "sub-epsilon remainder should be removed")
}
