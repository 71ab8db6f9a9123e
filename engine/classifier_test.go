package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		txType string
		want   Kind
	}{
		{"buy", Acquisition},
		{"DCA", Acquisition},
		{"nft_purchase", Acquisition},
		{"liquidity-add", Acquisition},
		{"sell", Disposal},
		{"NFT Sale", Disposal},
		{"bridge", Disposal},
		{"liquidity-remove", Disposal},
		{"swap", SwapPair},
		{"convert", SwapPair},
		{"trade", SwapPair},
		{"send", Transfer},
		{"unstake", Transfer},
		{"receive", IncomeRecognition},
		{"stake", IncomeRecognition},
		{"staking", IncomeRecognition},
		{"reward", IncomeRecognition},
		{"airdrop", IncomeRecognition},
		{"mining", IncomeRecognition},
		{"yield", IncomeRecognition},
		{"interest", IncomeRecognition},
		{"borrow", NoOp},
		{"repay", NoOp},
		{"mystery", NoOp},
	}

	for _, tc := range tests {
		t.Run(tc.txType, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(Transaction{Type: tc.txType}))
		})
	}
}

func TestClassifyLiquidityProviding(t *testing.T) {
	tx := Transaction{Type: "liquidity-providing", ValueUSD: decimal.NewFromInt(50)}
	assert.Equal(t, IncomeRecognition, Classify(tx))

	tx.ValueUSD = decimal.Zero
	assert.Equal(t, NoOp, Classify(tx))
}

func TestIncomeCategory(t *testing.T) {
	assert.Equal(t, "staking", incomeCategory("staking"))
	assert.Equal(t, "staking", incomeCategory("stake"))
	assert.Equal(t, "reward", incomeCategory("reward"))
	assert.Equal(t, "airdrop", incomeCategory("airdrop"))
	assert.Equal(t, "mining", incomeCategory("mining"))
	assert.Equal(t, "other", incomeCategory("interest"))
	assert.Equal(t, "other", incomeCategory("receive"))
}

func TestHoldingPeriod(t *testing.T) {
	acquired := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, ShortTerm, holdingPeriod(acquired, acquired.AddDate(0, 0, 365)))
	assert.Equal(t, LongTerm, holdingPeriod(acquired, acquired.AddDate(0, 0, 366)))
}
