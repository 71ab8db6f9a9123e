package csv

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasisLabs/crypto-tax-engine/engine"
)

func TestParseTransactions(t *testing.T) {
	input := strings.Join([]string{
		"id,timestamp,type,asset,amount,value_usd,fee_usd,notes",
		"tx1,2024-01-15 09:30:00,buy,btc,0.5,\"21,000.50\",12.34,",
		"tx2,2024-03-01,sell,btc,0.5,25000,,cost basis $21012.84; acquired 2024-01-15; short",
	}, "\n")

	txs, err := ParseTransactions(strings.NewReader(input), "acct1")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	buy := txs[0]
	assert.Equal(t, "acct1", buy.Account)
	assert.Equal(t, "tx1", buy.TxID)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), buy.Timestamp)
	assert.Equal(t, "buy", buy.Type)
	assert.Equal(t, "BTC", buy.Asset)
	assert.Equal(t, "0.5", buy.Amount.String())
	assert.Equal(t, "21000.50", buy.ValueUSD.StringFixed(2))
	assert.Equal(t, "12.34", buy.FeeUSD.String())
	assert.Equal(t, engine.SourceCSVImport, buy.Source)

	sell := txs[1]
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sell.Timestamp)
	assert.Contains(t, sell.Notes, "cost basis")
}

func TestParseTransactionsAlternateHeaders(t *testing.T) {
	input := strings.Join([]string{
		"TxID,Date,Tx_Type,Symbol,Qty,Value",
		"abc,2024-06-01T10:00:00Z,SELL,eth,2,4000",
	}, "\n")

	txs, err := ParseTransactions(strings.NewReader(input), "acct1")
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "abc", txs[0].TxID)
	assert.Equal(t, "sell", txs[0].Type)
	assert.Equal(t, "ETH", txs[0].Asset)
	assert.Equal(t, "2", txs[0].Amount.String())
	assert.Equal(t, "4000", txs[0].ValueUSD.String())
}

func TestParseTransactionsSwapColumns(t *testing.T) {
	input := strings.Join([]string{
		"id,timestamp,type,asset,amount,value_usd,in_asset,in_amount,in_value_usd",
		"tx1,2024-02-01,swap,eth,1,1200,usdc,1200,1200",
	}, "\n")

	txs, err := ParseTransactions(strings.NewReader(input), "acct1")
	require.NoError(t, err)
	require.Len(t, txs, 1)

	assert.Equal(t, "USDC", txs[0].InAsset)
	assert.Equal(t, "1200", txs[0].InAmount.String())
	assert.Equal(t, "1200", txs[0].InValueUSD.String())
}

func TestParseTransactionsExplicitSourceIsKept(t *testing.T) {
	input := strings.Join([]string{
		"id,timestamp,asset,source",
		"tx1,2024-02-01,eth,on_chain",
	}, "\n")

	txs, err := ParseTransactions(strings.NewReader(input), "acct1")
	require.NoError(t, err)
	assert.Equal(t, engine.SourceOnChain, txs[0].Source)
}

func TestParseTransactionsRejectsIncompleteRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"missing id",
			"id,timestamp,asset\n,2024-01-01,btc",
			"missing transaction id",
		},
		{
			"missing timestamp",
			"id,timestamp,asset\ntx1,,btc",
			"missing timestamp",
		},
		{
			"missing asset",
			"id,timestamp,asset\ntx1,2024-01-01,",
			"missing asset symbol",
		},
		{
			"bad timestamp",
			"id,timestamp,asset\ntx1,yesterday,btc",
			"unable to parse time",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTransactions(strings.NewReader(tc.input), "acct1")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}
