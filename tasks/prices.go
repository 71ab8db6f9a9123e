package tasks

import (
	"fmt"

	coinbasepro "github.com/preichenberger/go-coinbasepro/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
)

const backfillBatchSize = 500

// PriceBackfillTask fills missing USD valuations on stored transactions from
// Coinbase spot prices, so reports computed later have values to work with.
// Rows whose asset has no USD product on Coinbase are left alone and logged.
func PriceBackfillTask(db *gorm.DB) {
	config.Log.Info("Task started for PriceBackfillTask")

	client := coinbasepro.NewClient()

	rows, err := dbTypes.GetUnpricedTransactions(db, backfillBatchSize)
	if err != nil {
		config.Log.Error("Error in PriceBackfillTask loading unpriced transactions", err)
		return
	}

	updated := 0
	for _, row := range rows {
		ticker, err := client.GetTicker(fmt.Sprintf("%s-USD", row.Asset))
		if err != nil {
			config.Log.Warn(fmt.Sprintf("No Coinbase spot price for %s, skipping", row.Asset), err)
			continue
		}

		price, err := decimal.NewFromString(ticker.Price)
		if err != nil || price.IsZero() {
			config.Log.Warn(fmt.Sprintf("Unusable Coinbase price %q for %s", ticker.Price, row.Asset))
			continue
		}

		value := price.Mul(row.Amount)
		if err := dbTypes.UpdateTransactionValue(db, row.ID, value.String(), price.String()); err != nil {
			config.Log.Error("Error updating transaction valuation", err)
			continue
		}
		updated++
	}

	config.Log.Info(fmt.Sprintf("Task ended for PriceBackfillTask, updated %d of %d rows", updated, len(rows)))
}
