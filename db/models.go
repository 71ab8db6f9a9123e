package db

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BasisLabs/crypto-tax-engine/engine"
)

// Transaction is the persisted form of one ledger entry. The unique
// (account, tx_id) index is what keeps the engine's input deduplicated.
type Transaction struct {
	ID        uint   `gorm:"primaryKey"`
	Account   string `gorm:"uniqueIndex:idx_account_tx_id"`
	TxID      string `gorm:"uniqueIndex:idx_account_tx_id"`
	Timestamp time.Time
	Type      string
	Asset     string
	Amount    decimal.Decimal `gorm:"type:numeric"`
	ValueUSD  decimal.Decimal `gorm:"type:numeric"`
	FeeUSD    decimal.Decimal `gorm:"type:numeric"`

	// Zero means not priced yet; the price backfill task fills it in.
	PricePerUnit decimal.Decimal `gorm:"type:numeric"`

	Chain  string
	Source string
	Notes  string

	InAsset    string
	InAmount   decimal.Decimal `gorm:"type:numeric"`
	InValueUSD decimal.Decimal `gorm:"type:numeric"`
}

// ToEngine converts a stored row into the engine's value type.
func (t Transaction) ToEngine() engine.Transaction {
	return engine.Transaction{
		ID:           t.TxID,
		Timestamp:    t.Timestamp,
		Type:         t.Type,
		Asset:        t.Asset,
		Amount:       t.Amount,
		ValueUSD:     t.ValueUSD,
		FeeUSD:       t.FeeUSD,
		PricePerUnit: t.PricePerUnit,
		Chain:        t.Chain,
		Source:       t.Source,
		Notes:        t.Notes,
		InAsset:      t.InAsset,
		InAmount:     t.InAmount,
		InValueUSD:   t.InValueUSD,
	}
}
