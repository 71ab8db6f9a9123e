package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/BasisLabs/crypto-tax-engine/engine"
)

// PostgresDbConnect connects to the database according to the passed in parameters
func PostgresDbConnect(host string, port string, database string, user string, password string, level string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=disable", host, port, database, user, password)
	gormLogLevel := logger.Silent

	if level == "info" {
		gormLogLevel = logger.Info
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(gormLogLevel)})
}

// MigrateModels runs the gorm automigrations with all the db models. This will migrate as needed and do nothing if nothing has changed.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Transaction{},
	)
}

// UpsertTransactions inserts transactions, skipping rows the account already
// has. Re-importing the same file is a no-op.
func UpsertTransactions(db *gorm.DB, txs []Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return db.Transaction(func(dbTransaction *gorm.DB) error {
		for i := range txs {
			if err := dbTransaction.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "account"}, {Name: "tx_id"}},
				DoNothing: true,
			}).Create(&txs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTransactionsForAccount returns the account's full history in the stable
// total order the engine requires: timestamp ascending, tx id as tie-break.
func GetTransactionsForAccount(db *gorm.DB, account string) ([]engine.Transaction, error) {
	var rows []Transaction
	result := db.Where("account = ?", account).Order("timestamp asc, tx_id asc").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	txs := make([]engine.Transaction, len(rows))
	for i, row := range rows {
		txs[i] = row.ToEngine()
	}
	return txs, nil
}

// GetUnpricedTransactions returns rows with no USD valuation, for the price
// backfill task.
func GetUnpricedTransactions(db *gorm.DB, limit int) ([]Transaction, error) {
	var rows []Transaction
	result := db.Where("value_usd = 0 OR value_usd IS NULL").Order("timestamp asc").Limit(limit).Find(&rows)
	return rows, result.Error
}

// UpdateTransactionValue sets the valuation a backfill resolved.
func UpdateTransactionValue(db *gorm.DB, id uint, valueUSD, pricePerUnit string) error {
	return db.Model(&Transaction{}).Where("id = ?", id).
		Updates(map[string]interface{}{"value_usd": valueUSD, "price_per_unit": pricePerUnit}).Error
}
