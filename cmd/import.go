package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	"github.com/BasisLabs/crypto-tax-engine/csv"
	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
)

var (
	importFile         string
	importDbConnection *gorm.DB
)

func init() {
	importCmd.PersistentFlags().StringVar(&importFile, "import.file", "", "CSV file of transactions to import")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Imports a CSV transaction export into the database.",
	Long: `Imports transactions from a CSV export into the account's stored history.
	Rows already present for the account (same transaction id) are skipped, so
	re-importing a file is safe.`,
	PreRunE: setupImport,
	Run: func(cmd *cobra.Command, args []string) {
		txs, err := csv.ParseTransactionsFile(importFile, conf.Report.Account)
		if err != nil {
			config.Log.Fatal("Error parsing transactions file", err)
		}

		if err := dbTypes.UpsertTransactions(importDbConnection, txs); err != nil {
			config.Log.Fatal("Error inserting transactions", err)
		}

		config.Log.Info(fmt.Sprintf("Imported %d transactions for account %s", len(txs), conf.Report.Account))
	},
}

func setupImport(cmd *cobra.Command, args []string) error {
	if err := conf.ValidateImport(importFile); err != nil {
		return err
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	importDbConnection = db
	return nil
}
