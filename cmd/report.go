package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	"github.com/BasisLabs/crypto-tax-engine/csv"
	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
	"github.com/BasisLabs/crypto-tax-engine/engine"
)

var reportDbConnection *gorm.DB

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Computes a capital-gains tax report for an account.",
	Long: `Computes the filing year's tax report from the account's full transaction
	history. The whole history is processed (prior-year acquisitions supply the
	basis of current-year disposals); only events dated in the filing year are
	reported. Output is Form-8949 CSV plus event CSVs, or the full report as JSON.`,
	PreRunE: setupReport,
	Run: func(cmd *cobra.Command, args []string) {
		txs, err := dbTypes.GetTransactionsForAccount(reportDbConnection, conf.Report.Account)
		if err != nil {
			config.Log.Fatal("Error loading transactions for account", err)
		}
		if len(txs) == 0 {
			config.Log.Fatal(fmt.Sprintf("No transactions found for account %s", conf.Report.Account))
		}

		report, err := engine.ComputeReport(txs, conf.Report.Year, engine.Method(conf.Report.Method))
		if err != nil {
			config.Log.Fatal("Error computing tax report", err)
		}

		for _, d := range report.Diagnostics {
			if d.Level == engine.DiagDefect {
				config.Log.Error("Report diagnostic: " + d.Message)
			} else {
				config.Log.Warn("Report diagnostic: " + d.Message)
			}
		}

		if conf.Report.Format == "json" {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				config.Log.Fatal("Error marshaling report", err)
			}
			fmt.Println(string(out))
			return
		}

		form8949, err := csv.Form8949ToCsv(report.Form8949)
		if err != nil {
			config.Log.Fatal("Error generating Form 8949 CSV", err)
		}
		events, err := csv.TaxableEventsToCsv(report.TaxableEvents)
		if err != nil {
			config.Log.Fatal("Error generating taxable events CSV", err)
		}
		income, err := csv.IncomeEventsToCsv(report.IncomeEvents)
		if err != nil {
			config.Log.Fatal("Error generating income events CSV", err)
		}

		fmt.Println(form8949.String())
		fmt.Println(events.String())
		fmt.Println(income.String())
	},
}

func setupReport(cmd *cobra.Command, args []string) error {
	if err := conf.ValidateReport(); err != nil {
		return err
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	reportDbConnection = db
	return nil
}
