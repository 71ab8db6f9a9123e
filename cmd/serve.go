package cmd

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	"github.com/BasisLabs/crypto-tax-engine/rest"
	"github.com/BasisLabs/crypto-tax-engine/tasks"
)

var serveDbConnection *gorm.DB

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves tax reports over HTTP.",
	Long: `Runs the report API. Reports are computed on request from the stored
	transaction history. A scheduled task periodically fills missing USD
	valuations from Coinbase spot prices.`,
	PreRunE: setupServe,
	Run: func(cmd *cobra.Command, args []string) {
		scheduler := gocron.NewScheduler(time.UTC)

		if conf.Prices.BackfillEnabled {
			_, err := scheduler.Every(int(conf.Prices.IntervalHours)).Hours().Do(tasks.PriceBackfillTask, serveDbConnection)
			if err != nil {
				config.Log.Fatal("Error scheduling price backfill task", err)
			}
			scheduler.StartAsync()
		}

		router := rest.NewRouter(serveDbConnection)
		addr := fmt.Sprintf("%s:%s", conf.Server.Host, conf.Server.Port)
		config.Log.Info("Serving tax reports on " + addr)
		if err := router.Run(addr); err != nil {
			config.Log.Fatal("Report API stopped", err)
		}
	},
}

func setupServe(cmd *cobra.Command, args []string) error {
	if err := conf.ValidateServer(); err != nil {
		return err
	}

	db, err := setupDatabase()
	if err != nil {
		return err
	}
	serveDbConnection = db
	return nil
}
