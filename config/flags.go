package config

import "github.com/spf13/cobra"

// These flag helpers are shared across commands so every subcommand binds the
// same names into viper.

func SetupLogFlags(logConf *log, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logConf.Level, "log.level", "info", "log level")
	cmd.PersistentFlags().BoolVar(&logConf.Pretty, "log.pretty", false, "pretty logs")
	cmd.PersistentFlags().StringVar(&logConf.Path, "log.path", "", "log path (default is stderr only)")
}

func SetupDatabaseFlags(databaseConf *database, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&databaseConf.Host, "database.host", "", "database host")
	cmd.PersistentFlags().StringVar(&databaseConf.Port, "database.port", "5432", "database port")
	cmd.PersistentFlags().StringVar(&databaseConf.Database, "database.database", "", "database name")
	cmd.PersistentFlags().StringVar(&databaseConf.User, "database.user", "", "database user")
	cmd.PersistentFlags().StringVar(&databaseConf.Password, "database.password", "", "database password")
	cmd.PersistentFlags().StringVar(&databaseConf.LogLevel, "database.log-level", "", "database loglevel")
}

func SetupReportFlags(reportConf *report, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&reportConf.Account, "report.account", "", "account to compute the report for")
	cmd.PersistentFlags().IntVar(&reportConf.Year, "report.year", 0, "four-digit filing year")
	cmd.PersistentFlags().StringVar(&reportConf.Method, "report.method", "FIFO", "lot selection method (FIFO, LIFO, HIFO)")
	cmd.PersistentFlags().StringVar(&reportConf.Format, "report.format", "csv", "output format (csv or json)")
}

func SetupServerFlags(serverConf *server, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&serverConf.Host, "server.host", "", "address to bind the report API on")
	cmd.PersistentFlags().StringVar(&serverConf.Port, "server.port", "8080", "port to bind the report API on")
}

func SetupPricesFlags(pricesConf *prices, cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&pricesConf.BackfillEnabled, "prices.backfill-enabled", true, "periodically fill missing USD values from Coinbase spot prices")
	cmd.PersistentFlags().Int64Var(&pricesConf.IntervalHours, "prices.interval-hours", 24, "hours between price backfill runs")
}
