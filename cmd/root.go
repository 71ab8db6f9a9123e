package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/BasisLabs/crypto-tax-engine/config"
	dbTypes "github.com/BasisLabs/crypto-tax-engine/db"
)

var (
	cfgFile string        // config file location to load
	conf    config.Config // unmarshaled config from viper, available to all commands in the cmd package
	rootCmd = &cobra.Command{
		Use:   "crypto-tax-engine",
		Short: "A CLI tool for computing crypto capital-gains tax reports",
		Long: `crypto-tax-engine turns an account's transaction history into realized
		gain/loss events, income events and a Form-8949-ready tax report, with
		selectable FIFO/LIFO/HIFO lot accounting and US wash-sale handling.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// initConfig on initialize of cobra guarantees config struct will be set before all subcommands are executed
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crypto-tax-engine/config.toml)")

	config.SetupLogFlags(&conf.Log, rootCmd)
	config.SetupDatabaseFlags(&conf.Database, rootCmd)
	config.SetupReportFlags(&conf.Report, rootCmd)
	config.SetupServerFlags(&conf.Server, rootCmd)
	config.SetupPricesFlags(&conf.Prices, rootCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("toml")
	} else {
		// Check in current working dir
		pwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Could not determine current working dir. Err: %v", err)
		}
		if _, err := os.Stat(fmt.Sprintf("%v/config.toml", pwd)); err == nil {
			cfgFile = pwd
		} else {
			// file not in current working dir. Check home dir instead
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatalf("Failed to find user home dir. Err: %v", err)
			}
			cfgFile = fmt.Sprintf("%s/.crypto-tax-engine", home)
		}
		viper.AddConfigPath(cfgFile)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	var noConfig bool
	err := viper.ReadInConfig()
	if err != nil {
		if strings.Contains(err.Error(), "Not Found") {
			noConfig = true
		} else {
			log.Fatalf("Failed to read config file. Err: %v", err)
		}
	}

	if !noConfig {
		log.Println("CFG successfully read from: ", cfgFile)
		// Unmarshal the config into struct
		err = viper.Unmarshal(&conf)
		if err != nil {
			log.Fatalf("Failed to unmarshal config. Err: %v", err)
		}
	}
}

// setupDatabase configures the logger, connects to the database and runs
// migrations. Every subcommand goes through here after validating its config.
func setupDatabase() (*gorm.DB, error) {
	config.DoConfigureLogger(conf.Log.Path, conf.Log.Level, conf.Log.Pretty)

	db, err := dbTypes.PostgresDbConnect(conf.Database.Host, conf.Database.Port, conf.Database.Database,
		conf.Database.User, conf.Database.Password, strings.ToLower(conf.Database.LogLevel))
	if err != nil {
		config.Log.Fatal("Could not establish connection to the database", err)
	}

	sqldb, _ := db.DB()
	sqldb.SetMaxIdleConns(10)
	sqldb.SetMaxOpenConns(100)
	sqldb.SetConnMaxLifetime(time.Hour)

	// run database migrations at every runtime
	err = dbTypes.MigrateModels(db)
	if err != nil {
		config.Log.Error("Error running DB migrations", err)
		return nil, err
	}

	return db, nil
}
