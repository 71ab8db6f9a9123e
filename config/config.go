package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"

	"github.com/BasisLabs/crypto-tax-engine/util"
)

type Config struct {
	Database           database
	Report             report
	Server             server
	Prices             prices
	Log                log
	ConfigFileLocation string
}

type database struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string `mapstructure:"log-level"`
}

type log struct {
	Level  string
	Path   string
	Pretty bool
}

// report holds the parameters of a single tax report computation.
type report struct {
	Account string
	Year    int
	Method  string
	Format  string // csv or json
}

type server struct {
	Host string
	Port string
}

type prices struct {
	BackfillEnabled bool  `mapstructure:"backfill-enabled"`
	IntervalHours   int64 `mapstructure:"interval-hours"`
}

var validMethods = map[string]bool{"FIFO": true, "LIFO": true, "HIFO": true}

var validFormats = map[string]bool{"csv": true, "json": true}

func GetConfig(configFileLocation string) (Config, error) {
	var conf Config
	_, err := toml.DecodeFile(configFileLocation, &conf)
	return conf, err
}

func MergeConfigs(def Config, override Config) Config {
	mergo.Merge(&override, def)
	return override
}

func (conf *Config) ValidateReport() error {
	if err := validateDatabaseConf(conf.Database); err != nil {
		return err
	}
	if util.StrNotSet(conf.Report.Account) {
		return errors.New("report account must be set")
	}
	if conf.Report.Year < 1000 || conf.Report.Year > 9999 {
		return fmt.Errorf("report year must be a four-digit year, got %d", conf.Report.Year)
	}
	if !validMethods[conf.Report.Method] {
		return fmt.Errorf("report method must be one of FIFO, LIFO, HIFO, got %q", conf.Report.Method)
	}
	if !validFormats[conf.Report.Format] {
		return fmt.Errorf("report format must be csv or json, got %q", conf.Report.Format)
	}
	return nil
}

func (conf *Config) ValidateServer() error {
	if err := validateDatabaseConf(conf.Database); err != nil {
		return err
	}
	if util.StrNotSet(conf.Server.Port) {
		return errors.New("server port must be set")
	}
	if conf.Prices.BackfillEnabled && conf.Prices.IntervalHours <= 0 {
		return errors.New("prices interval-hours must be a positive number of hours")
	}
	return nil
}

func (conf *Config) ValidateImport(importFile string) error {
	if err := validateDatabaseConf(conf.Database); err != nil {
		return err
	}
	if util.StrNotSet(importFile) {
		return errors.New("import file must be set")
	}
	if util.StrNotSet(conf.Report.Account) {
		return errors.New("report account must be set (transactions are imported per account)")
	}
	return nil
}

func validateDatabaseConf(dbConf database) error {
	if util.StrNotSet(dbConf.Host) {
		return errors.New("database host must be set")
	}
	if util.StrNotSet(dbConf.Port) {
		return errors.New("database port must be set")
	}
	if util.StrNotSet(dbConf.Database) {
		return errors.New("database name (i.e. database) must be set")
	}
	if util.StrNotSet(dbConf.User) {
		return errors.New("database user must be set")
	}
	if util.StrNotSet(dbConf.Password) {
		return errors.New("database password must be set")
	}
	return nil
}
