package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/revlytics/revlytics/internal/errors"
	"github.com/revlytics/revlytics/internal/types"
)

// Configuration holds the full service configuration, loaded once at startup
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

type ClickHouseConfig struct {
	Address  string `mapstructure:"address"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      bool   `mapstructure:"tls"`
}

// AnalyticsConfig configures the analytics engine itself. The reporting timezone is
// the fixed civil timezone all bucket keys and range boundaries are computed in; it
// is deliberately explicit configuration rather than ambient process locale.
type AnalyticsConfig struct {
	ReportingTimezone string `mapstructure:"reporting_timezone"`
}

// NewConfig loads configuration from config files and environment variables
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load .env if present, ignore if missing
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REVLYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; environment variables and defaults suffice
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrInternal)
		}
	}

	cfg := &Configuration{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrInternal)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("clickhouse.address", "localhost:9000")
	v.SetDefault("clickhouse.database", "revlytics")
	v.SetDefault("clickhouse.username", "default")
	v.SetDefault("analytics.reporting_timezone", "America/Sao_Paulo")
}

// Validate validates the loaded configuration
func (c *Configuration) Validate() error {
	if err := types.ValidateTimezone(c.Analytics.ReportingTimezone); err != nil {
		return ierr.WithError(err).
			WithHint("Reporting timezone must be a valid IANA timezone or known abbreviation").
			WithReportableDetails(map[string]interface{}{
				"reporting_timezone": c.Analytics.ReportingTimezone,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a usable configuration without reading any files.
// Used by tests and scripts that do not go through NewConfig.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		ClickHouse: ClickHouseConfig{
			Address:  "localhost:9000",
			Database: "revlytics",
			Username: "default",
		},
		Analytics: AnalyticsConfig{ReportingTimezone: "America/Sao_Paulo"},
	}
}
