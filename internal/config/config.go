package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"GTFS_DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"GTFS_DB_HOST" default:"localhost"`
	Port     string `envconfig:"GTFS_DB_PORT" default:"5432"`
	Name     string `envconfig:"GTFS_DB_NAME" default:"gtfs"`
	User     string `envconfig:"GTFS_DB_USER" default:"admin"`
	Password string `envconfig:"GTFS_DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	AgenciesFile          string `envconfig:"GTFS_AGENCIES_FILE" default:"agencies.yaml"`
	WorkspaceDir          string `envconfig:"GTFS_WORKSPACE_DIR" default:"downloads"`
	DefaultURLTemplate    string `envconfig:"GTFS_DEFAULT_URL_TEMPLATE" default:"http://www.gtfs-data-exchange.com/agency/%s/latest.zip"`
	MaxConcurrentAgencies int    `envconfig:"GTFS_MAX_CONCURRENT_AGENCIES" default:"1"`
	LogLevel              string `envconfig:"GTFS_LOG_LEVEL" default:"info"`
	MetricsAddress        string `envconfig:"GTFS_METRICS_ADDRESS" default:""`
	MigrationFolder       string `envconfig:"GTFS_MIGRATIONS_FOLDER" default:""`
	S3                    s3Config
}

type s3Config struct {
	Endpoint  string `envconfig:"GTFS_S3_ENDPOINT" default:""`
	AccessKey string `envconfig:"GTFS_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"GTFS_S3_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"GTFS_S3_USE_SSL" default:"true"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a configuration backed by a local sqlite file.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: "gtfs.db",
		},
		Service: &svcConfig{
			AgenciesFile:          "agencies.yaml",
			WorkspaceDir:          "downloads",
			DefaultURLTemplate:    "http://www.gtfs-data-exchange.com/agency/%s/latest.zip",
			MaxConcurrentAgencies: 1,
			LogLevel:              "info",
			S3:                    s3Config{UseSSL: true},
		},
	}
}
