package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// AllowedOrigins lists the browser origins the API accepts; empty means
	// any origin (local development)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	RegistrationTTL time.Duration `mapstructure:"registration_ttl"`
	ChallengeTTL    time.Duration `mapstructure:"challenge_ttl"`
	ChallengeDomain string        `mapstructure:"challenge_domain"`
}

// HederaConfig holds Hedera network and operator configuration
type HederaConfig struct {
	Network           string `mapstructure:"network"` // mainnet, testnet, previewnet
	OperatorAccountID string `mapstructure:"operator_account_id"`
	OperatorKey       string `mapstructure:"operator_key"`
	NFTTokenID        string `mapstructure:"nft_token_id"`
	PlatformAccountID string `mapstructure:"platform_account_id"`
	PlatformFeeBPS    int64  `mapstructure:"platform_fee_bps"`
}

// PinningConfig holds pinning service (Pinata-compatible) configuration
type PinningConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	JWT             string        `mapstructure:"jwt"`
	GatewayURL      string        `mapstructure:"gateway_url"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	MaxAssetBytes   int64         `mapstructure:"max_asset_bytes"`
	MaxVideoSeconds int           `mapstructure:"max_video_seconds"`
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	PoolSize  int `mapstructure:"pool_size"`
	QueueSize int `mapstructure:"queue_size"`
}

// PinSweeperConfig holds configuration for the pin health sweeper
type PinSweeperConfig struct {
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
	BatchSize    int           `mapstructure:"batch_size"`
	RecheckAfter time.Duration `mapstructure:"recheck_after"`
	Worker       WorkerConfig  `mapstructure:"worker"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Auth       AuthConfig     `mapstructure:"auth"`
	Hedera     HederaConfig   `mapstructure:"hedera"`
	Pinning    PinningConfig  `mapstructure:"pinning"`
	NATS       NATSConfig     `mapstructure:"nats"`
}

// CollectionSetupConfig holds configuration for the collection-setup tool
type CollectionSetupConfig struct {
	BaseConfig     `mapstructure:",squash"`
	Hedera         HederaConfig `mapstructure:"hedera"`
	CollectionName string       `mapstructure:"collection_name"`
	CollectionSym  string       `mapstructure:"collection_symbol"`
	MaxSupply      int64        `mapstructure:"collection_max_supply"`
}

// SweeperConfig holds configuration for the pin-sweeper program
type SweeperConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Pinning    PinningConfig    `mapstructure:"pinning"`
	PinSweeper PinSweeperConfig `mapstructure:"pin_sweeper"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.registration_ttl", "15m")
	v.SetDefault("auth.challenge_ttl", "5m")
	v.SetDefault("auth.challenge_domain", "afriart.io")
	v.SetDefault("hedera.network", "testnet")
	v.SetDefault("hedera.platform_fee_bps", 250)
	v.SetDefault("pinning.api_url", "https://api.pinata.cloud")
	v.SetDefault("pinning.gateway_url", "https://gateway.pinata.cloud")
	v.SetDefault("pinning.http_timeout", "60s")
	v.SetDefault("pinning.max_asset_bytes", 100*1024*1024) // 100MB
	v.SetDefault("pinning.max_video_seconds", 300)
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "MARKETPLACE_EVENTS")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if config.Hedera.OperatorAccountID == "" || config.Hedera.OperatorKey == "" {
		return nil, errors.New("hedera operator credentials are required")
	}

	return &config, nil
}

// LoadCollectionSetupConfig loads configuration for the collection-setup tool
func LoadCollectionSetupConfig(configFile string, envPath string) (*CollectionSetupConfig, error) {
	v := configureViper("collection-setup", configFile, envPath)

	// Set defaults
	v.SetDefault("hedera.network", "testnet")
	v.SetDefault("collection_name", "AfriArt Collection")
	v.SetDefault("collection_symbol", "AFRI")
	v.SetDefault("collection_max_supply", 1_000_000)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config CollectionSetupConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Hedera.OperatorAccountID == "" || config.Hedera.OperatorKey == "" {
		return nil, errors.New("hedera operator credentials are required")
	}

	return &config, nil
}

// LoadSweeperConfig loads configuration for the pin-sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("pin-sweeper", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("pinning.gateway_url", "https://gateway.pinata.cloud")
	v.SetDefault("pin_sweeper.http_timeout", "30s")
	v.SetDefault("pin_sweeper.batch_size", 100)
	v.SetDefault("pin_sweeper.recheck_after", "24h")
	v.SetDefault("pin_sweeper.worker.pool_size", 20)
	v.SetDefault("pin_sweeper.worker.queue_size", 100)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg SweeperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("AFRIART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// This is required for viper to map env vars to config struct fields when no config file exists.
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_secret",
		"auth.session_ttl",
		"auth.registration_ttl",
		"auth.challenge_ttl",
		"auth.challenge_domain",
		// Hedera
		"hedera.network",
		"hedera.operator_account_id",
		"hedera.operator_key",
		"hedera.nft_token_id",
		"hedera.platform_account_id",
		"hedera.platform_fee_bps",
		// Pinning
		"pinning.api_url",
		"pinning.jwt",
		"pinning.gateway_url",
		"pinning.http_timeout",
		"pinning.max_asset_bytes",
		"pinning.max_video_seconds",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Collection setup
		"collection_name",
		"collection_symbol",
		"collection_max_supply",
		// Pin sweeper
		"pin_sweeper.http_timeout",
		"pin_sweeper.batch_size",
		"pin_sweeper.recheck_after",
		"pin_sweeper.worker.pool_size",
		"pin_sweeper.worker.queue_size",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
