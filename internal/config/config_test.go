package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: 20
  write_timeout: 20
  idle_timeout: 180
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
  sslmode: require
auth:
  jwt_secret: "test-secret"
  session_ttl: "12h"
  registration_ttl: "10m"
  challenge_ttl: "3m"
  challenge_domain: "test.afriart.io"
hedera:
  network: mainnet
  operator_account_id: "0.0.12345"
  operator_key: "302e0201..."
  nft_token_id: "0.0.54321"
  platform_account_id: "0.0.99999"
  platform_fee_bps: 300
pinning:
  api_url: "https://api.pinata.example.com"
  jwt: "pinata-jwt"
  gateway_url: "https://gw.example.com"
  max_asset_bytes: 52428800
  max_video_seconds: 120
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  max_reconnects: 5
  reconnect_wait: "5s"
  connection_name: "test-connection"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Server.ReadTimeout)
				assert.Equal(t, 180, cfg.Server.IdleTimeout)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
				assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
				assert.Equal(t, 10*time.Minute, cfg.Auth.RegistrationTTL)
				assert.Equal(t, 3*time.Minute, cfg.Auth.ChallengeTTL)
				assert.Equal(t, "test.afriart.io", cfg.Auth.ChallengeDomain)
				assert.Equal(t, "mainnet", cfg.Hedera.Network)
				assert.Equal(t, "0.0.12345", cfg.Hedera.OperatorAccountID)
				assert.Equal(t, "0.0.54321", cfg.Hedera.NFTTokenID)
				assert.Equal(t, "0.0.99999", cfg.Hedera.PlatformAccountID)
				assert.Equal(t, int64(300), cfg.Hedera.PlatformFeeBPS)
				assert.Equal(t, "https://api.pinata.example.com", cfg.Pinning.APIURL)
				assert.Equal(t, "pinata-jwt", cfg.Pinning.JWT)
				assert.Equal(t, int64(52428800), cfg.Pinning.MaxAssetBytes)
				assert.Equal(t, 120, cfg.Pinning.MaxVideoSeconds)
				assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
auth:
  jwt_secret: "test-secret"
hedera:
  operator_account_id: "0.0.12345"
  operator_key: "302e0201..."
nats:
  url: "nats://localhost:4222"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 30, cfg.Server.WriteTimeout)
				assert.Equal(t, 120, cfg.Server.IdleTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
				assert.Equal(t, 15*time.Minute, cfg.Auth.RegistrationTTL)
				assert.Equal(t, 5*time.Minute, cfg.Auth.ChallengeTTL)
				assert.Equal(t, "afriart.io", cfg.Auth.ChallengeDomain)
				assert.Equal(t, "testnet", cfg.Hedera.Network)
				assert.Equal(t, int64(250), cfg.Hedera.PlatformFeeBPS)
				assert.Equal(t, "https://api.pinata.cloud", cfg.Pinning.APIURL)
				assert.Equal(t, "https://gateway.pinata.cloud", cfg.Pinning.GatewayURL)
				assert.Equal(t, int64(100*1024*1024), cfg.Pinning.MaxAssetBytes)
				assert.Equal(t, 300, cfg.Pinning.MaxVideoSeconds)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, "MARKETPLACE_EVENTS", cfg.NATS.StreamName)
			},
		},
		{
			name: "missing jwt secret",
			configFile: `
database:
  host: localhost
hedera:
  operator_account_id: "0.0.12345"
  operator_key: "302e0201..."
`,
			expectError: true,
			validate:    nil,
		},
		{
			name: "missing hedera operator",
			configFile: `
database:
  host: localhost
auth:
  jwt_secret: "test-secret"
`,
			expectError: true,
			validate:    nil,
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
			validate:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadAPIConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadCollectionSetupConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *CollectionSetupConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
hedera:
  network: previewnet
  operator_account_id: "0.0.12345"
  operator_key: "302e0201..."
collection_name: "Test Collection"
collection_symbol: "TST"
collection_max_supply: 5000
`,
			expectError: false,
			validate: func(t *testing.T, cfg *CollectionSetupConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "previewnet", cfg.Hedera.Network)
				assert.Equal(t, "Test Collection", cfg.CollectionName)
				assert.Equal(t, "TST", cfg.CollectionSym)
				assert.Equal(t, int64(5000), cfg.MaxSupply)
			},
		},
		{
			name: "config with defaults",
			configFile: `
hedera:
  operator_account_id: "0.0.12345"
  operator_key: "302e0201..."
`,
			expectError: false,
			validate: func(t *testing.T, cfg *CollectionSetupConfig) {
				assert.Equal(t, "testnet", cfg.Hedera.Network)
				assert.Equal(t, "AfriArt Collection", cfg.CollectionName)
				assert.Equal(t, "AFRI", cfg.CollectionSym)
				assert.Equal(t, int64(1_000_000), cfg.MaxSupply)
			},
		},
		{
			name:        "missing operator credentials",
			configFile:  `debug: false`,
			expectError: true,
			validate:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadCollectionSetupConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadSweeperConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *SweeperConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: testdb
pinning:
  gateway_url: "https://gw.example.com"
pin_sweeper:
  http_timeout: "10s"
  batch_size: 50
  recheck_after: "12h"
  worker:
    pool_size: 8
    queue_size: 32
`,
			expectError: false,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://gw.example.com", cfg.Pinning.GatewayURL)
				assert.Equal(t, 10*time.Second, cfg.PinSweeper.HTTPTimeout)
				assert.Equal(t, 50, cfg.PinSweeper.BatchSize)
				assert.Equal(t, 12*time.Hour, cfg.PinSweeper.RecheckAfter)
				assert.Equal(t, 8, cfg.PinSweeper.Worker.PoolSize)
				assert.Equal(t, 32, cfg.PinSweeper.Worker.QueueSize)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: testdb
`,
			expectError: false,
			validate: func(t *testing.T, cfg *SweeperConfig) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 5, cfg.Database.MaxOpenConns)
				assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, "https://gateway.pinata.cloud", cfg.Pinning.GatewayURL)
				assert.Equal(t, 30*time.Second, cfg.PinSweeper.HTTPTimeout)
				assert.Equal(t, 100, cfg.PinSweeper.BatchSize)
				assert.Equal(t, 24*time.Hour, cfg.PinSweeper.RecheckAfter)
				assert.Equal(t, 20, cfg.PinSweeper.Worker.PoolSize)
			},
		},
		{
			name:        "missing database host",
			configFile:  `debug: false`,
			expectError: true,
			validate:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configFile := filepath.Join(tmpDir, "config.yaml")
			err := os.WriteFile(configFile, []byte(tt.configFile), 0600)
			require.NoError(t, err)

			cfg, err := LoadSweeperConfig(configFile, tmpDir)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		config   DatabaseConfig
		expected string
	}{
		{
			name: "complete config",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				DBName:   "testdb",
				SSLMode:  "require",
			},
			expected: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require",
		},
		{
			name: "with special characters in password",
			config: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "p@ssw0rd!",
				DBName:   "testdb",
				SSLMode:  "disable",
			},
			expected: "host=localhost port=5432 user=testuser password=p@ssw0rd! dbname=testdb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.DSN())
		})
	}
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	tmpDir := t.TempDir()

	envDir := filepath.Join(tmpDir, "env")
	err := os.MkdirAll(envDir, 0750)
	require.NoError(t, err)

	// godotenv.Overload sets actual environment variables, which viper's
	// AutomaticEnv picks up with the AFRIART_ prefix.
	envFile := filepath.Join(envDir, ".env")
	envContent := `AFRIART_DEBUG=true
AFRIART_DATABASE_HOST=env-host
AFRIART_DATABASE_PORT=3306
AFRIART_DATABASE_USER=env-user
AFRIART_DATABASE_PASSWORD=env-pass
AFRIART_DATABASE_DBNAME=env-db
AFRIART_AUTH_JWT_SECRET=env-secret
AFRIART_HEDERA_OPERATOR_ACCOUNT_ID=0.0.777
AFRIART_HEDERA_OPERATOR_KEY=env-key
`
	err = os.WriteFile(envFile, []byte(envContent), 0600)
	require.NoError(t, err)

	// Config file carries different values to verify env vars override them.
	configPath := filepath.Join(tmpDir, "config.yaml")
	configFile := `
debug: false
database:
  host: file-host
  port: 5432
  user: file-user
  password: file-pass
  dbname: file-db
auth:
  jwt_secret: "file-secret"
hedera:
  operator_account_id: "0.0.1"
  operator_key: "file-key"
`

	err = os.WriteFile(configPath, []byte(configFile), 0600)
	require.NoError(t, err)

	cfg, err := LoadAPIConfig(configPath, envDir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "env-user", cfg.Database.User)
	assert.Equal(t, "env-pass", cfg.Database.Password)
	assert.Equal(t, "env-db", cfg.Database.DBName)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "0.0.777", cfg.Hedera.OperatorAccountID)
	assert.Equal(t, "env-key", cfg.Hedera.OperatorKey)
}
