package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/celosave/savings/internal/chain"
	"github.com/joho/godotenv"
)

// ZeroAddress is the contract sentinel that keeps a deployment on the relational store.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Ledger (a non-zero contract address selects the on-chain backend)
	LedgerContractAddress string
	LedgerTokenAddress    string
	LedgerRPCURL          string
	LedgerChainID         int64
	LedgerPrivateKey      string
	LedgerPollInterval    time.Duration
	LedgerConfirmTimeout  time.Duration // 0: unbounded, callers bound their own waits

	// Facade caches
	SnapshotTTL  time.Duration
	OperationTTL time.Duration

	// Events (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Storage (S3-compatible, optional: exports fall back to direct download)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "CeloSave"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/savings.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Ledger
		LedgerContractAddress: envString("LEDGER_CONTRACT_ADDRESS", ZeroAddress),
		LedgerTokenAddress:    envString("LEDGER_TOKEN_ADDRESS", chain.DefaultTokenAddress),
		LedgerRPCURL:          envString("LEDGER_RPC_URL", "https://alfajores-forno.celo-testnet.org"),
		LedgerChainID:         envInt64("LEDGER_CHAIN_ID", chain.ChainIDAlfajores),
		LedgerPrivateKey:      envString("LEDGER_PRIVATE_KEY", ""),
		LedgerPollInterval:    envDuration("LEDGER_POLL_INTERVAL", 2*time.Second),
		LedgerConfirmTimeout:  envDuration("LEDGER_CONFIRM_TIMEOUT", 0),

		// Facade caches
		SnapshotTTL:  envDuration("SNAPSHOT_TTL", 5*time.Minute),
		OperationTTL: envDuration("OPERATION_TTL", time.Hour),

		// Events
		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisDB:       int(envInt64("REDIS_DB", 0)),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Storage
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", time.Hour),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures a ledger deployment can actually sign transactions.
// Development allows a read-only ledger client for local testing.
func validateProduction(cfg *Config) {
	if !cfg.LedgerMode() {
		return
	}
	if cfg.LedgerRPCURL == "" {
		slog.Error("production ledger deployment requires LEDGER_RPC_URL")
		os.Exit(1)
	}
	if cfg.LedgerPrivateKey == "" {
		slog.Error("production ledger deployment requires LEDGER_PRIVATE_KEY",
			"hint", "unset LEDGER_CONTRACT_ADDRESS to run on the relational store")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// LedgerMode reports whether a non-zero ledger contract address is configured.
func (c *Config) LedgerMode() bool {
	addr := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.LedgerContractAddress)), "0x")
	return strings.Trim(addr, "0") != ""
}

// EventsEnabled reports whether goal events go to Redis.
func (c *Config) EventsEnabled() bool {
	return c.RedisAddr != ""
}

// StorageEnabled reports whether exports are uploaded to S3.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets and credentials are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,

		LedgerContractAddress: c.LedgerContractAddress,
		LedgerTokenAddress:    c.LedgerTokenAddress,
		LedgerChainID:         c.LedgerChainID,

		S3Endpoint: c.S3Endpoint,
	}
}
