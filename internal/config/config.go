package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	GatewayBaseURL      string
	GatewayServerKey    string
	SkipSignatureVerify bool
	PendingStaleAfter   time.Duration
	CashExpiryAfter     time.Duration
	PollInterval        time.Duration
	SweepInterval       time.Duration
	WorkerPoolSize      int
	SyncBatchSize       int
	ShutdownTimeout     time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultPendingStaleAfter = 10 * time.Minute
	defaultCashExpiryAfter   = 15 * time.Minute
	defaultPollInterval      = 5 * time.Second
	defaultSweepInterval     = time.Minute
	defaultWorkerPoolSize    = 4
	defaultSyncBatchSize     = 32
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		GatewayBaseURL:      getString(lookup, "GATEWAY_BASE_URL", ""),
		GatewayServerKey:    getString(lookup, "GATEWAY_SERVER_KEY", ""),
		SkipSignatureVerify: getBool(lookup, "GATEWAY_SKIP_SIGNATURE", false),
		PendingStaleAfter:   getDuration(lookup, "PENDING_STALE_AFTER", defaultPendingStaleAfter),
		CashExpiryAfter:     getDuration(lookup, "CASH_EXPIRY_AFTER", defaultCashExpiryAfter),
		PollInterval:        getDuration(lookup, "ORDER_POLL_INTERVAL", defaultPollInterval),
		SweepInterval:       getDuration(lookup, "EXPIRY_SWEEP_INTERVAL", defaultSweepInterval),
		WorkerPoolSize:      getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		SyncBatchSize:       getInt(lookup, "SYNC_BATCH_SIZE", defaultSyncBatchSize),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("tablepay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		staleAfterStr      = cfg.PendingStaleAfter.String()
		cashExpiryStr      = cfg.CashExpiryAfter.String()
		pollIntervalStr    = cfg.PollInterval.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayBaseURL, "g", cfg.GatewayBaseURL, "Payment gateway base URL")
	fs.StringVar(&cfg.GatewayServerKey, "k", cfg.GatewayServerKey, "Payment gateway server key")
	fs.BoolVar(&cfg.SkipSignatureVerify, "skip-signature-verify", cfg.SkipSignatureVerify, "Disable webhook signature verification (logged on every use)")
	fs.StringVar(&staleAfterStr, "stale-after", staleAfterStr, "Age at which PENDING orders become eligible for poll sync")
	fs.StringVar(&cashExpiryStr, "cash-expiry", cashExpiryStr, "Hard timeout for unresolved cash orders")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between gateway status polls")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between expiry sweeps")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent sync workers")
	fs.IntVar(&cfg.SyncBatchSize, "sync-batch", cfg.SyncBatchSize, "Maximum orders per sync batch")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PendingStaleAfter, err = time.ParseDuration(staleAfterStr); err != nil {
		return nil, fmt.Errorf("invalid stale-after: %w", err)
	}
	if cfg.CashExpiryAfter, err = time.ParseDuration(cashExpiryStr); err != nil {
		return nil, fmt.Errorf("invalid cash-expiry: %w", err)
	}
	if cfg.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}
	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("GATEWAY_SERVER_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read gateway server key file: %w", err)
		}
		cfg.GatewayServerKey = string(content)
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}
	if cfg.SyncBatchSize <= 0 {
		cfg.SyncBatchSize = defaultSyncBatchSize
	}
	if cfg.PendingStaleAfter <= 0 {
		cfg.PendingStaleAfter = defaultPendingStaleAfter
	}
	if cfg.CashExpiryAfter <= 0 {
		cfg.CashExpiryAfter = defaultCashExpiryAfter
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.GatewayBaseURL == "" {
		return nil, fmt.Errorf("gateway base URL must be provided")
	}
	if cfg.GatewayServerKey == "" && !cfg.SkipSignatureVerify {
		return nil, fmt.Errorf("gateway server key must be provided unless signature verification is explicitly skipped")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
