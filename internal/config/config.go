package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	JWTSecret        string
	TokenStrategy    string
	TokenTTL         time.Duration
	ShutdownTimeout  time.Duration
	SMTPAddress      string
	SMTPUsername     string
	SMTPPassword     string
	MailFrom         string
	MailWorkers      int
	MailQueueSize    int
	MailIdleTimeout  time.Duration
	MailRate         float64
	CORSAllowOrigins []string
	LocationName     string
	Location         *time.Location
	LogLevel         slog.Level
}

// Token strategies accepted by TokenStrategy.
const (
	TokenStrategyHMAC = "hmac"
	TokenStrategyJWT  = "jwt"
)

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenStrategy   = TokenStrategyHMAC
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultMailFrom        = "fournil@localhost"
	defaultMailWorkers     = 5
	defaultMailQueueSize   = 4096
	defaultMailIdleTimeout = 30 * time.Second
	defaultMailRate        = 10.0
	defaultLocation        = "Europe/Paris"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		JWTSecret:       getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenStrategy:   getString(lookup, "TOKEN_STRATEGY", defaultTokenStrategy),
		TokenTTL:        getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SMTPAddress:     getString(lookup, "SMTP_ADDRESS", ""),
		SMTPUsername:    getString(lookup, "SMTP_USERNAME", ""),
		SMTPPassword:    getString(lookup, "SMTP_PASSWORD", ""),
		MailFrom:        getString(lookup, "MAIL_FROM", defaultMailFrom),
		MailWorkers:     getInt(lookup, "MAIL_WORKERS", defaultMailWorkers),
		MailQueueSize:   getInt(lookup, "MAIL_QUEUE_SIZE", defaultMailQueueSize),
		MailIdleTimeout: getDuration(lookup, "MAIL_IDLE_TIMEOUT", defaultMailIdleTimeout),
		MailRate:        getFloat(lookup, "MAIL_RATE", defaultMailRate),
		LocationName:    getString(lookup, "TZ_LOCATION", defaultLocation),
	}

	fs := flag.NewFlagSet("fournil", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		mailIdleStr        = cfg.MailIdleTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
		corsOrigins        = getString(lookup, "CORS_ALLOW_ORIGINS", "")
		logLevel           = getString(lookup, "LOG_LEVEL", "info")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.TokenStrategy, "token-strategy", cfg.TokenStrategy, "Auth token format: hmac or jwt")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Lifetime of issued auth tokens")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.SMTPAddress, "smtp-addr", cfg.SMTPAddress, "SMTP relay host:port, empty logs mail instead")
	fs.StringVar(&cfg.MailFrom, "mail-from", cfg.MailFrom, "Sender address of outbound mail")
	fs.IntVar(&cfg.MailWorkers, "mail-workers", cfg.MailWorkers, "Number of concurrent mail workers")
	fs.IntVar(&cfg.MailQueueSize, "mail-queue", cfg.MailQueueSize, "Maximum queued outbound messages")
	fs.StringVar(&mailIdleStr, "mail-idle", mailIdleStr, "Idle time before a mail session is closed")
	fs.Float64Var(&cfg.MailRate, "mail-rate", cfg.MailRate, "Outbound messages per second")
	fs.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated CORS origins")
	fs.StringVar(&logLevel, "log-level", logLevel, "Minimum log level: debug, info, warn or error")
	fs.StringVar(&cfg.LocationName, "location", cfg.LocationName, "Time zone of batch dates and delivery days")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.MailIdleTimeout, err = time.ParseDuration(mailIdleStr); err != nil {
		return nil, fmt.Errorf("invalid mail idle timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(cfg.LocationName); err != nil {
		return nil, fmt.Errorf("invalid location: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	cfg.CORSAllowOrigins = splitList(corsOrigins)
	cfg.TokenStrategy = strings.ToLower(strings.TrimSpace(cfg.TokenStrategy))

	if cfg.MailWorkers <= 0 {
		cfg.MailWorkers = defaultMailWorkers
	}

	if cfg.MailQueueSize <= 0 {
		cfg.MailQueueSize = defaultMailQueueSize
	}

	if cfg.MailIdleTimeout <= 0 {
		cfg.MailIdleTimeout = defaultMailIdleTimeout
	}

	if cfg.MailRate <= 0 {
		cfg.MailRate = defaultMailRate
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	switch cfg.TokenStrategy {
	case TokenStrategyHMAC, TokenStrategyJWT:
	default:
		return nil, fmt.Errorf("unknown token strategy %q", cfg.TokenStrategy)
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

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
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

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
