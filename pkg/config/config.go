package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	Release   string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Sheets   SheetsConfig
	WhatsApp WhatsAppConfig
	Sync     SyncConfig
	Jobs     JobsConfig
	Sentry   SentryConfig
	Archive  ArchiveConfig
	Seeds    []SeedAccount
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SheetsConfig points at the Apps Script web endpoint that fronts the spreadsheet.
type SheetsConfig struct {
	URL     string
	Timeout time.Duration
}

// WhatsAppConfig configures the outbound messaging webhook.
type WhatsAppConfig struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// SyncConfig controls the background synchronization schedule.
type SyncConfig struct {
	Schedule  []string
	OnStartup bool
	Timezone  string
	Location  *time.Location
}

// JobsConfig tunes the write-back worker pool.
type JobsConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN string
}

// ArchiveConfig locates the copies of imported workbooks. An empty Dir disables archiving.
type ArchiveConfig struct {
	Dir string
}

// SeedAccount is an operator account that survives every users sync.
type SeedAccount struct {
	Login        string
	PasswordHash string
	Role         string
	Name         string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.Release = v.GetString("RELEASE")

	cfg.Database = DatabaseConfig{
		Enabled:      v.GetBool("DB_ENABLED"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:   v.GetBool("REDIS_ENABLED"),
		Host:      v.GetString("REDIS_HOST"),
		Port:      v.GetInt("REDIS_PORT"),
		Password:  v.GetString("REDIS_PASSWORD"),
		DB:        v.GetInt("REDIS_DB"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"), ",")}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sheets = SheetsConfig{
		URL:     v.GetString("SHEETS_URL"),
		Timeout: parseDuration(v.GetString("SHEETS_TIMEOUT"), time.Minute),
	}

	cfg.WhatsApp = WhatsAppConfig{
		WebhookURL: v.GetString("WHATSAPP_WEBHOOK_URL"),
		Token:      v.GetString("WHATSAPP_TOKEN"),
		Timeout:    parseDuration(v.GetString("WHATSAPP_TIMEOUT"), 15*time.Second),
	}

	cfg.Sync = SyncConfig{
		Schedule:  splitAndTrim(v.GetString("SYNC_SCHEDULE"), ","),
		OnStartup: v.GetBool("SYNC_ON_STARTUP"),
		Timezone:  v.GetString("TIMEZONE"),
	}
	loc, err := time.LoadLocation(cfg.Sync.Timezone)
	if err != nil {
		loc = time.Local
	}
	cfg.Sync.Location = loc

	cfg.Jobs = JobsConfig{
		Workers:    v.GetInt("JOBS_WORKERS"),
		Retries:    v.GetInt("JOBS_RETRIES"),
		RetryDelay: parseDuration(v.GetString("JOBS_RETRY_DELAY"), 5*time.Second),
	}

	cfg.Sentry = SentryConfig{DSN: v.GetString("SENTRY_DSN")}
	cfg.Archive = ArchiveConfig{Dir: v.GetString("ARCHIVE_DIR")}

	seeds, err := ParseSeedAccounts(v.GetString("SEED_ACCOUNTS"))
	if err != nil {
		return nil, fmt.Errorf("SEED_ACCOUNTS: %w", err)
	}
	cfg.Seeds = seeds

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("RELEASE", "dev")

	v.SetDefault("DB_ENABLED", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sfk_console")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_KEY_PREFIX", "sfk")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "sfk-console")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SHEETS_URL", "")
	v.SetDefault("SHEETS_TIMEOUT", "60s")

	v.SetDefault("WHATSAPP_WEBHOOK_URL", "")
	v.SetDefault("WHATSAPP_TOKEN", "")
	v.SetDefault("WHATSAPP_TIMEOUT", "15s")

	v.SetDefault("SYNC_SCHEDULE", "07:00,12:00,18:00")
	v.SetDefault("SYNC_ON_STARTUP", true)
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")

	v.SetDefault("JOBS_WORKERS", 2)
	v.SetDefault("JOBS_RETRIES", 3)
	v.SetDefault("JOBS_RETRY_DELAY", "5s")

	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("ARCHIVE_DIR", "./data/workbooks")
	v.SetDefault("SEED_ACCOUNTS", "")
}

// ParseSeedAccounts reads `login|bcrypt-hash|role|name` entries separated by ';'.
func ParseSeedAccounts(raw string) ([]SeedAccount, error) {
	entries := splitAndTrim(raw, ";")
	seeds := make([]SeedAccount, 0, len(entries))
	for _, entry := range entries {
		parts := strings.Split(entry, "|")
		if len(parts) < 3 {
			return nil, fmt.Errorf("bad seed account %q: want login|hash|role[|name]", entry)
		}
		seed := SeedAccount{
			Login:        strings.TrimSpace(parts[0]),
			PasswordHash: strings.TrimSpace(parts[1]),
			Role:         strings.TrimSpace(parts[2]),
		}
		if len(parts) > 3 {
			seed.Name = strings.TrimSpace(parts[3])
		}
		if seed.Login == "" || seed.PasswordHash == "" {
			return nil, fmt.Errorf("bad seed account %q: login and hash are required", entry)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw, sep string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
