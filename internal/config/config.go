package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	GST    GSTConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds the draft store connection settings.
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Addr returns host:port.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// S3Config holds AWS S3 settings for the submission archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	ArchivePrefix string `mapstructure:"archive_prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GSTConfig holds the statutory thresholds and computation choices.
type GSTConfig struct {
	EWayBillThreshold decimal.Decimal
	B2CLThreshold     decimal.Decimal
	ZeroRatedRule     string
	DraftTTL          time.Duration
	EInvoiceVersion   string
}

// Load reads configuration from environment variables with the GSTLEDGER_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GSTLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstledger")
	v.SetDefault("db.password", "gstledger_secret")
	v.SetDefault("db.name", "gstledger_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "gstledger:draft:")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstledger-returns")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.archive_prefix", "returns")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// GST defaults
	v.SetDefault("gst.eway_bill_threshold", "50000")
	v.SetDefault("gst.b2cl_threshold", "100000")
	v.SetDefault("gst.zero_rated_rule", "export_flag")
	v.SetDefault("gst.draft_ttl", "720h")
	v.SetDefault("gst.einvoice_version", "1.1")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "GSTLEDGER_SERVER_PORT",
		"server.read_timeout":     "GSTLEDGER_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "GSTLEDGER_SERVER_WRITE_TIMEOUT",
		"server.environment":      "GSTLEDGER_SERVER_ENVIRONMENT",
		"db.host":                 "GSTLEDGER_DB_HOST",
		"db.port":                 "GSTLEDGER_DB_PORT",
		"db.user":                 "GSTLEDGER_DB_USER",
		"db.password":             "GSTLEDGER_DB_PASSWORD",
		"db.name":                 "GSTLEDGER_DB_NAME",
		"db.sslmode":              "GSTLEDGER_DB_SSLMODE",
		"db.max_open":             "GSTLEDGER_DB_MAX_OPEN",
		"db.max_idle":             "GSTLEDGER_DB_MAX_IDLE",
		"redis.host":              "GSTLEDGER_REDIS_HOST",
		"redis.port":              "GSTLEDGER_REDIS_PORT",
		"redis.password":          "GSTLEDGER_REDIS_PASSWORD",
		"redis.db":                "GSTLEDGER_REDIS_DB",
		"redis.key_prefix":        "GSTLEDGER_REDIS_KEY_PREFIX",
		"s3.region":               "GSTLEDGER_S3_REGION",
		"s3.bucket":               "GSTLEDGER_S3_BUCKET",
		"s3.endpoint":             "GSTLEDGER_S3_ENDPOINT",
		"s3.access_key":           "GSTLEDGER_S3_ACCESS_KEY",
		"s3.secret_key":           "GSTLEDGER_S3_SECRET_KEY",
		"s3.archive_prefix":       "GSTLEDGER_S3_ARCHIVE_PREFIX",
		"s3.presign_expiry":       "GSTLEDGER_S3_PRESIGN_EXPIRY",
		"log.level":               "GSTLEDGER_LOG_LEVEL",
		"log.format":              "GSTLEDGER_LOG_FORMAT",
		"cors.allowed_origins":    "GSTLEDGER_CORS_ALLOWED_ORIGINS",
		"gst.eway_bill_threshold": "GSTLEDGER_GST_EWAY_BILL_THRESHOLD",
		"gst.b2cl_threshold":      "GSTLEDGER_GST_B2CL_THRESHOLD",
		"gst.zero_rated_rule":     "GSTLEDGER_GST_ZERO_RATED_RULE",
		"gst.draft_ttl":           "GSTLEDGER_GST_DRAFT_TTL",
		"gst.einvoice_version":    "GSTLEDGER_GST_EINVOICE_VERSION",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if GSTLEDGER_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTLEDGER_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Redis = RedisConfig{
		Host:      v.GetString("redis.host"),
		Port:      v.GetInt("redis.port"),
		Password:  v.GetString("redis.password"),
		DB:        v.GetInt("redis.db"),
		KeyPrefix: v.GetString("redis.key_prefix"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		ArchivePrefix: strings.Trim(v.GetString("s3.archive_prefix"), "/"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	gst, err := loadGST(v)
	if err != nil {
		return nil, err
	}
	cfg.GST = gst

	return cfg, nil
}

func loadGST(v *viper.Viper) (GSTConfig, error) {
	eway, err := decimal.NewFromString(strings.TrimSpace(v.GetString("gst.eway_bill_threshold")))
	if err != nil || !eway.IsPositive() {
		return GSTConfig{}, fmt.Errorf("config: gst.eway_bill_threshold %q must be a positive amount", v.GetString("gst.eway_bill_threshold"))
	}
	b2cl, err := decimal.NewFromString(strings.TrimSpace(v.GetString("gst.b2cl_threshold")))
	if err != nil || !b2cl.IsPositive() {
		return GSTConfig{}, fmt.Errorf("config: gst.b2cl_threshold %q must be a positive amount", v.GetString("gst.b2cl_threshold"))
	}
	rule := strings.TrimSpace(v.GetString("gst.zero_rated_rule"))
	switch rule {
	case "export_flag", "rate_inference":
	default:
		return GSTConfig{}, fmt.Errorf("config: gst.zero_rated_rule %q is not one of export_flag, rate_inference", rule)
	}
	ttl := v.GetDuration("gst.draft_ttl")
	if ttl <= 0 {
		return GSTConfig{}, fmt.Errorf("config: gst.draft_ttl must be positive")
	}
	return GSTConfig{
		EWayBillThreshold: eway,
		B2CLThreshold:     b2cl,
		ZeroRatedRule:     rule,
		DraftTTL:          ttl,
		EInvoiceVersion:   v.GetString("gst.einvoice_version"),
	}, nil
}
