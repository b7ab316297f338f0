package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	pkglogger "github.com/estatehub/estatehub-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Redis         RedisConfig         `yaml:"redis"`
	JWT           JWTConfig           `yaml:"jwt"`
	CORS          CORSConfig          `yaml:"cors"`
	Storage       StorageConfig       `yaml:"storage"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Payment       PaymentConfig       `yaml:"payment"`
	Media         MediaConfig         `yaml:"media"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig relational store. Driver is one of mysql, postgres, sqlite.
type DatabaseConfig struct {
	Driver          string `yaml:"driver"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	SSLMode         string `yaml:"sslmode"`
	Path            string `yaml:"path"` // sqlite file
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // seconds
	LogSQL          bool   `yaml:"log_sql"`
}

// RedisConfig cache and rate limit backend
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings; lifetimes in seconds
type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn int    `yaml:"expires_in"`
	RefreshIn int    `yaml:"refresh_in"`
}

// CORSConfig comma separated origins
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// StorageConfig media storage. S3 is used when Enabled, local disk otherwise.
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	LocalDir        string `yaml:"local_dir"`
	LocalURL        string `yaml:"local_url"`
}

// ElasticsearchConfig listing suggestion index
type ElasticsearchConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// KafkaConfig domain event publishing
type KafkaConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Brokers     []string `yaml:"brokers"`
	TopicPrefix string   `yaml:"topic_prefix"`
}

// PaymentConfig listing fee gateway
type PaymentConfig struct {
	KeyID      string  `yaml:"key_id"`
	KeySecret  string  `yaml:"key_secret"`
	BaseURL    string  `yaml:"base_url"`
	ListingFee float64 `yaml:"listing_fee"`
	Currency   string  `yaml:"currency"`
}

// MediaConfig upload ceilings in bytes and extension allow-lists
type MediaConfig struct {
	MaxImageSize    int64    `yaml:"max_image_size"`
	MaxVideoSize    int64    `yaml:"max_video_size"`
	ImageExtensions []string `yaml:"image_extensions"`
	VideoExtensions []string `yaml:"video_extensions"`
}

// multipartOverhead headroom for form fields and part headers around one file
const multipartOverhead = 1 << 20

// MaxRequestBody largest request body an upload under these ceilings can need
func (m MediaConfig) MaxRequestBody() int64 {
	largest := m.MaxImageSize
	if m.MaxVideoSize > largest {
		largest = m.MaxVideoSize
	}
	return largest + multipartOverhead
}

// RateLimitConfig per-route limits
type RateLimitConfig struct {
	GlobalPerHour  int `yaml:"global_per_hour"`
	LoginPerMinute int `yaml:"login_per_minute"`
	EnquiryPerHour int `yaml:"enquiry_per_hour"`
}

// Default returns a configuration usable for local development
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Env: "local"},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "estatehub",
			DBName:          "estatehub",
			SSLMode:         "disable",
			Path:            "estatehub.db",
			MaxIdleConns:    10,
			MaxOpenConns:    50,
			ConnMaxLifetime: 3600,
		},
		Redis: RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		JWT: JWTConfig{
			Secret:    "change-me",
			ExpiresIn: 15 * 60,
			RefreshIn: 7 * 24 * 3600,
		},
		CORS: CORSConfig{AllowOrigins: "http://localhost:3000"},
		Storage: StorageConfig{
			Region:   "auto",
			BasePath: "",
			LocalDir: "media",
			LocalURL: "/media",
		},
		Elasticsearch: ElasticsearchConfig{Index: "listings"},
		Kafka:         KafkaConfig{TopicPrefix: "estatehub."},
		Payment: PaymentConfig{
			BaseURL:    "https://api.razorpay.com",
			ListingFee: 499.00,
			Currency:   "INR",
		},
		Media: MediaConfig{
			MaxImageSize:    10 << 20,
			MaxVideoSize:    50 << 20,
			ImageExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
			VideoExtensions: []string{".mp4", ".webm"},
		},
		RateLimit: RateLimitConfig{
			GlobalPerHour:  1000,
			LoginPerMinute: 10,
			EnquiryPerHour: 30,
		},
	}
}

// Load reads the YAML file at path over the defaults, expanding ${VAR}
// references, then applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		pkglogger.Warn("config file %s not found, using defaults and environment", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at request time
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if !c.IsDevelopment() && c.JWT.Secret == "change-me" {
		return errors.New("jwt.secret must be set outside development")
	}
	if c.Payment.ListingFee < 0 {
		return errors.New("payment.listing_fee must be >= 0")
	}
	return nil
}

// IsDevelopment reports a local or development environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "local", "dev", "development", "test":
		return true
	}
	return false
}

// GetDSN builds the driver-specific DSN
func (d *DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
	case "sqlite":
		return d.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.DBName)
	}
}

// LogResolved prints the effective non-secret settings
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Str("db_host", cfg.Database.Host).
		Bool("redis", cfg.Redis.Enabled).
		Bool("s3", cfg.Storage.Enabled).
		Bool("elasticsearch", cfg.Elasticsearch.Enabled).
		Bool("kafka", cfg.Kafka.Enabled).
		Bool("payment_gateway", cfg.Payment.KeyID != "").
		Msg("config resolved")
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Env, "APP_ENV")
	setInt(&cfg.Server.Port, "PORT")

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.Path, "DB_PATH")

	setBool(&cfg.Redis.Enabled, "REDIS_ENABLED")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")

	setBool(&cfg.Storage.Enabled, "S3_ENABLED")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")

	setBool(&cfg.Elasticsearch.Enabled, "ES_ENABLED")
	if v := os.Getenv("ES_ADDRESSES"); v != "" {
		cfg.Elasticsearch.Addresses = SplitAndTrim(v, ",")
	}

	setBool(&cfg.Kafka.Enabled, "KAFKA_ENABLED")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = SplitAndTrim(v, ",")
	}

	setString(&cfg.Payment.KeyID, "RAZORPAY_KEY_ID")
	setString(&cfg.Payment.KeySecret, "RAZORPAY_KEY_SECRET")
}

// SplitAndTrim splits s by sep and drops empty parts
func SplitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
