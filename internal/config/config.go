package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is only meant for local development.
const DefaultJWTSecret = "change-me-marketplace-secret"

type Config struct {
	ServiceName string        `mapstructure:"service_name"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Mongo       MongoConfig   `mapstructure:"mongo"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Minio       MinioConfig   `mapstructure:"minio"`
	NATS        NATSConfig    `mapstructure:"nats"`
	SMTP        SMTPConfig    `mapstructure:"smtp"`
	Search      SearchConfig  `mapstructure:"search"`
	Auth        AuthConfig    `mapstructure:"auth"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Tracing     TracingConfig `mapstructure:"tracing"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
}

// RedisConfig with an empty Address disables the detail cache.
type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MinioConfig with an empty Endpoint disables image uploads.
// PublicURL overrides the base of generated image links.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// SMTPConfig with an empty Host disables admin notifications.
type SMTPConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	From        string   `mapstructure:"from"`
	AdminEmails []string `mapstructure:"admin_emails"`
}

type SearchConfig struct {
	Categories     []string `mapstructure:"categories"`
	PartialResults bool     `mapstructure:"partial_results"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	AdminRole string `mapstructure:"admin_role"`
}

type MetricsConfig struct {
	Port      string `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
}

type TracingConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "marketplace-service")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("http.max_upload_bytes", 10<<20)
	v.SetDefault("http.allowed_origins", []string{"*"})

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "campus_marketplace")
	v.SetDefault("mongo.connect_timeout", "10s")
	v.SetDefault("mongo.query_timeout", "5s")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")

	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "listing-images")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.public_url", "")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.connect_timeout", "5s")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.admin_emails", []string{})

	v.SetDefault("search.categories", categoryNames(domain.DefaultSearchCategories))
	v.SetDefault("search.partial_results", false)

	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.admin_role", "admin")

	v.SetDefault("metrics.port", "9090")
	v.SetDefault("metrics.namespace", "marketplace")

	v.SetDefault("tracing.otlp_endpoint", "")
}

// LoadConfig reads defaults, then an optional YAML file at path (a file or a
// directory holding config.yaml), then MARKET_* environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if fi, err := os.Stat(path); path != "" && err == nil {
		if fi.IsDir() {
			v.AddConfigPath(path)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("MARKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("config: mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return errors.New("config: mongo.database is required")
	}
	if _, err := c.SearchCategories(); err != nil {
		return err
	}
	return nil
}

// SearchCategories parses search.categories. Entries may be comma separated;
// repeats are dropped, keeping the first occurrence.
func (c *Config) SearchCategories() ([]domain.Category, error) {
	var out []domain.Category
	seen := make(map[domain.Category]bool)
	for _, entry := range c.Search.Categories {
		for _, raw := range strings.Split(entry, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			cat, err := domain.ParseCategory(raw)
			if err != nil {
				return nil, fmt.Errorf("config: search.categories: %q: %w", raw, err)
			}
			if seen[cat] {
				continue
			}
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out, nil
}

// InsecureSecret reports whether the JWT secret is unset or left at its default.
func (c *Config) InsecureSecret() bool {
	return c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret
}

func categoryNames(cs []domain.Category) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
