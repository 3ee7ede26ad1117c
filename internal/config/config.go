package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Extractor ExtractorConfig
	Invoice   InvoiceConfig
	Session   SessionConfig
	Template  TemplateConfig
	S3        S3Config
	Email     EmailConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExtractorProviderConfig holds settings for a single LLM extractor provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds LLM field extractor settings with fallback support.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// InvoiceConfig holds invoice computation defaults applied when a session
// omits them.
type InvoiceConfig struct {
	DefaultGSTRate float64 `mapstructure:"default_gst_rate"`
	RangeLower     int64   `mapstructure:"range_lower"`
	RangeUpper     int64   `mapstructure:"range_upper"`
}

// SessionConfig holds in-memory session store settings.
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// TemplateConfig holds invoice template settings.
type TemplateConfig struct {
	Path string `mapstructure:"path"` // empty = embedded default template
}

// S3Config holds AWS S3 settings for company logo storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether logo storage has been configured.
func (s *S3Config) Enabled() bool {
	return s.Bucket != ""
}

// EmailConfig holds invoice email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the INVOGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("extractor.primary.timeout_secs", 60)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 60)

	// Invoice defaults
	v.SetDefault("invoice.default_gst_rate", 18.0)
	v.SetDefault("invoice.range_lower", 100)
	v.SetDefault("invoice.range_upper", 500)

	// Session defaults
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.sweep_interval", "10m")

	// Template defaults
	v.SetDefault("template.path", "")

	// S3 defaults (logo storage disabled unless a bucket is configured)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 5)
	v.SetDefault("s3.presign_expiry", 3600)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@invogen.local")
	v.SetDefault("email.from_name", "Invogen")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "INVOGEN_SERVER_PORT",
		"server.read_timeout":               "INVOGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "INVOGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":                "INVOGEN_SERVER_ENVIRONMENT",
		"log.level":                         "INVOGEN_LOG_LEVEL",
		"log.format":                        "INVOGEN_LOG_FORMAT",
		"extractor.primary.provider":        "INVOGEN_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "INVOGEN_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "INVOGEN_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "INVOGEN_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "INVOGEN_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "INVOGEN_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "INVOGEN_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "INVOGEN_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"invoice.default_gst_rate":          "INVOGEN_INVOICE_DEFAULT_GST_RATE",
		"invoice.range_lower":               "INVOGEN_INVOICE_RANGE_LOWER",
		"invoice.range_upper":               "INVOGEN_INVOICE_RANGE_UPPER",
		"session.ttl":                       "INVOGEN_SESSION_TTL",
		"session.sweep_interval":            "INVOGEN_SESSION_SWEEP_INTERVAL",
		"template.path":                     "INVOGEN_TEMPLATE_PATH",
		"s3.region":                         "INVOGEN_S3_REGION",
		"s3.bucket":                         "INVOGEN_S3_BUCKET",
		"s3.endpoint":                       "INVOGEN_S3_ENDPOINT",
		"s3.access_key":                     "INVOGEN_S3_ACCESS_KEY",
		"s3.secret_key":                     "INVOGEN_S3_SECRET_KEY",
		"s3.max_file_size_mb":               "INVOGEN_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                 "INVOGEN_S3_PRESIGN_EXPIRY",
		"email.provider":                    "INVOGEN_EMAIL_PROVIDER",
		"email.region":                      "INVOGEN_EMAIL_REGION",
		"email.from_address":                "INVOGEN_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "INVOGEN_EMAIL_FROM_NAME",
		"cors.allowed_origins":              "INVOGEN_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if INVOGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}
	cfg.Invoice = InvoiceConfig{
		DefaultGSTRate: v.GetFloat64("invoice.default_gst_rate"),
		RangeLower:     v.GetInt64("invoice.range_lower"),
		RangeUpper:     v.GetInt64("invoice.range_upper"),
	}
	cfg.Session = SessionConfig{
		TTL:           v.GetDuration("session.ttl"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}
	cfg.Template = TemplateConfig{
		Path: v.GetString("template.path"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
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

	return cfg, nil
}
