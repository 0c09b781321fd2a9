package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Documents DocumentsConfig
	Email     EmailConfig
	CORS      CORSConfig
	Log       LogConfig
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for the document archive.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// DocumentsConfig holds settings for the post-persist document pipeline.
type DocumentsConfig struct {
	// RenderTimeout bounds one render+archive pass; past it the side effect
	// is treated as failed (non-fatal).
	RenderTimeout time.Duration `mapstructure:"render_timeout"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// EmailConfig holds email delivery settings for user invites.
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

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FAKTURA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAKTURA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "faktura")
	v.SetDefault("db.password", "faktura_secret")
	v.SetDefault("db.name", "faktura_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "faktura")

	// S3 defaults
	v.SetDefault("s3.region", "eu-west-1")
	v.SetDefault("s3.bucket", "faktura-documents")
	v.SetDefault("s3.endpoint", "")

	// Document pipeline defaults
	v.SetDefault("documents.render_timeout", "30s")
	v.SetDefault("documents.presign_expiry", "1h")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-1")
	v.SetDefault("email.from_address", "noreply@faktura.local")
	v.SetDefault("email.from_name", "Faktura")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "FAKTURA_SERVER_PORT",
		"server.read_timeout":      "FAKTURA_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "FAKTURA_SERVER_WRITE_TIMEOUT",
		"server.environment":       "FAKTURA_SERVER_ENVIRONMENT",
		"db.host":                  "FAKTURA_DB_HOST",
		"db.port":                  "FAKTURA_DB_PORT",
		"db.user":                  "FAKTURA_DB_USER",
		"db.password":              "FAKTURA_DB_PASSWORD",
		"db.name":                  "FAKTURA_DB_NAME",
		"db.sslmode":               "FAKTURA_DB_SSLMODE",
		"db.max_open":              "FAKTURA_DB_MAX_OPEN",
		"db.max_idle":              "FAKTURA_DB_MAX_IDLE",
		"jwt.secret":               "FAKTURA_JWT_SECRET",
		"jwt.access_expiry":        "FAKTURA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "FAKTURA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "FAKTURA_JWT_ISSUER",
		"s3.region":                "FAKTURA_S3_REGION",
		"s3.bucket":                "FAKTURA_S3_BUCKET",
		"s3.endpoint":              "FAKTURA_S3_ENDPOINT",
		"s3.access_key":            "FAKTURA_S3_ACCESS_KEY",
		"s3.secret_key":            "FAKTURA_S3_SECRET_KEY",
		"documents.render_timeout": "FAKTURA_DOCUMENTS_RENDER_TIMEOUT",
		"documents.presign_expiry": "FAKTURA_DOCUMENTS_PRESIGN_EXPIRY",
		"email.provider":           "FAKTURA_EMAIL_PROVIDER",
		"email.region":             "FAKTURA_EMAIL_REGION",
		"email.from_address":       "FAKTURA_EMAIL_FROM_ADDRESS",
		"email.from_name":          "FAKTURA_EMAIL_FROM_NAME",
		"cors.allowed_origins":     "FAKTURA_CORS_ALLOWED_ORIGINS",
		"log.level":                "FAKTURA_LOG_LEVEL",
		"log.format":               "FAKTURA_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FAKTURA_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FAKTURA_SERVER_PORT") == "" {
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
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Documents = DocumentsConfig{
		RenderTimeout: v.GetDuration("documents.render_timeout"),
		PresignExpiry: v.GetDuration("documents.presign_expiry"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
