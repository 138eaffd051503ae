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
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	LLM    LLMConfig
	CORS   CORSConfig
	Email  EmailConfig
	Rubric RubricConfig
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

// S3Config holds AWS S3 settings for uploaded document storage.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds the extraction backend settings. Models is the ordered
// cascade of backend model identifiers; all share one API key and endpoint.
type LLMConfig struct {
	APIKey             string   `mapstructure:"api_key"`
	Endpoint           string   `mapstructure:"endpoint"`
	Models             []string `mapstructure:"models"`
	TimeoutSecs        int      `mapstructure:"timeout_secs"`
	SummaryTimeoutSecs int      `mapstructure:"summary_timeout_secs"`
	MaxOutputTokens    int      `mapstructure:"max_output_tokens"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds notification delivery settings. ToAddress is the
// recruiting inbox that receives decision notifications.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// RubricConfig points at the scoring rubric document.
type RubricConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from environment variables with the NEFERA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NEFERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "nefera")
	v.SetDefault("db.password", "nefera_secret")
	v.SetDefault("db.name", "nefera_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "nefera-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 5)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults: Groq's OpenAI-compatible endpoint with a three-model cascade.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("llm.models", "llama-3.1-70b-versatile,llama-3.1-8b-instant,mixtral-8x7b-32768")
	v.SetDefault("llm.timeout_secs", 45)
	v.SetDefault("llm.summary_timeout_secs", 18)
	v.SetDefault("llm.max_output_tokens", 1200)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@nefera.ai")
	v.SetDefault("email.from_name", "Nefera AI")
	v.SetDefault("email.to_address", "talent@nefera.ai")

	// Rubric defaults
	v.SetDefault("rubric.path", "configs/rubric.v1.json")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "NEFERA_SERVER_PORT",
		"server.read_timeout":      "NEFERA_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "NEFERA_SERVER_WRITE_TIMEOUT",
		"server.environment":       "NEFERA_SERVER_ENVIRONMENT",
		"db.host":                  "NEFERA_DB_HOST",
		"db.port":                  "NEFERA_DB_PORT",
		"db.user":                  "NEFERA_DB_USER",
		"db.password":              "NEFERA_DB_PASSWORD",
		"db.name":                  "NEFERA_DB_NAME",
		"db.sslmode":               "NEFERA_DB_SSLMODE",
		"db.max_open":              "NEFERA_DB_MAX_OPEN",
		"db.max_idle":              "NEFERA_DB_MAX_IDLE",
		"s3.region":                "NEFERA_S3_REGION",
		"s3.bucket":                "NEFERA_S3_BUCKET",
		"s3.endpoint":              "NEFERA_S3_ENDPOINT",
		"s3.access_key":            "NEFERA_S3_ACCESS_KEY",
		"s3.secret_key":            "NEFERA_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "NEFERA_S3_MAX_FILE_SIZE_MB",
		"log.level":                "NEFERA_LOG_LEVEL",
		"log.format":               "NEFERA_LOG_FORMAT",
		"llm.api_key":              "NEFERA_LLM_API_KEY",
		"llm.endpoint":             "NEFERA_LLM_ENDPOINT",
		"llm.models":               "NEFERA_LLM_MODELS",
		"llm.timeout_secs":         "NEFERA_LLM_TIMEOUT_SECS",
		"llm.summary_timeout_secs": "NEFERA_LLM_SUMMARY_TIMEOUT_SECS",
		"llm.max_output_tokens":    "NEFERA_LLM_MAX_OUTPUT_TOKENS",
		"cors.allowed_origins":     "NEFERA_CORS_ALLOWED_ORIGINS",
		"email.provider":           "NEFERA_EMAIL_PROVIDER",
		"email.region":             "NEFERA_EMAIL_REGION",
		"email.from_address":       "NEFERA_EMAIL_FROM_ADDRESS",
		"email.from_name":          "NEFERA_EMAIL_FROM_NAME",
		"email.to_address":         "NEFERA_EMAIL_TO_ADDRESS",
		"rubric.path":              "NEFERA_RUBRIC_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if NEFERA_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NEFERA_SERVER_PORT") == "" {
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
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.LLM = LLMConfig{
		APIKey:             v.GetString("llm.api_key"),
		Endpoint:           v.GetString("llm.endpoint"),
		Models:             splitCSV(v.GetString("llm.models")),
		TimeoutSecs:        v.GetInt("llm.timeout_secs"),
		SummaryTimeoutSecs: v.GetInt("llm.summary_timeout_secs"),
		MaxOutputTokens:    v.GetInt("llm.max_output_tokens"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ToAddress:   v.GetString("email.to_address"),
	}
	cfg.Rubric = RubricConfig{
		Path: v.GetString("rubric.path"),
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
