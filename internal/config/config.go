package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process-wide settings. Per-user API credentials are stored in
// models.UserSettings; the LLM and job board values here are only defaults.
type Config struct {
	Port           int
	DatabaseDriver string
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	AllowOrigins   []string
	MaxUploadBytes int64

	LLM      LLMConfig
	JobBoard JobBoardConfig
	Export   ExportConfig
}

type LLMConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
}

type JobBoardConfig struct {
	BaseURL string
	Country string
}

// ExportConfig selects where packaged applications are archived. An S3 bucket wins
// over the local directory when both are set.
type ExportConfig struct {
	Dir         string
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

func Default() *Config {
	return &Config{
		Port:           8080,
		DatabaseDriver: "postgres",
		DatabaseURL:    "host=localhost user=postgres password=password dbname=jobtracker port=5432 sslmode=disable",
		LogLevel:       "info",
		LogFormat:      "text",
		AllowOrigins:   []string{"*"},
		MaxUploadBytes: 5 << 20,
		LLM: LLMConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta/openai",
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
		},
		JobBoard: JobBoardConfig{
			BaseURL: "https://api.adzuna.com/v1/api",
			Country: "us",
		},
		Export: ExportConfig{
			Dir:      "exports",
			S3Region: "auto",
		},
	}
}

// Load reads .env (if present) and overlays environment variables on the defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("could not load .env file: %v", err)
	}

	cfg := Default()
	var err error

	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.DatabaseDriver = envStr("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURL = envStr("DATABASE_URL", cfg.DatabaseURL)
	cfg.LogLevel = envStr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envStr("LOG_FORMAT", cfg.LogFormat)
	cfg.AllowOrigins = envList("CORS_ALLOW_ORIGINS", cfg.AllowOrigins)
	if cfg.MaxUploadBytes, err = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes); err != nil {
		return nil, err
	}

	cfg.LLM.BaseURL = envStr("LLM_API_BASE", cfg.LLM.BaseURL)
	cfg.LLM.Model = envStr("LLM_MODEL", cfg.LLM.Model)
	if cfg.LLM.Temperature, err = envFloat("LLM_TEMPERATURE", cfg.LLM.Temperature); err != nil {
		return nil, err
	}

	cfg.JobBoard.BaseURL = envStr("ADZUNA_BASE_URL", cfg.JobBoard.BaseURL)
	cfg.JobBoard.Country = envStr("ADZUNA_COUNTRY", cfg.JobBoard.Country)

	cfg.Export.Dir = envStr("EXPORT_DIR", cfg.Export.Dir)
	cfg.Export.S3Bucket = envStr("EXPORT_S3_BUCKET", cfg.Export.S3Bucket)
	cfg.Export.S3Endpoint = envStr("EXPORT_S3_ENDPOINT", cfg.Export.S3Endpoint)
	cfg.Export.S3Region = envStr("EXPORT_S3_REGION", cfg.Export.S3Region)
	cfg.Export.S3AccessKey = envStr("EXPORT_S3_ACCESS_KEY", cfg.Export.S3AccessKey)
	cfg.Export.S3SecretKey = envStr("EXPORT_S3_SECRET_KEY", cfg.Export.S3SecretKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseDriver != "postgres" && c.DatabaseDriver != "sqlite" {
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.Port <= 0 {
		return fmt.Errorf("port must be positive, got %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	if c.Export.S3Bucket != "" && (c.Export.S3AccessKey == "" || c.Export.S3SecretKey == "") {
		return fmt.Errorf("EXPORT_S3_ACCESS_KEY and EXPORT_S3_SECRET_KEY are required when EXPORT_S3_BUCKET is set")
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
