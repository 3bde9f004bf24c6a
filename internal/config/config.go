package config

import (
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the report archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	TimeoutSec int
}

// UpstreamConfig points at the invoice API the digest aggregator reads from.
// By default this is the service itself; the URL is overridable for split
// deployments where another instance owns the invoice store.
type UpstreamConfig struct {
	BaseURL    string
	TimeoutSec int
}

// RegistryConfig holds GST registry verification provider settings.
// An empty APIKey disables live verification; checks then report
// success:false with a configuration error.
type RegistryConfig struct {
	URL        string
	APIKey     string
	APIHost    string
	TimeoutSec int
}

// SchedulerConfig holds the recipient list and the cron expression for
// each named trigger. Times are interpreted in Timezone.
type SchedulerConfig struct {
	Enabled        bool
	Timezone       string
	Recipients     []string
	DailyReportAt  string
	DailyDigestAt  string
	WeeklyReportAt string
}

// EngineConfig holds validation engine thresholds.
type EngineConfig struct {
	PriceVariancePct   float64
	ArithmeticSlackPct float64
	MLConfidenceFloor  float64
	DigestTopVendors   int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	MetricsPort string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	SMTP        SMTPConfig
	Upstream    UpstreamConfig
	Registry    RegistryConfig
	Scheduler   SchedulerConfig
	Engine      EngineConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	port := getEnv("PORT", "8080")
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:"+port),
		Port:        port,
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "report-archive"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvInt("SMTP_PORT", 587),
			User:       getEnv("SMTP_USER", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("SMTP_FROM", ""),
			FromName:   getEnv("SMTP_FROM_NAME", "Fintel Compliance"),
			TimeoutSec: getEnvInt("SMTP_TIMEOUT_SEC", 15),
		},
		Upstream: UpstreamConfig{
			BaseURL:    getEnv("UPSTREAM_BASE_URL", "http://localhost:"+port),
			TimeoutSec: getEnvInt("UPSTREAM_TIMEOUT_SEC", 10),
		},
		Registry: RegistryConfig{
			URL:        getEnv("GST_REGISTRY_URL", "https://gst-insights.p.rapidapi.com/gstinsights"),
			APIKey:     getEnv("GST_REGISTRY_API_KEY", ""),
			APIHost:    getEnv("GST_REGISTRY_API_HOST", "gst-insights.p.rapidapi.com"),
			TimeoutSec: getEnvInt("GST_REGISTRY_TIMEOUT_SEC", 10),
		},
		Scheduler: SchedulerConfig{
			Enabled:        getEnvBool("SCHEDULER_ENABLED", true),
			Timezone:       getEnv("SCHEDULER_TIMEZONE", "Asia/Kolkata"),
			Recipients:     getEnvList("REPORT_RECIPIENTS", nil),
			DailyReportAt:  getEnv("SCHEDULE_DAILY_REPORT", "0 9 * * *"),
			DailyDigestAt:  getEnv("SCHEDULE_DAILY_DIGEST", "0 18 * * *"),
			WeeklyReportAt: getEnv("SCHEDULE_WEEKLY_REPORT", "0 10 * * 1"),
		},
		Engine: EngineConfig{
			PriceVariancePct:   getEnvFloat("ENGINE_PRICE_VARIANCE_PCT", 20),
			ArithmeticSlackPct: getEnvFloat("ENGINE_ARITHMETIC_SLACK_PCT", 0.5),
			MLConfidenceFloor:  getEnvFloat("ENGINE_ML_CONFIDENCE_FLOOR", 0.5),
			DigestTopVendors:   getEnvInt("ENGINE_DIGEST_TOP_VENDORS", 5),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

// getEnvList parses a comma-separated value, trimming whitespace and
// dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
