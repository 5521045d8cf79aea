package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"order-report-services/internal/analytics"

	"github.com/shopspring/decimal"
)

const (
	DataSourcePostgres = "postgres"
	DataSourceMongo    = "mongo"
)

type Config struct {
	Env                string
	HTTPAddr           string
	LogLevel           string
	CorsAllowedOrigins []string

	DataSource         string
	Branches           []string
	DefaultBranch      string
	BranchURLs         map[string]string
	OrdersTable        string
	MongoDatabase      string
	MongoCollection    string
	SourceQueryTimeout time.Duration

	DefaultPercent string
	BonusPercent   string
	ExcludedStaff  []string
	ReportTimezone string

	RabbitMQURL          string
	ReportEventsExchange string
}

func Load() Config {
	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8043"),
		LogLevel:           getEnv("LOG_LEVEL", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),

		DataSource:         strings.ToLower(getEnv("DATA_SOURCE", DataSourcePostgres)),
		Branches:           splitCSV(getEnv("BRANCHES", "branch1")),
		OrdersTable:        getEnv("ORDERS_TABLE", "orders"),
		MongoDatabase:      getEnv("MONGO_DATABASE", ""),
		MongoCollection:    getEnv("MONGO_COLLECTION", "global_orders"),
		SourceQueryTimeout: getEnvDuration("SOURCE_QUERY_TIMEOUT", 20*time.Second),

		DefaultPercent: getEnv("REPORT_DEFAULT_PERCENT", "10"),
		BonusPercent:   getEnv("REPORT_BONUS_PERCENT", "7"),
		ExcludedStaff:  splitCSV(getEnv("REPORT_EXCLUDED_STAFF", "saboy,saboiy,delivery,dostavka,takeaway,samovyvoz")),
		ReportTimezone: getEnv("REPORT_TIMEZONE", "UTC"),

		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		ReportEventsExchange: getEnv("REPORT_EVENTS_EXCHANGE", "reports.events"),
	}

	if len(cfg.Branches) == 0 {
		cfg.Branches = []string{"branch1"}
	}
	cfg.DefaultBranch = getEnv("DEFAULT_BRANCH", cfg.Branches[0])
	if cfg.SourceQueryTimeout <= 0 {
		cfg.SourceQueryTimeout = 20 * time.Second
	}

	cfg.BranchURLs = make(map[string]string, len(cfg.Branches))
	for _, branch := range cfg.Branches {
		suffix := envSuffix(branch)
		keys := []string{"DATABASE_URL_" + suffix, "MONGO_URI_" + suffix}
		if branch == cfg.DefaultBranch {
			// Single-branch deployments usually only set the plain URL.
			keys = append(keys, "DATABASE_URL", "MONGO_URI")
		}
		if url := getEnvFirst(keys, ""); url != "" {
			cfg.BranchURLs[branch] = url
		}
	}

	return cfg
}

// ReportRules parses the compensation settings into engine rules.
func (c Config) ReportRules() (analytics.Rules, error) {
	defaultPercent, err := decimal.NewFromString(c.DefaultPercent)
	if err != nil || !defaultPercent.IsPositive() {
		return analytics.Rules{}, fmt.Errorf("REPORT_DEFAULT_PERCENT must be a positive number, got %q", c.DefaultPercent)
	}
	bonusPercent, err := decimal.NewFromString(c.BonusPercent)
	if err != nil || bonusPercent.IsNegative() {
		return analytics.Rules{}, fmt.Errorf("REPORT_BONUS_PERCENT must be a non-negative number, got %q", c.BonusPercent)
	}
	return analytics.NewRules(defaultPercent, bonusPercent, c.ExcludedStaff), nil
}

// envSuffix maps a branch key such as "main-hall" to "MAIN_HALL".
func envSuffix(branch string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(branch)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return b.String()
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvFirst(keys []string, fallback string) string {
	for _, k := range keys {
		value := strings.TrimSpace(os.Getenv(k))
		if value != "" {
			return value
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
