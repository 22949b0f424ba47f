package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Pipeline PipelineConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// PipelineConfig tunes the extraction and alignment heuristics. The keyword
// and phrase lists are configuration, not code, so new statement dialects can
// be supported without a release.
type PipelineConfig struct {
	ReferencePrefix string   // transaction reference prefix in PDF statements
	CreditKeywords  []string // attached-text keywords that mark incoming funds
	DateMarker      string   // spreadsheet header cell that anchors the header row
	DatePhrases     []string // header phrases mapped to the date column role
	DescPhrases     []string // header phrases mapped to the description role
	AmountPhrases   []string // header phrases mapped to the amount role
	TagPhrases      []string // header phrases mapped to the tag role
	DateStride      int      // references per date-cursor advance (approximate)
	PreviewSize     int      // records shown in a dry run
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			Database: getEnv("POSTGRES_DB", "bankstmt"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Pipeline: PipelineConfig{
			ReferencePrefix: getEnv("STMT_REFERENCE_PREFIX", "FT"),
			CreditKeywords:  getEnvAsList("STMT_CREDIT_KEYWORDS", defaultCreditKeywords),
			DateMarker:      getEnv("SHEET_DATE_MARKER", "ngày"),
			DatePhrases:     getEnvAsList("SHEET_DATE_PHRASES", defaultDatePhrases),
			DescPhrases:     getEnvAsList("SHEET_DESC_PHRASES", defaultDescPhrases),
			AmountPhrases:   getEnvAsList("SHEET_AMOUNT_PHRASES", defaultAmountPhrases),
			TagPhrases:      getEnvAsList("SHEET_TAG_PHRASES", defaultTagPhrases),
			DateStride:      getEnvAsInt("STMT_DATE_STRIDE", 3),
			PreviewSize:     getEnvAsInt("IMPORT_PREVIEW_SIZE", 20),
		},
	}

	if cfg.Pipeline.DateStride < 1 {
		return nil, fmt.Errorf("STMT_DATE_STRIDE must be >= 1")
	}

	return cfg, nil
}

var (
	defaultCreditKeywords = []string{"nhan", "receipt", "interest", "yield", "lai nhap von", "hoan tien"}
	defaultDatePhrases    = []string{"ngày", "ngay", "date"}
	defaultDescPhrases    = []string{"nội dung", "noi dung", "diễn giải", "description", "mô tả"}
	defaultAmountPhrases  = []string{"số tiền", "so tien", "amount", "thành tiền"}
	defaultTagPhrases     = []string{"phân loại", "phan loai", "tag", "nhãn", "loại"}
)

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
