package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	// Attachment storage (S3-compatible)
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	Claims ClaimLimits
}

// ClaimLimits carries the business caps enforced by the claim validator.
type ClaimLimits struct {
	MaxHoursPerClaim   int
	MonthlyHoursCap    int
	MaxClaimsPerMonth  int
	MaxAttachmentBytes int64
	AllowedExtensions  []string
	AllowedCategories  []string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/claimhub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		S3Bucket:    getEnv("S3_BUCKET", "claimhub-receipts"),
		S3Region:    getEnv("S3_REGION", "auto"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		Claims:      LoadClaimLimits(),
	}
}

// LoadClaimLimits builds ClaimLimits from environment with the institutional defaults:
// 12 hours per claim, 180 hours per owner per month, 5 claims per month,
// 5 MiB receipts in PDF/DOCX/XLSX.
func LoadClaimLimits() ClaimLimits {
	return ClaimLimits{
		MaxHoursPerClaim:   getEnvInt("MAX_HOURS_PER_CLAIM", 12),
		MonthlyHoursCap:    getEnvInt("MONTHLY_HOURS_CAP", 180),
		MaxClaimsPerMonth:  getEnvInt("MAX_CLAIMS_PER_MONTH", 5),
		MaxAttachmentBytes: getEnvInt64("MAX_ATTACHMENT_BYTES", 5*1024*1024),
		AllowedExtensions:  getEnvList("ALLOWED_EXTENSIONS", []string{".pdf", ".docx", ".xlsx"}),
		AllowedCategories:  getEnvList("ALLOWED_CATEGORIES", []string{"labor", "equipment", "materials"}),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
