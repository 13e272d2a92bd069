package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Database
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BindTokenTTL    time.Duration

	// Region and credentials
	DefaultRegion string
	BcryptCost    int

	// Verification codes
	CodeLength      int
	CodeTTL         time.Duration
	CodeMaxAttempts int
	CodeIssueWindow time.Duration

	// Password reset
	ResetTokenTTL time.Duration

	// Lockout
	LockoutThreshold int
	LockoutWindow    time.Duration
	LockoutDuration  time.Duration

	// Web
	AppBaseURL string

	RateLimit       RateLimitConfig
	SecurityHeaders SecurityHeadersConfig
	Validation      ValidationConfig
	SMTP            SMTPConfig
	SMS             SMSConfig
}

// RateLimitConfig holds per-group IP rate limit settings.
type RateLimitConfig struct {
	Enabled bool

	AuthRequestsPerMinute int
	AuthWindowMinutes     int

	CodeRequestsPerWindow int
	CodeWindowMinutes     int

	ResetRequestsPerWindow int
	ResetWindowMinutes     int

	RefreshRequestsPerMinute int
	RefreshWindowMinutes     int
}

// SecurityHeadersConfig holds security header settings.
type SecurityHeadersConfig struct {
	Enabled            bool
	CSP                string
	HSTSMaxAge         int
	FrameOptions       string
	ContentTypeOptions string
	ReferrerPolicy     string
}

// ValidationConfig holds request validation settings.
type ValidationConfig struct {
	MaxRequestBodySize int64
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// SMSConfig holds SMS gateway settings.
type SMSConfig struct {
	Enabled   bool
	AccessKey string
	SecretKey string
	SignName  string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "smartrecipe_auth"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT defaults
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "smartrecipe-auth"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		BindTokenTTL:    getEnvDuration("BIND_TOKEN_TTL", 10*time.Minute),

		DefaultRegion: getEnv("DEFAULT_REGION", "us"),
		BcryptCost:    getEnvInt("BCRYPT_COST", 0), // 0 selects the bcrypt default

		// Verification code defaults
		CodeLength:      getEnvInt("CODE_LENGTH", 6),
		CodeTTL:         getEnvDuration("CODE_TTL", 10*time.Minute),
		CodeMaxAttempts: getEnvInt("CODE_MAX_ATTEMPTS", 3),
		CodeIssueWindow: getEnvDuration("CODE_ISSUE_WINDOW", 60*time.Second),

		ResetTokenTTL: getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute),

		// Lockout defaults
		LockoutThreshold: getEnvInt("LOCKOUT_THRESHOLD", 5),
		LockoutWindow:    getEnvDuration("LOCKOUT_WINDOW", time.Hour),
		LockoutDuration:  getEnvDuration("LOCKOUT_DURATION", time.Hour),

		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),

		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", true),

			AuthRequestsPerMinute: getEnvInt("RATE_LIMIT_AUTH_REQUESTS", 10),
			AuthWindowMinutes:     getEnvInt("RATE_LIMIT_AUTH_WINDOW_MINUTES", 1),

			CodeRequestsPerWindow: getEnvInt("RATE_LIMIT_CODE_REQUESTS", 5),
			CodeWindowMinutes:     getEnvInt("RATE_LIMIT_CODE_WINDOW_MINUTES", 5),

			ResetRequestsPerWindow: getEnvInt("RATE_LIMIT_RESET_REQUESTS", 5),
			ResetWindowMinutes:     getEnvInt("RATE_LIMIT_RESET_WINDOW_MINUTES", 15),

			RefreshRequestsPerMinute: getEnvInt("RATE_LIMIT_REFRESH_REQUESTS", 30),
			RefreshWindowMinutes:     getEnvInt("RATE_LIMIT_REFRESH_WINDOW_MINUTES", 1),
		},

		SecurityHeaders: SecurityHeadersConfig{
			Enabled:            getEnvBool("SECURITY_HEADERS_ENABLED", true),
			CSP:                getEnv("SECURITY_CSP", "default-src 'none'; frame-ancestors 'none'"),
			HSTSMaxAge:         getEnvInt("SECURITY_HSTS_MAX_AGE", 31536000),
			FrameOptions:       getEnv("SECURITY_FRAME_OPTIONS", "DENY"),
			ContentTypeOptions: getEnv("SECURITY_CONTENT_TYPE_OPTIONS", "nosniff"),
			ReferrerPolicy:     getEnv("SECURITY_REFERRER_POLICY", "no-referrer"),
		},

		Validation: ValidationConfig{
			MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 1<<20),
		},

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@smartrecipe.app"),
			FromName: getEnv("SMTP_FROM_NAME", "Smart Recipe"),
		},

		SMS: SMSConfig{
			Enabled:   getEnvBool("SMS_ENABLED", false),
			AccessKey: getEnv("SMS_ACCESS_KEY", ""),
			SecretKey: getEnv("SMS_SECRET_KEY", ""),
			SignName:  getEnv("SMS_SIGN_NAME", ""),
		},
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DefaultRegion != "china" && cfg.DefaultRegion != "us" {
		return nil, fmt.Errorf("DEFAULT_REGION must be china or us, got %q", cfg.DefaultRegion)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
