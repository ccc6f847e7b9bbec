package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort        string
	AppEnv         string
	LogLevel       string
	LogFormat      string // "console" | "json"
	AllowedOrigins []string
	TrustProxy     bool // honour X-Forwarded-For / X-Real-IP from a fronting proxy

	DBDriver          string // "postgres" | "mysql" | "sqlite"
	DBDSN             string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	MailDriver     string // "smtp" | "sendgrid"
	SMTPHost       string
	SMTPPort       string
	SMTPFrom       string
	SMTPFromName   string
	SMTPUsername   string
	SMTPPassword   string
	SendGridAPIKey string

	JWTSecret     string
	OTPExpiry     time.Duration
	OTPHashCost   int
	SessionExpiry time.Duration

	CookieName     string
	CookieSecure   bool
	LoginPath      string
	ProtectedPaths []string

	ImageStore       string // "s3" | "cloudinary"
	ImageFolder      string
	MaxUploadBytes   int64
	AWSRegion        string
	AWSEndpointURL   string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID   string
	AWSSecretKey     string
	S3BucketName     string
	S3PublicBaseURL  string
	CloudinaryCloud  string
	CloudinaryKey    string
	CloudinarySecret string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         appEnv,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),

		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBDSN:             getEnv("DB_DSN", "root:@tcp(localhost:3306)/schools?parseTime=true"),
		DBMaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 0),

		MailDriver:     getEnv("MAIL_DRIVER", "smtp"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPFrom:       getEnv("SMTP_FROM", ""),
		SMTPFromName:   getEnv("SMTP_FROM_NAME", "School Management System"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		OTPExpiry:     getEnvDuration("OTP_EXPIRY", 10*time.Minute),
		OTPHashCost:   getEnvInt("OTP_HASH_COST", 12),
		SessionExpiry: getEnvDuration("SESSION_EXPIRY", 7*24*time.Hour),

		CookieName:     getEnv("SESSION_COOKIE_NAME", "session"),
		CookieSecure:   getEnvBool("COOKIE_SECURE", appEnv == "production"),
		LoginPath:      getEnv("LOGIN_PATH", "/auth/login"),
		ProtectedPaths: splitList(getEnv("PROTECTED_PATHS", "/add-school")),

		ImageStore:       getEnv("IMAGE_STORE", "s3"),
		ImageFolder:      getEnv("IMAGE_FOLDER", "school-images"),
		MaxUploadBytes:   int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL:   getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID:   getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3BucketName:     getEnv("S3_BUCKET_NAME", "school-images"),
		S3PublicBaseURL:  strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		CloudinaryCloud:  getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinarySecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

// Validate reports configuration that would leave the service unable to run.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	switch c.MailDriver {
	case "smtp", "sendgrid":
	default:
		errs = append(errs, fmt.Errorf("unsupported MAIL_DRIVER %q", c.MailDriver))
	}
	switch c.ImageStore {
	case "s3", "cloudinary":
	default:
		errs = append(errs, fmt.Errorf("unsupported IMAGE_STORE %q", c.ImageStore))
	}
	if c.OTPExpiry <= 0 || c.SessionExpiry <= 0 {
		errs = append(errs, errors.New("OTP_EXPIRY and SESSION_EXPIRY must be positive"))
	}
	return errors.Join(errs...)
}

// MailConfigured reports whether the selected mail relay has credentials.
func (c *Config) MailConfigured() bool {
	if c.MailDriver == "sendgrid" {
		return c.SendGridAPIKey != "" && c.SMTPFrom != ""
	}
	return c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
