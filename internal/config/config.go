package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	// LocalStorageDir is where PDFs land when blob storage is unreachable.
	// Only used when AppEnv == "development".
	LocalStorageDir string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string
	CompanyEmail string

	SNSRegion   string
	SNSTopicARN string

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiryHours    int

	AdminUsername     string
	AdminPasswordHash string // bcrypt hash

	OTPLength            int
	OTPExpiryMinutes     int
	MaxVerifyAttempts    int
	MaxPendingPerEmail   int
	CaptchaExpiryMinutes int
	SessionTTLHours      int

	ClientCertHeader string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Submissions string
	Libraries   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Submissions: getEnv("DYNAMO_TABLE_SUBMISSIONS", "form_submissions"),
			Libraries:   getEnv("DYNAMO_TABLE_LIBRARIES", "external_libraries"),
		},
		S3BucketName:    getEnv("S3_BUCKET_NAME", "accommodation-forms"),
		LocalStorageDir: getEnv("LOCAL_STORAGE_DIR", "./generated_pdfs"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Accommodation Applications"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		CompanyEmail: getEnv("COMPANY_EMAIL", "applications@example.com"),

		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiryHours:    getEnvInt("JWT_EXPIRY_HOURS", 8),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		OTPLength:            getEnvInt("OTP_LENGTH", 6),
		OTPExpiryMinutes:     getEnvInt("OTP_EXPIRY_MINUTES", 10),
		MaxVerifyAttempts:    getEnvInt("MAX_VERIFY_ATTEMPTS", 5),
		MaxPendingPerEmail:   getEnvInt("MAX_PENDING_PER_EMAIL", 3),
		CaptchaExpiryMinutes: getEnvInt("CAPTCHA_EXPIRY_MINUTES", 5),
		SessionTTLHours:      getEnvInt("SESSION_TTL_HOURS", 2),

		ClientCertHeader: getEnv("CLIENT_CERT_HEADER", "X-Client-Cert"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsDevelopment reports whether the app runs in development mode. It gates
// the local-filesystem PDF fallback and verbose validation errors.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
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
