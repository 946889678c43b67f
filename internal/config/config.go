package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver   string // mysql | postgres
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPass     string
	DBLogLevel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	IdempTTLSecs int
	JWTSecret    string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	// OAuth2 for the mailbox; when ClientID is empty SMTPPassword is used.
	OAuthTenantID     string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRefreshToken string
	OAuthTokenURL     string

	AllowTierSkip       bool
	MissionCEOThreshold decimal.Decimal
	HRManagerID         uint64
	EmployeeCacheTTL    time.Duration
	AttendanceZone      string
	BadgeBlockThreshold uint64
	BadgeBlockModulo    uint64
	LunchThresholdHours decimal.Decimal
	LunchDeductionHours decimal.Decimal
	MonthlyCapHours     decimal.Decimal
	LateAfter           time.Duration
	DeviceTimeout       time.Duration
	DeviceRetries       int
	SyncInterval        time.Duration
	SyncConcurrency     int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// parse helpers keep the default on a malformed value; Validate catches the rest.
func getint(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func getuint(k string, d uint64) uint64 {
	if n, err := strconv.ParseUint(os.Getenv(k), 10, 64); err == nil {
		return n
	}
	return d
}

func getbool(k string, d bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return d
}

func getdur(k string, d time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return v
	}
	return d
}

func getdec(k string, d string) decimal.Decimal {
	if v, err := decimal.NewFromString(os.Getenv(k)); err == nil {
		return v
	}
	return decimal.RequireFromString(d)
}

// LoadDotEnv reads files (default .env) into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() *Config {
	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "mysql")),
		DBHost:     getenv("DB_HOST", "mysql"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBName:     getenv("DB_NAME", "hrflow"),
		DBUser:     getenv("DB_USER", "hrflow"),
		DBPass:     getenv("DB_PASS", "hrflow"),
		DBLogLevel: getenv("DB_LOG_LEVEL", "warn"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),
		JWTSecret:    os.Getenv("JWT_SECRET"),

		SMTPHost:          getenv("SMTP_HOST", "smtp.office365.com"),
		SMTPPort:          getint("SMTP_PORT", 587),
		SMTPUser:          os.Getenv("SMTP_USER"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:          getenv("MAIL_FROM", os.Getenv("SMTP_USER")),
		OAuthTenantID:     os.Getenv("AZURE_TENANT_ID"),
		OAuthClientID:     os.Getenv("AZURE_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
		OAuthRefreshToken: os.Getenv("AZURE_REFRESH_TOKEN"),
		OAuthTokenURL:     os.Getenv("OAUTH_TOKEN_URL"),

		AllowTierSkip:       getbool("ALLOW_TIER_SKIP_BY_HIGHER_APPROVER", false),
		MissionCEOThreshold: getdec("MISSION_CEO_BUDGET_THRESHOLD", "0"),
		HRManagerID:         getuint("HR_MANAGER_ID", 0),
		EmployeeCacheTTL:    getdur("EMPLOYEE_CACHE_TTL", 5*time.Minute),
		AttendanceZone:      getenv("ATTENDANCE_TIMEZONE", "Africa/Tunis"),
		BadgeBlockThreshold: getuint("BADGE_BLOCK_THRESHOLD", 40000),
		BadgeBlockModulo:    getuint("BADGE_BLOCK_MODULO", 10000),
		LunchThresholdHours: getdec("LUNCH_THRESHOLD_HOURS", "9"),
		LunchDeductionHours: getdec("LUNCH_DEDUCTION_HOURS", "1"),
		MonthlyCapHours:     getdec("MONTHLY_CAP_HOURS", "173.33"),
		LateAfter:           getdur("LATE_AFTER", 8*time.Hour+30*time.Minute),
		DeviceTimeout:       getdur("DEVICE_TIMEOUT", 30*time.Second),
		DeviceRetries:       getint("DEVICE_RETRIES", 2),
		SyncInterval:        getdur("DEVICE_SYNC_INTERVAL", 0),
		SyncConcurrency:     getint("DEVICE_SYNC_CONCURRENCY", 4),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.DBDriver != "mysql" && c.DBDriver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	if c.DBHost == "" || c.DBPort == "" || c.DBName == "" || c.DBUser == "" {
		return errors.New("missing database config (DB_HOST/PORT/NAME/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
		return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if c.OAuthClientID != "" && c.OAuthRefreshToken == "" {
		return errors.New("AZURE_REFRESH_TOKEN is required with AZURE_CLIENT_ID")
	}
	if _, err := time.LoadLocation(c.AttendanceZone); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE %q: %w", c.AttendanceZone, err)
	}
	if c.BadgeBlockModulo == 0 || c.BadgeBlockThreshold < c.BadgeBlockModulo {
		return errors.New("BADGE_BLOCK_THRESHOLD must be at least BADGE_BLOCK_MODULO, which must be positive")
	}
	if c.LunchDeductionHours.IsNegative() || !c.MonthlyCapHours.IsPositive() {
		return errors.New("lunch deduction must not be negative and the monthly cap must be positive")
	}
	if c.DeviceTimeout <= 0 || c.SyncConcurrency <= 0 || c.DeviceRetries < 0 {
		return errors.New("device timeout and sync concurrency must be positive")
	}
	return nil
}

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DBHost, c.DBPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps punch instants in UTC
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.DBUser, c.DBPass, c.dbAddr(), c.DBName)
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.dbAddr(),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable&TimeZone=UTC",
	}
	return u.String()
}

// DSN returns the connection string for DBDriver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }
