package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from environment variables
// Provide sane defaults for local development.
type Config struct {
	AppName    string
	AppBaseURL string
	Env        string // development, staging, production
	Port       string
	GinMode    string
	LogLevel   string

	// Database
	DatabaseURL    string // takes precedence over the DB_* parts when set
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBMaxConns     int32
	DBMinConns     int32
	DBMaxConnLife  time.Duration
	MigrateOnStart bool

	// Redis, empty addr disables sessions, stats cache and rate limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StatsCacheTTL       time.Duration
	RateLimitPerMin     int
	AuthRateLimitPerMin int

	// Media storage
	MediaDriver        string // gcs, minio, s3
	MediaBucket        string
	MediaPublicBaseURL string
	MediaUploadTimeout time.Duration
	MediaUploadRetries int
	MaxUploadMB        int64
	GCSCredentialsPath string // optional; if empty, Application Default Credentials are used
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioUseSSL        bool
	S3Endpoint         string
	S3Region           string
	S3AccessKey        string
	S3SecretKey        string

	// JWT
	JWTAccessSecret  string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	// Cookies
	CookieDomain string
	CookieSecure bool

	// CORS
	CORSOrigin string // comma-separated

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ, empty url disables domain events
	RabbitMQURL    string
	EventsExchange string
	NotifyQueue    string

	// Elasticsearch, empty addrs disables the search index
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESVideoIndex       string

	// Debug metrics (/api/v1/debug/vars)
	DebugMetricsEnabled bool

	// HTTP access log toggle
	HTTPLogEnabled bool
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:    getenv("APP_NAME", "vidtube"),
		AppBaseURL: getenv("APP_BASE_URL", "http://localhost:8080"),
		Env:        getenv("APP_ENV", "development"),
		Port:       getenv("PORT", "8080"),
		GinMode:    getenv("GIN_MODE", "release"),
		LogLevel:   getenv("LOG_LEVEL", ""),

		DatabaseURL:    getenv("DATABASE_URL", ""),
		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPassword:     getenv("DB_PASSWORD", "postgres"),
		DBName:         getenv("DB_NAME", "vidtube"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		DBMaxConns:     int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:     int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife:  getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrateOnStart: getbool("MIGRATE_ON_START", true),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		StatsCacheTTL:       getdur("STATS_CACHE_TTL", 30*time.Second),
		RateLimitPerMin:     getint("RATE_LIMIT_PER_MIN", 60),
		AuthRateLimitPerMin: getint("AUTH_RATE_LIMIT_PER_MIN", 10),

		MediaDriver:        strings.ToLower(getenv("MEDIA_DRIVER", "gcs")),
		MediaBucket:        getenv("MEDIA_BUCKET", ""),
		MediaPublicBaseURL: getenv("MEDIA_PUBLIC_BASE_URL", ""),
		MediaUploadTimeout: getdur("MEDIA_UPLOAD_TIMEOUT", 2*time.Minute),
		MediaUploadRetries: getint("MEDIA_UPLOAD_RETRIES", 3),
		MaxUploadMB:        int64(getint("MAX_UPLOAD_MB", 200)),
		GCSCredentialsPath: getenv("GCS_CREDENTIALS_FILE", ""),
		MinioEndpoint:      getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getenv("MINIO_SECRET_KEY", ""),
		MinioUseSSL:        getbool("MINIO_USE_SSL", false),
		S3Endpoint:         getenv("S3_ENDPOINT", ""),
		S3Region:           getenv("S3_REGION", "auto"),
		S3AccessKey:        getenv("S3_ACCESS_KEY", ""),
		S3SecretKey:        getenv("S3_SECRET_KEY", ""),

		JWTAccessSecret:  getenv("JWT_ACCESS_SECRET", "devaccesssecret"),
		JWTRefreshSecret: getenv("JWT_REFRESH_SECRET", "devrefreshsecret"),
		AccessTTL:        getdur("JWT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:       getdur("JWT_REFRESH_TTL", 168*time.Hour),

		CookieDomain: getenv("COOKIE_DOMAIN", "localhost"),
		CookieSecure: getbool("COOKIE_SECURE", false),

		CORSOrigin: getenv("CORS_ORIGIN", DefaultCORSOrigin),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:    getenv("RABBITMQ_URL", ""),
		EventsExchange: getenv("EVENTS_EXCHANGE", "vidtube.events"),
		NotifyQueue:    getenv("NOTIFY_QUEUE", "vidtube.notifications"),

		ElasticsearchAddrs: getenv("ES_ADDRS", ""),
		ElasticsearchUser:  getenv("ES_USERNAME", ""),
		ElasticsearchPass:  getenv("ES_PASSWORD", ""),
		ESVideoIndex:       getenv("ES_VIDEO_INDEX", "videos"),

		DebugMetricsEnabled: getbool("APP_DEBUG", false),
		HTTPLogEnabled:      getbool("HTTP_LOG_ENABLED", true),
	}
}

// PostgresDSN returns a DSN compatible with pgx
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// DefaultCORSOrigin is allowed when CORS_ORIGIN lists nothing. The CORS
// middleware refuses an empty origin list when credentials are allowed.
const DefaultCORSOrigin = "http://localhost:3000"

// CORSOrigins returns the allowed origins as slice, never empty.
func (c *Config) CORSOrigins() []string {
	if origins := splitList(c.CORSOrigin); len(origins) > 0 {
		return origins
	}
	return []string{DefaultCORSOrigin}
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

// MaxUploadBytes is the multipart body limit.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
