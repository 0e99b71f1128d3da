package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	HTTPTimeout time.Duration
	LogLevel    slog.Level

	DatabaseDriver string
	DatabaseURL    string
	DBMaxConns     int
	RedisURL       string

	JWTSecret string
	TokenTTL  time.Duration

	MetaAppID        string
	MetaAppSecret    string
	MetaAccessToken  string
	MetaAPIVersion   string
	MetaBaseURL      string
	MetaRatePerSec   float64
	MetaAccountID    string
	YouTubeAPIKey    string
	YouTubeBaseURL   string
	GoogleCustomerID string
	TikTokAdvertiser string

	AllowedOrigins []string
	PublicBaseURL  string
	SinkURL        string
	SinkSecret     string
}

// Load lee un .env opcional y luego el entorno.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	env := envOr("APP_ENV", "development")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" && env == "development" {
		secret = devJWTSecret
	}
	return Config{
		Env:         env,
		Port:        envOr("PORT", "8080"),
		HTTPTimeout: to,
		LogLevel:    lvl,

		DatabaseDriver: strings.ToLower(envOr("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    envOr("DATABASE_URL", "attributely.db"),
		DBMaxConns:     atoiOr("DB_MAX_CONNS", 10),
		RedisURL:       os.Getenv("REDIS_URL"),

		JWTSecret: secret,
		TokenTTL:  time.Duration(atoiOr("TOKEN_TTL_HOURS", 24)) * time.Hour,

		MetaAppID:        os.Getenv("META_APP_ID"),
		MetaAppSecret:    os.Getenv("META_APP_SECRET"),
		MetaAccessToken:  os.Getenv("META_ACCESS_TOKEN"),
		MetaAPIVersion:   envOr("META_API_VERSION", "v18.0"),
		MetaBaseURL:      strings.TrimRight(envOr("META_BASE_URL", "https://graph.facebook.com"), "/"),
		MetaRatePerSec:   floatOr("META_RATE_PER_SECOND", 5),
		MetaAccountID:    os.Getenv("META_ACCOUNT_ID"),
		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		YouTubeBaseURL:   strings.TrimRight(envOr("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"), "/"),
		GoogleCustomerID: os.Getenv("GOOGLE_CUSTOMER_ID"),
		TikTokAdvertiser: os.Getenv("TIKTOK_ADVERTISER_ID"),

		AllowedOrigins: csv(envOr("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")),
		PublicBaseURL:  strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		SinkURL:        os.Getenv("SINK_URL"),
		SinkSecret:     os.Getenv("SINK_SECRET"),
	}
}

// devJWTSecret solo se usa con APP_ENV=development.
const devJWTSecret = "attributely_pro_secret_2024"

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required outside development")

// Validate rechaza configuraciones con las que el servidor no debe arrancar.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// MetaConfigured exige las tres credenciales de Meta.
func (c Config) MetaConfigured() bool {
	return c.MetaAppID != "" && c.MetaAppSecret != "" && c.MetaAccessToken != ""
}

func (c Config) Development() bool { return c.Env == "development" }

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func floatOr(k string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func csv(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
