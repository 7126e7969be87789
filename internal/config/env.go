package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "root:@tcp(127.0.0.1:3306)/fleet_control?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

type Env struct {
	AppAddr            string
	GinMode            string
	DatabaseDSN        string
	JWTSecret          string
	TokenTTL           time.Duration
	CORSAllowedOrigins []string
	AutoMigrate        bool
	Location           *time.Location
}

// LoadEnv reads .env when present, then the process environment.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] .env not loaded, using process environment")
	}

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if dsn == "" {
		dsn = defaultDSN
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		log.Println("[CONFIG] JWT_SECRET not set, authenticated routes will reject every token")
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(os.Getenv("GIN_MODE")),
		DatabaseDSN:        dsn,
		JWTSecret:          secret,
		TokenTTL:           parseDuration(os.Getenv("JWT_TTL"), 24*time.Hour),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AutoMigrate:        isTrue(os.Getenv("AUTO_MIGRATE")),
		Location:           loadLocation(os.Getenv("APP_TIMEZONE")),
	}
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTrue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[CONFIG] unknown APP_TIMEZONE %q, falling back to Local: %v", name, err)
		return time.Local
	}
	return loc
}

// parseDuration accepts Go duration syntax such as "12h"; bad values fall back.
func parseDuration(raw string, fallback time.Duration) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("[CONFIG] invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return d
}
