// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the backend. Values come from the
// environment (optionally via a .env file loaded by the caller).
type Config struct {
	Env            string        // "production" switches gin to release mode
	Port           string        // HTTP listen port
	MongoURI       string        // MongoDB connection string
	DatabaseName   string        // MongoDB database name
	JWTSecret      string        // secret used to sign access tokens
	TokenTTL       time.Duration // access token lifetime
	AllowedOrigins []string      // CORS origins
	NATSPort       int           // embedded NATS port for the audit bus
	AuditDisabled  bool          // disables the audit bus entirely
	SeedAdminUser  string        // optional bootstrap admin username
	SeedAdminPass  string        // optional bootstrap admin password
}

// Load reads configuration from the environment. Everything has a
// development default; JWTSecret may be empty, which only matters for
// processes that issue or verify tokens.
func Load() Config {
	return Config{
		Env:            os.Getenv("ENV"),
		Port:           getenv("PORT", "8000"),
		MongoURI:       getenv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName:   getenv("DATABASE_NAME", "sih_mcb_testing"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       time.Duration(getenvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
		NATSPort:       getenvInt("NATS_PORT", 4222),
		AuditDisabled:  os.Getenv("AUDIT_DISABLED") == "1",
		SeedAdminUser:  os.Getenv("SEED_ADMIN_USERNAME"),
		SeedAdminPass:  os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// LoadServer is Load for the API server: a missing JWT_SECRET is a fatal
// startup error because the server signs tokens with it.
func LoadServer() Config {
	cfg := Load()
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET is not set; refusing to start with an unsigned token key")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func splitOrigins(s string) []string {
	if s == "" {
		return []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
		}
	}
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
