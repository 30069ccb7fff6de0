package config // loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration. Each field maps to one
// environment variable; required ones are enforced by must and abort
// startup when missing.
type Config struct {
	Env            string // APP_ENV (dev/test/prod)
	Port           string // APP_PORT, HTTP listen port
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (empty allowed)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	JWTSecret      string // JWT_SECRET, HS256 signing key
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS
	BcryptCost     int    // BCRYPT_COST
	AMQPURL        string // AMQP_URL, empty disables event publishing
}

// Load reads the environment into a Config. Missing required variables
// are fatal; a server with half a configuration should not come up.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
