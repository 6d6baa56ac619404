package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Addr           string
	DBPath         string
	Realm          string
	BcryptCost     int
	StrictNotFound bool
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

func Load() Config {
	addr := envString("MICROBLOG_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	return Config{
		Addr:           addr,
		DBPath:         envString("MICROBLOG_DB", "microblog.db"),
		Realm:          envString("MICROBLOG_REALM", "Microblog"),
		BcryptCost:     envInt("MICROBLOG_BCRYPT_COST", bcrypt.DefaultCost),
		StrictNotFound: envBool("MICROBLOG_STRICT_404", false),
		ReadTimeout:    envDuration("MICROBLOG_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:   envDuration("MICROBLOG_WRITE_TIMEOUT", 10*time.Second),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
