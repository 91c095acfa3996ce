package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Env struct {
	AppAddr  string
	GinMode  string
	AppEnv   string
	LogLevel string

	StorageDriver string
	DB            DBEnv

	JWTSecret    string
	CORSOrigins  []string
	PageMaxLimit int
}

type DBEnv struct {
	// DSN wins over the individual parts when set.
	DSN      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// LoadEnv reads the process environment after loading an optional .env file
// from the working directory.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()
	return envFrom(os.Getenv)
}

func envFrom(get func(string) string) (Env, error) {
	str := func(key, def string) string {
		if v := strings.TrimSpace(get(key)); v != "" {
			return v
		}
		return def
	}

	env := Env{
		AppAddr:       str("APP_ADDR", ":8080"),
		GinMode:       str("GIN_MODE", ""),
		AppEnv:        str("APP_ENV", "dev"),
		LogLevel:      str("LOG_LEVEL", "info"),
		StorageDriver: strings.ToLower(str("STORAGE_DRIVER", DriverMySQL)),
		DB: DBEnv{
			DSN:      str("DB_DSN", ""),
			Host:     str("DB_HOST", "127.0.0.1"),
			Port:     str("DB_PORT", "3306"),
			User:     str("DB_USER", "root"),
			Password: get("DB_PASSWORD"),
			Name:     str("DB_NAME", "dashboard"),
		},
		JWTSecret: str("JWT_SECRET", ""),
	}

	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			env.CORSOrigins = append(env.CORSOrigins, o)
		}
	}

	env.PageMaxLimit = 100
	if raw := str("PAGE_MAX_LIMIT", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Env{}, fmt.Errorf("PAGE_MAX_LIMIT must be a positive integer, got %q", raw)
		}
		env.PageMaxLimit = n
	}

	switch env.StorageDriver {
	case DriverMySQL, DriverMemory:
	default:
		return Env{}, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMySQL, DriverMemory, env.StorageDriver)
	}
	if env.JWTSecret == "" {
		return Env{}, fmt.Errorf("JWT_SECRET is required")
	}
	return env, nil
}
