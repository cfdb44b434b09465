package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	RosterFile      string
	Lang            string
	MetricsTextfile string
	Auth            AuthConfig
	Log             LogConfig
}

type AuthConfig struct {
	BootstrapUsername string
	BootstrapPassword string
	HashScheme        string
	BcryptCost        int
	PasswordPepper    string
	TeacherStateFile  string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

// Load reads the optional env file named by APP_ENV_FILE (default .env)
// and then the process environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := loadEnvFile(getEnv("APP_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		RosterFile:      getEnv("ROSTER_FILE", "students.csv"),
		Lang:            strings.ToLower(getEnv("APP_LANG", "vi")),
		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
		Auth: AuthConfig{
			BootstrapUsername: getEnv("AUTH_BOOTSTRAP_USERNAME", "admin"),
			BootstrapPassword: getEnv("AUTH_BOOTSTRAP_PASSWORD", "12345"),
			HashScheme:        strings.ToLower(getEnv("AUTH_HASH_SCHEME", "sha256")),
			BcryptCost:        getEnvInt("AUTH_BCRYPT_COST", bcrypt.DefaultCost),
			PasswordPepper:    getEnv("AUTH_PASSWORD_PEPPER", ""),
			TeacherStateFile:  getEnv("AUTH_TEACHER_STATE_FILE", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "warn")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	if cfg.RosterFile == "" {
		return Config{}, fmt.Errorf("ROSTER_FILE must not be empty")
	}
	if cfg.Lang != "vi" && cfg.Lang != "en" {
		return Config{}, fmt.Errorf("APP_LANG must be vi or en, got %q", cfg.Lang)
	}
	if cfg.Auth.BootstrapUsername == "" {
		return Config{}, fmt.Errorf("AUTH_BOOTSTRAP_USERNAME must not be empty")
	}
	if cfg.Auth.BootstrapPassword == "" {
		return Config{}, fmt.Errorf("AUTH_BOOTSTRAP_PASSWORD must not be empty")
	}
	if cfg.Auth.HashScheme != "sha256" && cfg.Auth.HashScheme != "bcrypt" {
		return Config{}, fmt.Errorf("AUTH_HASH_SCHEME must be sha256 or bcrypt, got %q", cfg.Auth.HashScheme)
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.Log.Format)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
