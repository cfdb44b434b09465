package config

import (
	"os"
	"path/filepath"
	"testing"
)

var allKeys = []string{
	"APP_ENV_FILE",
	"ROSTER_FILE",
	"APP_LANG",
	"METRICS_TEXTFILE",
	"AUTH_BOOTSTRAP_USERNAME",
	"AUTH_BOOTSTRAP_PASSWORD",
	"AUTH_HASH_SCHEME",
	"AUTH_BCRYPT_COST",
	"AUTH_PASSWORD_PEPPER",
	"AUTH_TEACHER_STATE_FILE",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
	// keep a stray .env in the package dir from leaking into tests
	t.Setenv("APP_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.RosterFile != "students.csv" {
		t.Fatalf("expected default roster file students.csv, got %q", cfg.RosterFile)
	}
	if cfg.Lang != "vi" {
		t.Fatalf("expected default lang vi, got %q", cfg.Lang)
	}
	if cfg.MetricsTextfile != "" {
		t.Fatalf("expected metrics textfile disabled, got %q", cfg.MetricsTextfile)
	}
	if cfg.Auth.BootstrapUsername != "admin" {
		t.Fatalf("expected default bootstrap username admin, got %q", cfg.Auth.BootstrapUsername)
	}
	if cfg.Auth.BootstrapPassword != "12345" {
		t.Fatalf("expected default bootstrap password 12345, got %q", cfg.Auth.BootstrapPassword)
	}
	if cfg.Auth.HashScheme != "sha256" {
		t.Fatalf("expected default hash scheme sha256, got %q", cfg.Auth.HashScheme)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.PasswordPepper != "" {
		t.Fatalf("expected empty pepper, got %q", cfg.Auth.PasswordPepper)
	}
	if cfg.Auth.TeacherStateFile != "" {
		t.Fatalf("expected teachers to be memory-only by default, got %q", cfg.Auth.TeacherStateFile)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Format != "text" || cfg.Log.File != "" {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROSTER_FILE", "/tmp/class-a.csv")
	t.Setenv("APP_LANG", "EN")
	t.Setenv("AUTH_HASH_SCHEME", "bcrypt")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("AUTH_TEACHER_STATE_FILE", "./data/teachers.json")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.RosterFile != "/tmp/class-a.csv" {
		t.Fatalf("unexpected roster file %q", cfg.RosterFile)
	}
	if cfg.Lang != "en" {
		t.Fatalf("expected lang en, got %q", cfg.Lang)
	}
	if cfg.Auth.HashScheme != "bcrypt" || cfg.Auth.BcryptCost != 12 {
		t.Fatalf("unexpected auth config %+v", cfg.Auth)
	}
	if cfg.Auth.TeacherStateFile != "./data/teachers.json" {
		t.Fatalf("unexpected teacher state file %q", cfg.Auth.TeacherStateFile)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"APP_LANG":         "fr",
		"AUTH_HASH_SCHEME": "md5",
		"AUTH_BCRYPT_COST": "99",
		"LOG_LEVEL":        "verbose",
		"LOG_FORMAT":       "xml",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTH_BCRYPT_COST", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("expected fallback bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "ROSTER_FILE=from-file.csv\nAPP_LANG=en\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("APP_ENV_FILE", path)
	t.Setenv("APP_LANG", "vi")
	// godotenv only fills unset keys; unset ROSTER_FILE so the file can supply it
	os.Unsetenv("ROSTER_FILE")
	t.Cleanup(func() { os.Unsetenv("ROSTER_FILE") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.RosterFile != "from-file.csv" {
		t.Fatalf("expected roster file from env file, got %q", cfg.RosterFile)
	}
	if cfg.Lang != "vi" {
		t.Fatalf("expected process env to win over env file, got %q", cfg.Lang)
	}
}
