package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  port: 9090
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: audit
  password: file-secret
  name: audit_engine
pagespeed:
  apiKey: key-from-file
  timeoutSeconds: 45
audit:
  fetchTimeoutSeconds: 5
  staleAfterMinutes: 20
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.PageSpeed.APIKey != "key-from-file" {
		t.Errorf("APIKey = %q", cfg.PageSpeed.APIKey)
	}
	if got := cfg.FetchTimeout(); got != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", got)
	}
	if got := cfg.PageSpeedTimeout(); got != 45*time.Second {
		t.Errorf("PageSpeedTimeout = %v, want 45s", got)
	}
	if got := cfg.StaleAfter(); got != 20*time.Minute {
		t.Errorf("StaleAfter = %v, want 20m", got)
	}
	if got := cfg.ReapEvery(); got != time.Minute {
		t.Errorf("ReapEvery = %v, want the 1m default", got)
	}
}

func TestLoadEnvOverridesSecrets(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "env-secret")
	t.Setenv("PAGESPEED_API_KEY", "env-key")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Database.Password != "env-secret" {
		t.Errorf("Password = %q, want env override", cfg.Database.Password)
	}
	if cfg.PageSpeed.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env override", cfg.PageSpeed.APIKey)
	}
}

func TestLoadDefaultsDriver(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 8080\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("Driver = %q, want mysql default", cfg.Database.Driver)
	}
}

func TestDSNs(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantPg := "host=db.internal port=5432 user=audit password=file-secret dbname=audit_engine sslmode=disable"
	if got := cfg.PostgresDSN(); got != wantPg {
		t.Errorf("PostgresDSN = %q, want %q", got, wantPg)
	}

	wantMy := "audit:file-secret@tcp(db.internal:5432)/audit_engine?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != wantMy {
		t.Errorf("MySQLDSN = %q, want %q", got, wantMy)
	}
}
