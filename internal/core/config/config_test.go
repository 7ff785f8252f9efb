package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledgerbook.yaml")
	requireNoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	cfgPath := writeConfig(t, `
server:
  port: 9090
  host: "127.0.0.1"
  mode: "debug"
database:
  type: "sqlite"
  dsn: "file:ledgerbook.db"
auth:
  bcrypt_cost: 12
  session_header: "X-Ledger-Session"
ledger:
  lock_partitions: 64
`)

	cfg, err := Load(cfgPath)
	requireNoError(t, err)
	if cfg.Server.Port != 9090 || cfg.Server.Mode != "debug" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Database.Type != DatabaseSQLite || cfg.Database.DSN != "file:ledgerbook.db" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Auth.BcryptCost != 12 || cfg.Auth.SessionHeader != "X-Ledger-Session" {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Ledger.LockPartitions != 64 {
		t.Fatalf("expected 64 lock partitions, got %d", cfg.Ledger.LockPartitions)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Fatalf("expected default max_open_conns 25, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	requireNoError(t, err)
	if cfg.Database.Type != DatabasePostgres {
		t.Fatalf("expected postgres by default, got %q", cfg.Database.Type)
	}
	if cfg.Auth.SessionHeader != "X-Session-Token" {
		t.Fatalf("unexpected default session header %q", cfg.Auth.SessionHeader)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  type: "postgres"
  dsn: "postgres://file"
`)
	t.Setenv("LEDGERBOOK_DATABASE__TYPE", "memory")
	t.Setenv("LEDGERBOOK_LEDGER__LOCK_PARTITIONS", "8")

	cfg, err := Load(cfgPath)
	requireNoError(t, err)
	if cfg.Database.Type != DatabaseMemory {
		t.Fatalf("expected env to select memory, got %q", cfg.Database.Type)
	}
	if cfg.Ledger.LockPartitions != 8 {
		t.Fatalf("expected 8 lock partitions, got %d", cfg.Ledger.LockPartitions)
	}
}

func TestLoad_MemoryNeedsNoDSN(t *testing.T) {
	cfgPath := writeConfig(t, `
database:
  type: "memory"
  dsn: ""
`)
	_, err := Load(cfgPath)
	requireNoError(t, err)
}

func TestLoad_InvalidConfigFailsStartup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "server port",
			body: "server:\n  port: -1\n",
			want: "invalid server.port",
		},
		{
			name: "database type",
			body: "database:\n  type: \"mysql\"\n",
			want: "unsupported database.type",
		},
		{
			name: "sqlite without dsn",
			body: "database:\n  type: \"sqlite\"\n  dsn: \"\"\n",
			want: "database.dsn is required",
		},
		{
			name: "bcrypt cost",
			body: "auth:\n  bcrypt_cost: 40\n",
			want: "invalid auth.bcrypt_cost",
		},
		{
			name: "lock partitions",
			body: "ledger:\n  lock_partitions: 0\n",
			want: "ledger.lock_partitions must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}

func requireNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
