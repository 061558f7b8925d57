package configparser

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Name  string `env:"CPTEST_NAME" default:"fallback"`
	Inner struct {
		Port  int           `env:"CPTEST_PORT" default:"3000"`
		Retry time.Duration `env:"CPTEST_RETRY" default:"5s"`
		Live  bool          `env:"CPTEST_LIVE" default:"true"`
	}
}

func TestParseEnv_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("CPTEST_NAME", "from-env")
	t.Setenv("CPTEST_RETRY", "30s")

	cfg := &testConfig{}
	if err := ParseEnv(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Fatalf("expected env to win, got %q", cfg.Name)
	}
	if cfg.Inner.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Inner.Port)
	}
	if cfg.Inner.Retry != 30*time.Second {
		t.Fatalf("expected 30s retry, got %v", cfg.Inner.Retry)
	}
	if !cfg.Inner.Live {
		t.Fatal("expected default bool true")
	}
}

func TestParseEnv_RequiresStructPointer(t *testing.T) {
	if err := ParseEnv(testConfig{}); err == nil {
		t.Fatal("expected error for non-pointer config")
	}
}

func TestLoadYamlFile_ExportsNestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
# comment
database:
  host: db.internal
  port: "5433"
server:
  port: ${CPTEST_SERVER_PORT:-8088}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	for _, key := range []string{"DATABASE_HOST", "DATABASE_PORT", "SERVER_PORT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := LoadYamlFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("DATABASE_HOST"); got != "db.internal" {
		t.Fatalf("expected DATABASE_HOST=db.internal, got %q", got)
	}
	if got := os.Getenv("DATABASE_PORT"); got != "5433" {
		t.Fatalf("expected DATABASE_PORT=5433, got %q", got)
	}
	// Substitution default applies when the variable is unset.
	if got := os.Getenv("SERVER_PORT"); got != "8088" {
		t.Fatalf("expected SERVER_PORT=8088, got %q", got)
	}
}

func TestLoadAndParseYaml_MissingFileIsNotFatal(t *testing.T) {
	cfg := &testConfig{}
	if err := LoadAndParseYaml(filepath.Join(t.TempDir(), "missing.yaml"), cfg); err != nil {
		t.Fatalf("missing file must not be fatal: %v", err)
	}
	if cfg.Inner.Port != 3000 {
		t.Fatalf("expected defaults to apply, got %d", cfg.Inner.Port)
	}
}
