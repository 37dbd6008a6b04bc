package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":8080" {
		t.Fatalf("listen addr = %q", c.ListenAddr)
	}
	if c.JoinDelay() != 30*time.Second || c.MoveTimeout() != time.Minute {
		t.Fatalf("unexpected durations: %v / %v", c.JoinDelay(), c.MoveTimeout())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
listen_addr: ":9999"
join_delay_ms: 5000
move_timeout_ms: 1500
table_path: custom/table.yaml
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":9999" || c.JoinDelayMs != 5000 || c.TablePath != "custom/table.yaml" {
		t.Fatalf("file values not applied: %+v", c)
	}
	// Untouched fields keep their defaults.
	if c.UsersDBPath != "data/users.db" {
		t.Fatalf("default lost: %q", c.UsersDBPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAGNIFICO_LISTEN_ADDR", ":7777")
	t.Setenv("MAGNIFICO_MOVE_TIMEOUT_MS", "2500")
	t.Setenv("MAGNIFICO_DEBUG", "true")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ListenAddr != ":7777" || c.MoveTimeoutMs != 2500 || !c.Debug {
		t.Fatalf("env overrides not applied: %+v", c)
	}
}

func TestLoadRejections(t *testing.T) {
	t.Run("bad int env", func(t *testing.T) {
		t.Setenv("MAGNIFICO_JOIN_DELAY_MS", "soon")
		if _, err := Load(""); err == nil {
			t.Fatalf("expected error for non-numeric override")
		}
	})

	t.Run("non-positive timeout", func(t *testing.T) {
		t.Setenv("MAGNIFICO_MOVE_TIMEOUT_MS", "0")
		if _, err := Load(""); err == nil {
			t.Fatalf("expected error for zero timeout")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatalf("expected error for missing file")
		}
	})
}
