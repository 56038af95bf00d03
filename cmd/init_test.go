package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pders01/modeldrift/internal/config"
)

func TestInitCreatesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	initForce = false

	c, out := captured()
	if err := runInit(c, []string{}); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	path := filepath.Join(home, ".config", "modeldrift", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if string(data) != config.DefaultConfigTOML {
		t.Error("config content differs from the default")
	}
	if !strings.Contains(out.String(), "✓ Created default config") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestInitKeepsExistingConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, ".config", "modeldrift", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	initForce = false
	c, out := captured()
	if err := runInit(c, []string{}); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if !strings.Contains(out.String(), "Config already exists") {
		t.Errorf("expected existing config notice:\n%s", out.String())
	}
	data, _ := os.ReadFile(path)
	if string(data) == config.DefaultConfigTOML {
		t.Error("existing config was overwritten without --force")
	}

	initForce = true
	defer func() { initForce = false }()
	c, _ = captured()
	if err := runInit(c, []string{}); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != config.DefaultConfigTOML {
		t.Error("--force did not overwrite the config")
	}
}
