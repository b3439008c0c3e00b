package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("default addr = %q", cfg.Server.Addr)
	}
	if cfg.Configurator.BasePrice != 25.00 {
		t.Fatalf("default base price = %v", cfg.Configurator.BasePrice)
	}
	if !cfg.Catalog.Seed {
		t.Fatalf("catalog seeding should default on")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	data := `
server:
  addr: ":9090"
configurator:
  base_price: 30.50
  category: "Night Cream"
catalog:
  refresh_schedule: "@every 15m"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Configurator.BasePrice != 30.50 || cfg.Configurator.Category != "Night Cream" {
		t.Fatalf("configurator config not applied: %+v", cfg.Configurator)
	}
	if cfg.Catalog.RefreshSchedule != "@every 15m" {
		t.Fatalf("refresh schedule = %q", cfg.Catalog.RefreshSchedule)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_ADDR", ":7070")
	t.Setenv("STOREFRONT_BASE_PRICE", "28.25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Fatalf("env addr override not applied: %q", cfg.Server.Addr)
	}
	if cfg.Configurator.BasePrice != 28.25 {
		t.Fatalf("env base price override not applied: %v", cfg.Configurator.BasePrice)
	}
}

func TestLoad_RejectsNonPositiveBasePrice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte("configurator:\n  base_price: -1\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
