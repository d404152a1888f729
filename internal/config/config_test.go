package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Web.PinExpirySeconds != 600 {
		t.Fatalf("pin expiry = %d, want 600", c.Web.PinExpirySeconds)
	}
	if c.Web.SessionExpiryDays != 30 {
		t.Fatalf("session expiry = %d, want 30", c.Web.SessionExpiryDays)
	}
	if c.SkinManagement.MaxSkins != 5 {
		t.Fatalf("max skins = %d, want 5", c.SkinManagement.MaxSkins)
	}
	if !c.SkinManagement.Require64x64 {
		t.Fatal("require-64x64 should default to true")
	}
	if c.SkinManagement.MaxFileSizeKB != 1024 {
		t.Fatalf("max file size = %d, want 1024", c.SkinManagement.MaxFileSizeKB)
	}
	if c.SkinManagement.UploadCooldownSeconds != 60 {
		t.Fatalf("cooldown = %d, want 60", c.SkinManagement.UploadCooldownSeconds)
	}
	if c.Server.Addr != ":8123" {
		t.Fatalf("addr = %q", c.Server.Addr)
	}
}

func TestLoadFileOverridesOnlyNamedKeys(t *testing.T) {
	p := writeFile(t, `
web:
  pin-expiry-seconds: 120
skin-management:
  max-skins: 3
  require-64x64: false
`)
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Web.PinExpirySeconds != 120 {
		t.Fatalf("pin expiry = %d, want 120", c.Web.PinExpirySeconds)
	}
	if c.Web.SessionExpiryDays != 30 {
		t.Fatalf("session expiry = %d, want default 30", c.Web.SessionExpiryDays)
	}
	if c.SkinManagement.MaxSkins != 3 {
		t.Fatalf("max skins = %d, want 3", c.SkinManagement.MaxSkins)
	}
	if c.SkinManagement.Require64x64 {
		t.Fatal("require-64x64 should be false when set explicitly")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_SKINS", "9")
	t.Setenv("MINESKIN_API_KEY", "secret")
	t.Setenv("UPLOAD_COOLDOWN_SECONDS", "5")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SkinManagement.MaxSkins != 9 {
		t.Fatalf("max skins = %d, want 9", c.SkinManagement.MaxSkins)
	}
	if c.MineSkin.APIKey != "secret" {
		t.Fatalf("api key = %q", c.MineSkin.APIKey)
	}
	if got := c.UploadCooldown(); got != 5*time.Second {
		t.Fatalf("cooldown = %v, want 5s", got)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	p := writeFile(t, "skin-management:\n  max-skins: 0\n")
	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for max-skins 0")
	}
}

func TestDerivedDurations(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.PinTTL(); got != 10*time.Minute {
		t.Fatalf("PinTTL = %v", got)
	}
	if got := c.SessionTTL(); got != 30*24*time.Hour {
		t.Fatalf("SessionTTL = %v", got)
	}
	if got := c.MaxFileSizeBytes(); got != 1024*1024 {
		t.Fatalf("MaxFileSizeBytes = %d", got)
	}
}
