package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contactform.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yaml")} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load %q: %v", path, err)
		}
		if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
			t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  basePath: /forms/contact
  sessionTTL: 5m
  rateLimit:
    perSecond: 1
  mountRateLimit:
    burst: 3
  trustProxy: true
log:
  level: debug
  development: true
theme:
  name: acme
  variant: dark
  assetBase: /themes/acme/
  cssVars:
    --brand: "#123456"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := DefaultConfig()
	want.Server.Addr = "127.0.0.1:9000"
	want.Server.BasePath = "/forms/contact"
	want.Server.SessionTTL = "5m"
	want.Server.RateLimit.PerSecond = 1
	want.Server.MountRateLimit.Burst = 3
	want.Server.TrustProxy = true
	want.Log = LogConfig{Level: "debug", Development: true}
	want.Theme = ThemeConfig{
		Name:      "acme",
		Variant:   "dark",
		AssetBase: "/themes/acme/",
		CSSVars:   map[string]string{"--brand": "#123456"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}

	ttl, err := cfg.Server.TTL()
	if err != nil || ttl != 5*time.Minute {
		t.Fatalf("unexpected ttl %v (%v)", ttl, err)
	}

	rc := cfg.Theme.RendererConfig()
	if rc == nil || rc.Theme != "acme" || rc.Variant != "dark" {
		t.Fatalf("unexpected renderer config %#v", rc)
	}
	if got := rc.AssetURL("contactform.css"); got != "/themes/acme/contactform.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvAddr, ":9999")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Log.Level != "warn" {
		t.Fatalf("env overrides not applied: %#v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"syntax":    "server: [",
		"base path": "server:\n  basePath: contact\n",
		"ttl":       "server:\n  sessionTTL: soon\n",
		"rate":      "server:\n  rateLimit:\n    burst: -1\n",
		"mount":     "server:\n  mountRateLimit:\n    perSecond: -1\n",
		"level":     "log:\n  level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestThemeConfig_Empty(t *testing.T) {
	if (ThemeConfig{}).RendererConfig() != nil {
		t.Fatalf("expected nil renderer config without a theme name")
	}
}
