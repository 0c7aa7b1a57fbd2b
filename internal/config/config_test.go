package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{DefaultProfile: "work", NotifyInterval: Duration{5 * time.Second}}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.NotifyInterval.Duration != 5*time.Second {
		t.Errorf("NotifyInterval = %s, want 5s", loaded.NotifyInterval)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestResolveDefaultsWhenMissing(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Resolve(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != DefaultAPIURL || cfg.Theme != ThemeDark {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
	if cfg.NotifyInterval.Duration != time.Second {
		t.Errorf("NotifyInterval = %s", cfg.NotifyInterval)
	}
}

func TestResolveFileThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "api_url = \"http://localhost:3333\"\ntheme = \"light\"\npoll_interval = \"30s\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRIGO_THEME", "dark")
	t.Setenv("FRIGO_REQUEST_TIMEOUT", "2s")

	cfg, err := Resolve(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://localhost:3333" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("Theme = %q, env should win", cfg.Theme)
	}
	if cfg.PollInterval.Duration != 30*time.Second || cfg.RequestTimeout.Duration != 2*time.Second {
		t.Errorf("durations = %s %s", cfg.PollInterval, cfg.RequestTimeout)
	}
}

func TestResolveDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FRIGO_PROFILE=loja\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("FRIGO_PROFILE") })

	cfg, err := Resolve(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultProfile != "loja" {
		t.Errorf("DefaultProfile = %q, want loja from .env", cfg.DefaultProfile)
	}
}

func TestResolveRejectsBadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("FRIGO_NOTIFY_INTERVAL", "soon")
	if _, err := Resolve(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Resolve() accepted an invalid duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x" }, true},
		{"no host", func(c *Config) { c.APIURL = "http://" }, true},
		{"negative poll", func(c *Config) { c.PollInterval = Duration{-time.Second} }, true},
		{"zero notify", func(c *Config) { c.NotifyInterval = Duration{} }, true},
		{"bad theme", func(c *Config) { c.Theme = "solarized" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, &Config{DefaultProfile: "work", APIURL: "http://x"}); err != nil {
		t.Fatal(err)
	}
	if err := Update(path, func(c *Config) { c.Theme = ThemeLight }); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultProfile != "work" || cfg.Theme != ThemeLight {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestUpdateCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := Update(path, func(c *Config) { c.Theme = ThemeLight }); err != nil {
		t.Fatal(err)
	}
	if cfg, err := Load(path); err != nil || cfg.Theme != ThemeLight {
		t.Errorf("Load = %+v, %v", cfg, err)
	}
}

func TestResolveIgnoresZeroFileValues(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Update(path, func(c *Config) { c.Theme = ThemeLight }); err != nil {
		t.Fatal(err)
	}
	cfg, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Theme != ThemeLight || cfg.NotifyInterval.Duration != time.Second || cfg.APIURL != DefaultAPIURL {
		t.Errorf("cfg = %+v", cfg)
	}
}

// chdir is the pre-Go 1.24 equivalent of t.Chdir.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
