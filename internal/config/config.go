package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultAPIURL is the hosted backend the app talks to out of the box.
const DefaultAPIURL = "https://backend-api-beta-inky.vercel.app/"

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Duration is a time.Duration written as "30s" in config.toml.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config represents the global ~/.frigo/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`
	APIURL         string `toml:"api_url"`
	// PollInterval re-fetches open lists; zero fetches once per visit.
	PollInterval   Duration `toml:"poll_interval"`
	NotifyInterval Duration `toml:"notify_interval"`
	RequestTimeout Duration `toml:"request_timeout"`
	Theme          string   `toml:"theme"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		NotifyInterval: Duration{time.Second},
		RequestTimeout: Duration{15 * time.Second},
		Theme:          ThemeDark,
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve layers the defaults, the file at path (if present), a .env file in
// the working directory and FRIGO_* environment variables, in that order.
func Resolve(path string) (*Config, error) {
	cfg := Defaults()
	file, err := Load(path)
	switch {
	case err == nil:
		cfg.merge(file)
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge copies every non-zero field of o over c.
func (c *Config) merge(o *Config) {
	for _, f := range []struct{ dst, src *string }{
		{&c.DefaultProfile, &o.DefaultProfile},
		{&c.APIURL, &o.APIURL},
		{&c.Theme, &o.Theme},
	} {
		if *f.src != "" {
			*f.dst = *f.src
		}
	}
	for _, f := range []struct{ dst, src *Duration }{
		{&c.PollInterval, &o.PollInterval},
		{&c.NotifyInterval, &o.NotifyInterval},
		{&c.RequestTimeout, &o.RequestTimeout},
	} {
		if f.src.Duration != 0 {
			*f.dst = *f.src
		}
	}
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"FRIGO_PROFILE": &c.DefaultProfile,
		"FRIGO_API_URL": &c.APIURL,
		"FRIGO_THEME":   &c.Theme,
	}
	for k, dst := range strs {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			*dst = v
		}
	}
	durs := map[string]*Duration{
		"FRIGO_POLL_INTERVAL":   &c.PollInterval,
		"FRIGO_NOTIFY_INTERVAL": &c.NotifyInterval,
		"FRIGO_REQUEST_TIMEOUT": &c.RequestTimeout,
	}
	for k, dst := range durs {
		v, ok := os.LookupEnv(k)
		if !ok || v == "" {
			continue
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Validate checks the values a running client depends on.
func (c *Config) Validate() error {
	var problems []string
	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api_url %q: must be an http(s) URL", c.APIURL))
	}
	if c.PollInterval.Duration < 0 {
		problems = append(problems, "poll_interval must not be negative")
	}
	if c.NotifyInterval.Duration <= 0 {
		problems = append(problems, "notify_interval must be positive")
	}
	if c.RequestTimeout.Duration <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		problems = append(problems, fmt.Sprintf("invalid theme %q: must be dark or light", c.Theme))
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Update loads the file at path (or starts empty), applies fn and saves it.
// Only keys present in the file or set by fn are written.
func Update(path string, fn func(*Config)) error {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg = &Config{}
	}
	fn(cfg)
	return Save(path, cfg)
}
