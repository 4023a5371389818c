package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderConfig es la configuración de un proveedor OAuth.
// Inmutable después de Load; el registry la indexa por nombre.
type ProviderConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Key         string   `yaml:"key"`
	Secret      string   `yaml:"secret"`
	CallbackURL string   `yaml:"callback_url"`
	Scopes      []string `yaml:"scopes"` // si vacío => defaults del catálogo

	Options struct {
		// EnableEmail pide el scope de email al proveedor (Facebook).
		EnableEmail bool `yaml:"enable_email"`
		// Whitelist / Blacklist de hosted domains (Google).
		Whitelist []string `yaml:"whitelist"`
		Blacklist []string `yaml:"blacklist"`
	} `yaml:"options"`
}

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Cache struct {
		Driver string `yaml:"driver"` // memory | redis
		Redis  struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Storage struct {
		Driver   string `yaml:"driver"` // memory | postgres
		Postgres struct {
			DSN          string `yaml:"dsn"`
			MaxOpenConns int    `yaml:"max_open_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Session struct {
		CookieName string        `yaml:"cookie_name"`
		TTL        time.Duration `yaml:"ttl"`
		JWTSecret  string        `yaml:"jwt_secret"`
		Issuer     string        `yaml:"issuer"`
		Secure     bool          `yaml:"secure"`
	} `yaml:"session"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	// Providers mapea nombre de proveedor (google, github, facebook,
	// twitter, linkedin) a sus credenciales y opciones.
	Providers map[string]ProviderConfig `yaml:"providers"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// sane defaults
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "shakehands_sid"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = "shakehands"
	}

	// env overrides (útil en docker/compose)
	if v := os.Getenv("SHAKEHANDS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SHAKEHANDS_PG_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("SHAKEHANDS_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("SHAKEHANDS_SESSION_SECRET"); v != "" {
		c.Session.JWTSecret = v
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Storage.Driver == "postgres" && c.Storage.Postgres.DSN == "" {
		return fmt.Errorf("config: storage.postgres.dsn required when driver=postgres")
	}
	if c.Session.JWTSecret == "" && c.App.Env == "prod" {
		return fmt.Errorf("config: session.jwt_secret required in prod")
	}
	for name, p := range c.Providers {
		if p.Enabled && (p.Key == "" || p.Secret == "") {
			return fmt.Errorf("config: provider %q enabled without credentials", name)
		}
	}
	return nil
}
