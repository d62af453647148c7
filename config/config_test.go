package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	var c Config
	c.Store.Driver = StoreMemory
	c.LLM.Provider = ProviderGemini
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"auth without domain", func(c *Config) { c.Auth.Enabled = true; c.Auth.Audience = "api" }, "AUTH0_DOMAIN"},
		{"auth complete", func(c *Config) { c.Auth.Enabled = true; c.Auth.Audience = "api"; c.Auth.Domain = "t.auth0.com" }, ""},
		{"postgres without host", func(c *Config) { c.Store.Driver = StorePostgres; c.Database.Name = "uteach" }, "DATABASE_HOST"},
		{"postgres complete", func(c *Config) { c.Store.Driver = StorePostgres; c.Database.Host = "db"; c.Database.Name = "uteach" }, ""},
		{"mongo without uri", func(c *Config) { c.Store.Driver = StoreMongo }, "MONGO_URI"},
		{"sqlite", func(c *Config) { c.Store.Driver = StoreSQLite }, ""},
		{"unknown store", func(c *Config) { c.Store.Driver = "redis" }, "STORE_DRIVER"},
		{"openai", func(c *Config) { c.LLM.Provider = ProviderOpenAI }, ""},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "claude" }, "LLM_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.test, ,https://b.test ,")
	if len(got) != 2 || got[0] != "https://a.test" || got[1] != "https://b.test" {
		t.Errorf("splitCSV = %q", got)
	}
	if got := splitCSV(""); len(got) != 0 {
		t.Errorf("splitCSV(\"\") = %q", got)
	}
}

func TestAuthURLs(t *testing.T) {
	a := Auth{Domain: "tenant.auth0.com"}
	if got := a.JWKSURL(); got != "https://tenant.auth0.com/.well-known/jwks.json" {
		t.Errorf("JWKSURL = %q", got)
	}
	if got := a.Issuer(); got != "https://tenant.auth0.com/" {
		t.Errorf("Issuer = %q", got)
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("CORS_ORIGINS", "https://app.test,https://admin.test")
	t.Setenv("JWKS_CACHE_TTL", "2m")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Store.Driver != StoreSQLite || cfg.LLM.Provider != ProviderOpenAI {
		t.Errorf("driver/provider = %q/%q", cfg.Store.Driver, cfg.LLM.Provider)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("cors = %q", cfg.Server.CORSOrigins)
	}
	if cfg.Auth.CacheTTL != 2*time.Minute {
		t.Errorf("cache ttl = %v", cfg.Auth.CacheTTL)
	}
	if cfg.Server.Port != "8000" || cfg.LLM.ResponseLanguage != "Japanese" || cfg.Store.SQLitePath != "uteach.db" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
