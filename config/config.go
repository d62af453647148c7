package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMongo    = "mongo"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server    Server
	Log       Log
	Auth      Auth
	LLM       LLM
	Extractor Extractor
	Store     Store
	Database  Database
	Mongo     Mongo
}

type Server struct {
	Port        string
	GinMode     string
	CORSOrigins []string
}

type Log struct {
	Level  string
	Pretty bool
}

type Auth struct {
	Enabled      bool
	Domain       string
	Audience     string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// JWKSURL is the identity provider's published key set.
func (a Auth) JWKSURL() string {
	return "https://" + a.Domain + "/.well-known/jwks.json"
}

func (a Auth) Issuer() string {
	return "https://" + a.Domain + "/"
}

type LLM struct {
	Provider         string
	GeminiApiKey     string
	GeminiModel      string
	OpenAIApiKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	ResponseLanguage string
}

type Extractor struct {
	FetchTimeout time.Duration
}

type Store struct {
	Driver     string
	SQLitePath string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

type Mongo struct {
	URI      string
	Database string
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWKS_CACHE_TTL", 5*time.Minute)
	viper.SetDefault("JWKS_FETCH_TIMEOUT", 10*time.Second)

	viper.SetDefault("LLM_PROVIDER", ProviderGemini)
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("LLM_RESPONSE_LANGUAGE", "Japanese")

	viper.SetDefault("URL_FETCH_TIMEOUT", 15*time.Second)

	viper.SetDefault("STORE_DRIVER", StoreMemory)
	viper.SetDefault("SQLITE_PATH", "uteach.db")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("MONGO_DATABASE", "uteach")
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.GinMode = viper.GetString("GIN_MODE")
	config.Server.CORSOrigins = splitCSV(viper.GetString("CORS_ORIGINS"))
	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Pretty = viper.GetBool("LOG_PRETTY")

	config.Auth.Enabled = viper.GetBool("AUTH_ENABLED")
	config.Auth.Domain = viper.GetString("AUTH0_DOMAIN")
	config.Auth.Audience = viper.GetString("AUTH0_AUDIENCE")
	config.Auth.CacheTTL = viper.GetDuration("JWKS_CACHE_TTL")
	config.Auth.FetchTimeout = viper.GetDuration("JWKS_FETCH_TIMEOUT")

	config.LLM.Provider = strings.ToLower(viper.GetString("LLM_PROVIDER"))
	config.LLM.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.LLM.GeminiModel = viper.GetString("GEMINI_MODEL")
	config.LLM.OpenAIApiKey = viper.GetString("OPENAI_API_KEY")
	config.LLM.OpenAIBaseURL = viper.GetString("OPENAI_BASE_URL")
	config.LLM.OpenAIModel = viper.GetString("OPENAI_MODEL")
	config.LLM.ResponseLanguage = viper.GetString("LLM_RESPONSE_LANGUAGE")

	config.Extractor.FetchTimeout = viper.GetDuration("URL_FETCH_TIMEOUT")

	config.Store.Driver = strings.ToLower(viper.GetString("STORE_DRIVER"))
	config.Store.SQLitePath = viper.GetString("SQLITE_PATH")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Mongo.URI = viper.GetString("MONGO_URI")
	config.Mongo.Database = viper.GetString("MONGO_DATABASE")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("port", config.Server.Port).
		Bool("auth_enabled", config.Auth.Enabled).
		Str("store_driver", config.Store.Driver).
		Str("llm_provider", config.LLM.Provider).
		Msg("Config loaded")
	return &config, nil
}

// Validate rejects configurations that would only fail later, mid-request.
func (c *Config) Validate() error {
	if c.Auth.Enabled && (c.Auth.Domain == "" || c.Auth.Audience == "") {
		return fmt.Errorf("AUTH_ENABLED requires AUTH0_DOMAIN and AUTH0_AUDIENCE")
	}
	switch c.Store.Driver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_HOST and DATABASE_NAME")
		}
	case StoreMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("STORE_DRIVER=mongo requires MONGO_URI")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
