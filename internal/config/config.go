package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
	UI      UIConfig
	JWT     JWTConfig
	Admin   AdminConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// APIConfig locates the remote admin API
type APIConfig struct {
	Base    string
	Path    string
	Timeout time.Duration // zero means no timeout
}

type SessionConfig struct {
	Store string // "bolt" or "redis"
	File  string
	Key   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type LogConfig struct {
	File       string
	MaxSize    int // in megabytes
	MaxBackups int
}

type UIConfig struct {
	ShowErrors bool
}

type JWTConfig struct {
	Secret string
	Expiry int // in minutes
}

// AdminConfig is the single account the fake API accepts
type AdminConfig struct {
	Username string
	Password string
}

// Flags returns the command-line flags that override environment values
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("api-base", "", "admin API base URL")
	fs.String("api-path", "", "admin API path segment")
	fs.String("session-store", "", "persisted session store: bolt or redis")
	fs.String("session-file", "", "bolt file holding the session token")
	fs.String("log-file", "", "write logs to this file instead of stdout")
	fs.String("port", "", "fake API listen port")
	fs.Bool("show-errors", false, "print failed requests")
	return fs
}

var flagKeys = map[string]string{
	"api-base":      "API_BASE",
	"api-path":      "API_PATH",
	"session-store": "SESSION_STORE",
	"session-file":  "SESSION_FILE",
	"log-file":      "LOG_FILE",
	"port":          "SERVER_PORT",
	"show-errors":   "UI_SHOW_ERRORS",
}

// Load reads configuration from .env, the environment and any flags set on fs
func Load(fs *pflag.FlagSet) *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not read .env file: %v", err)
	}
	return LoadFrom(viper.GetViper(), fs)
}

// LoadFrom builds a Config from v, binding any flags that were set on fs
func LoadFrom(v *viper.Viper, fs *pflag.FlagSet) *Config {
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("API_BASE", "https://ec-course-api.hexschool.io/v2")
	v.SetDefault("API_PATH", "")
	v.SetDefault("API_TIMEOUT", "0s")
	v.SetDefault("SESSION_STORE", "bolt")
	v.SetDefault("SESSION_FILE", ".catalog-admin.db")
	v.SetDefault("SESSION_KEY", "catalog-admin-token")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("LOG_MAX_SIZE", 16)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("UI_SHOW_ERRORS", false)
	v.SetDefault("JWT_SECRET", "catalog-admin-dev-secret")
	v.SetDefault("JWT_EXPIRY", 60*24*7)
	v.SetDefault("ADMIN_USERNAME", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD", "admin1234")

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					log.Printf("Warning: Could not bind flag %s: %v", name, err)
				}
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		API: APIConfig{
			Base:    v.GetString("API_BASE"),
			Path:    v.GetString("API_PATH"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Session: SessionConfig{
			Store: v.GetString("SESSION_STORE"),
			File:  v.GetString("SESSION_FILE"),
			Key:   v.GetString("SESSION_KEY"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			File:       v.GetString("LOG_FILE"),
			MaxSize:    v.GetInt("LOG_MAX_SIZE"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
		UI: UIConfig{
			ShowErrors: v.GetBool("UI_SHOW_ERRORS"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: v.GetInt("JWT_EXPIRY"),
		},
		Admin: AdminConfig{
			Username: v.GetString("ADMIN_USERNAME"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}
}
