package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr              string     `mapstructure:"store_addr"`
	DatabaseURL       string     `mapstructure:"database_url"`
	JWTSecret         string     `mapstructure:"jwt_secret"`
	AdminUser         string     `mapstructure:"admin_user"`
	AdminPasswordHash string     `mapstructure:"admin_password_hash"`
	DefaultCulture    string     `mapstructure:"default_culture"`
	LogLevel          slog.Level `mapstructure:"-"`
	AllowReset        bool       `mapstructure:"allow_reset_products"`
}

// Load reads .env (when present), the environment and then command-line
// flags, later sources overriding earlier ones.
func Load(args []string) (Config, error) {
	const op = "config.Load"

	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("store_addr", ":8080")
	v.SetDefault("default_culture", "en")
	v.SetDefault("log_level", "info")
	v.SetDefault("allow_reset_products", false)
	for _, key := range []string{"database_url", "jwt_secret", "admin_user", "admin_password_hash"} {
		v.SetDefault(key, "")
	}
	v.AutomaticEnv()

	flags := pflag.NewFlagSet("store", pflag.ContinueOnError)
	flags.String("addr", "", "listen address (STORE_ADDR)")
	flags.String("database-url", "", "postgres connection string, empty for in-memory storage (DATABASE_URL)")
	flags.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	flags.String("default-culture", "", "culture used when Accept-Language matches nothing (DEFAULT_CULTURE)")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	bindings := map[string]string{
		"store_addr":      "addr",
		"database_url":    "database-url",
		"log_level":       "log-level",
		"default_culture": "default-culture",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v.GetString("log_level")))); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// Print logs the loaded configuration without secrets.
func (c Config) Print() {
	slog.Info("loaded config",
		"addr", c.Addr,
		"database", c.DatabaseURL != "",
		"admin_user", c.AdminUser,
		"default_culture", c.DefaultCulture,
		"log_level", c.LogLevel.String(),
		"allow_reset_products", c.AllowReset,
	)
}
