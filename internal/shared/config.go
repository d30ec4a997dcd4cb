package shared

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	AppEnv      string        `koanf:"app_env" validate:"required"`
	HTTPAddr    string        `koanf:"http_addr" validate:"required"`
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"min=1s"`
	MetricsAddr string        `koanf:"metrics_addr"`

	StoreDriver string `koanf:"store_driver" validate:"oneof=mysql sqlite"`
	MySQLDSN    string `koanf:"mysql_dsn" validate:"required_if=StoreDriver mysql"`
	SQLitePath  string `koanf:"sqlite_path" validate:"required_if=StoreDriver sqlite"`

	// RedisAddr empty disables the read cache.
	RedisAddr string        `koanf:"redis_addr"`
	RedisPass string        `koanf:"redis_password"`
	RedisDB   int           `koanf:"redis_db" validate:"min=0"`
	CacheTTL  time.Duration `koanf:"cache_ttl" validate:"min=1s"`

	SeedSources []string `koanf:"seed_sources"`
	SeedOnStart bool     `koanf:"seed_on_start"`
	SeedWorkers int      `koanf:"seed_workers" validate:"min=1,max=64"`
	SeedRPS     int      `koanf:"seed_rps" validate:"min=1"`

	APIBaseURL string `koanf:"api_base_url" validate:"required,url"`

	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFile  string `koanf:"log_file"`
}

func defaults() map[string]any {
	return map[string]any{
		"app_env":      "prod",
		"http_addr":    ":8080",
		"http_timeout": "15s",
		"metrics_addr": "",

		"store_driver": "sqlite",
		"mysql_dsn":    "root:root@tcp(localhost:3306)/wishlist?parseTime=true&charset=utf8mb4&loc=UTC",
		"sqlite_path":  "wishlist.db",

		"redis_addr":     "",
		"redis_password": "",
		"redis_db":       0,
		"cache_ttl":      "15m",

		"seed_sources":  []string{},
		"seed_on_start": false,
		"seed_workers":  4,
		"seed_rps":      5,

		"api_base_url": "http://localhost:8080",

		"log_level": "info",
		"log_file":  "",
	}
}

// Load layers defaults, then an optional YAML file named by CONFIG_FILE, then
// environment variables (HTTP_ADDR, STORE_DRIVER, SEED_SOURCES=a.json,b.json, ...).
func Load() (Config, error) {
	k := koanf.New(".")
	def := defaults()
	if err := k.Load(confmap.Provider(def, "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config file %s does not exist", path)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// only variables naming a known key are picked up
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := def[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("loading env vars: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	c.SeedSources = splitList(c.SeedSources)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// splitList flattens comma separated entries and drops blanks.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsDev reports whether logs should be human readable.
func (c Config) IsDev() bool { return c.AppEnv == "dev" || c.AppEnv == "development" }
