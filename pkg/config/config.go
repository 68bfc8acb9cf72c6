// Package config loads settings shared by the viewer, the server and the render tool
// from an optional YAML file, VOTEGRID_* environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sudorandom/vote-grid/pkg/aggregate"
	"github.com/sudorandom/vote-grid/pkg/colors"
)

const envPrefix = "VOTEGRID"

// PMSelectionTitle is the prime minister confirmation vote, excluded from the
// GraphQL import by default because every province votes on it identically.
const PMSelectionTitle = "การพิจารณาให้ความเห็นชอบบุคคลซึ่งสมควรได้รับแต่งตั้งเป็นนายกรัฐมนตรี ตามมาตรา ๑๕๙ ของรัฐธรรมนูญแห่งราชอาณาจักรไทย"

type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Cache  CacheConfig  `mapstructure:"cache"`
	View   ViewConfig   `mapstructure:"view"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// DataConfig picks where collections come from: URL if set, else GraphQL when Live,
// else Dir.
type DataConfig struct {
	URL           string        `mapstructure:"url"`
	Dir           string        `mapstructure:"dir"`
	Live          bool          `mapstructure:"live"`
	GraphQLURL    string        `mapstructure:"graphql_url"`
	Year          string        `mapstructure:"year"`
	ExcludeTitles []string      `mapstructure:"exclude_titles"`
	BatchSize     int           `mapstructure:"batch_size"`
	Pause         time.Duration `mapstructure:"pause"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// Backend is none, memory, badger or redis.
	Backend       string        `mapstructure:"backend"`
	Path          string        `mapstructure:"path"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
}

type ViewConfig struct {
	Mode     string  `mapstructure:"mode"`
	Strategy string  `mapstructure:"strategy"`
	FontPath string  `mapstructure:"font_path"`
	Width    int     `mapstructure:"width"`
	Height   int     `mapstructure:"height"`
	TileSize float64 `mapstructure:"tile_size"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]any{
	"data.url":            "",
	"data.dir":            "data/new-data",
	"data.live":           false,
	"data.graphql_url":    "https://politigraph.wevis.info/graphql",
	"data.year":           "",
	"data.exclude_titles": []string{PMSelectionTitle},
	"data.batch_size":     100,
	"data.pause":          time.Second,
	"data.timeout":        2 * time.Minute,

	"cache.backend":        "none",
	"cache.path":           "data/cache",
	"cache.ttl":            6 * time.Hour,
	"cache.redis_addr":     "localhost:6379",
	"cache.redis_password": "",
	"cache.redis_db":       0,
	"cache.redis_prefix":   "votegrid:",

	"view.mode":      "detailed",
	"view.strategy":  "auto",
	"view.font_path": "",
	"view.width":     1280,
	"view.height":    960,
	"view.tile_size": 35.0,

	"server.addr":             ":8080",
	"server.shutdown_timeout": 10 * time.Second,

	"log.level":  "info",
	"log.format": "console",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads path (skipped when empty), then VOTEGRID_* overrides. Callers validate.
// .env in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read config file %q: %w", path, err)
		}
	}
	return unmarshal(v)
}

// LoadFromEnv builds a Config from defaults and environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := aggregate.ParseMode(c.View.Mode); err != nil {
		errs = append(errs, err)
	}
	if c.View.Strategy != "auto" {
		if _, err := colors.ParseStrategy(c.View.Strategy); err != nil {
			errs = append(errs, err)
		}
	}
	switch c.Cache.Backend {
	case "none", "memory":
	case "badger":
		if c.Cache.Path == "" {
			errs = append(errs, errors.New("cache.path is required for the badger backend"))
		}
	case "redis":
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Data.URL == "" && !c.Data.Live && c.Data.Dir == "" {
		errs = append(errs, errors.New("one of data.url, data.live or data.dir must be set"))
	}
	if c.Data.Live && c.Data.GraphQLURL == "" {
		errs = append(errs, errors.New("data.graphql_url is required when data.live is set"))
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.View.Width, c.View.Height))
	}
	if c.View.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("invalid tile size %v", c.View.TileSize))
	}
	return errors.Join(errs...)
}

// Mode returns the parsed aggregation mode. Validate has already checked it.
func (c *Config) Mode() aggregate.Mode {
	m, _ := aggregate.ParseMode(c.View.Mode)
	return m
}

// Strategy resolves "auto" against the configured tile size.
func (c *Config) Strategy() colors.Strategy {
	if c.View.Strategy == "auto" {
		return colors.AutoStrategy(c.View.TileSize)
	}
	s, err := colors.ParseStrategy(c.View.Strategy)
	if err != nil {
		return colors.AutoStrategy(c.View.TileSize)
	}
	return s
}

// Watch calls onChange with the reloaded Config each time path changes on disk.
// Invalid edits are reported to onError and otherwise ignored.
func Watch(path string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(path)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := unmarshal(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
