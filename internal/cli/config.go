package cli

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/pipeline"
	"github.com/matzehuels/railroad/pkg/railroad"
)

// Config is the project configuration read from railroad.toml.
//
//	[render]
//	stylesheet = "dark"
//	formats = ["svg", "png"]
//	measurer = "font"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Serve  ServeConfig  `toml:"serve"`
}

// RenderConfig holds defaults for render and serve.
type RenderConfig struct {
	Formats       []string `toml:"formats"`
	Stylesheet    string   `toml:"stylesheet"`
	Markers       *bool    `toml:"markers"`
	SimpleMarkers bool     `toml:"simple_markers"`
	Debug         bool     `toml:"debug"`
	EmbedFont     bool     `toml:"embed_font"`
	Measurer      string   `toml:"measurer"`
	Font          string   `toml:"font"`
	Scale         float64  `toml:"scale"`
}

// CacheConfig selects the render cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      duration `toml:"ttl"`
}

// ServeConfig configures the HTTP endpoint.
type ServeConfig struct {
	Addr    string `toml:"addr"`
	Dir     string `toml:"dir"`
	MaxBody int64  `toml:"max_body"`
}

// duration reads Go duration strings such as "90m".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

const (
	defaultAddr    = ":8080"
	defaultMaxBody = 1 << 20
)

func defaultConfig() *Config {
	return &Config{
		Serve: ServeConfig{Addr: defaultAddr, MaxBody: defaultMaxBody},
	}
}

// loadConfig reads path, or railroad.toml in the working directory when
// path is empty. A missing default file yields the defaults.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = configFile
	}

	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			if !explicit {
				return cfg, nil
			}
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.New(errors.GetCode(err), "config %s: %s", path, errors.UserMessage(err))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := railroad.ParseStylesheet(c.Render.Stylesheet); err != nil {
		return err
	}
	if c.Render.Measurer != "" {
		if err := pipeline.ValidateMeasurer(c.Render.Measurer); err != nil {
			return err
		}
	}
	if s := c.Render.Scale; s != 0 && !(s > 0 && s <= 16) {
		return errors.New(errors.ErrCodeInvalidInput, "scale %v must be in (0, 16]", s)
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	if c.Serve.MaxBody <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "serve max_body must be positive")
	}
	return nil
}
