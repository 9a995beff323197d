package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ratiogrid/pkg/errors"
	"github.com/matzehuels/ratiogrid/pkg/pipeline"
	"github.com/matzehuels/ratiogrid/pkg/ratio"
)

// Config is the optional config file:
//
//	[layout]
//	min_item_height = 120
//	column_spacing = 4
//	row_spacing = 4
//	width = 1280
//	growth = "incremental"
//
//	[cache]
//	redis_addr = "localhost:6379"
//	prefix = "ratiogrid:"
//	ttl = "24h"
//
// Flags given on the command line win over the file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
}

// LayoutConfig overrides layout defaults. Unset keys keep the default.
type LayoutConfig struct {
	MinItemHeight *float64 `toml:"min_item_height"`
	ColumnSpacing *float64 `toml:"column_spacing"`
	RowSpacing    *float64 `toml:"row_spacing"`
	Width         *float64 `toml:"width"`
	Height        *float64 `toml:"height"`
	DefaultRatio  *float64 `toml:"default_ratio"`
	Growth        string   `toml:"growth"`
}

// CacheConfig selects and tunes the cache.
type CacheConfig struct {
	RedisAddr string   `toml:"redis_addr"`
	Prefix    string   `toml:"prefix"`
	TTL       duration `toml:"ttl"`
}

// duration decodes Go duration strings such as "36h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// loadConfig reads the config at path, or at the default location when path
// is empty. A missing default file yields an empty config.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configFile(); err != nil {
			return &Config{}, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return &Config{}, nil
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Layout.Growth != "" {
		if _, err := ratio.ParseGrowthPolicy(cfg.Layout.Growth); err != nil {
			return nil, err
		}
	}
	if cfg.Cache.TTL.Duration < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: negative cache ttl", path)
	}
	return &cfg, nil
}

// apply copies configured values into opts for every flag the user did not
// set. changed reports whether a flag was given.
func (cfg *Config) apply(opts *pipeline.Options, changed func(flag string) bool) {
	l := cfg.Layout
	set := func(flag string, v *float64, dst *float64) {
		if v != nil && !changed(flag) {
			*dst = *v
		}
	}
	set(flagMinItemHeight, l.MinItemHeight, &opts.MinItemHeight)
	set(flagWidth, l.Width, &opts.Width)
	set(flagHeight, l.Height, &opts.Height)
	set(flagDefaultRatio, l.DefaultRatio, &opts.DefaultRatio)
	if l.Growth != "" && !changed(flagGrowth) {
		opts.Growth = l.Growth
	}

	column, row := opts.ColumnSpacing, opts.RowSpacing
	set(flagColumnSpacing, l.ColumnSpacing, &column)
	set(flagRowSpacing, l.RowSpacing, &row)
	if l.ColumnSpacing != nil || l.RowSpacing != nil || changed(flagColumnSpacing) || changed(flagRowSpacing) {
		opts.SetSpacing(column, row)
	}
}
