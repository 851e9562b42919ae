// Package config loads distributor runs from a TOML file.
//
//	[distributor]
//	queue_size = 1000
//	max_wait = "5m"
//	consumers = 4
//	on_parse_exception = "emit"
//	fetcher_name = "fs"
//	emitter_name = "json"
//	rate = 0.0
//	burst = 0
//
//	[iterator]
//	type = "filesystem"   # slice | filelist | filesystem | sqlite
//	base_path = "/data/in"
//	extensions = [".pdf"]
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ygrebnov/distributor"
)

// Distributor holds the [distributor] section.
type Distributor struct {
	QueueSize        int                     `toml:"queue_size"`
	MaxWait          Duration                `toml:"max_wait"`
	Consumers        int                     `toml:"consumers"`
	OnParseException distributor.ParsePolicy `toml:"on_parse_exception"`
	FetcherName      string                  `toml:"fetcher_name"`
	EmitterName      string                  `toml:"emitter_name"`
	Rate             float64                 `toml:"rate"`
	Burst            int                     `toml:"burst"`
}

// Iterator holds the [iterator] section. Only the keys of the selected type are read.
type Iterator struct {
	Type string `toml:"type"`

	// slice
	Keys []string `toml:"keys"`

	// filelist
	Path string `toml:"path"`

	// filesystem
	BasePath   string   `toml:"base_path"`
	Extensions []string `toml:"extensions"`

	// sqlite
	Database       string `toml:"database"`
	Query          string `toml:"query"`
	IDColumn       string `toml:"id_column"`
	FetchKeyColumn string `toml:"fetch_key_column"`
	EmitKeyColumn  string `toml:"emit_key_column"`
}

// Config is a complete run description.
type Config struct {
	Distributor Distributor `toml:"distributor"`
	Iterator    Iterator    `toml:"iterator"`
}

// Duration decodes Go duration strings such as "300ms" or "5m".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("max_wait: %w", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Default returns the configuration used for keys absent from the file.
func Default() Config {
	return Config{
		Distributor: Distributor{
			QueueSize:        distributor.DefaultQueueSize,
			MaxWait:          Duration(distributor.DefaultMaxWait),
			Consumers:        1,
			OnParseException: distributor.ParsePolicyEmit,
		},
	}
}

// Load parses and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates TOML text. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Iterator.Type = strings.ToLower(strings.TrimSpace(c.Iterator.Type))
	for i, ext := range c.Iterator.Extensions {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Iterator.Extensions[i] = ext
	}
}
