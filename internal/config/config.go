// Package config loads the ldlayout configuration file.
//
// The file is YAML. Missing fields take their defaults, and command-line
// flags override what the file says.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ldlayout/internal/rdf"
	"github.com/roach88/ldlayout/internal/types"
)

// Blank node generators.
const (
	GeneratorUUID     = "uuid"
	GeneratorCounting = "counting"
)

// DefaultStorePath is the SQLite database used when none is configured.
const DefaultStorePath = "ldlayout.db"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the root of the configuration file.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Lattice    LatticeConfig    `yaml:"lattice"`
	Log        LogConfig        `yaml:"log"`
	BlankNodes BlankNodesConfig `yaml:"blank_nodes"`
}

// StoreConfig locates the quad store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LatticeConfig sizes the subtype lattice caches.
type LatticeConfig struct {
	CacheSize int `yaml:"cache_size"`
}

// LogConfig sets the minimum log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// BlankNodesConfig chooses how fresh blank nodes are labelled.
type BlankNodesConfig struct {
	Generator string `yaml:"generator"`
	// Prefix is only used by the counting generator.
	Prefix string `yaml:"prefix"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var c Config
	c.applyDefaults()
	return c
}

// Load reads the file at path. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration, applies defaults and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Lattice.CacheSize <= 0 {
		c.Lattice.CacheSize = types.DefaultCacheSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.BlankNodes.Generator == "" {
		c.BlankNodes.Generator = GeneratorUUID
	}
	if c.BlankNodes.Generator == GeneratorCounting && c.BlankNodes.Prefix == "" {
		c.BlankNodes.Prefix = "b"
	}
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.BlankNodes.Generator {
	case GeneratorUUID, GeneratorCounting:
	default:
		return fmt.Errorf("%w: blank_nodes.generator must be %q or %q, got %q",
			ErrInvalidConfig, GeneratorUUID, GeneratorCounting, c.BlankNodes.Generator)
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return level, nil
}

// LatticeOptions returns the options for types.NewLattice.
func (c Config) LatticeOptions() types.Options {
	return types.Options{CacheSize: c.Lattice.CacheSize}
}

// Generator returns a fresh blank node label generator.
func (c Config) Generator() rdf.Generator {
	if c.BlankNodes.Generator == GeneratorCounting {
		return rdf.NewCountingGenerator(c.BlankNodes.Prefix)
	}
	return rdf.UUIDv7Generator{}
}

// Interpretation returns the RDF interpretation minting blank nodes with
// the configured generator.
func (c Config) Interpretation() *rdf.Interpretation {
	return rdf.NewInterpretation(c.Generator())
}
